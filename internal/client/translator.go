package client

import (
	"errors"
	"net/http"
	"strings"

	internalhttp "github.com/fivetwenty-io/automation-client/internal/http"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// ErrorTranslator turns service responses that denote an absent entity into
// *automation.NotFoundError. Everything else passes through untouched.
type ErrorTranslator struct {
	logger automation.Logger
}

// NewErrorTranslator creates a translator. logger may be nil.
func NewErrorTranslator(logger automation.Logger) *ErrorTranslator {
	if logger == nil {
		logger = noopLogger{}
	}

	return &ErrorTranslator{logger: logger}
}

// Translate maps err for an operation addressing kind/name.
func (t *ErrorTranslator) Translate(err error, kind automation.ResourceKind, name string) error {
	if err == nil {
		return nil
	}

	respErr := &automation.ResponseError{}
	if !errors.As(err, &respErr) {
		return err
	}

	var notFound *automation.NotFoundError

	switch {
	case strings.EqualFold(respErr.Code, automation.ErrorCodeNotFound) && respErr.Message != "":
		notFound = &automation.NotFoundError{Kind: kind, Name: name, Message: respErr.Message}
	case respErr.StatusCode == http.StatusNotFound,
		strings.EqualFold(respErr.Code, automation.ErrorCodeResourceNotFound),
		strings.EqualFold(respErr.Code, automation.ErrorCodeResourceGroupNotFound):
		notFound = &automation.NotFoundError{Kind: kind, Name: name}
	default:
		return err
	}

	t.logger.Debug("Translated service error", map[string]interface{}{
		"kind":   string(kind),
		"name":   name,
		"status": respErr.StatusCode,
		"code":   respErr.Code,
	})

	return notFound
}

// TranslateDelete maps the outcome of a delete. The service answers 204 when
// there was nothing to delete, which is reported as not found.
func (t *ErrorTranslator) TranslateDelete(resp *internalhttp.Response, err error, kind automation.ResourceKind, name string) error {
	if err != nil {
		return t.Translate(err, kind, name)
	}

	if resp != nil && resp.StatusCode == http.StatusNoContent {
		t.logger.Debug("Delete found nothing to remove", map[string]interface{}{
			"kind": string(kind),
			"name": name,
		})

		return &automation.NotFoundError{Kind: kind, Name: name}
	}

	return nil
}

// TranslateAny reports every service error as not found. Variables use this
// shape on Get.
func (t *ErrorTranslator) TranslateAny(err error, kind automation.ResourceKind, name string) error {
	if err == nil {
		return nil
	}

	respErr := &automation.ResponseError{}
	if errors.As(err, &respErr) {
		return &automation.NotFoundError{Kind: kind, Name: name}
	}

	return err
}
