package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/automation-client/internal/http"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// Static errors for err113 compliance.
var (
	ErrRequestRequired = errors.New("request is required")
)

// Deps is the shared plumbing every resource client is built from. It is
// constructed once by New and never mutated afterwards.
type Deps struct {
	http        *internalhttp.Client
	paths       paths
	translator  *ErrorTranslator
	mapper      *Mapper
	validate    *validator.Validate
	publisher   automation.EventPublisher
	logger      automation.Logger
	defaultPlan string
}

// NewDeps wires the shared plumbing. publisher and logger may be nil.
func NewDeps(httpClient *internalhttp.Client, subscriptionID string, publisher automation.EventPublisher, logger automation.Logger) *Deps {
	if logger == nil {
		logger = noopLogger{}
	}

	return &Deps{
		http:        httpClient,
		paths:       paths{subscriptionID: subscriptionID},
		translator:  NewErrorTranslator(logger),
		mapper:      NewMapper(),
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		publisher:   publisher,
		logger:      logger,
		defaultPlan: constants.DefaultPlan,
	}
}

// begin opens the request settings scope of one facade operation.
func (d *Deps) begin(ctx context.Context, operation string) (context.Context, func()) {
	settings := d.http.BeginOperation(ctx, operation)

	return settings.Context(), settings.Close
}

// do sends req and decodes a JSON response into out when out is not nil.
func (d *Deps) do(ctx context.Context, req *internalhttp.Request, out any) (*internalhttp.Response, error) {
	resp, err := d.http.Do(ctx, req)
	if err != nil {
		return resp, err //nolint:wrapcheck // callers wrap with operation context
	}

	if out != nil && len(resp.Body) > 0 {
		err = json.Unmarshal(resp.Body, out)
		if err != nil {
			return resp, fmt.Errorf("parsing response: %w", err)
		}
	}

	return resp, nil
}

func (d *Deps) get(ctx context.Context, path string, out any) error {
	_, err := d.do(ctx, &internalhttp.Request{Method: http.MethodGet, Path: path}, out)

	return err
}

func (d *Deps) put(ctx context.Context, path string, body, out any) error {
	_, err := d.do(ctx, &internalhttp.Request{Method: http.MethodPut, Path: path, Body: body}, out)

	return err
}

func (d *Deps) patch(ctx context.Context, path string, body, out any) error {
	_, err := d.do(ctx, &internalhttp.Request{Method: http.MethodPatch, Path: path, Body: body}, out)

	return err
}

func (d *Deps) post(ctx context.Context, path string, body, out any) error {
	_, err := d.do(ctx, &internalhttp.Request{Method: http.MethodPost, Path: path, Body: body}, out)

	return err
}

// delete removes the entity at path, translating 204 and not-found shapes.
func (d *Deps) delete(ctx context.Context, path string, kind automation.ResourceKind, name string) error {
	resp, err := d.http.Delete(ctx, path)

	return d.translator.TranslateDelete(resp, err, kind, name)
}

// getText fetches a text resource such as runbook content or job output.
func (d *Deps) getText(ctx context.Context, path string) (string, error) {
	resp, err := d.http.Do(ctx, &internalhttp.Request{
		Method:  http.MethodGet,
		Path:    path,
		Headers: map[string]string{"Accept": "text/plain, application/json"},
	})
	if err != nil {
		return "", err //nolint:wrapcheck // callers wrap with operation context
	}

	return string(resp.Body), nil
}

// listPage fetches one batch of a collection. A non-empty cursor is an
// absolute next link and is requested verbatim.
func listPage[W, M any](
	ctx context.Context,
	deps *Deps,
	path string,
	query url.Values,
	cursor string,
	convert func(*W) M,
) (*automation.Page[M], error) {
	req := &internalhttp.Request{Method: http.MethodGet, Path: path, Query: query}
	if cursor != "" {
		req = &internalhttp.Request{Method: http.MethodGet, Path: cursor}
	}

	var list armList[W]

	_, err := deps.do(ctx, req, &list)
	if err != nil {
		return nil, err
	}

	page := &automation.Page[M]{
		Items:    make([]M, 0, len(list.Value)),
		NextLink: list.NextLink,
	}

	for i := range list.Value {
		page.Items = append(page.Items, convert(&list.Value[i]))
	}

	return page, nil
}

// validateScope checks scope before any request is issued.
func (d *Deps) validateScope(scope automation.Scope) error {
	return scope.Validate()
}

// validateRequest runs the validator struct tags of req. The first failing
// field is reported as an *automation.InvalidArgumentError.
func (d *Deps) validateRequest(req any) error {
	if req == nil {
		return &automation.InvalidArgumentError{Argument: "request", Reason: ErrRequestRequired.Error()}
	}

	err := d.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		fieldErr := validationErrors[0]

		return &automation.InvalidArgumentError{
			Argument: fieldErr.Field(),
			Reason:   describeValidation(fieldErr),
		}
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return &automation.InvalidArgumentError{Argument: "request", Reason: ErrRequestRequired.Error()}
	}

	return &automation.InvalidArgumentError{Argument: "request", Reason: err.Error()}
}

func describeValidation(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "value is required"
	case "oneof":
		return "must be one of: " + fieldErr.Param()
	case "url":
		return "must be a valid URL"
	case "min":
		return "must have at least " + fieldErr.Param() + " entries"
	case "gte":
		return "must be at least " + fieldErr.Param()
	default:
		return "failed the '" + fieldErr.Tag() + "' check"
	}
}

// mutated logs a successful mutation and hands it to the publisher. A
// publish failure is logged and never returned.
func (d *Deps) mutated(ctx context.Context, kind automation.ResourceKind, action automation.MutationAction, resourceGroup, account, name string) {
	event := automation.MutationEvent{
		Kind:          kind,
		Action:        action,
		ResourceGroup: resourceGroup,
		Account:       account,
		Name:          name,
		RequestID:     internalhttp.RequestIDFromContext(ctx),
		Time:          time.Now().UTC(),
	}

	d.logger.Info(fmt.Sprintf("%s %s", kind, action), map[string]interface{}{
		"resource_group": resourceGroup,
		"account":        account,
		"name":           name,
		"request_id":     event.RequestID,
	})

	if d.publisher == nil {
		return
	}

	err := d.publisher.Publish(ctx, event)
	if err != nil {
		d.logger.Warn("Publishing mutation event failed", map[string]interface{}{
			"kind":  string(kind),
			"name":  name,
			"error": err.Error(),
		})
	}
}

// mutatedIn is mutated for an account-owned entity.
func (d *Deps) mutatedIn(ctx context.Context, scope automation.Scope, kind automation.ResourceKind, action automation.MutationAction, name string) {
	d.mutated(ctx, kind, action, scope.ResourceGroup, scope.Account, name)
}

// accountLocation returns the region of the account addressed by scope.
func (d *Deps) accountLocation(ctx context.Context, scope automation.Scope) (string, error) {
	var wire armAccount

	err := d.get(ctx, d.paths.account(scope.ResourceGroup, scope.Account), &wire)
	if err != nil {
		return "", d.translator.Translate(err, automation.KindAccount, scope.Account)
	}

	return wire.Location, nil
}

// noopLogger discards everything.
type noopLogger struct{}

func (noopLogger) Debug(string, map[string]interface{}) {}
func (noopLogger) Info(string, map[string]interface{})  {}
func (noopLogger) Warn(string, map[string]interface{})  {}
func (noopLogger) Error(string, map[string]interface{}) {}
