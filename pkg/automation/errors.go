package automation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ResourceKind names an entity type in error messages and events.
type ResourceKind string

// Resource kinds.
const (
	KindAccount                    ResourceKind = "AutomationAccount"
	KindModule                     ResourceKind = "Module"
	KindSchedule                   ResourceKind = "Schedule"
	KindRunbook                    ResourceKind = "Runbook"
	KindJob                        ResourceKind = "Job"
	KindJobStream                  ResourceKind = "JobStream"
	KindJobSchedule                ResourceKind = "JobSchedule"
	KindVariable                   ResourceKind = "Variable"
	KindCredential                 ResourceKind = "Credential"
	KindCertificate                ResourceKind = "Certificate"
	KindConnection                 ResourceKind = "Connection"
	KindConnectionType             ResourceKind = "ConnectionType"
	KindHybridWorkerGroup          ResourceKind = "HybridRunbookWorkerGroup"
	KindWebhook                    ResourceKind = "Webhook"
	KindSourceControl              ResourceKind = "SourceControl"
	KindSourceControlSyncJob       ResourceKind = "SourceControlSyncJob"
	KindSourceControlSyncJobStream ResourceKind = "SourceControlSyncJobStream"
)

// Service error codes that denote an absent resource.
const (
	ErrorCodeNotFound              = "NotFound"
	ErrorCodeResourceNotFound      = "ResourceNotFound"
	ErrorCodeResourceGroupNotFound = "ResourceGroupNotFound"
)

// NotFoundError reports that an entity does not exist.
type NotFoundError struct {
	Kind    ResourceKind `json:"kind"    yaml:"kind"`
	Name    string       `json:"name"    yaml:"name"`
	Message string       `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Name == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}

	return fmt.Sprintf("%s '%s' not found", e.Kind, e.Name)
}

// AlreadyExistsError reports a create of an entity whose name is taken.
type AlreadyExistsError struct {
	Kind ResourceKind `json:"kind" yaml:"kind"`
	Name string       `json:"name" yaml:"name"`
}

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Kind, e.Name)
}

// InvalidArgumentError reports a caller argument rejected before any request.
type InvalidArgumentError struct {
	Argument string `json:"argument" yaml:"argument"`
	Reason   string `json:"reason"   yaml:"reason"`
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	if e.Argument == "" {
		return "invalid argument: " + e.Reason
	}

	return fmt.Sprintf("invalid argument %s: %s", e.Argument, e.Reason)
}

// OperationFailedError reports an operation that cannot proceed given the
// current state of the entity.
type OperationFailedError struct {
	Op     string `json:"op"     yaml:"op"`
	Reason string `json:"reason" yaml:"reason"`
	Err    error  `json:"-"      yaml:"-"`
}

// Error implements the error interface.
func (e *OperationFailedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Op, e.Reason, e.Err)
	}

	return fmt.Sprintf("%s failed: %s", e.Op, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *OperationFailedError) Unwrap() error {
	return e.Err
}

// ErrorDetail is the body of an ARM error envelope.
type ErrorDetail struct {
	Code    string `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// errorEnvelope accepts both `{"error": {...}}` and the flat `{"code": ...}`
// shapes the service returns.
type errorEnvelope struct {
	Error   *ErrorDetail `json:"error"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
}

// ResponseError represents an error response from the management API.
type ResponseError struct {
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Code       string `json:"code"        yaml:"code"`
	Message    string `json:"message"     yaml:"message"`
	Body       []byte `json:"-"           yaml:"-"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("%s: %s (status: %d)", e.Code, e.Message, e.StatusCode)
	case e.Code != "":
		return fmt.Sprintf("%s (status: %d)", e.Code, e.StatusCode)
	default:
		return fmt.Sprintf("%s (status: %d)", http.StatusText(e.StatusCode), e.StatusCode)
	}
}

// ParseResponseError builds a ResponseError from a status code and raw body.
// Bodies that are not an error envelope leave Code and Message empty.
func ParseResponseError(statusCode int, data []byte) *ResponseError {
	respErr := &ResponseError{StatusCode: statusCode, Body: data}

	if len(data) == 0 {
		return respErr
	}

	var envelope errorEnvelope

	err := json.Unmarshal(data, &envelope)
	if err != nil {
		return respErr
	}

	if envelope.Error != nil {
		respErr.Code = envelope.Error.Code
		respErr.Message = envelope.Error.Message
	} else {
		respErr.Code = envelope.Code
		respErr.Message = envelope.Message
	}

	return respErr
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	notFound := &NotFoundError{}

	return errors.As(err, &notFound)
}

// IsAlreadyExists checks if the error is an already exists error.
func IsAlreadyExists(err error) bool {
	exists := &AlreadyExistsError{}

	return errors.As(err, &exists)
}

// IsInvalidArgument checks if the error is an invalid argument error.
func IsInvalidArgument(err error) bool {
	invalid := &InvalidArgumentError{}

	return errors.As(err, &invalid)
}

// IsOperationFailed checks if the error is an operation failed error.
func IsOperationFailed(err error) bool {
	failed := &OperationFailedError{}

	return errors.As(err, &failed)
}

// IsStatus checks if the error is a response error with the given status code.
func IsStatus(err error, statusCode int) bool {
	respErr := &ResponseError{}
	if errors.As(err, &respErr) {
		return respErr.StatusCode == statusCode
	}

	return false
}
