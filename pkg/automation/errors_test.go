package automation_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func TestParseResponseError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantCode    string
		wantMessage string
		wantString  string
	}{
		{
			name:        "wrapped envelope",
			body:        `{"error":{"code":"Conflict","message":"Account is busy"}}`,
			wantCode:    "Conflict",
			wantMessage: "Account is busy",
			wantString:  "Conflict: Account is busy (status: 409)",
		},
		{
			name:        "flat envelope",
			body:        `{"code":"Conflict","message":"flat"}`,
			wantCode:    "Conflict",
			wantMessage: "flat",
			wantString:  "Conflict: flat (status: 409)",
		},
		{
			name:       "not json",
			body:       "<html>",
			wantString: "Conflict (status: 409)",
		},
		{
			name:       "empty",
			wantString: "Conflict (status: 409)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := automation.ParseResponseError(http.StatusConflict, []byte(tt.body))
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.wantMessage, err.Message)
			assert.Equal(t, tt.wantString, err.Error())
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Runbook 'deploy' not found", (&automation.NotFoundError{Kind: automation.KindRunbook, Name: "deploy"}).Error())
	assert.Equal(t, "custom", (&automation.NotFoundError{Kind: automation.KindRunbook, Message: "custom"}).Error())
	assert.Equal(t, "Job not found", (&automation.NotFoundError{Kind: automation.KindJob}).Error())
	assert.Equal(t, "Variable 'v' already exists", (&automation.AlreadyExistsError{Kind: automation.KindVariable, Name: "v"}).Error())
	assert.Equal(t, "invalid argument Path: missing", (&automation.InvalidArgumentError{Argument: "Path", Reason: "missing"}).Error())
	assert.Equal(t, "invalid argument: missing", (&automation.InvalidArgumentError{Reason: "missing"}).Error())
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	cause := &automation.ResponseError{StatusCode: http.StatusConflict}
	failed := fmt.Errorf("wrapped: %w", &automation.OperationFailedError{Op: "export runbook", Reason: "exists", Err: cause})

	assert.True(t, automation.IsOperationFailed(failed))
	assert.True(t, automation.IsStatus(failed, http.StatusConflict))
	assert.False(t, automation.IsNotFound(failed))
	assert.True(t, automation.IsNotFound(fmt.Errorf("x: %w", &automation.NotFoundError{})))
	assert.True(t, automation.IsAlreadyExists(&automation.AlreadyExistsError{}))
	assert.True(t, automation.IsInvalidArgument(&automation.InvalidArgumentError{}))
	assert.False(t, automation.IsStatus(errPageFailed, http.StatusConflict))
}
