package client

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalhttp "github.com/fivetwenty-io/automation-client/internal/http"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func TestErrorTranslator_Translate(t *testing.T) {
	t.Parallel()

	translator := NewErrorTranslator(nil)

	tests := []struct {
		name        string
		err         error
		wantFound   bool
		wantMessage string
	}{
		{
			name:      "status 404",
			err:       &automation.ResponseError{StatusCode: http.StatusNotFound},
			wantFound: true,
		},
		{
			name:      "ResourceNotFound code on other status",
			err:       &automation.ResponseError{StatusCode: http.StatusBadRequest, Code: "resourcenotfound"},
			wantFound: true,
		},
		{
			name:      "ResourceGroupNotFound",
			err:       &automation.ResponseError{StatusCode: http.StatusBadRequest, Code: "ResourceGroupNotFound"},
			wantFound: true,
		},
		{
			name:        "NotFound code carries service message",
			err:         &automation.ResponseError{StatusCode: http.StatusBadRequest, Code: "NotFound", Message: "Runbook draft missing"},
			wantFound:   true,
			wantMessage: "Runbook draft missing",
		},
		{
			name:      "wrapped response error",
			err:       fmt.Errorf("getting: %w", &automation.ResponseError{StatusCode: http.StatusNotFound}),
			wantFound: true,
		},
		{
			name: "conflict passes through",
			err:  &automation.ResponseError{StatusCode: http.StatusConflict, Code: "Conflict"},
		},
		{
			name: "transport error passes through",
			err:  ErrTestPublish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := translator.Translate(tt.err, automation.KindRunbook, "rb")

			if !tt.wantFound {
				assert.Same(t, tt.err, got)
				assert.False(t, automation.IsNotFound(got))

				return
			}

			var notFound *automation.NotFoundError
			require.ErrorAs(t, got, &notFound)
			assert.Equal(t, automation.KindRunbook, notFound.Kind)
			assert.Equal(t, "rb", notFound.Name)
			assert.Equal(t, tt.wantMessage, notFound.Message)
		})
	}

	assert.NoError(t, translator.Translate(nil, automation.KindRunbook, "rb"))
}

func TestErrorTranslator_TranslateDelete(t *testing.T) {
	t.Parallel()

	logger := &testLogger{}
	translator := NewErrorTranslator(logger)

	err := translator.TranslateDelete(&internalhttp.Response{StatusCode: http.StatusNoContent}, nil, automation.KindSchedule, "nightly")
	assert.True(t, automation.IsNotFound(err))
	assert.Equal(t, "Schedule 'nightly' not found", err.Error())
	assert.Contains(t, logger.recorded(), "debug: Delete found nothing to remove")

	require.NoError(t, translator.TranslateDelete(&internalhttp.Response{StatusCode: http.StatusOK}, nil, automation.KindSchedule, "nightly"))

	err = translator.TranslateDelete(nil, &automation.ResponseError{StatusCode: http.StatusNotFound}, automation.KindSchedule, "nightly")
	assert.True(t, automation.IsNotFound(err))
}

func TestErrorTranslator_TranslateAny(t *testing.T) {
	t.Parallel()

	translator := NewErrorTranslator(nil)

	err := translator.TranslateAny(&automation.ResponseError{StatusCode: http.StatusInternalServerError}, automation.KindVariable, "v")
	assert.True(t, automation.IsNotFound(err))

	err = translator.TranslateAny(ErrTestPublish, automation.KindVariable, "v")
	assert.ErrorIs(t, err, ErrTestPublish)
}
