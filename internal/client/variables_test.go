package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func variableWire(name, value string, encrypted bool) map[string]any {
	return map[string]any{
		"name": name,
		"properties": map[string]any{
			"value":       value,
			"isEncrypted": encrypted,
			"description": "greeting",
		},
	}
}

//nolint:funlen
func TestVariablesClient_Create(t *testing.T) {
	t.Parallel()

	t.Run("stores JSON serialization", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.createOnPut(accountPath("variables", "greeting"), variableWire("greeting", `"hello"`, false))
		client := fake.client(nil)

		variable, err := client.Variables().Create(context.Background(), testScope, &automation.CreateVariableRequest{
			Name:  "greeting",
			Value: "hello",
		})
		require.NoError(t, err)
		assert.Equal(t, `"hello"`, variable.Value)

		properties := fake.requests(http.MethodPut, accountPath("variables", "greeting"))[0].decode(t)["properties"].(map[string]any)
		assert.Equal(t, `"hello"`, properties["value"])
		assert.Equal(t, false, properties["isEncrypted"])
	})

	t.Run("structured value", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.createOnPut(accountPath("variables", "limits"), variableWire("limits", `{"max":3}`, false))
		client := fake.client(nil)

		_, err := client.Variables().Create(context.Background(), testScope, &automation.CreateVariableRequest{
			Name:  "limits",
			Value: map[string]int{"max": 3},
		})
		require.NoError(t, err)

		properties := fake.requests(http.MethodPut, accountPath("variables", "limits"))[0].decode(t)["properties"].(map[string]any)
		assert.JSONEq(t, `{"max":3}`, properties["value"].(string))
	})

	t.Run("existing variable", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, accountPath("variables", "greeting"), http.StatusOK, variableWire("greeting", `"hi"`, false))
		client := fake.client(nil)

		_, err := client.Variables().Create(context.Background(), testScope, &automation.CreateVariableRequest{Name: "greeting"})
		require.Error(t, err)
		assert.True(t, automation.IsAlreadyExists(err))
	})

	t.Run("unserializable value sends nothing", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		client := fake.client(nil)

		_, err := client.Variables().Create(context.Background(), testScope, &automation.CreateVariableRequest{
			Name:  "bad",
			Value: func() {},
		})
		require.Error(t, err)
		assert.True(t, automation.IsInvalidArgument(err))
		assert.Empty(t, fake.all())
	})
}

func TestVariablesClient_GetReportsAnyFailureAsNotFound(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.reply(http.MethodGet, accountPath("variables", "broken"), http.StatusInternalServerError, map[string]any{
		"error": map[string]any{"code": "InternalError", "message": "boom"},
	})
	client := fake.client(nil)

	_, err := client.Variables().Get(context.Background(), testScope, "broken")
	require.Error(t, err)
	assert.True(t, automation.IsNotFound(err))

	_, found, err := client.Variables().TryGet(context.Background(), testScope, "broken")
	require.NoError(t, err)
	assert.False(t, found)
}

//nolint:funlen
func TestVariablesClient_Update(t *testing.T) {
	t.Parallel()

	t.Run("value keeps encryption flag", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, accountPath("variables", "secret"), http.StatusOK, variableWire("secret", "", true))
		fake.reply(http.MethodPatch, accountPath("variables", "secret"), http.StatusOK, nil)
		client := fake.client(nil)

		_, err := client.Variables().Update(context.Background(), testScope, &automation.UpdateVariableRequest{
			Name:  "secret",
			Mode:  automation.VariableUpdateValue,
			Value: 42,
		})
		require.Error(t, err)
		assert.True(t, automation.IsOperationFailed(err))
		assert.Empty(t, fake.requests(http.MethodPatch, accountPath("variables", "secret")))

		_, err = client.Variables().Update(context.Background(), testScope, &automation.UpdateVariableRequest{
			Name:      "secret",
			Mode:      automation.VariableUpdateValue,
			Value:     42,
			Encrypted: true,
		})
		require.NoError(t, err)

		properties := fake.requests(http.MethodPatch, accountPath("variables", "secret"))[0].decode(t)["properties"].(map[string]any)
		assert.Equal(t, "42", properties["value"])
		assert.NotContains(t, properties, "description")
	})

	t.Run("description only", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, accountPath("variables", "greeting"), http.StatusOK, variableWire("greeting", `"hi"`, false))
		fake.reply(http.MethodPatch, accountPath("variables", "greeting"), http.StatusOK, nil)
		client := fake.client(nil)

		_, err := client.Variables().Update(context.Background(), testScope, &automation.UpdateVariableRequest{
			Name:        "greeting",
			Mode:        automation.VariableUpdateDescription,
			Description: "updated",
		})
		require.NoError(t, err)

		properties := fake.requests(http.MethodPatch, accountPath("variables", "greeting"))[0].decode(t)["properties"].(map[string]any)
		assert.Equal(t, map[string]any{"description": "updated"}, properties)
	})

	t.Run("unknown mode", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		client := fake.client(nil)

		_, err := client.Variables().Update(context.Background(), testScope, &automation.UpdateVariableRequest{
			Name: "greeting",
			Mode: "Everything",
		})
		require.Error(t, err)

		var invalid *automation.InvalidArgumentError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Mode", invalid.Argument)
	})
}

func TestVariablesClient_DeleteThenGet(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.deleteOnDelete(accountPath("variables", "greeting"), variableWire("greeting", `"hello"`, false))
	publisher := &recordingPublisher{}
	client := fake.client(publisher)

	_, err := client.Variables().Get(context.Background(), testScope, "greeting")
	require.NoError(t, err)

	require.NoError(t, client.Variables().Delete(context.Background(), testScope, "greeting"))

	_, err = client.Variables().Get(context.Background(), testScope, "greeting")
	require.Error(t, err)
	assert.True(t, automation.IsNotFound(err))

	err = client.Variables().Delete(context.Background(), testScope, "greeting")
	require.Error(t, err)
	assert.True(t, automation.IsNotFound(err))

	events := publisher.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, automation.ActionDeleted, events[0].Action)
	assert.Equal(t, "greeting", events[0].Name)
}
