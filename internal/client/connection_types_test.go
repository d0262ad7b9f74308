package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func TestConnectionTypesClient_Create(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.createOnPut(accountPath("connectionTypes", "Custom"), map[string]any{
		"name": "Custom",
		"properties": map[string]any{
			"isGlobal":         false,
			"fieldDefinitions": map[string]any{"Token": map[string]any{"isEncrypted": true, "type": "System.String"}},
		},
	})
	client := fake.client(nil)

	req := &automation.CreateConnectionTypeRequest{
		Name: "Custom",
		FieldDefinitions: map[string]automation.FieldDefinition{
			"Token": {IsEncrypted: true, Type: "System.String"},
		},
	}

	connectionType, err := client.ConnectionTypes().Create(context.Background(), testScope, req)
	require.NoError(t, err)
	assert.True(t, connectionType.FieldDefinitions["Token"].IsEncrypted)

	body := fake.requests(http.MethodPut, accountPath("connectionTypes", "Custom"))[0].decode(t)
	assert.Equal(t, map[string]any{
		"Token": map[string]any{"isEncrypted": true, "isOptional": false, "type": "System.String"},
	}, body["properties"].(map[string]any)["fieldDefinitions"])

	_, err = client.ConnectionTypes().Create(context.Background(), testScope, req)
	assert.True(t, automation.IsAlreadyExists(err))

	_, err = client.ConnectionTypes().Create(context.Background(), testScope, &automation.CreateConnectionTypeRequest{Name: "Empty"})
	assert.True(t, automation.IsInvalidArgument(err))
}

func TestConnectionTypesClient_DeleteThenGet(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.deleteOnDelete(accountPath("connectionTypes", "Custom"), map[string]any{
		"name":       "Custom",
		"properties": map[string]any{"isGlobal": false},
	})
	client := fake.client(nil)

	require.NoError(t, client.ConnectionTypes().Delete(context.Background(), testScope, "Custom"))

	_, found, err := client.ConnectionTypes().TryGet(context.Background(), testScope, "Custom")
	require.NoError(t, err)
	assert.False(t, found)

	err = client.ConnectionTypes().Delete(context.Background(), testScope, "Custom")
	assert.True(t, automation.IsNotFound(err))
}
