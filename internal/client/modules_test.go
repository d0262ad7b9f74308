package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func TestModulesClient_Update(t *testing.T) {
	t.Parallel()

	modulePath := accountPath("modules", "Az.Accounts")

	fake := newFakeARM(t)
	fake.reply(http.MethodGet, modulePath, http.StatusOK, map[string]any{
		"name":       "Az.Accounts",
		"tags":       map[string]any{"team": "ops"},
		"properties": map[string]any{"provisioningState": "Succeeded"},
	})
	fake.reply(http.MethodPatch, modulePath, http.StatusOK, nil)
	client := fake.client(nil)

	_, err := client.Modules().Update(context.Background(), testScope, "Az.Accounts", &automation.UpdateModuleRequest{
		ContentLink: "https://www.powershellgallery.com/api/v2/package/Az.Accounts/2.0.0",
	})
	require.NoError(t, err)

	body := fake.requests(http.MethodPatch, modulePath)[0].decode(t)
	assert.Equal(t, map[string]any{"team": "ops"}, body["tags"])

	link := body["properties"].(map[string]any)["contentLink"].(map[string]any)
	assert.Equal(t, "https://www.powershellgallery.com/api/v2/package/Az.Accounts/2.0.0", link["uri"])
	assert.NotEmpty(t, link["version"])

	_, err = client.Modules().Update(context.Background(), testScope, "Az.Accounts", &automation.UpdateModuleRequest{ContentLink: "not a url"})
	assert.True(t, automation.IsInvalidArgument(err))
}

func TestModulesClient_CreateRequiresContentLink(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	client := fake.client(nil)

	_, err := client.Modules().Create(context.Background(), testScope, "Az.Accounts", "")
	assert.True(t, automation.IsInvalidArgument(err))
	assert.Empty(t, fake.all())
}

func TestModulesClient_DeleteThenGet(t *testing.T) {
	t.Parallel()

	modulePath := accountPath("modules", "Az.Accounts")

	fake := newFakeARM(t)
	fake.deleteOnDelete(modulePath, map[string]any{
		"name":       "Az.Accounts",
		"properties": map[string]any{"provisioningState": "Succeeded"},
	})
	client := fake.client(nil)

	require.NoError(t, client.Modules().Delete(context.Background(), testScope, "Az.Accounts"))

	_, err := client.Modules().Get(context.Background(), testScope, "Az.Accounts")
	require.Error(t, err)
	assert.True(t, automation.IsNotFound(err))
}
