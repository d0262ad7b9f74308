package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func accountWire(name, plan string) map[string]any {
	return map[string]any{
		"id":       "/subscriptions/sub-1/resourceGroups/rg-1/providers/Microsoft.Automation/automationAccounts/" + name,
		"name":     name,
		"location": "westeurope",
		"tags":     map[string]any{"env": "test"},
		"properties": map[string]any{
			"sku":   map[string]any{"name": plan},
			"state": "Ok",
		},
	}
}

//nolint:funlen
func TestAccountsClient_Create(t *testing.T) {
	t.Parallel()

	t.Run("default plan and event", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodPut, accountPath(), http.StatusCreated, accountWire(testAccount, "Free"))
		fake.reply(http.MethodGet, accountPath(), http.StatusOK, accountWire(testAccount, "Free"))

		publisher := &recordingPublisher{}
		client := fake.client(publisher)

		account, err := client.Accounts().Create(context.Background(), testResourceGroup, &automation.CreateAccountRequest{
			Name:     testAccount,
			Location: "westeurope",
		})
		require.NoError(t, err)
		assert.Equal(t, "Free", account.Plan)
		assert.Equal(t, testResourceGroup, account.ResourceGroup)
		assert.Equal(t, testAccount, account.Scope().Account)

		puts := fake.requests(http.MethodPut, accountPath())
		require.Len(t, puts, 1)

		body := puts[0].decode(t)
		assert.Equal(t, "westeurope", body["location"])
		assert.Equal(t, map[string]any{"name": "Free"}, body["properties"].(map[string]any)["sku"])
		assert.Equal(t, "2023-11-01", puts[0].Query.Get("api-version"))
		assert.Equal(t, "Bearer test-token", puts[0].Headers.Get("Authorization"))

		events := publisher.recorded()
		require.Len(t, events, 1)
		assert.Equal(t, automation.KindAccount, events[0].Kind)
		assert.Equal(t, automation.ActionCreated, events[0].Action)
		assert.NotEmpty(t, events[0].RequestID)
	})

	t.Run("validation happens before any request", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		client := fake.client(nil)

		_, err := client.Accounts().Create(context.Background(), testResourceGroup, &automation.CreateAccountRequest{Name: testAccount})
		require.Error(t, err)

		var invalid *automation.InvalidArgumentError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Location", invalid.Argument)

		_, err = client.Accounts().Create(context.Background(), "", &automation.CreateAccountRequest{Name: testAccount, Location: "x"})
		assert.True(t, automation.IsInvalidArgument(err))

		_, err = client.Accounts().Create(context.Background(), testResourceGroup, nil)
		assert.True(t, automation.IsInvalidArgument(err))

		assert.Empty(t, fake.all())
	})
}

func TestAccountsClient_TryGet(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.reply(http.MethodGet, accountPath(), http.StatusOK, accountWire(testAccount, "Basic"))
	client := fake.client(nil)

	account, found, err := client.Accounts().TryGet(context.Background(), testResourceGroup, testAccount)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Basic", account.Plan)
	assert.Equal(t, automation.Tags{"env": "test"}, account.Tags)

	account, found, err = client.Accounts().TryGet(context.Background(), testResourceGroup, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, account)
}

func TestAccountsClient_ListSubscriptionWide(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.reply(http.MethodGet, "/subscriptions/sub-1/providers/Microsoft.Automation/automationAccounts", http.StatusOK, map[string]any{
		"value": []any{accountWire("a1", "Free"), accountWire("a2", "Basic")},
	})
	client := fake.client(nil)

	page, err := client.Accounts().List(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, testResourceGroup, page.Items[0].ResourceGroup)
	assert.False(t, page.HasMore())
}

func TestAccountsClient_UpdateKeepsUnsetFields(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.reply(http.MethodGet, accountPath(), http.StatusOK, accountWire(testAccount, "Basic"))
	fake.reply(http.MethodPatch, accountPath(), http.StatusOK, nil)
	client := fake.client(nil)

	_, err := client.Accounts().Update(context.Background(), testResourceGroup, testAccount, &automation.UpdateAccountRequest{
		Tags: automation.Tags{"owner": "ops"},
	})
	require.NoError(t, err)

	patches := fake.requests(http.MethodPatch, accountPath())
	require.Len(t, patches, 1)

	body := patches[0].decode(t)
	assert.Equal(t, map[string]any{"owner": "ops"}, body["tags"])
	assert.Equal(t, map[string]any{"name": "Basic"}, body["properties"].(map[string]any)["sku"])
}

func TestAccountsClient_DeleteNoContentIsNotFound(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.reply(http.MethodDelete, accountPath(), http.StatusNoContent, nil)
	publisher := &recordingPublisher{}
	client := fake.client(publisher)

	err := client.Accounts().Delete(context.Background(), testResourceGroup, testAccount)
	require.Error(t, err)
	assert.True(t, automation.IsNotFound(err))
	assert.Empty(t, publisher.recorded())
}
