package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

const webhookAPIVersion = "2015-10-31"

func TestDecodeGeneratedURI(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://hook/a?token=1", decodeGeneratedURI([]byte(`"https://hook/a?token=1"`)))
	assert.Equal(t, "https://hook/b", decodeGeneratedURI([]byte("https://hook/b\n")))
}

//nolint:funlen
func TestWebhooksClient_Create(t *testing.T) {
	t.Parallel()

	webhookPath := accountPath("webhooks", "deploy-hook")
	expiry := time.Date(2030, 1, 2, 3, 4, 5, 0, time.FixedZone("CET", 3600))

	t.Run("generates uri and uses the webhook api version", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, accountPath("runbooks", "Deploy"), http.StatusOK, publishedRunbook("Deploy", map[string]any{
			"Target": map[string]any{"type": "System.String", "isMandatory": true},
		}))
		fake.reply(http.MethodPost, accountPath("webhooks", "generateUri"), http.StatusOK, "https://hook.example/secret")
		fake.reply(http.MethodPut, webhookPath, http.StatusCreated, map[string]any{
			"name":       "deploy-hook",
			"properties": map[string]any{"isEnabled": true, "runbook": map[string]any{"name": "Deploy"}},
		})
		publisher := &recordingPublisher{}
		client := fake.client(publisher)

		webhook, err := client.Webhooks().Create(context.Background(), testScope, &automation.CreateWebhookRequest{
			Name:        "deploy-hook",
			RunbookName: "deploy",
			IsEnabled:   true,
			ExpiryTime:  expiry,
			Parameters:  map[string]any{"TARGET": "web"},
		})
		require.NoError(t, err)
		assert.Equal(t, "https://hook.example/secret", webhook.URI)
		assert.Equal(t, "Deploy", webhook.RunbookName)

		for _, req := range fake.all() {
			if req.Path == accountPath("runbooks", "Deploy") {
				assert.Equal(t, "2023-11-01", req.Query.Get("api-version"))

				continue
			}

			assert.Equal(t, webhookAPIVersion, req.Query.Get("api-version"), req.Method+" "+req.Path)
		}

		properties := fake.requests(http.MethodPut, webhookPath)[0].decode(t)["properties"].(map[string]any)
		assert.Equal(t, "https://hook.example/secret", properties["uri"])
		assert.Equal(t, "2030-01-02T02:04:05Z", properties["expiryTime"])
		assert.Equal(t, map[string]any{"Target": `"web"`}, properties["parameters"])
		assert.Equal(t, map[string]any{"name": "Deploy"}, properties["runbook"])

		require.Len(t, publisher.recorded(), 1)
	})

	t.Run("without parameters the runbook is not read", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodPost, accountPath("webhooks", "generateUri"), http.StatusOK, "https://hook.example/x")
		fake.reply(http.MethodPut, webhookPath, http.StatusCreated, map[string]any{"name": "deploy-hook"})
		client := fake.client(nil)

		_, err := client.Webhooks().Create(context.Background(), testScope, &automation.CreateWebhookRequest{
			Name:        "deploy-hook",
			RunbookName: "Deploy",
			ExpiryTime:  expiry,
		})
		require.NoError(t, err)
		assert.Empty(t, fake.requests(http.MethodGet, accountPath("runbooks", "Deploy")))
	})

	t.Run("existing webhook", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, webhookPath, http.StatusOK, map[string]any{"name": "deploy-hook"})
		client := fake.client(nil)

		_, err := client.Webhooks().Create(context.Background(), testScope, &automation.CreateWebhookRequest{
			Name:        "deploy-hook",
			RunbookName: "Deploy",
			ExpiryTime:  expiry,
		})
		require.Error(t, err)
		assert.True(t, automation.IsAlreadyExists(err))
		assert.Empty(t, fake.requests(http.MethodPost, accountPath("webhooks", "generateUri")))
	})
}

func TestWebhooksClient_ListFiltersByRunbook(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.reply(http.MethodGet, accountPath("webhooks"), http.StatusOK, map[string]any{
		"value": []any{map[string]any{"name": "h1", "properties": map[string]any{"runbook": map[string]any{"name": "Deploy"}}}},
	})
	client := fake.client(nil)

	page, err := client.Webhooks().List(context.Background(), testScope, "Deploy", "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	req := fake.requests(http.MethodGet, accountPath("webhooks"))[0]
	assert.Equal(t, webhookAPIVersion, req.Query.Get("api-version"))
	assert.Equal(t, "properties/runbook/name eq 'Deploy'", req.Query.Get("$filter"))
}

func TestWebhooksClient_Update(t *testing.T) {
	t.Parallel()

	webhookPath := accountPath("webhooks", "h1")

	fake := newFakeARM(t)
	fake.reply(http.MethodGet, webhookPath, http.StatusOK, map[string]any{
		"name":       "h1",
		"properties": map[string]any{"isEnabled": true, "runbook": map[string]any{"name": "Deploy"}},
	})
	fake.reply(http.MethodGet, accountPath("runbooks", "Deploy"), http.StatusOK, publishedRunbook("Deploy", map[string]any{
		"Target": map[string]any{"type": "System.String"},
	}))
	fake.reply(http.MethodPatch, webhookPath, http.StatusOK, nil)
	client := fake.client(nil)

	disabled := false

	_, err := client.Webhooks().Update(context.Background(), testScope, "h1", &automation.UpdateWebhookRequest{
		IsEnabled:  &disabled,
		Parameters: map[string]any{"target": "db"},
	})
	require.NoError(t, err)

	properties := fake.requests(http.MethodPatch, webhookPath)[0].decode(t)["properties"].(map[string]any)
	assert.Equal(t, false, properties["isEnabled"])
	assert.Equal(t, map[string]any{"Target": `"db"`}, properties["parameters"])

	_, err = client.Webhooks().Update(context.Background(), testScope, "h1", &automation.UpdateWebhookRequest{
		Parameters: map[string]any{"Other": 1},
	})
	assert.True(t, automation.IsInvalidArgument(err))
	assert.Len(t, fake.requests(http.MethodPatch, webhookPath), 1)
}

func TestWebhooksClient_DeleteNoContent(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.reply(http.MethodDelete, accountPath("webhooks", "h1"), http.StatusNoContent, nil)
	client := fake.client(nil)

	err := client.Webhooks().Delete(context.Background(), testScope, "h1")
	assert.True(t, automation.IsNotFound(err))
}
