package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	internalhttp "github.com/fivetwenty-io/automation-client/internal/http"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// WebhooksClient implements automation.WebhooksClient. The webhook endpoints
// only accept an older api-version, so every request states it explicitly.
type WebhooksClient struct {
	deps     *Deps
	runbooks *RunbooksClient
}

// NewWebhooksClient creates a new webhooks client.
func NewWebhooksClient(deps *Deps, runbooks *RunbooksClient) *WebhooksClient {
	return &WebhooksClient{deps: deps, runbooks: runbooks}
}

type webhookBody struct {
	Name       string               `json:"name"`
	Properties armWebhookProperties `json:"properties"`
}

func webhookQuery() url.Values {
	return url.Values{"api-version": []string{constants.WebhookAPIVersion}}
}

func (c *WebhooksClient) send(ctx context.Context, method, path string, body, out any) (*internalhttp.Response, error) {
	return c.deps.do(ctx, &internalhttp.Request{
		Method: method,
		Path:   path,
		Query:  webhookQuery(),
		Body:   body,
	}, out)
}

// Create implements automation.WebhooksClient.Create. The service generates
// the secret URI first; it is only ever returned here.
func (c *WebhooksClient) Create(ctx context.Context, scope automation.Scope, req *automation.CreateWebhookRequest) (*automation.Webhook, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "webhooks.create")
	defer done()

	_, found, err := tryGet(c.get(ctx, scope, req.Name))
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &automation.AlreadyExistsError{Kind: automation.KindWebhook, Name: req.Name}
	}

	runbookName := req.RunbookName

	var parameters map[string]string

	if req.Parameters != nil {
		runbook, err := c.runbooks.get(ctx, scope, req.RunbookName)
		if err != nil {
			return nil, err
		}

		parameters, err = processRunbookParameters(runbook, req.Parameters)
		if err != nil {
			return nil, err
		}

		runbookName = runbook.Name
	}

	resp, err := c.send(ctx, http.MethodPost, c.deps.paths.scoped(scope, segmentWebhooks, "generateUri"), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("generating webhook uri: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	uri := decodeGeneratedURI(resp.Body)

	enabled := req.IsEnabled
	expiry := req.ExpiryTime.UTC()
	body := webhookBody{
		Name: req.Name,
		Properties: armWebhookProperties{
			IsEnabled:  &enabled,
			URI:        uri,
			ExpiryTime: &expiry,
			Parameters: parameters,
			Runbook:    &armNameRef{Name: runbookName},
			RunOn:      strings.TrimSpace(req.RunOn),
		},
	}

	var wire armWebhook

	_, err = c.send(ctx, http.MethodPut, c.deps.paths.scoped(scope, segmentWebhooks, req.Name), body, &wire)
	if err != nil {
		return nil, fmt.Errorf("creating webhook: %w", c.deps.translator.Translate(err, automation.KindRunbook, req.RunbookName))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindWebhook, automation.ActionCreated, req.Name)

	webhook := c.deps.mapper.Webhook(scope, &wire)
	webhook.URI = uri

	if webhook.Name == "" {
		webhook.Name = req.Name
	}

	return &webhook, nil
}

// Get implements automation.WebhooksClient.Get.
func (c *WebhooksClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.Webhook, error) {
	ctx, done := c.deps.begin(ctx, "webhooks.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *WebhooksClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.Webhook, error) {
	var wire armWebhook

	_, err := c.send(ctx, http.MethodGet, c.deps.paths.scoped(scope, segmentWebhooks, name), nil, &wire)
	if err != nil {
		return nil, fmt.Errorf("getting webhook: %w", c.deps.translator.Translate(err, automation.KindWebhook, name))
	}

	webhook := c.deps.mapper.Webhook(scope, &wire)

	return &webhook, nil
}

// TryGet implements automation.WebhooksClient.TryGet.
func (c *WebhooksClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.Webhook, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.WebhooksClient.List.
func (c *WebhooksClient) List(ctx context.Context, scope automation.Scope, runbookName, cursor string) (*automation.Page[automation.Webhook], error) {
	ctx, done := c.deps.begin(ctx, "webhooks.list")
	defer done()

	query := automation.NewODataFilter().
		Eq("properties/runbook/name", runbookName).
		Apply(webhookQuery())

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentWebhooks), query, cursor,
		func(wire *armWebhook) automation.Webhook { return c.deps.mapper.Webhook(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing webhooks: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Update implements automation.WebhooksClient.Update. New parameters are
// checked against the runbook the webhook starts.
func (c *WebhooksClient) Update(ctx context.Context, scope automation.Scope, name string, req *automation.UpdateWebhookRequest) (*automation.Webhook, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	if req == nil {
		req = &automation.UpdateWebhookRequest{}
	}

	ctx, done := c.deps.begin(ctx, "webhooks.update")
	defer done()

	existing, err := c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	body := webhookBody{
		Name:       name,
		Properties: armWebhookProperties{IsEnabled: req.IsEnabled},
	}

	if req.Parameters != nil {
		runbook, err := c.runbooks.get(ctx, scope, existing.RunbookName)
		if err != nil {
			return nil, err
		}

		body.Properties.Parameters, err = processRunbookParameters(runbook, req.Parameters)
		if err != nil {
			return nil, err
		}
	}

	_, err = c.send(ctx, http.MethodPatch, c.deps.paths.scoped(scope, segmentWebhooks, name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("updating webhook: %w", c.deps.translator.Translate(err, automation.KindWebhook, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindWebhook, automation.ActionUpdated, name)

	return c.get(ctx, scope, name)
}

// Delete implements automation.WebhooksClient.Delete.
func (c *WebhooksClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "webhooks.delete")
	defer done()

	resp, err := c.send(ctx, http.MethodDelete, c.deps.paths.scoped(scope, segmentWebhooks, name), nil, nil)

	err = c.deps.translator.TranslateDelete(resp, err, automation.KindWebhook, name)
	if err != nil {
		return fmt.Errorf("deleting webhook: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindWebhook, automation.ActionDeleted, name)

	return nil
}

// decodeGeneratedURI accepts the generateUri answer as a JSON string or as
// bare text.
func decodeGeneratedURI(body []byte) string {
	var uri string
	if json.Unmarshal(body, &uri) == nil {
		return uri
	}

	return strings.TrimSpace(string(body))
}
