package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// CredentialsClient implements automation.CredentialsClient.
type CredentialsClient struct {
	deps *Deps
}

// NewCredentialsClient creates a new credentials client.
func NewCredentialsClient(deps *Deps) *CredentialsClient {
	return &CredentialsClient{deps: deps}
}

type credentialBody struct {
	Name       string                  `json:"name"`
	Properties armCredentialProperties `json:"properties"`
}

// Create implements automation.CredentialsClient.Create.
func (c *CredentialsClient) Create(ctx context.Context, scope automation.Scope, req *automation.CreateCredentialRequest) (*automation.Credential, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "credentials.create")
	defer done()

	_, found, err := tryGet(c.get(ctx, scope, req.Name))
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &automation.AlreadyExistsError{Kind: automation.KindCredential, Name: req.Name}
	}

	description := req.Description
	body := credentialBody{
		Name: req.Name,
		Properties: armCredentialProperties{
			UserName:    req.UserName,
			Password:    req.Password,
			Description: &description,
		},
	}

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentCredentials, req.Name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("creating credential: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindCredential, automation.ActionCreated, req.Name)

	return c.get(ctx, scope, req.Name)
}

// Get implements automation.CredentialsClient.Get.
func (c *CredentialsClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.Credential, error) {
	ctx, done := c.deps.begin(ctx, "credentials.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *CredentialsClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.Credential, error) {
	var wire armCredential

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentCredentials, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting credential: %w", c.deps.translator.Translate(err, automation.KindCredential, name))
	}

	credential := c.deps.mapper.Credential(scope, &wire)

	return &credential, nil
}

// TryGet implements automation.CredentialsClient.TryGet.
func (c *CredentialsClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.Credential, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.CredentialsClient.List.
func (c *CredentialsClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.Credential], error) {
	ctx, done := c.deps.begin(ctx, "credentials.list")
	defer done()

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentCredentials), nil, cursor,
		func(wire *armCredential) automation.Credential { return c.deps.mapper.Credential(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing credentials: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Update implements automation.CredentialsClient.Update.
func (c *CredentialsClient) Update(ctx context.Context, scope automation.Scope, name string, req *automation.UpdateCredentialRequest) (*automation.Credential, error) {
	if req == nil {
		req = &automation.UpdateCredentialRequest{}
	}

	ctx, done := c.deps.begin(ctx, "credentials.update")
	defer done()

	existing, err := c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	description := existing.Description
	if req.Description != nil {
		description = *req.Description
	}

	body := credentialBody{
		Name:       name,
		Properties: armCredentialProperties{Description: &description},
	}

	if req.UserName != nil {
		body.Properties.UserName = *req.UserName
	}

	if req.Password != nil {
		body.Properties.Password = *req.Password
	}

	err = c.deps.patch(ctx, c.deps.paths.scoped(scope, segmentCredentials, name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("updating credential: %w", c.deps.translator.Translate(err, automation.KindCredential, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindCredential, automation.ActionUpdated, name)

	return c.get(ctx, scope, name)
}

// Delete implements automation.CredentialsClient.Delete.
func (c *CredentialsClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "credentials.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentCredentials, name), automation.KindCredential, name)
	if err != nil {
		return fmt.Errorf("deleting credential: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindCredential, automation.ActionDeleted, name)

	return nil
}
