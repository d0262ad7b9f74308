package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// ModulesClient implements automation.ModulesClient.
type ModulesClient struct {
	deps *Deps
}

// NewModulesClient creates a new modules client.
func NewModulesClient(deps *Deps) *ModulesClient {
	return &ModulesClient{deps: deps}
}

type moduleBody struct {
	Tags       map[string]string `json:"tags,omitempty"`
	Properties moduleBodyProps   `json:"properties"`
}

type moduleBodyProps struct {
	ContentLink *armContentLink `json:"contentLink,omitempty"`
}

// Create implements automation.ModulesClient.Create.
func (c *ModulesClient) Create(ctx context.Context, scope automation.Scope, name, contentLink string) (*automation.Module, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	if name == "" {
		return nil, &automation.InvalidArgumentError{Argument: "name", Reason: "value is required"}
	}

	if contentLink == "" {
		return nil, &automation.InvalidArgumentError{Argument: "contentLink", Reason: "value is required"}
	}

	ctx, done := c.deps.begin(ctx, "modules.create")
	defer done()

	body := moduleBody{
		Properties: moduleBodyProps{ContentLink: &armContentLink{URI: contentLink}},
	}

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentModules, name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("creating module: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindModule, automation.ActionCreated, name)

	return c.get(ctx, scope, name)
}

// Get implements automation.ModulesClient.Get.
func (c *ModulesClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.Module, error) {
	ctx, done := c.deps.begin(ctx, "modules.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *ModulesClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.Module, error) {
	var wire armModule

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentModules, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting module: %w", c.deps.translator.Translate(err, automation.KindModule, name))
	}

	module := c.deps.mapper.Module(scope, &wire)

	return &module, nil
}

// TryGet implements automation.ModulesClient.TryGet.
func (c *ModulesClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.Module, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.ModulesClient.List.
func (c *ModulesClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.Module], error) {
	ctx, done := c.deps.begin(ctx, "modules.list")
	defer done()

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentModules), nil, cursor,
		func(wire *armModule) automation.Module { return c.deps.mapper.Module(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing modules: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Update implements automation.ModulesClient.Update. A new content link
// without a version gets a fresh version id.
func (c *ModulesClient) Update(ctx context.Context, scope automation.Scope, name string, req *automation.UpdateModuleRequest) (*automation.Module, error) {
	if req == nil {
		req = &automation.UpdateModuleRequest{}
	}

	err := c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "modules.update")
	defer done()

	existing, err := c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	body := moduleBody{Tags: existing.Tags}
	if req.Tags != nil {
		body.Tags = req.Tags
	}

	if req.ContentLink != "" {
		version := req.Version
		if version == "" {
			version = uuid.NewString()
		}

		body.Properties.ContentLink = &armContentLink{URI: req.ContentLink, Version: version}
	}

	err = c.deps.patch(ctx, c.deps.paths.scoped(scope, segmentModules, name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("updating module: %w", c.deps.translator.Translate(err, automation.KindModule, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindModule, automation.ActionUpdated, name)

	return c.get(ctx, scope, name)
}

// Delete implements automation.ModulesClient.Delete.
func (c *ModulesClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "modules.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentModules, name), automation.KindModule, name)
	if err != nil {
		return fmt.Errorf("deleting module: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindModule, automation.ActionDeleted, name)

	return nil
}
