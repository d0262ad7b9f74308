package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// SourceControlsClient implements automation.SourceControlsClient.
type SourceControlsClient struct {
	deps *Deps
}

// NewSourceControlsClient creates a new source controls client.
func NewSourceControlsClient(deps *Deps) *SourceControlsClient {
	return &SourceControlsClient{deps: deps}
}

type sourceControlBody struct {
	Name       string                     `json:"name"`
	Properties armSourceControlProperties `json:"properties"`
}

func securityToken(accessToken string) *armSecurityToken {
	if accessToken == "" {
		return nil
	}

	return &armSecurityToken{AccessToken: accessToken, TokenType: constants.SecurityTokenTypePAT}
}

// Create implements automation.SourceControlsClient.Create.
func (c *SourceControlsClient) Create(ctx context.Context, scope automation.Scope, req *automation.CreateSourceControlRequest) (*automation.SourceControl, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	if req.SourceType.RequiresBranch() && req.Branch == "" {
		return nil, &automation.InvalidArgumentError{
			Argument: "Branch",
			Reason:   fmt.Sprintf("a branch is required for %s repositories", req.SourceType),
		}
	}

	ctx, done := c.deps.begin(ctx, "sourceControls.create")
	defer done()

	_, found, err := tryGet(c.get(ctx, scope, req.Name))
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &automation.AlreadyExistsError{Kind: automation.KindSourceControl, Name: req.Name}
	}

	autoSync := req.AutoSync
	publishRunbook := req.PublishRunbook
	body := sourceControlBody{
		Name: req.Name,
		Properties: armSourceControlProperties{
			RepoURL:        req.RepoURL,
			Branch:         req.Branch,
			FolderPath:     req.FolderPath,
			AutoSync:       &autoSync,
			PublishRunbook: &publishRunbook,
			SourceType:     string(req.SourceType),
			SecurityToken:  securityToken(req.AccessToken),
			Description:    req.Description,
		},
	}

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentSourceControls, req.Name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("creating source control: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindSourceControl, automation.ActionCreated, req.Name)

	return c.get(ctx, scope, req.Name)
}

// Get implements automation.SourceControlsClient.Get.
func (c *SourceControlsClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.SourceControl, error) {
	ctx, done := c.deps.begin(ctx, "sourceControls.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *SourceControlsClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.SourceControl, error) {
	var wire armSourceControl

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentSourceControls, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting source control: %w", c.deps.translator.Translate(err, automation.KindSourceControl, name))
	}

	sourceControl := c.deps.mapper.SourceControl(scope, &wire)

	return &sourceControl, nil
}

// TryGet implements automation.SourceControlsClient.TryGet.
func (c *SourceControlsClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.SourceControl, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.SourceControlsClient.List.
func (c *SourceControlsClient) List(
	ctx context.Context,
	scope automation.Scope,
	sourceType automation.SourceType,
	cursor string,
) (*automation.Page[automation.SourceControl], error) {
	ctx, done := c.deps.begin(ctx, "sourceControls.list")
	defer done()

	query := automation.NewODataFilter().Eq("properties/sourceType", string(sourceType)).Apply(nil)

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentSourceControls), query, cursor,
		func(wire *armSourceControl) automation.SourceControl { return c.deps.mapper.SourceControl(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing source controls: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Update implements automation.SourceControlsClient.Update.
func (c *SourceControlsClient) Update(
	ctx context.Context,
	scope automation.Scope,
	name string,
	req *automation.UpdateSourceControlRequest,
) (*automation.SourceControl, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	if req == nil {
		req = &automation.UpdateSourceControlRequest{}
	}

	ctx, done := c.deps.begin(ctx, "sourceControls.update")
	defer done()

	_, err = c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	body := sourceControlBody{
		Name: name,
		Properties: armSourceControlProperties{
			Branch:         req.Branch,
			FolderPath:     req.FolderPath,
			AutoSync:       req.AutoSync,
			PublishRunbook: req.PublishRunbook,
			SecurityToken:  securityToken(req.AccessToken),
			Description:    req.Description,
		},
	}

	err = c.deps.patch(ctx, c.deps.paths.scoped(scope, segmentSourceControls, name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("updating source control: %w", c.deps.translator.Translate(err, automation.KindSourceControl, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindSourceControl, automation.ActionUpdated, name)

	return c.get(ctx, scope, name)
}

// Delete implements automation.SourceControlsClient.Delete.
func (c *SourceControlsClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "sourceControls.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentSourceControls, name), automation.KindSourceControl, name)
	if err != nil {
		return fmt.Errorf("deleting source control: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindSourceControl, automation.ActionDeleted, name)

	return nil
}
