package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// ConnectionTypesClient implements automation.ConnectionTypesClient.
type ConnectionTypesClient struct {
	deps *Deps
}

// NewConnectionTypesClient creates a new connection types client.
func NewConnectionTypesClient(deps *Deps) *ConnectionTypesClient {
	return &ConnectionTypesClient{deps: deps}
}

type connectionTypeBody struct {
	Name       string                      `json:"name"`
	Properties armConnectionTypeProperties `json:"properties"`
}

// Create implements automation.ConnectionTypesClient.Create.
func (c *ConnectionTypesClient) Create(ctx context.Context, scope automation.Scope, req *automation.CreateConnectionTypeRequest) (*automation.ConnectionType, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "connectionTypes.create")
	defer done()

	_, found, err := tryGet(c.get(ctx, scope, req.Name))
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &automation.AlreadyExistsError{Kind: automation.KindConnectionType, Name: req.Name}
	}

	fields := make(map[string]armFieldDefinition, len(req.FieldDefinitions))
	for name, field := range req.FieldDefinitions {
		fields[name] = armFieldDefinition{
			IsEncrypted: field.IsEncrypted,
			IsOptional:  field.IsOptional,
			Type:        field.Type,
		}
	}

	body := connectionTypeBody{
		Name: req.Name,
		Properties: armConnectionTypeProperties{
			IsGlobal:         req.IsGlobal,
			FieldDefinitions: fields,
		},
	}

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentConnectionTypes, req.Name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("creating connection type: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindConnectionType, automation.ActionCreated, req.Name)

	return c.get(ctx, scope, req.Name)
}

// Get implements automation.ConnectionTypesClient.Get.
func (c *ConnectionTypesClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.ConnectionType, error) {
	ctx, done := c.deps.begin(ctx, "connectionTypes.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *ConnectionTypesClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.ConnectionType, error) {
	var wire armConnectionType

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentConnectionTypes, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting connection type: %w", c.deps.translator.Translate(err, automation.KindConnectionType, name))
	}

	connectionType := c.deps.mapper.ConnectionType(scope, &wire)

	return &connectionType, nil
}

// TryGet implements automation.ConnectionTypesClient.TryGet.
func (c *ConnectionTypesClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.ConnectionType, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.ConnectionTypesClient.List.
func (c *ConnectionTypesClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.ConnectionType], error) {
	ctx, done := c.deps.begin(ctx, "connectionTypes.list")
	defer done()

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentConnectionTypes), nil, cursor,
		func(wire *armConnectionType) automation.ConnectionType {
			return c.deps.mapper.ConnectionType(scope, wire)
		})
	if err != nil {
		return nil, fmt.Errorf("listing connection types: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Delete implements automation.ConnectionTypesClient.Delete.
func (c *ConnectionTypesClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "connectionTypes.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentConnectionTypes, name), automation.KindConnectionType, name)
	if err != nil {
		return fmt.Errorf("deleting connection type: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindConnectionType, automation.ActionDeleted, name)

	return nil
}
