package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// ConnectionsClient implements automation.ConnectionsClient.
type ConnectionsClient struct {
	deps *Deps
}

// NewConnectionsClient creates a new connections client.
func NewConnectionsClient(deps *Deps) *ConnectionsClient {
	return &ConnectionsClient{deps: deps}
}

type connectionBody struct {
	Name       string                  `json:"name"`
	Properties armConnectionProperties `json:"properties"`
}

// Create implements automation.ConnectionsClient.Create.
func (c *ConnectionsClient) Create(ctx context.Context, scope automation.Scope, req *automation.CreateConnectionRequest) (*automation.Connection, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "connections.create")
	defer done()

	_, found, err := tryGet(c.get(ctx, scope, req.Name))
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &automation.AlreadyExistsError{Kind: automation.KindConnection, Name: req.Name}
	}

	description := req.Description
	body := connectionBody{
		Name: req.Name,
		Properties: armConnectionProperties{
			ConnectionType:        &armNameRef{Name: req.ConnectionTypeName},
			FieldDefinitionValues: req.FieldValues,
			Description:           &description,
		},
	}

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentConnections, req.Name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("creating connection: %w", c.deps.translator.Translate(err, automation.KindConnectionType, req.ConnectionTypeName))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindConnection, automation.ActionCreated, req.Name)

	return c.get(ctx, scope, req.Name)
}

// Get implements automation.ConnectionsClient.Get.
func (c *ConnectionsClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.Connection, error) {
	ctx, done := c.deps.begin(ctx, "connections.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *ConnectionsClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.Connection, error) {
	var wire armConnection

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentConnections, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting connection: %w", c.deps.translator.Translate(err, automation.KindConnection, name))
	}

	connection := c.deps.mapper.Connection(scope, &wire)

	return &connection, nil
}

// TryGet implements automation.ConnectionsClient.TryGet.
func (c *ConnectionsClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.Connection, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.ConnectionsClient.List.
func (c *ConnectionsClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.Connection], error) {
	ctx, done := c.deps.begin(ctx, "connections.list")
	defer done()

	return c.list(ctx, scope, cursor)
}

func (c *ConnectionsClient) list(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.Connection], error) {
	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentConnections), nil, cursor,
		func(wire *armConnection) automation.Connection { return c.deps.mapper.Connection(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing connections: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// ListByType implements automation.ConnectionsClient.ListByType. The service
// has no type filter, so every page is read and filtered locally.
func (c *ConnectionsClient) ListByType(ctx context.Context, scope automation.Scope, typeName string) ([]automation.Connection, error) {
	ctx, done := c.deps.begin(ctx, "connections.listByType")
	defer done()

	fetch := func(ctx context.Context, cursor string) (*automation.Page[automation.Connection], error) {
		return c.list(ctx, scope, cursor)
	}

	return automation.Filter(ctx, fetch, func(connection automation.Connection) bool {
		return strings.EqualFold(connection.ConnectionTypeName, typeName)
	})
}

// UpdateFieldValue implements automation.ConnectionsClient.UpdateFieldValue.
// String values are stored as given, anything else as JSON.
func (c *ConnectionsClient) UpdateFieldValue(ctx context.Context, scope automation.Scope, name, field string, value any) (*automation.Connection, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	stored, err := connectionFieldValue(field, value)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "connections.updateField")
	defer done()

	existing, err := c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	if _, ok := existing.FieldValues[field]; !ok {
		return nil, &automation.OperationFailedError{
			Op:     "update connection field",
			Reason: fmt.Sprintf("connection '%s' has no field '%s'", name, field),
		}
	}

	body := connectionBody{
		Name: name,
		Properties: armConnectionProperties{
			FieldDefinitionValues: map[string]string{field: stored},
		},
	}

	err = c.deps.patch(ctx, c.deps.paths.scoped(scope, segmentConnections, name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("updating connection: %w", c.deps.translator.Translate(err, automation.KindConnection, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindConnection, automation.ActionUpdated, name)

	return c.get(ctx, scope, name)
}

// Delete implements automation.ConnectionsClient.Delete.
func (c *ConnectionsClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "connections.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentConnections, name), automation.KindConnection, name)
	if err != nil {
		return fmt.Errorf("deleting connection: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindConnection, automation.ActionDeleted, name)

	return nil
}

func connectionFieldValue(field string, value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return "", &automation.InvalidArgumentError{
			Argument: field,
			Reason:   "value cannot be serialized to JSON: " + err.Error(),
		}
	}

	return string(data), nil
}
