package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// VariablesClient implements automation.VariablesClient.
type VariablesClient struct {
	deps *Deps
}

// NewVariablesClient creates a new variables client.
func NewVariablesClient(deps *Deps) *VariablesClient {
	return &VariablesClient{deps: deps}
}

type variableBody struct {
	Name       string                `json:"name"`
	Properties armVariableProperties `json:"properties"`
}

// Create implements automation.VariablesClient.Create. The value is stored as
// its JSON serialization.
func (c *VariablesClient) Create(ctx context.Context, scope automation.Scope, req *automation.CreateVariableRequest) (*automation.Variable, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	value, err := serializeVariableValue(req.Value)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "variables.create")
	defer done()

	_, found, err := tryGet(c.get(ctx, scope, req.Name))
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &automation.AlreadyExistsError{Kind: automation.KindVariable, Name: req.Name}
	}

	encrypted := req.Encrypted
	description := req.Description
	body := variableBody{
		Name: req.Name,
		Properties: armVariableProperties{
			Value:       &value,
			IsEncrypted: &encrypted,
			Description: &description,
		},
	}

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentVariables, req.Name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("creating variable: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindVariable, automation.ActionCreated, req.Name)

	return c.get(ctx, scope, req.Name)
}

// Get implements automation.VariablesClient.Get. Every service error is
// reported as not found.
func (c *VariablesClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.Variable, error) {
	ctx, done := c.deps.begin(ctx, "variables.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *VariablesClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.Variable, error) {
	var wire armVariable

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentVariables, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting variable: %w", c.deps.translator.TranslateAny(err, automation.KindVariable, name))
	}

	variable := c.deps.mapper.Variable(scope, &wire)

	return &variable, nil
}

// TryGet implements automation.VariablesClient.TryGet.
func (c *VariablesClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.Variable, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.VariablesClient.List.
func (c *VariablesClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.Variable], error) {
	ctx, done := c.deps.begin(ctx, "variables.list")
	defer done()

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentVariables), nil, cursor,
		func(wire *armVariable) automation.Variable { return c.deps.mapper.Variable(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing variables: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Update implements automation.VariablesClient.Update. The encryption flag
// of a variable cannot change, so a value update must restate it.
func (c *VariablesClient) Update(ctx context.Context, scope automation.Scope, req *automation.UpdateVariableRequest) (*automation.Variable, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "variables.update")
	defer done()

	existing, err := c.get(ctx, scope, req.Name)
	if err != nil {
		return nil, err
	}

	body := variableBody{Name: req.Name}

	switch req.Mode {
	case automation.VariableUpdateDescription:
		description := req.Description
		body.Properties.Description = &description
	default:
		if existing.Encrypted != req.Encrypted {
			return nil, &automation.OperationFailedError{
				Op:     "update variable",
				Reason: fmt.Sprintf("encryption of variable '%s' cannot be changed, it is encrypted=%t", req.Name, existing.Encrypted),
			}
		}

		value, err := serializeVariableValue(req.Value)
		if err != nil {
			return nil, err
		}

		body.Properties.Value = &value
	}

	err = c.deps.patch(ctx, c.deps.paths.scoped(scope, segmentVariables, req.Name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("updating variable: %w", c.deps.translator.Translate(err, automation.KindVariable, req.Name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindVariable, automation.ActionUpdated, req.Name)

	return c.get(ctx, scope, req.Name)
}

// Delete implements automation.VariablesClient.Delete.
func (c *VariablesClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "variables.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentVariables, name), automation.KindVariable, name)
	if err != nil {
		return fmt.Errorf("deleting variable: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindVariable, automation.ActionDeleted, name)

	return nil
}

func serializeVariableValue(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", &automation.InvalidArgumentError{
			Argument: "Value",
			Reason:   "value cannot be serialized to JSON: " + err.Error(),
		}
	}

	return string(data), nil
}
