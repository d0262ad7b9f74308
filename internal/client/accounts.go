package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// AccountsClient implements automation.AccountsClient.
type AccountsClient struct {
	deps *Deps
}

// NewAccountsClient creates a new accounts client.
func NewAccountsClient(deps *Deps) *AccountsClient {
	return &AccountsClient{deps: deps}
}

type accountBody struct {
	Name       string               `json:"name"`
	Location   string               `json:"location"`
	Tags       map[string]string    `json:"tags,omitempty"`
	Properties armAccountProperties `json:"properties"`
}

// Create implements automation.AccountsClient.Create.
func (c *AccountsClient) Create(ctx context.Context, resourceGroup string, req *automation.CreateAccountRequest) (*automation.Account, error) {
	if resourceGroup == "" {
		return nil, &automation.InvalidArgumentError{Argument: "ResourceGroup", Reason: automation.ErrResourceGroupRequired.Error()}
	}

	err := c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "accounts.create")
	defer done()

	plan := req.Plan
	if plan == "" {
		plan = c.deps.defaultPlan
	}

	body := accountBody{
		Name:     req.Name,
		Location: req.Location,
		Tags:     req.Tags,
		Properties: armAccountProperties{
			Sku: &armSku{Name: plan},
		},
	}

	err = c.deps.put(ctx, c.deps.paths.account(resourceGroup, req.Name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("creating automation account: %w", err)
	}

	c.deps.mutated(ctx, automation.KindAccount, automation.ActionCreated, resourceGroup, req.Name, req.Name)

	return c.get(ctx, resourceGroup, req.Name)
}

// Get implements automation.AccountsClient.Get.
func (c *AccountsClient) Get(ctx context.Context, resourceGroup, name string) (*automation.Account, error) {
	ctx, done := c.deps.begin(ctx, "accounts.get")
	defer done()

	return c.get(ctx, resourceGroup, name)
}

func (c *AccountsClient) get(ctx context.Context, resourceGroup, name string) (*automation.Account, error) {
	var wire armAccount

	err := c.deps.get(ctx, c.deps.paths.account(resourceGroup, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting automation account: %w", c.deps.translator.Translate(err, automation.KindAccount, name))
	}

	account := c.deps.mapper.Account(resourceGroup, &wire)

	return &account, nil
}

// TryGet implements automation.AccountsClient.TryGet.
func (c *AccountsClient) TryGet(ctx context.Context, resourceGroup, name string) (*automation.Account, bool, error) {
	return tryGet(c.Get(ctx, resourceGroup, name))
}

// List implements automation.AccountsClient.List.
func (c *AccountsClient) List(ctx context.Context, resourceGroup, cursor string) (*automation.Page[automation.Account], error) {
	ctx, done := c.deps.begin(ctx, "accounts.list")
	defer done()

	path := c.deps.paths.subscriptionAccounts()
	if resourceGroup != "" {
		path = c.deps.paths.accounts(resourceGroup)
	}

	page, err := listPage(ctx, c.deps, path, nil, cursor, func(wire *armAccount) automation.Account {
		return c.deps.mapper.Account(resourceGroup, wire)
	})
	if err != nil {
		return nil, fmt.Errorf("listing automation accounts: %w", c.deps.translator.Translate(err, automation.KindAccount, resourceGroup))
	}

	return page, nil
}

// Update implements automation.AccountsClient.Update.
func (c *AccountsClient) Update(ctx context.Context, resourceGroup, name string, req *automation.UpdateAccountRequest) (*automation.Account, error) {
	if req == nil {
		req = &automation.UpdateAccountRequest{}
	}

	ctx, done := c.deps.begin(ctx, "accounts.update")
	defer done()

	existing, err := c.get(ctx, resourceGroup, name)
	if err != nil {
		return nil, err
	}

	plan := existing.Plan
	if req.Plan != nil {
		plan = *req.Plan
	}

	tags := existing.Tags
	if req.Tags != nil {
		tags = req.Tags
	}

	body := accountBody{
		Name:     name,
		Location: existing.Location,
		Tags:     tags,
		Properties: armAccountProperties{
			Sku: &armSku{Name: plan},
		},
	}

	err = c.deps.patch(ctx, c.deps.paths.account(resourceGroup, name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("updating automation account: %w", c.deps.translator.Translate(err, automation.KindAccount, name))
	}

	c.deps.mutated(ctx, automation.KindAccount, automation.ActionUpdated, resourceGroup, name, name)

	return c.get(ctx, resourceGroup, name)
}

// Delete implements automation.AccountsClient.Delete.
func (c *AccountsClient) Delete(ctx context.Context, resourceGroup, name string) error {
	ctx, done := c.deps.begin(ctx, "accounts.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.account(resourceGroup, name), automation.KindAccount, name)
	if err != nil {
		return fmt.Errorf("deleting automation account: %w", err)
	}

	c.deps.mutated(ctx, automation.KindAccount, automation.ActionDeleted, resourceGroup, name, name)

	return nil
}

// tryGet folds a not-found error into found=false.
func tryGet[T any](model *T, err error) (*T, bool, error) {
	if err != nil {
		if automation.IsNotFound(err) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return model, true, nil
}
