package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// HybridWorkerGroupsClient implements automation.HybridWorkerGroupsClient.
type HybridWorkerGroupsClient struct {
	deps *Deps
}

// NewHybridWorkerGroupsClient creates a new hybrid worker groups client.
func NewHybridWorkerGroupsClient(deps *Deps) *HybridWorkerGroupsClient {
	return &HybridWorkerGroupsClient{deps: deps}
}

// Get implements automation.HybridWorkerGroupsClient.Get.
func (c *HybridWorkerGroupsClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.HybridWorkerGroup, error) {
	ctx, done := c.deps.begin(ctx, "hybridWorkerGroups.get")
	defer done()

	var wire armHybridWorkerGroup

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentHybridWorkerGroups, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting hybrid worker group: %w", c.deps.translator.Translate(err, automation.KindHybridWorkerGroup, name))
	}

	group := c.deps.mapper.HybridWorkerGroup(scope, &wire)

	return &group, nil
}

// TryGet implements automation.HybridWorkerGroupsClient.TryGet.
func (c *HybridWorkerGroupsClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.HybridWorkerGroup, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.HybridWorkerGroupsClient.List.
func (c *HybridWorkerGroupsClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.HybridWorkerGroup], error) {
	ctx, done := c.deps.begin(ctx, "hybridWorkerGroups.list")
	defer done()

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentHybridWorkerGroups), nil, cursor,
		func(wire *armHybridWorkerGroup) automation.HybridWorkerGroup {
			return c.deps.mapper.HybridWorkerGroup(scope, wire)
		})
	if err != nil {
		return nil, fmt.Errorf("listing hybrid worker groups: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}
