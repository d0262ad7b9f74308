package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// JobSchedulesClient implements automation.JobSchedulesClient.
type JobSchedulesClient struct {
	deps     *Deps
	runbooks *RunbooksClient
}

// NewJobSchedulesClient creates a new job schedules client. Runbook lookups
// for parameter checks go through runbooks.
func NewJobSchedulesClient(deps *Deps, runbooks *RunbooksClient) *JobSchedulesClient {
	return &JobSchedulesClient{deps: deps, runbooks: runbooks}
}

type jobScheduleBody struct {
	Properties armJobScheduleProperties `json:"properties"`
}

// Get implements automation.JobSchedulesClient.Get.
func (c *JobSchedulesClient) Get(ctx context.Context, scope automation.Scope, id string) (*automation.JobSchedule, error) {
	ctx, done := c.deps.begin(ctx, "jobSchedules.get")
	defer done()

	var wire armJobSchedule

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentJobSchedules, id), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting job schedule: %w", c.deps.translator.Translate(err, automation.KindJobSchedule, id))
	}

	jobSchedule := c.deps.mapper.JobSchedule(scope, &wire)

	return &jobSchedule, nil
}

// GetByPair implements automation.JobSchedulesClient.GetByPair.
func (c *JobSchedulesClient) GetByPair(ctx context.Context, scope automation.Scope, runbookName, scheduleName string) (*automation.JobSchedule, error) {
	ctx, done := c.deps.begin(ctx, "jobSchedules.getByPair")
	defer done()

	return c.byPair(ctx, scope, runbookName, scheduleName)
}

func (c *JobSchedulesClient) byPair(ctx context.Context, scope automation.Scope, runbookName, scheduleName string) (*automation.JobSchedule, error) {
	jobSchedule, found, err := automation.FindFirst(ctx, c.fetch(scope), func(js automation.JobSchedule) bool {
		return js.Matches(runbookName, scheduleName)
	})
	if err != nil {
		return nil, err
	}

	if !found {
		return nil, &automation.NotFoundError{
			Kind: automation.KindJobSchedule,
			Name: runbookName + "/" + scheduleName,
		}
	}

	return &jobSchedule, nil
}

// List implements automation.JobSchedulesClient.List.
func (c *JobSchedulesClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.JobSchedule], error) {
	ctx, done := c.deps.begin(ctx, "jobSchedules.list")
	defer done()

	return c.list(ctx, scope, cursor)
}

func (c *JobSchedulesClient) list(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.JobSchedule], error) {
	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentJobSchedules), nil, cursor,
		func(wire *armJobSchedule) automation.JobSchedule { return c.deps.mapper.JobSchedule(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing job schedules: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

func (c *JobSchedulesClient) fetch(scope automation.Scope) automation.PageFunc[automation.JobSchedule] {
	return func(ctx context.Context, cursor string) (*automation.Page[automation.JobSchedule], error) {
		return c.list(ctx, scope, cursor)
	}
}

// ListByRunbook implements automation.JobSchedulesClient.ListByRunbook.
func (c *JobSchedulesClient) ListByRunbook(ctx context.Context, scope automation.Scope, runbookName string) ([]automation.JobSchedule, error) {
	ctx, done := c.deps.begin(ctx, "jobSchedules.listByRunbook")
	defer done()

	return automation.Filter(ctx, c.fetch(scope), func(js automation.JobSchedule) bool {
		return strings.EqualFold(js.RunbookName, runbookName)
	})
}

// ListBySchedule implements automation.JobSchedulesClient.ListBySchedule.
func (c *JobSchedulesClient) ListBySchedule(ctx context.Context, scope automation.Scope, scheduleName string) ([]automation.JobSchedule, error) {
	ctx, done := c.deps.begin(ctx, "jobSchedules.listBySchedule")
	defer done()

	return automation.Filter(ctx, c.fetch(scope), func(js automation.JobSchedule) bool {
		return strings.EqualFold(js.ScheduleName, scheduleName)
	})
}

// Register implements automation.JobSchedulesClient.Register. Parameters are
// checked against the runbook's declared parameters first.
func (c *JobSchedulesClient) Register(ctx context.Context, scope automation.Scope, req *automation.RegisterJobScheduleRequest) (*automation.JobSchedule, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "jobSchedules.register")
	defer done()

	runbook, err := c.runbooks.get(ctx, scope, req.RunbookName)
	if err != nil {
		return nil, err
	}

	parameters, err := processRunbookParameters(runbook, req.Parameters)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	body := jobScheduleBody{
		Properties: armJobScheduleProperties{
			Schedule:   &armNameRef{Name: req.ScheduleName},
			Runbook:    &armNameRef{Name: runbook.Name},
			RunOn:      strings.TrimSpace(req.RunOn),
			Parameters: parameters,
		},
	}

	var wire armJobSchedule

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentJobSchedules, id), body, &wire)
	if err != nil {
		return nil, fmt.Errorf("registering job schedule: %w", c.deps.translator.Translate(err, automation.KindSchedule, req.ScheduleName))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindJobSchedule, automation.ActionRegistered, id)

	jobSchedule := c.deps.mapper.JobSchedule(scope, &wire)
	if jobSchedule.ID == "" {
		jobSchedule.ID = id
	}

	return &jobSchedule, nil
}

// Unregister implements automation.JobSchedulesClient.Unregister.
func (c *JobSchedulesClient) Unregister(ctx context.Context, scope automation.Scope, id string) error {
	ctx, done := c.deps.begin(ctx, "jobSchedules.unregister")
	defer done()

	return c.unregister(ctx, scope, id)
}

func (c *JobSchedulesClient) unregister(ctx context.Context, scope automation.Scope, id string) error {
	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentJobSchedules, id), automation.KindJobSchedule, id)
	if err != nil {
		return fmt.Errorf("unregistering job schedule: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindJobSchedule, automation.ActionDeleted, id)

	return nil
}

// UnregisterByPair implements automation.JobSchedulesClient.UnregisterByPair.
func (c *JobSchedulesClient) UnregisterByPair(ctx context.Context, scope automation.Scope, runbookName, scheduleName string) error {
	ctx, done := c.deps.begin(ctx, "jobSchedules.unregisterByPair")
	defer done()

	jobSchedule, err := c.byPair(ctx, scope, runbookName, scheduleName)
	if err != nil {
		return err
	}

	return c.unregister(ctx, scope, jobSchedule.ID)
}
