package client

import (
	"context"
	"fmt"
	"time"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// SchedulesClient implements automation.SchedulesClient.
type SchedulesClient struct {
	deps *Deps
}

// NewSchedulesClient creates a new schedules client.
func NewSchedulesClient(deps *Deps) *SchedulesClient {
	return &SchedulesClient{deps: deps}
}

type scheduleBody struct {
	Name       string                `json:"name"`
	Properties armScheduleProperties `json:"properties"`
}

// Create implements automation.SchedulesClient.Create.
func (c *SchedulesClient) Create(ctx context.Context, scope automation.Scope, req *automation.CreateScheduleRequest) (*automation.Schedule, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	err = c.deps.validateRequest(req)
	if err != nil {
		return nil, err
	}

	ctx, done := c.deps.begin(ctx, "schedules.create")
	defer done()

	startTime := req.StartTime.UTC()

	props := armScheduleProperties{
		StartTime:   &startTime,
		Frequency:   string(req.Frequency),
		ExpiryTime:  utcPtr(req.ExpiryTime),
		Description: req.Description,
		TimeZone:    req.TimeZone,
	}

	if req.Interval > 0 {
		props.Interval = req.Interval
	}

	if advanced := req.AdvancedSchedule; advanced != nil {
		props.AdvancedSchedule = &armAdvancedSchedule{
			WeekDays:  advanced.WeekDays,
			MonthDays: advanced.MonthDays,
		}

		for _, occurrence := range advanced.MonthlyOccurrences {
			props.AdvancedSchedule.MonthlyOccurrences = append(props.AdvancedSchedule.MonthlyOccurrences,
				armMonthlyOccurrence{Occurrence: occurrence.Occurrence, Day: occurrence.Day})
		}
	}

	err = c.deps.put(ctx, c.deps.paths.scoped(scope, segmentSchedules, req.Name), scheduleBody{Name: req.Name, Properties: props}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating schedule: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindSchedule, automation.ActionCreated, req.Name)

	return c.get(ctx, scope, req.Name)
}

// Get implements automation.SchedulesClient.Get.
func (c *SchedulesClient) Get(ctx context.Context, scope automation.Scope, name string) (*automation.Schedule, error) {
	ctx, done := c.deps.begin(ctx, "schedules.get")
	defer done()

	return c.get(ctx, scope, name)
}

func (c *SchedulesClient) get(ctx context.Context, scope automation.Scope, name string) (*automation.Schedule, error) {
	var wire armSchedule

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentSchedules, name), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting schedule: %w", c.deps.translator.Translate(err, automation.KindSchedule, name))
	}

	schedule := c.deps.mapper.Schedule(scope, &wire)

	return &schedule, nil
}

// TryGet implements automation.SchedulesClient.TryGet.
func (c *SchedulesClient) TryGet(ctx context.Context, scope automation.Scope, name string) (*automation.Schedule, bool, error) {
	return tryGet(c.Get(ctx, scope, name))
}

// List implements automation.SchedulesClient.List.
func (c *SchedulesClient) List(ctx context.Context, scope automation.Scope, cursor string) (*automation.Page[automation.Schedule], error) {
	ctx, done := c.deps.begin(ctx, "schedules.list")
	defer done()

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentSchedules), nil, cursor,
		func(wire *armSchedule) automation.Schedule { return c.deps.mapper.Schedule(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Update implements automation.SchedulesClient.Update. Only the enabled
// flag and the description can change.
func (c *SchedulesClient) Update(ctx context.Context, scope automation.Scope, name string, req *automation.UpdateScheduleRequest) (*automation.Schedule, error) {
	if req == nil {
		req = &automation.UpdateScheduleRequest{}
	}

	ctx, done := c.deps.begin(ctx, "schedules.update")
	defer done()

	existing, err := c.get(ctx, scope, name)
	if err != nil {
		return nil, err
	}

	enabled := existing.IsEnabled
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}

	description := existing.Description
	if req.Description != nil {
		description = *req.Description
	}

	body := scheduleBody{
		Name: name,
		Properties: armScheduleProperties{
			IsEnabled:   &enabled,
			Description: description,
		},
	}

	err = c.deps.patch(ctx, c.deps.paths.scoped(scope, segmentSchedules, name), body, nil)
	if err != nil {
		return nil, fmt.Errorf("updating schedule: %w", c.deps.translator.Translate(err, automation.KindSchedule, name))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindSchedule, automation.ActionUpdated, name)

	return c.get(ctx, scope, name)
}

// Delete implements automation.SchedulesClient.Delete.
func (c *SchedulesClient) Delete(ctx context.Context, scope automation.Scope, name string) error {
	ctx, done := c.deps.begin(ctx, "schedules.delete")
	defer done()

	err := c.deps.delete(ctx, c.deps.paths.scoped(scope, segmentSchedules, name), automation.KindSchedule, name)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}

	c.deps.mutatedIn(ctx, scope, automation.KindSchedule, automation.ActionDeleted, name)

	return nil
}

// utcPtr returns t converted to UTC, or nil.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	utc := t.UTC()

	return &utc
}
