package client

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// JobsClient implements automation.JobsClient.
type JobsClient struct {
	deps *Deps
}

// NewJobsClient creates a new jobs client.
func NewJobsClient(deps *Deps) *JobsClient {
	return &JobsClient{deps: deps}
}

// Get implements automation.JobsClient.Get.
func (c *JobsClient) Get(ctx context.Context, scope automation.Scope, id string) (*automation.Job, error) {
	ctx, done := c.deps.begin(ctx, "jobs.get")
	defer done()

	var wire armJob

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentJobs, id), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting job: %w", c.deps.translator.Translate(err, automation.KindJob, id))
	}

	job := c.deps.mapper.Job(scope, &wire)

	return &job, nil
}

// List implements automation.JobsClient.List.
func (c *JobsClient) List(ctx context.Context, scope automation.Scope, opts *automation.ListJobsOptions, cursor string) (*automation.Page[automation.Job], error) {
	ctx, done := c.deps.begin(ctx, "jobs.list")
	defer done()

	filter := automation.NewODataFilter()
	if opts != nil {
		filter.
			Eq("properties/runbook/name", opts.RunbookName).
			Eq("properties/status", string(opts.Status)).
			Ge("properties/startTime", opts.StartTime).
			Le("properties/endTime", opts.EndTime)
	}

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentJobs), filter.Apply(nil), cursor,
		func(wire *armJob) automation.Job { return c.deps.mapper.Job(scope, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", c.deps.translator.Translate(err, automation.KindAccount, scope.Account))
	}

	return page, nil
}

// Stop implements automation.JobsClient.Stop.
func (c *JobsClient) Stop(ctx context.Context, scope automation.Scope, id string) error {
	return c.control(ctx, scope, id, "stop", automation.ActionStopped)
}

// Suspend implements automation.JobsClient.Suspend.
func (c *JobsClient) Suspend(ctx context.Context, scope automation.Scope, id string) error {
	return c.control(ctx, scope, id, "suspend", automation.ActionSuspended)
}

// Resume implements automation.JobsClient.Resume.
func (c *JobsClient) Resume(ctx context.Context, scope automation.Scope, id string) error {
	return c.control(ctx, scope, id, "resume", automation.ActionResumed)
}

func (c *JobsClient) control(ctx context.Context, scope automation.Scope, id, verb string, action automation.MutationAction) error {
	err := c.deps.validateScope(scope)
	if err != nil {
		return err
	}

	ctx, done := c.deps.begin(ctx, "jobs."+verb)
	defer done()

	err = c.deps.post(ctx, c.deps.paths.scoped(scope, segmentJobs, id, verb), nil, nil)
	if err != nil {
		return fmt.Errorf("%s job: %w", verb, c.deps.translator.Translate(err, automation.KindJob, id))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindJob, action, id)

	return nil
}

// GetOutput implements automation.JobsClient.GetOutput.
func (c *JobsClient) GetOutput(ctx context.Context, scope automation.Scope, id string) (string, error) {
	ctx, done := c.deps.begin(ctx, "jobs.output")
	defer done()

	output, err := c.deps.getText(ctx, c.deps.paths.scoped(scope, segmentJobs, id, "output"))
	if err != nil {
		return "", fmt.Errorf("getting job output: %w", c.deps.translator.Translate(err, automation.KindJob, id))
	}

	return output, nil
}

// ListStreams implements automation.JobsClient.ListStreams.
func (c *JobsClient) ListStreams(
	ctx context.Context,
	scope automation.Scope,
	id string,
	opts *automation.ListJobStreamsOptions,
	cursor string,
) (*automation.Page[automation.JobStream], error) {
	ctx, done := c.deps.begin(ctx, "jobs.streams")
	defer done()

	filter := automation.NewODataFilter()
	if opts != nil {
		filter.Ge("properties/time", opts.Time)

		if opts.StreamType != automation.StreamAny {
			filter.Eq("properties/streamType", string(opts.StreamType))
		}
	}

	page, err := listPage(ctx, c.deps, c.deps.paths.scoped(scope, segmentJobs, id, segmentStreams), filter.Apply(nil), cursor,
		func(wire *armJobStream) automation.JobStream { return c.deps.mapper.JobStream(id, wire) })
	if err != nil {
		return nil, fmt.Errorf("listing job streams: %w", c.deps.translator.Translate(err, automation.KindJob, id))
	}

	return page, nil
}

// GetStreamRecord implements automation.JobsClient.GetStreamRecord.
func (c *JobsClient) GetStreamRecord(ctx context.Context, scope automation.Scope, id, streamID string) (*automation.JobStreamRecord, error) {
	ctx, done := c.deps.begin(ctx, "jobs.stream")
	defer done()

	return c.streamRecord(ctx, scope, id, streamID)
}

func (c *JobsClient) streamRecord(ctx context.Context, scope automation.Scope, id, streamID string) (*automation.JobStreamRecord, error) {
	var wire armJobStream

	err := c.deps.get(ctx, c.deps.paths.scoped(scope, segmentJobs, id, segmentStreams, streamID), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting job stream: %w", c.deps.translator.Translate(err, automation.KindJobStream, streamID))
	}

	record := c.deps.mapper.JobStreamRecord(id, &wire)

	return &record, nil
}

// GetStreamRecordValue implements automation.JobsClient.GetStreamRecordValue.
func (c *JobsClient) GetStreamRecordValue(ctx context.Context, scope automation.Scope, id, streamID string) (any, error) {
	ctx, done := c.deps.begin(ctx, "jobs.stream")
	defer done()

	record, err := c.streamRecord(ctx, scope, id, streamID)
	if err != nil {
		return nil, err
	}

	return streamRecordValue(record.Value), nil
}

// streamRecordValue drops the keys PowerShell remoting adds to every record.
// When only "value" remains the record collapses to that value.
func streamRecordValue(value map[string]any) any {
	cleaned := make(map[string]any, len(value))

	for key, v := range value {
		switch key {
		case constants.StreamKeyComputerName, constants.StreamKeyShowComputerName, constants.StreamKeySourceJobID:
			continue
		default:
			cleaned[key] = v
		}
	}

	if len(cleaned) == 1 {
		if v, ok := cleaned[constants.StreamKeyValue]; ok {
			return v
		}
	}

	return cleaned
}
