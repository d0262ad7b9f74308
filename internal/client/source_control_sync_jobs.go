package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// SourceControlSyncJobsClient implements automation.SourceControlSyncJobsClient.
type SourceControlSyncJobsClient struct {
	deps *Deps
}

// NewSourceControlSyncJobsClient creates a new sync jobs client.
func NewSourceControlSyncJobsClient(deps *Deps) *SourceControlSyncJobsClient {
	return &SourceControlSyncJobsClient{deps: deps}
}

type syncJobBody struct {
	Properties armSyncJobProperties `json:"properties"`
}

func (c *SourceControlSyncJobsClient) path(scope automation.Scope, sourceControl string, rest ...string) string {
	segments := append([]string{segmentSourceControls, sourceControl, segmentSyncJobs}, rest...)

	return c.deps.paths.scoped(scope, segments...)
}

// Start implements automation.SourceControlSyncJobsClient.Start.
func (c *SourceControlSyncJobsClient) Start(ctx context.Context, scope automation.Scope, sourceControl, syncJobID string) (*automation.SourceControlSyncJob, error) {
	err := c.deps.validateScope(scope)
	if err != nil {
		return nil, err
	}

	if syncJobID == "" {
		syncJobID = uuid.NewString()
	}

	ctx, done := c.deps.begin(ctx, "syncJobs.start")
	defer done()

	_, found, err := tryGet(c.get(ctx, scope, sourceControl, syncJobID))
	if err != nil {
		return nil, err
	}

	if found {
		return nil, &automation.AlreadyExistsError{Kind: automation.KindSourceControlSyncJob, Name: syncJobID}
	}

	commitID := ""
	body := syncJobBody{Properties: armSyncJobProperties{CommitID: &commitID}}

	var wire armSyncJob

	err = c.deps.put(ctx, c.path(scope, sourceControl, syncJobID), body, &wire)
	if err != nil {
		return nil, fmt.Errorf("starting sync job: %w", c.deps.translator.Translate(err, automation.KindSourceControl, sourceControl))
	}

	c.deps.mutatedIn(ctx, scope, automation.KindSourceControlSyncJob, automation.ActionStarted, syncJobID)

	syncJob := c.deps.mapper.SyncJob(scope, sourceControl, &wire)
	if syncJob.SyncJobID == "" {
		syncJob.SyncJobID = syncJobID
	}

	return &syncJob, nil
}

// Get implements automation.SourceControlSyncJobsClient.Get.
func (c *SourceControlSyncJobsClient) Get(ctx context.Context, scope automation.Scope, sourceControl, syncJobID string) (*automation.SourceControlSyncJob, error) {
	ctx, done := c.deps.begin(ctx, "syncJobs.get")
	defer done()

	return c.get(ctx, scope, sourceControl, syncJobID)
}

func (c *SourceControlSyncJobsClient) get(ctx context.Context, scope automation.Scope, sourceControl, syncJobID string) (*automation.SourceControlSyncJob, error) {
	var wire armSyncJob

	err := c.deps.get(ctx, c.path(scope, sourceControl, syncJobID), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting sync job: %w", c.deps.translator.Translate(err, automation.KindSourceControlSyncJob, syncJobID))
	}

	syncJob := c.deps.mapper.SyncJob(scope, sourceControl, &wire)

	return &syncJob, nil
}

// List implements automation.SourceControlSyncJobsClient.List.
func (c *SourceControlSyncJobsClient) List(
	ctx context.Context,
	scope automation.Scope,
	sourceControl, cursor string,
) (*automation.Page[automation.SourceControlSyncJob], error) {
	ctx, done := c.deps.begin(ctx, "syncJobs.list")
	defer done()

	page, err := listPage(ctx, c.deps, c.path(scope, sourceControl), nil, cursor,
		func(wire *armSyncJob) automation.SourceControlSyncJob {
			return c.deps.mapper.SyncJob(scope, sourceControl, wire)
		})
	if err != nil {
		return nil, fmt.Errorf("listing sync jobs: %w", c.deps.translator.Translate(err, automation.KindSourceControl, sourceControl))
	}

	return page, nil
}

// ListStreams implements automation.SourceControlSyncJobsClient.ListStreams.
func (c *SourceControlSyncJobsClient) ListStreams(
	ctx context.Context,
	scope automation.Scope,
	sourceControl, syncJobID string,
	streamType automation.StreamType,
	cursor string,
) (*automation.Page[automation.SyncJobStream], error) {
	ctx, done := c.deps.begin(ctx, "syncJobs.streams")
	defer done()

	filter := automation.NewODataFilter()
	if streamType != automation.StreamAny {
		filter.Eq("properties/streamType", string(streamType))
	}

	page, err := listPage(ctx, c.deps, c.path(scope, sourceControl, syncJobID, segmentStreams), filter.Apply(nil), cursor,
		func(wire *armSyncJobStream) automation.SyncJobStream {
			return c.deps.mapper.SyncJobStream(syncJobID, wire)
		})
	if err != nil {
		return nil, fmt.Errorf("listing sync job streams: %w", c.deps.translator.Translate(err, automation.KindSourceControlSyncJob, syncJobID))
	}

	return page, nil
}

// GetStreamRecord implements automation.SourceControlSyncJobsClient.GetStreamRecord.
func (c *SourceControlSyncJobsClient) GetStreamRecord(
	ctx context.Context,
	scope automation.Scope,
	sourceControl, syncJobID, streamID string,
) (*automation.SyncJobStreamRecord, error) {
	ctx, done := c.deps.begin(ctx, "syncJobs.stream")
	defer done()

	var wire armSyncJobStream

	err := c.deps.get(ctx, c.path(scope, sourceControl, syncJobID, segmentStreams, streamID), &wire)
	if err != nil {
		return nil, fmt.Errorf("getting sync job stream: %w", c.deps.translator.Translate(err, automation.KindSourceControlSyncJobStream, streamID))
	}

	record := c.deps.mapper.SyncJobStreamRecord(syncJobID, &wire)

	return &record, nil
}
