package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func TestStreamRecordValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value map[string]any
		want  any
	}{
		{
			name: "collapses to value",
			value: map[string]any{
				"PSComputerName":        "localhost",
				"PSShowComputerName":    true,
				"PSSourceJobInstanceId": "abc",
				"value":                 "hello",
			},
			want: "hello",
		},
		{
			name: "keeps other keys",
			value: map[string]any{
				"PSComputerName": "localhost",
				"value":          "hello",
				"extra":          1.0,
			},
			want: map[string]any{"value": "hello", "extra": 1.0},
		},
		{
			name:  "only remoting keys",
			value: map[string]any{"PSComputerName": "localhost"},
			want:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, streamRecordValue(tt.value))
		})
	}
}

func TestJobsClient_ListFilters(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.reply(http.MethodGet, accountPath("jobs"), http.StatusOK, map[string]any{
		"value": []any{
			map[string]any{"properties": map[string]any{"jobId": "j1", "status": "Running", "runbook": map[string]any{"name": "Deploy"}}},
		},
		"nextLink": fake.server.URL + accountPath("jobs") + "?$skiptoken=2",
	})
	client := fake.client(nil)

	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	page, err := client.Jobs().List(context.Background(), testScope, &automation.ListJobsOptions{
		RunbookName: "O'Brien",
		Status:      automation.JobStatusRunning,
		StartTime:   &start,
	}, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "j1", page.Items[0].ID)
	assert.Equal(t, "Deploy", page.Items[0].RunbookName)
	assert.True(t, page.HasMore())

	requests := fake.requests(http.MethodGet, accountPath("jobs"))
	require.Len(t, requests, 1)
	assert.Equal(t,
		"properties/runbook/name eq 'O''Brien' and properties/status eq 'Running' and properties/startTime ge 2024-05-01T08:00:00.0000000Z",
		requests[0].Query.Get("$filter"))
}

func TestJobsClient_Control(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	for _, verb := range []string{"stop", "suspend", "resume"} {
		fake.reply(http.MethodPost, accountPath("jobs", "j1", verb), http.StatusOK, nil)
	}

	publisher := &recordingPublisher{}
	client := fake.client(publisher)
	ctx := context.Background()

	require.NoError(t, client.Jobs().Stop(ctx, testScope, "j1"))
	require.NoError(t, client.Jobs().Suspend(ctx, testScope, "j1"))
	require.NoError(t, client.Jobs().Resume(ctx, testScope, "j1"))

	events := publisher.recorded()
	require.Len(t, events, 3)
	assert.Equal(t, automation.ActionStopped, events[0].Action)
	assert.Equal(t, automation.ActionSuspended, events[1].Action)
	assert.Equal(t, automation.ActionResumed, events[2].Action)
	assert.Equal(t, "j1", events[0].Name)

	err := client.Jobs().Stop(ctx, testScope, "missing")
	require.Error(t, err)
	assert.True(t, automation.IsNotFound(err))
	assert.Len(t, publisher.recorded(), 3)
}

func TestJobsClient_OutputAndStreams(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	fake.handle(http.MethodGet, accountPath("jobs", "j1", "output"), func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("done\n"))
	})
	fake.reply(http.MethodGet, accountPath("jobs", "j1", "streams"), http.StatusOK, map[string]any{
		"value": []any{
			map[string]any{"properties": map[string]any{"jobStreamId": "s1", "streamType": "Output", "streamText": "hello"}},
		},
	})
	fake.reply(http.MethodGet, accountPath("jobs", "j1", "streams", "s1"), http.StatusOK, map[string]any{
		"properties": map[string]any{
			"jobStreamId": "s1",
			"streamType":  "Output",
			"value":       map[string]any{"PSComputerName": "localhost", "value": "hello"},
		},
	})
	client := fake.client(nil)
	ctx := context.Background()

	output, err := client.Jobs().GetOutput(ctx, testScope, "j1")
	require.NoError(t, err)
	assert.Equal(t, "done\n", output)

	streams, err := client.Jobs().ListStreams(ctx, testScope, "j1", &automation.ListJobStreamsOptions{StreamType: automation.StreamAny}, "")
	require.NoError(t, err)
	require.Len(t, streams.Items, 1)
	assert.Equal(t, "hello", streams.Items[0].Summary)
	assert.Equal(t, "j1", streams.Items[0].JobID)
	assert.Empty(t, fake.requests(http.MethodGet, accountPath("jobs", "j1", "streams"))[0].Query.Get("$filter"))

	_, err = client.Jobs().ListStreams(ctx, testScope, "j1", &automation.ListJobStreamsOptions{StreamType: automation.StreamError}, "")
	require.NoError(t, err)
	assert.Equal(t, "properties/streamType eq 'Error'",
		fake.requests(http.MethodGet, accountPath("jobs", "j1", "streams"))[1].Query.Get("$filter"))

	value, err := client.Jobs().GetStreamRecordValue(ctx, testScope, "j1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "hello", value)

	_, err = client.Jobs().GetStreamRecord(ctx, testScope, "j1", "nope")
	require.Error(t, err)

	var notFound *automation.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, automation.KindJobStream, notFound.Kind)
}
