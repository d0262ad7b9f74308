package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

//nolint:funlen
func TestSourceControlSyncJobsClient(t *testing.T) {
	t.Parallel()

	syncJobs := accountPath("sourceControls", "repo", "sourceControlSyncJobs")

	t.Run("start with a generated id", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.handlePrefix(http.MethodPut, syncJobs+"/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]any{"properties": map[string]any{"provisioningState": "Running"}})
		})
		publisher := &recordingPublisher{}
		client := fake.client(publisher)

		syncJob, err := client.SourceControlSyncJobs().Start(context.Background(), testScope, "repo", "")
		require.NoError(t, err)
		assert.NotEmpty(t, syncJob.SyncJobID)

		puts := fake.requestsUnder(http.MethodPut, syncJobs+"/")
		require.Len(t, puts, 1)
		assert.Equal(t, syncJobs+"/"+syncJob.SyncJobID, puts[0].Path)
		assert.Equal(t, map[string]any{"commitId": ""}, puts[0].decode(t)["properties"])

		events := publisher.recorded()
		require.Len(t, events, 1)
		assert.Equal(t, automation.KindSourceControlSyncJob, events[0].Kind)
	})

	t.Run("start with an existing id", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, syncJobs+"/sj-1", http.StatusOK, map[string]any{"properties": map[string]any{"sourceControlSyncJobId": "sj-1"}})
		client := fake.client(nil)

		_, err := client.SourceControlSyncJobs().Start(context.Background(), testScope, "repo", "sj-1")
		assert.True(t, automation.IsAlreadyExists(err))
	})

	t.Run("streams filtered by type", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, syncJobs+"/sj-1/streams", http.StatusOK, map[string]any{
			"value": []any{map[string]any{"properties": map[string]any{"sourceControlSyncJobStreamId": "st-1", "streamType": "Error", "summary": "boom"}}},
		})
		client := fake.client(nil)

		page, err := client.SourceControlSyncJobs().ListStreams(context.Background(), testScope, "repo", "sj-1", automation.StreamError, "")
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "boom", page.Items[0].Summary)
		assert.Equal(t, "sj-1", page.Items[0].SyncJobID)

		assert.Equal(t, "properties/streamType eq 'Error'",
			fake.requests(http.MethodGet, syncJobs+"/sj-1/streams")[0].Query.Get("$filter"))
	})
}
