package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func jobScheduleWire(id, runbook, schedule string) map[string]any {
	return map[string]any{
		"name": id,
		"properties": map[string]any{
			"jobScheduleId": id,
			"runbook":       map[string]any{"name": runbook},
			"schedule":      map[string]any{"name": schedule},
		},
	}
}

// serveJobSchedulePages answers the collection in two pages.
func serveJobSchedulePages(fake *fakeARM) {
	fake.reply(http.MethodGet, accountPath("jobSchedules"), http.StatusOK, map[string]any{
		"value": []any{
			jobScheduleWire("js-1", "Deploy", "nightly"),
			jobScheduleWire("js-2", "Cleanup", "nightly"),
		},
		"nextLink": fake.server.URL + accountPath("jobSchedules", "next"),
	})
	fake.reply(http.MethodGet, accountPath("jobSchedules", "next"), http.StatusOK, map[string]any{
		"value": []any{jobScheduleWire("js-3", "deploy", "Weekly")},
	})
}

func TestJobSchedulesClient_Lookups(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	serveJobSchedulePages(fake)
	client := fake.client(nil)
	ctx := context.Background()

	jobSchedule, err := client.JobSchedules().GetByPair(ctx, testScope, "DEPLOY", "weekly")
	require.NoError(t, err)
	assert.Equal(t, "js-3", jobSchedule.ID)

	byRunbook, err := client.JobSchedules().ListByRunbook(ctx, testScope, "Deploy")
	require.NoError(t, err)
	require.Len(t, byRunbook, 2)
	assert.Equal(t, "js-1", byRunbook[0].ID)
	assert.Equal(t, "js-3", byRunbook[1].ID)

	bySchedule, err := client.JobSchedules().ListBySchedule(ctx, testScope, "nightly")
	require.NoError(t, err)
	assert.Len(t, bySchedule, 2)

	_, err = client.JobSchedules().GetByPair(ctx, testScope, "Deploy", "hourly")
	require.Error(t, err)

	var notFound *automation.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, automation.KindJobSchedule, notFound.Kind)
	assert.Equal(t, "Deploy/hourly", notFound.Name)
}

func TestJobSchedulesClient_GetByPairStopsAtFirstMatch(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	serveJobSchedulePages(fake)
	client := fake.client(nil)

	_, err := client.JobSchedules().GetByPair(context.Background(), testScope, "Cleanup", "nightly")
	require.NoError(t, err)
	assert.Empty(t, fake.requests(http.MethodGet, accountPath("jobSchedules", "next")))
}

//nolint:funlen
func TestJobSchedulesClient_Register(t *testing.T) {
	t.Parallel()

	t.Run("links runbook and schedule", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		fake.reply(http.MethodGet, accountPath("runbooks", "Deploy"), http.StatusOK, publishedRunbook("Deploy", map[string]any{
			"Target": map[string]any{"type": "System.String"},
		}))
		fake.handlePrefix(http.MethodPut, accountPath("jobSchedules")+"/", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusCreated, map[string]any{
				"properties": map[string]any{
					"runbook":  map[string]any{"name": "Deploy"},
					"schedule": map[string]any{"name": "nightly"},
				},
			})
		})
		publisher := &recordingPublisher{}
		client := fake.client(publisher)

		jobSchedule, err := client.JobSchedules().Register(context.Background(), testScope, &automation.RegisterJobScheduleRequest{
			RunbookName:  "deploy",
			ScheduleName: "nightly",
			Parameters:   map[string]any{"target": "web"},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, jobSchedule.ID)
		assert.Equal(t, "nightly", jobSchedule.ScheduleName)

		puts := fake.requestsUnder(http.MethodPut, accountPath("jobSchedules")+"/")
		require.Len(t, puts, 1)
		assert.Equal(t, accountPath("jobSchedules", jobSchedule.ID), puts[0].Path)

		properties := puts[0].decode(t)["properties"].(map[string]any)
		assert.Equal(t, map[string]any{"name": "Deploy"}, properties["runbook"])
		assert.Equal(t, map[string]any{"Target": `"web"`}, properties["parameters"])

		events := publisher.recorded()
		require.Len(t, events, 1)
		assert.Equal(t, automation.ActionRegistered, events[0].Action)
		assert.Equal(t, jobSchedule.ID, events[0].Name)
	})

	t.Run("missing runbook", func(t *testing.T) {
		t.Parallel()

		fake := newFakeARM(t)
		client := fake.client(nil)

		_, err := client.JobSchedules().Register(context.Background(), testScope, &automation.RegisterJobScheduleRequest{
			RunbookName:  "Deploy",
			ScheduleName: "nightly",
		})
		require.Error(t, err)

		var notFound *automation.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, automation.KindRunbook, notFound.Kind)
	})
}

func TestJobSchedulesClient_UnregisterByPair(t *testing.T) {
	t.Parallel()

	fake := newFakeARM(t)
	serveJobSchedulePages(fake)
	fake.reply(http.MethodDelete, accountPath("jobSchedules", "js-2"), http.StatusOK, nil)
	publisher := &recordingPublisher{}
	client := fake.client(publisher)

	require.NoError(t, client.JobSchedules().UnregisterByPair(context.Background(), testScope, "cleanup", "NIGHTLY"))
	require.Len(t, fake.requests(http.MethodDelete, accountPath("jobSchedules", "js-2")), 1)

	events := publisher.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, automation.ActionDeleted, events[0].Action)
	assert.Equal(t, "js-2", events[0].Name)
}
