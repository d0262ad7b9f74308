package automation_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

func TestODataFilter(t *testing.T) {
	t.Parallel()

	from := time.Date(2024, 1, 2, 4, 5, 6, 0, time.FixedZone("X", 2*3600))

	filter := automation.NewODataFilter().
		Eq("properties/runbook/name", "it's").
		Eq("properties/status", "").
		Ge("properties/startTime", &from).
		Le("properties/endTime", nil)

	assert.False(t, filter.Empty())
	assert.Equal(t, "properties/runbook/name eq 'it''s' and properties/startTime ge 2024-01-02T02:05:06.0000000Z", filter.String())

	values := filter.Apply(url.Values{"api-version": {"v"}})
	assert.Equal(t, "v", values.Get("api-version"))
	assert.Equal(t, filter.String(), values.Get("$filter"))

	empty := automation.NewODataFilter().Apply(nil)
	assert.NotNil(t, empty)
	assert.False(t, empty.Has("$filter"))
}

func TestScopeValidate(t *testing.T) {
	t.Parallel()

	var invalid *automation.InvalidArgumentError

	err := automation.Scope{Account: "a"}.Validate()
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, "ResourceGroup", invalid.Argument)

	assert.NoError(t, automation.Scope{ResourceGroup: "rg", Account: "a"}.Validate())
	assert.Equal(t, "rg/a", automation.Scope{ResourceGroup: "rg", Account: "a"}.String())
}

func TestRunbookTypeHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".graphrunbook", automation.RunbookTypeGraphPowerShell.FileExtension())
	assert.Equal(t, ".py", automation.RunbookTypePython3.FileExtension())
	assert.Equal(t, ".ps1", automation.RunbookTypePowerShellWorkflow.FileExtension())

	draft := &automation.Runbook{State: automation.RunbookStateNew}
	assert.False(t, draft.HasPublished())
	assert.True(t, draft.HasDraft())

	published := &automation.Runbook{State: automation.RunbookStatePublished}
	assert.True(t, published.HasPublished())
	assert.False(t, published.HasDraft())

	schedule := &automation.JobSchedule{RunbookName: "Deploy", ScheduleName: "Nightly"}
	assert.True(t, schedule.Matches("deploy", "NIGHTLY"))
	assert.False(t, schedule.Matches("deploy", "weekly"))
}
