package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

//nolint:funlen
func TestProcessRunbookParameters(t *testing.T) {
	t.Parallel()

	runbook := &automation.Runbook{
		Name:  "deploy",
		State: automation.RunbookStatePublished,
		Parameters: map[string]automation.RunbookParameter{
			"Environment": {Type: "System.String", IsMandatory: true},
			"Count":       {Type: "System.Int32"},
			"Tags":        {Type: "System.Object"},
		},
	}

	t.Run("case insensitive names use declared spelling", func(t *testing.T) {
		t.Parallel()

		got, err := processRunbookParameters(runbook, map[string]any{
			"environment": "prod",
			"COUNT":       3,
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"Environment": `"prod"`,
			"Count":       "3",
		}, got)
	})

	t.Run("complex values are serialized", func(t *testing.T) {
		t.Parallel()

		got, err := processRunbookParameters(runbook, map[string]any{
			"Environment": "dev",
			"Tags":        map[string]any{"team": "ops"},
		})
		require.NoError(t, err)
		assert.JSONEq(t, `{"team":"ops"}`, got["Tags"])
	})

	t.Run("missing mandatory parameter", func(t *testing.T) {
		t.Parallel()

		_, err := processRunbookParameters(runbook, map[string]any{"Count": 1})
		require.Error(t, err)

		var invalid *automation.InvalidArgumentError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "Environment", invalid.Argument)
	})

	t.Run("undeclared parameter", func(t *testing.T) {
		t.Parallel()

		_, err := processRunbookParameters(runbook, map[string]any{
			"Environment": "prod",
			"Region":      "eu",
		})
		require.Error(t, err)
		assert.True(t, automation.IsInvalidArgument(err))
		assert.Contains(t, err.Error(), "Region")
	})

	t.Run("unserializable value", func(t *testing.T) {
		t.Parallel()

		_, err := processRunbookParameters(runbook, map[string]any{
			"Environment": make(chan int),
		})
		require.Error(t, err)
		assert.True(t, automation.IsInvalidArgument(err))
	})

	t.Run("new runbook has no published version", func(t *testing.T) {
		t.Parallel()

		draftOnly := &automation.Runbook{Name: "draft", State: automation.RunbookStateNew}

		_, err := processRunbookParameters(draftOnly, nil)
		require.Error(t, err)
		assert.True(t, automation.IsInvalidArgument(err))
	})

	t.Run("new state matches regardless of case", func(t *testing.T) {
		t.Parallel()

		lowerCase := &automation.Runbook{Name: "draft", State: automation.RunbookState("new")}

		_, err := processRunbookParameters(lowerCase, nil)
		require.Error(t, err)
		assert.True(t, automation.IsInvalidArgument(err))
	})

	t.Run("nothing supplied and nothing mandatory", func(t *testing.T) {
		t.Parallel()

		optional := &automation.Runbook{
			Name:       "cleanup",
			State:      automation.RunbookStateEdit,
			Parameters: map[string]automation.RunbookParameter{"DryRun": {Type: "System.Boolean"}},
		}

		got, err := processRunbookParameters(optional, nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
