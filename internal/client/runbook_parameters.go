package client

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// processRunbookParameters checks supplied against the parameters declared
// by runbook and serializes every supplied value to JSON. Names match
// case-insensitively and the declared spelling is sent. Only supplied
// parameters appear in the result.
func processRunbookParameters(runbook *automation.Runbook, supplied map[string]any) (map[string]string, error) {
	if runbook.State.Is(automation.RunbookStateNew) {
		return nil, &automation.InvalidArgumentError{
			Argument: "runbook",
			Reason:   fmt.Sprintf("runbook '%s' has no published version", runbook.Name),
		}
	}

	byLowerName := make(map[string]string, len(supplied))
	for key := range supplied {
		byLowerName[strings.ToLower(key)] = key
	}

	declared := make([]string, 0, len(runbook.Parameters))
	for name := range runbook.Parameters {
		declared = append(declared, name)
	}

	sort.Strings(declared)

	processed := make(map[string]string, len(supplied))
	used := make(map[string]struct{}, len(supplied))

	for _, name := range declared {
		key, ok := byLowerName[strings.ToLower(name)]
		if !ok {
			if runbook.Parameters[name].IsMandatory {
				return nil, &automation.InvalidArgumentError{
					Argument: name,
					Reason:   fmt.Sprintf("a value is required by runbook '%s'", runbook.Name),
				}
			}

			continue
		}

		data, err := json.Marshal(supplied[key])
		if err != nil {
			return nil, &automation.InvalidArgumentError{
				Argument: name,
				Reason:   "value cannot be serialized to JSON: " + err.Error(),
			}
		}

		processed[name] = string(data)
		used[key] = struct{}{}
	}

	if len(used) != len(supplied) {
		var unknown []string

		for key := range supplied {
			if _, ok := used[key]; !ok {
				unknown = append(unknown, key)
			}
		}

		sort.Strings(unknown)

		return nil, &automation.InvalidArgumentError{
			Argument: "parameters",
			Reason: fmt.Sprintf("runbook '%s' does not declare %s",
				runbook.Name, strings.Join(unknown, ", ")),
		}
	}

	return processed, nil
}
