package commands

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewHybridWorkerGroupsCommand creates the hybrid-worker-groups command group.
func NewHybridWorkerGroupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hybrid-worker-groups",
		Aliases: []string{"hybrid-worker-group", "hwg"},
		Short:   "Inspect hybrid worker groups",
		Long:    "List and inspect hybrid runbook worker groups jobs can run on",
	}

	cmd.AddCommand(newHybridWorkerGroupsListCommand())
	cmd.AddCommand(newHybridWorkerGroupsGetCommand())

	return cmd
}

func newHybridWorkerGroupsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List hybrid worker groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			groups, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.HybridWorkerGroup], error) {
				return client.HybridWorkerGroups().List(ctx, scope, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list hybrid worker groups: %w", err)
			}

			err = render(cmd, groups, func(table *tablewriter.Table) {
				table.Header("Name", "Type", "Credential")

				for _, group := range groups {
					_ = table.Append(group.Name, valueOr(group.GroupType), valueOr(group.CredentialName))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newHybridWorkerGroupsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get a hybrid worker group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			group, err := client.HybridWorkerGroups().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get hybrid worker group: %w", err)
			}

			return renderProperties(cmd, group, [][2]string{
				{"Name", group.Name},
				{"Type", valueOr(group.GroupType)},
				{"Credential", valueOr(group.CredentialName)},
			})
		},
	}
}
