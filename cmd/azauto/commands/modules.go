package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewModulesCommand creates the modules command group.
func NewModulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "modules",
		Aliases: []string{"module"},
		Short:   "Manage imported modules",
		Long:    "Import, list, update and remove PowerShell modules of an automation account",
	}

	cmd.AddCommand(newModulesListCommand())
	cmd.AddCommand(newModulesGetCommand())
	cmd.AddCommand(newModulesCreateCommand())
	cmd.AddCommand(newModulesUpdateCommand())
	cmd.AddCommand(deleteCommand("module", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.Modules().Delete(ctx, scope, name)
	}))

	return cmd
}

func newModulesListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List modules",
		Long:  "List the modules imported into the automation account",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			modules, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Module], error) {
				return client.Modules().List(ctx, scope, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list modules: %w", err)
			}

			err = render(cmd, modules, func(table *tablewriter.Table) {
				table.Header("Name", "Version", "Global", "Activities", "State")

				for _, module := range modules {
					_ = table.Append(module.Name, valueOr(module.Version), formatBool(module.IsGlobal),
						strconv.Itoa(module.ActivityCount), valueOr(module.ProvisioningState))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newModulesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get module details",
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

			module, err := client.Modules().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get module: %w", err)
			}

			return renderModule(cmd, module)
		},
	}
}

func newModulesCreateCommand() *cobra.Command {
	var contentLink string

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Import a module",
		Long:  "Import a module from a content link, for example a PowerShell Gallery package URL",
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

			module, err := client.Modules().Create(commandContext(cmd), scope, args[0], contentLink)
			if err != nil {
				return fmt.Errorf("failed to import module: %w", err)
			}

			success(cmd, "Module '%s' import started (state: %s)", module.Name, valueOr(module.ProvisioningState))

			return nil
		},
	}

	cmd.Flags().StringVar(&contentLink, "content-link", "", "URL of the module package (required)")
	_ = cmd.MarkFlagRequired("content-link")

	return cmd
}

func newModulesUpdateCommand() *cobra.Command {
	var (
		contentLink string
		version     string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a module",
		Long:  "Re-import a module from a new content link or replace its tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			parsedTags, err := parseTags(tags)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			module, err := client.Modules().Update(commandContext(cmd), scope, args[0], &automation.UpdateModuleRequest{
				ContentLink: contentLink,
				Version:     version,
				Tags:        parsedTags,
			})
			if err != nil {
				return fmt.Errorf("failed to update module: %w", err)
			}

			success(cmd, "Successfully updated module '%s'", module.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&contentLink, "content-link", "", "URL of the new module package")
	cmd.Flags().StringVar(&version, "content-version", "", "content version (generated when omitted)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag as KEY=VALUE (repeatable)")

	return cmd
}

func renderModule(cmd *cobra.Command, module *automation.Module) error {
	return renderProperties(cmd, module, [][2]string{
		{"Name", module.Name},
		{"Version", valueOr(module.Version)},
		{"Global", formatBool(module.IsGlobal)},
		{"Size", strconv.FormatInt(module.SizeInBytes, 10) + " bytes"},
		{"Activities", strconv.Itoa(module.ActivityCount)},
		{"State", valueOr(module.ProvisioningState)},
		{"Tags", formatMap(module.Tags)},
		{"Created", formatTime(module.CreationTime)},
		{"Last Modified", formatTime(module.LastModifiedTime)},
	})
}
