package commands

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewAccountsCommand creates the accounts command group.
func NewAccountsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account", "acct"},
		Short:   "Manage automation accounts",
		Long:    "Create, list, update and delete Azure Automation accounts",
	}

	cmd.AddCommand(newAccountsListCommand())
	cmd.AddCommand(newAccountsGetCommand())
	cmd.AddCommand(newAccountsCreateCommand())
	cmd.AddCommand(newAccountsUpdateCommand())
	cmd.AddCommand(newAccountsDeleteCommand())

	return cmd
}

func newAccountsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List automation accounts",
		Long:  "List the accounts of the resource group, or of the subscription when no resource group is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			resourceGroup := viper.GetString("resource_group")

			accounts, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Account], error) {
				return client.Accounts().List(ctx, resourceGroup, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			err = render(cmd, accounts, func(table *tablewriter.Table) {
				table.Header("Name", "Resource Group", "Location", "Plan", "State")

				for _, account := range accounts {
					_ = table.Append(account.Name, account.ResourceGroup, account.Location, valueOr(account.Plan), valueOr(account.State))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newAccountsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get account details",
		Long:  "Display detailed information about an automation account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resourceGroup := viper.GetString("resource_group")
			if resourceGroup == "" {
				return ErrResourceGroupRequired
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			account, err := client.Accounts().Get(commandContext(cmd), resourceGroup, args[0])
			if err != nil {
				return fmt.Errorf("failed to get account: %w", err)
			}

			return renderAccount(cmd, account)
		},
	}
}

func newAccountsCreateCommand() *cobra.Command {
	var (
		location string
		plan     string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an automation account",
		Long:  "Create an automation account in the resource group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resourceGroup := viper.GetString("resource_group")
			if resourceGroup == "" {
				return ErrResourceGroupRequired
			}

			parsedTags, err := parseTags(tags)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			account, err := client.Accounts().Create(commandContext(cmd), resourceGroup, &automation.CreateAccountRequest{
				Name:     args[0],
				Location: location,
				Plan:     plan,
				Tags:     parsedTags,
			})
			if err != nil {
				return fmt.Errorf("failed to create account: %w", err)
			}

			success(cmd, "Successfully created account '%s'", account.Name)

			return renderAccount(cmd, account)
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Azure region (required)")
	cmd.Flags().StringVar(&plan, "plan", "", "SKU name (Free or Basic)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag as KEY=VALUE (repeatable)")
	_ = cmd.MarkFlagRequired("location")

	return cmd
}

func newAccountsUpdateCommand() *cobra.Command {
	var (
		plan string
		tags []string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update an automation account",
		Long:  "Change the plan or tags of an automation account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resourceGroup := viper.GetString("resource_group")
			if resourceGroup == "" {
				return ErrResourceGroupRequired
			}

			req := &automation.UpdateAccountRequest{}
			if cmd.Flags().Changed("plan") {
				req.Plan = &plan
			}

			parsedTags, err := parseTags(tags)
			if err != nil {
				return err
			}

			req.Tags = parsedTags

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			account, err := client.Accounts().Update(commandContext(cmd), resourceGroup, args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update account: %w", err)
			}

			success(cmd, "Successfully updated account '%s'", account.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&plan, "plan", "", "SKU name (Free or Basic)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "replace tags with KEY=VALUE pairs (repeatable)")

	return cmd
}

func newAccountsDeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an automation account",
		Long:  "Delete an automation account and everything it contains",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resourceGroup := viper.GetString("resource_group")
			if resourceGroup == "" {
				return ErrResourceGroupRequired
			}

			force, _ := cmd.Flags().GetBool(flagForce)
			if !confirm(cmd, force, fmt.Sprintf("Really delete account '%s' and all its contents?", args[0])) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

				return nil
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.Accounts().Delete(commandContext(cmd), resourceGroup, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}

			success(cmd, "Successfully deleted account '%s'", args[0])

			return nil
		},
	}

	addForceFlag(cmd)

	return cmd
}

func renderAccount(cmd *cobra.Command, account *automation.Account) error {
	return renderProperties(cmd, account, [][2]string{
		{"Name", account.Name},
		{"Resource Group", account.ResourceGroup},
		{"Location", account.Location},
		{"Plan", valueOr(account.Plan)},
		{"State", valueOr(account.State)},
		{"Tags", formatMap(account.Tags)},
		{"Created", formatTime(account.CreationTime)},
		{"Last Modified", formatTime(account.LastModifiedTime)},
	})
}
