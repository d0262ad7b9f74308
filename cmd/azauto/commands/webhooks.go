package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

const defaultWebhookLifetime = 365 * 24 * time.Hour

// NewWebhooksCommand creates the webhooks command group.
func NewWebhooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook", "wh"},
		Short:   "Manage runbook webhooks",
		Long:    "Create, list, update and delete webhooks that start runbooks over HTTP",
	}

	cmd.AddCommand(newWebhooksListCommand())
	cmd.AddCommand(newWebhooksGetCommand())
	cmd.AddCommand(newWebhooksCreateCommand())
	cmd.AddCommand(newWebhooksUpdateCommand())
	cmd.AddCommand(deleteCommand("webhook", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.Webhooks().Delete(ctx, scope, name)
	}))

	return cmd
}

func newWebhooksListCommand() *cobra.Command {
	var runbook string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			webhooks, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Webhook], error) {
				return client.Webhooks().List(ctx, scope, runbook, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list webhooks: %w", err)
			}

			err = render(cmd, webhooks, func(table *tablewriter.Table) {
				table.Header("Name", "Runbook", "Enabled", "Expires", "Last Invoked")

				for _, webhook := range webhooks {
					_ = table.Append(webhook.Name, webhook.RunbookName, formatBool(webhook.IsEnabled),
						formatTime(webhook.ExpiryTime), formatTime(webhook.LastInvokedTime))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	cmd.Flags().StringVar(&runbook, "runbook", "", "only webhooks of this runbook")
	addListFlags(cmd)

	return cmd
}

func newWebhooksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get a webhook",
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

			webhook, err := client.Webhooks().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get webhook: %w", err)
			}

			return renderWebhook(cmd, webhook)
		},
	}
}

func newWebhooksCreateCommand() *cobra.Command {
	var (
		runbook  string
		disabled bool
		expiry   string
		params   []string
		runOn    string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a webhook",
		Long:  "Create a webhook for a runbook. The URI is only shown once, store it safely",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			expiryTime := time.Now().Add(defaultWebhookLifetime)
			if expiry != "" {
				expiryTime, err = time.Parse(time.RFC3339, expiry)
				if err != nil {
					return fmt.Errorf("invalid --expiry: %w", err)
				}
			}

			parameters, err := parseParameters(params)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			webhook, err := client.Webhooks().Create(commandContext(cmd), scope, &automation.CreateWebhookRequest{
				Name:        args[0],
				RunbookName: runbook,
				IsEnabled:   !disabled,
				ExpiryTime:  expiryTime,
				Parameters:  parameters,
				RunOn:       runOn,
			})
			if err != nil {
				return fmt.Errorf("failed to create webhook: %w", err)
			}

			success(cmd, "Successfully created webhook '%s'", webhook.Name)
			warn(cmd.ErrOrStderr(), "The webhook URI cannot be retrieved again")

			return renderWebhook(cmd, webhook)
		},
	}

	cmd.Flags().StringVar(&runbook, "runbook", "", "runbook to start (required)")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the webhook disabled")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry time, RFC 3339 (default: one year)")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&runOn, "run-on", "", "hybrid worker group to run on")
	_ = cmd.MarkFlagRequired("runbook")

	return cmd
}

func newWebhooksUpdateCommand() *cobra.Command {
	var (
		enabled bool
		params  []string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a webhook",
		Long:  "Enable or disable a webhook or replace its parameters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			parameters, err := parseParameters(params)
			if err != nil {
				return err
			}

			req := &automation.UpdateWebhookRequest{Parameters: parameters}
			if cmd.Flags().Changed("enabled") {
				req.IsEnabled = &enabled
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			webhook, err := client.Webhooks().Update(commandContext(cmd), scope, args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update webhook: %w", err)
			}

			success(cmd, "Successfully updated webhook '%s'", webhook.Name)

			return nil
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", true, "enable or disable the webhook")
	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter as KEY=VALUE (repeatable)")

	return cmd
}

func renderWebhook(cmd *cobra.Command, webhook *automation.Webhook) error {
	return renderProperties(cmd, webhook, [][2]string{
		{"Name", webhook.Name},
		{"Runbook", webhook.RunbookName},
		{"Enabled", formatBool(webhook.IsEnabled)},
		{"URI", valueOr(webhook.URI)},
		{"Expires", formatTime(webhook.ExpiryTime)},
		{"Last Invoked", formatTime(webhook.LastInvokedTime)},
		{"Run On", valueOr(webhook.RunOn)},
		{"Parameters", formatMap(webhook.Parameters)},
		{"Created", formatTime(webhook.CreationTime)},
	})
}
