package commands

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewCredentialsCommand creates the credentials command group.
func NewCredentialsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "credentials",
		Aliases: []string{"credential", "cred"},
		Short:   "Manage credentials",
		Long:    "Store user name and password pairs for runbooks. Passwords are never displayed",
	}

	cmd.AddCommand(newCredentialsListCommand())
	cmd.AddCommand(newCredentialsGetCommand())
	cmd.AddCommand(newCredentialsCreateCommand())
	cmd.AddCommand(newCredentialsUpdateCommand())
	cmd.AddCommand(deleteCommand("credential", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.Credentials().Delete(ctx, scope, name)
	}))

	return cmd
}

func newCredentialsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			credentials, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Credential], error) {
				return client.Credentials().List(ctx, scope, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list credentials: %w", err)
			}

			err = render(cmd, credentials, func(table *tablewriter.Table) {
				table.Header("Name", "User Name", "Description")

				for _, credential := range credentials {
					_ = table.Append(credential.Name, credential.UserName, truncate(credential.Description))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newCredentialsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get a credential",
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

			credential, err := client.Credentials().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get credential: %w", err)
			}

			return renderProperties(cmd, credential, [][2]string{
				{"Name", credential.Name},
				{"User Name", credential.UserName},
				{"Description", valueOr(credential.Description)},
				{"Created", formatTime(credential.CreationTime)},
				{"Last Modified", formatTime(credential.LastModifiedTime)},
			})
		},
	}
}

func newCredentialsCreateCommand() *cobra.Command {
	var (
		userName    string
		password    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a credential",
		Long:  "Create a credential. The password is prompted for when --password is omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			secret, err := readSecret(cmd, password, "Password")
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			credential, err := client.Credentials().Create(commandContext(cmd), scope, &automation.CreateCredentialRequest{
				Name:        args[0],
				UserName:    userName,
				Password:    secret,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to create credential: %w", err)
			}

			success(cmd, "Successfully created credential '%s'", credential.Name)

			return nil
		},
	}

	cmd.Flags().StringVarP(&userName, "username", "u", "", "user name (required)")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&description, "description", "", "credential description")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func newCredentialsUpdateCommand() *cobra.Command {
	var (
		userName      string
		password      string
		description   string
		promptForPass bool
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			req := &automation.UpdateCredentialRequest{}
			if cmd.Flags().Changed("username") {
				req.UserName = &userName
			}

			if cmd.Flags().Changed("description") {
				req.Description = &description
			}

			if cmd.Flags().Changed("password") || promptForPass {
				secret, err := readSecret(cmd, password, "Password")
				if err != nil {
					return err
				}

				req.Password = &secret
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			credential, err := client.Credentials().Update(commandContext(cmd), scope, args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update credential: %w", err)
			}

			success(cmd, "Successfully updated credential '%s'", credential.Name)

			return nil
		},
	}

	cmd.Flags().StringVarP(&userName, "username", "u", "", "new user name")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().BoolVar(&promptForPass, "prompt-password", false, "prompt for a new password")
	cmd.Flags().StringVar(&description, "description", "", "new description")

	return cmd
}
