package commands

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewCertificatesCommand creates the certificates command group.
func NewCertificatesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "certificates",
		Aliases: []string{"certificate", "cert"},
		Short:   "Manage certificates",
		Long:    "Upload .pfx, .cer or PEM certificates for runbooks to use",
	}

	cmd.AddCommand(newCertificatesListCommand())
	cmd.AddCommand(newCertificatesGetCommand())
	cmd.AddCommand(newCertificatesCreateCommand())
	cmd.AddCommand(newCertificatesUpdateCommand())
	cmd.AddCommand(deleteCommand("certificate", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.Certificates().Delete(ctx, scope, name)
	}))

	return cmd
}

func newCertificatesListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List certificates",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			certificates, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Certificate], error) {
				return client.Certificates().List(ctx, scope, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list certificates: %w", err)
			}

			err = render(cmd, certificates, func(table *tablewriter.Table) {
				table.Header("Name", "Thumbprint", "Expires", "Exportable")

				for _, certificate := range certificates {
					_ = table.Append(certificate.Name, certificate.Thumbprint, formatTime(certificate.ExpiryTime), formatBool(certificate.IsExportable))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newCertificatesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get a certificate",
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

			certificate, err := client.Certificates().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get certificate: %w", err)
			}

			return renderProperties(cmd, certificate, [][2]string{
				{"Name", certificate.Name},
				{"Thumbprint", certificate.Thumbprint},
				{"Expires", formatTime(certificate.ExpiryTime)},
				{"Exportable", formatBool(certificate.IsExportable)},
				{"Description", valueOr(certificate.Description)},
				{"Created", formatTime(certificate.CreationTime)},
				{"Last Modified", formatTime(certificate.LastModifiedTime)},
			})
		},
	}
}

func newCertificatesCreateCommand() *cobra.Command {
	var (
		path        string
		password    string
		description string
		exportable  bool
		prompt      bool
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Upload a certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			if prompt {
				password, err = readSecret(cmd, password, "Certificate password")
				if err != nil {
					return err
				}
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			certificate, err := client.Certificates().Create(commandContext(cmd), scope, &automation.CreateCertificateRequest{
				Name:        args[0],
				Path:        path,
				Password:    password,
				Description: description,
				Exportable:  exportable,
			})
			if err != nil {
				return fmt.Errorf("failed to create certificate: %w", err)
			}

			success(cmd, "Successfully uploaded certificate '%s' (thumbprint %s)", certificate.Name, certificate.Thumbprint)

			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "certificate file (required)")
	cmd.Flags().StringVar(&password, "password", "", "password of a .pfx file")
	cmd.Flags().BoolVar(&prompt, "prompt-password", false, "prompt for the .pfx password")
	cmd.Flags().StringVar(&description, "description", "", "certificate description")
	cmd.Flags().BoolVar(&exportable, "exportable", false, "allow runbooks to export the private key")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newCertificatesUpdateCommand() *cobra.Command {
	var (
		path        string
		password    string
		description string
		exportable  bool
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a certificate",
		Long:  "Change the description, or replace the certificate with --path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			req := &automation.UpdateCertificateRequest{Path: path}
			if cmd.Flags().Changed("password") {
				req.Password = &password
			}

			if cmd.Flags().Changed("description") {
				req.Description = &description
			}

			if cmd.Flags().Changed("exportable") {
				req.Exportable = &exportable
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			certificate, err := client.Certificates().Update(commandContext(cmd), scope, args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update certificate: %w", err)
			}

			success(cmd, "Successfully updated certificate '%s'", certificate.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "replacement certificate file")
	cmd.Flags().StringVar(&password, "password", "", "password of the replacement .pfx file")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().BoolVar(&exportable, "exportable", false, "allow export of the replacement key")

	return cmd
}
