package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewVariablesCommand creates the variables command group.
func NewVariablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "variables",
		Aliases: []string{"variable", "var"},
		Short:   "Manage variables",
		Long:    "Create, read, update and delete automation variables. Values are stored as JSON",
	}

	cmd.AddCommand(newVariablesListCommand())
	cmd.AddCommand(newVariablesGetCommand())
	cmd.AddCommand(newVariablesCreateCommand())
	cmd.AddCommand(newVariablesUpdateCommand())
	cmd.AddCommand(deleteCommand("variable", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.Variables().Delete(ctx, scope, name)
	}))

	return cmd
}

func newVariablesListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			variables, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Variable], error) {
				return client.Variables().List(ctx, scope, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list variables: %w", err)
			}

			err = render(cmd, variables, func(table *tablewriter.Table) {
				table.Header("Name", "Value", "Encrypted", "Description")

				for _, variable := range variables {
					_ = table.Append(variable.Name, variableDisplayValue(&variable), formatBool(variable.Encrypted), truncate(variable.Description))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newVariablesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get a variable",
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

			variable, err := client.Variables().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get variable: %w", err)
			}

			return renderProperties(cmd, variable, [][2]string{
				{"Name", variable.Name},
				{"Value", variableDisplayValue(variable)},
				{"Encrypted", formatBool(variable.Encrypted)},
				{"Description", valueOr(variable.Description)},
				{"Created", formatTime(variable.CreationTime)},
				{"Last Modified", formatTime(variable.LastModifiedTime)},
			})
		},
	}
}

func newVariablesCreateCommand() *cobra.Command {
	var (
		value       string
		encrypted   bool
		description string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a variable",
		Long:  "Create a variable. A value that parses as JSON keeps its JSON type, anything else is stored as a string",
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

			variable, err := client.Variables().Create(commandContext(cmd), scope, &automation.CreateVariableRequest{
				Name:        args[0],
				Value:       variableValue(cmd, value),
				Encrypted:   encrypted,
				Description: description,
			})
			if err != nil {
				return fmt.Errorf("failed to create variable: %w", err)
			}

			success(cmd, "Successfully created variable '%s'", variable.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "variable value")
	cmd.Flags().BoolVar(&encrypted, "encrypted", false, "store the value encrypted")
	cmd.Flags().StringVar(&description, "description", "", "variable description")

	return cmd
}

func newVariablesUpdateCommand() *cobra.Command {
	var (
		value       string
		encrypted   bool
		description string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a variable",
		Long:  "Update either the value (--value) or the description (--description) of a variable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			req := &automation.UpdateVariableRequest{Name: args[0], Encrypted: encrypted}

			switch {
			case cmd.Flags().Changed("value"):
				req.Mode = automation.VariableUpdateValue
				req.Value = variableValue(cmd, value)
			case cmd.Flags().Changed("description"):
				req.Mode = automation.VariableUpdateDescription
				req.Description = description
			default:
				return &automation.InvalidArgumentError{Argument: "value", Reason: "one of --value or --description is required"}
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			variable, err := client.Variables().Update(commandContext(cmd), scope, req)
			if err != nil {
				return fmt.Errorf("failed to update variable: %w", err)
			}

			success(cmd, "Successfully updated variable '%s'", variable.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&value, "value", "", "new value")
	cmd.Flags().BoolVar(&encrypted, "encrypted", false, "the variable is encrypted")
	cmd.Flags().StringVar(&description, "description", "", "new description")

	return cmd
}

// variableValue decodes JSON input and falls back to the raw string.
func variableValue(cmd *cobra.Command, value string) any {
	if !cmd.Flags().Changed("value") {
		return nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err == nil {
		return decoded
	}

	return value
}

func variableDisplayValue(variable *automation.Variable) string {
	if variable.Encrypted {
		return constants.MaskedSecret
	}

	return truncate(variable.Value)
}
