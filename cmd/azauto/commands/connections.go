package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewConnectionsCommand creates the connections command group.
func NewConnectionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connections",
		Aliases: []string{"connection", "conn"},
		Short:   "Manage connections",
		Long:    "Create and inspect typed connection assets",
	}

	cmd.AddCommand(newConnectionsListCommand())
	cmd.AddCommand(newConnectionsGetCommand())
	cmd.AddCommand(newConnectionsCreateCommand())
	cmd.AddCommand(newConnectionsSetFieldCommand())
	cmd.AddCommand(deleteCommand("connection", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.Connections().Delete(ctx, scope, name)
	}))

	return cmd
}

func newConnectionsListCommand() *cobra.Command {
	var typeName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var (
				connections []automation.Connection
				hasMore     bool
			)

			if typeName != "" {
				connections, err = client.Connections().ListByType(commandContext(cmd), scope, typeName)
			} else {
				connections, hasMore, err = collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Connection], error) {
					return client.Connections().List(ctx, scope, cursor)
				})
			}

			if err != nil {
				return fmt.Errorf("failed to list connections: %w", err)
			}

			err = render(cmd, connections, func(table *tablewriter.Table) {
				table.Header("Name", "Type", "Description")

				for _, connection := range connections {
					_ = table.Append(connection.Name, connection.ConnectionTypeName, truncate(connection.Description))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "only connections of this connection type (all pages)")
	addListFlags(cmd)

	return cmd
}

func newConnectionsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get a connection",
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

			connection, err := client.Connections().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get connection: %w", err)
			}

			rows := [][2]string{
				{"Name", connection.Name},
				{"Type", connection.ConnectionTypeName},
				{"Description", valueOr(connection.Description)},
				{"Created", formatTime(connection.CreationTime)},
				{"Last Modified", formatTime(connection.LastModifiedTime)},
			}

			fields := make([]string, 0, len(connection.FieldValues))
			for field := range connection.FieldValues {
				fields = append(fields, field)
			}

			sort.Strings(fields)

			for _, field := range fields {
				rows = append(rows, [2]string{"Field " + field, connection.FieldValues[field]})
			}

			return renderProperties(cmd, connection, rows)
		},
	}
}

func newConnectionsCreateCommand() *cobra.Command {
	var (
		typeName    string
		fields      []string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			values := make(map[string]string, len(fields))

			for _, pair := range fields {
				key, value, ok := strings.Cut(pair, "=")
				if !ok || key == "" {
					return fmt.Errorf("%w: %s", ErrInvalidParameterFormat, pair)
				}

				values[key] = value
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			connection, err := client.Connections().Create(commandContext(cmd), scope, &automation.CreateConnectionRequest{
				Name:               args[0],
				ConnectionTypeName: typeName,
				FieldValues:        values,
				Description:        description,
			})
			if err != nil {
				return fmt.Errorf("failed to create connection: %w", err)
			}

			success(cmd, "Successfully created connection '%s'", connection.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "connection type name (required)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "field value as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&description, "description", "", "connection description")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newConnectionsSetFieldCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-field NAME FIELD VALUE",
		Short: "Update one connection field",
		Long:  "Update one field value of a connection. A value that parses as JSON is stored in its JSON form",
		Args:  cobra.ExactArgs(3), //nolint:mnd // name, field and value
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			var value any = args[2]

			var decoded any
			if err := json.Unmarshal([]byte(args[2]), &decoded); err == nil {
				value = decoded
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			_, err = client.Connections().UpdateFieldValue(commandContext(cmd), scope, args[0], args[1], value)
			if err != nil {
				return fmt.Errorf("failed to update connection field: %w", err)
			}

			success(cmd, "Successfully updated field '%s' of connection '%s'", args[1], args[0])

			return nil
		},
	}
}

// NewConnectionTypesCommand creates the connection-types command group.
func NewConnectionTypesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connection-types",
		Aliases: []string{"connection-type", "ctype"},
		Short:   "Manage connection types",
		Long:    "Define the field layout of connections",
	}

	cmd.AddCommand(newConnectionTypesListCommand())
	cmd.AddCommand(newConnectionTypesGetCommand())
	cmd.AddCommand(newConnectionTypesCreateCommand())
	cmd.AddCommand(deleteCommand("connection type", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.ConnectionTypes().Delete(ctx, scope, name)
	}))

	return cmd
}

func newConnectionTypesListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List connection types",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			types, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.ConnectionType], error) {
				return client.ConnectionTypes().List(ctx, scope, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list connection types: %w", err)
			}

			err = render(cmd, types, func(table *tablewriter.Table) {
				table.Header("Name", "Global", "Fields")

				for _, connectionType := range types {
					_ = table.Append(connectionType.Name, formatBool(connectionType.IsGlobal), fieldNames(connectionType.FieldDefinitions))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newConnectionTypesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get a connection type",
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

			connectionType, err := client.ConnectionTypes().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get connection type: %w", err)
			}

			return render(cmd, connectionType, func(table *tablewriter.Table) {
				table.Header("Field", "Type", "Encrypted", "Optional")

				for _, name := range sortedFieldNames(connectionType.FieldDefinitions) {
					definition := connectionType.FieldDefinitions[name]
					_ = table.Append(name, definition.Type, formatBool(definition.IsEncrypted), formatBool(definition.IsOptional))
				}
			})
		},
	}
}

func newConnectionTypesCreateCommand() *cobra.Command {
	var (
		fields    []string
		encrypted []string
		optional  []string
		global    bool
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a connection type",
		Long:  "Create a connection type. Fields are NAME=TYPE, for example --field Host=System.String",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			definitions, err := parseFieldDefinitions(fields, encrypted, optional)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			connectionType, err := client.ConnectionTypes().Create(commandContext(cmd), scope, &automation.CreateConnectionTypeRequest{
				Name:             args[0],
				IsGlobal:         global,
				FieldDefinitions: definitions,
			})
			if err != nil {
				return fmt.Errorf("failed to create connection type: %w", err)
			}

			success(cmd, "Successfully created connection type '%s'", connectionType.Name)

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&fields, "field", nil, "field as NAME=TYPE (repeatable)")
	cmd.Flags().StringSliceVar(&encrypted, "encrypted", nil, "names of encrypted fields")
	cmd.Flags().StringSliceVar(&optional, "optional", nil, "names of optional fields")
	cmd.Flags().BoolVar(&global, "global", false, "make the type global")

	return cmd
}

func parseFieldDefinitions(fields, encrypted, optional []string) (map[string]automation.FieldDefinition, error) {
	definitions := make(map[string]automation.FieldDefinition, len(fields))

	for _, pair := range fields {
		name, fieldType, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidParameterFormat, pair)
		}

		definitions[name] = automation.FieldDefinition{Type: fieldType}
	}

	for _, name := range encrypted {
		definition := definitions[name]
		definition.IsEncrypted = true
		definitions[name] = definition
	}

	for _, name := range optional {
		definition := definitions[name]
		definition.IsOptional = true
		definitions[name] = definition
	}

	return definitions, nil
}

func sortedFieldNames(definitions map[string]automation.FieldDefinition) []string {
	names := make([]string, 0, len(definitions))
	for name := range definitions {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func fieldNames(definitions map[string]automation.FieldDefinition) string {
	return strings.Join(sortedFieldNames(definitions), ", ")
}
