package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewRunbooksCommand creates the runbooks command group.
func NewRunbooksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "runbooks",
		Aliases: []string{"runbook", "rb"},
		Short:   "Manage runbooks",
		Long:    "Create, import, export, publish and start runbooks",
	}

	cmd.AddCommand(newRunbooksListCommand())
	cmd.AddCommand(newRunbooksGetCommand())
	cmd.AddCommand(newRunbooksCreateCommand())
	cmd.AddCommand(newRunbooksUpdateCommand())
	cmd.AddCommand(deleteCommand("runbook", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.Runbooks().Delete(ctx, scope, name)
	}))
	cmd.AddCommand(newRunbooksPublishCommand())
	cmd.AddCommand(newRunbooksContentCommand())
	cmd.AddCommand(newRunbooksSetDraftCommand())
	cmd.AddCommand(newRunbooksImportCommand())
	cmd.AddCommand(newRunbooksExportCommand())
	cmd.AddCommand(newRunbooksStartCommand())

	return cmd
}

func newRunbooksListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List runbooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			runbooks, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Runbook], error) {
				return client.Runbooks().List(ctx, scope, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list runbooks: %w", err)
			}

			err = render(cmd, runbooks, func(table *tablewriter.Table) {
				table.Header("Name", "Type", "State", "Jobs", "Description")

				for _, runbook := range runbooks {
					_ = table.Append(runbook.Name, string(runbook.Type), string(runbook.State),
						strconv.Itoa(runbook.JobCount), truncate(runbook.Description))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newRunbooksGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get runbook details",
		Long:  "Display a runbook including its declared parameters",
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

			runbook, err := client.Runbooks().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get runbook: %w", err)
			}

			return renderRunbook(cmd, runbook)
		},
	}
}

func newRunbooksCreateCommand() *cobra.Command {
	var (
		runbookType string
		description string
		tags        []string
		overwrite   bool
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create an empty runbook",
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

			runbook, err := client.Runbooks().Create(commandContext(cmd), scope, &automation.CreateRunbookRequest{
				Name:        args[0],
				Type:        automation.RunbookType(runbookType),
				Description: description,
				Tags:        parsedTags,
				LogProgress: boolFlag(cmd, "log-progress"),
				LogVerbose:  boolFlag(cmd, "log-verbose"),
				Overwrite:   overwrite,
			})
			if err != nil {
				return fmt.Errorf("failed to create runbook: %w", err)
			}

			success(cmd, "Successfully created runbook '%s'", runbook.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&runbookType, "type", "", "runbook type (default Script)")
	cmd.Flags().StringVar(&description, "description", "", "runbook description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag as KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing runbook")
	addLogFlags(cmd)

	return cmd
}

func newRunbooksUpdateCommand() *cobra.Command {
	var (
		description string
		tags        []string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update runbook properties",
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

			req := &automation.UpdateRunbookRequest{
				Tags:        parsedTags,
				LogProgress: boolFlag(cmd, "log-progress"),
				LogVerbose:  boolFlag(cmd, "log-verbose"),
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			runbook, err := client.Runbooks().Update(commandContext(cmd), scope, args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update runbook: %w", err)
			}

			success(cmd, "Successfully updated runbook '%s'", runbook.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "runbook description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag as KEY=VALUE (repeatable)")
	addLogFlags(cmd)

	return cmd
}

func newRunbooksPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish NAME",
		Short: "Publish the runbook draft",
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

			runbook, err := client.Runbooks().Publish(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to publish runbook: %w", err)
			}

			success(cmd, "Successfully published runbook '%s' (state: %s)", runbook.Name, runbook.State)

			return nil
		},
	}
}

func newRunbooksContentCommand() *cobra.Command {
	var slot string

	cmd := &cobra.Command{
		Use:   "content NAME",
		Short: "Print runbook content",
		Long:  "Print the published or draft content. Without --slot the published content is preferred",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			contentSlot, err := parseSlot(slot)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			content, err := client.Runbooks().GetContent(commandContext(cmd), scope, args[0], contentSlot)
			if err != nil {
				return fmt.Errorf("failed to get runbook content: %w", err)
			}

			if !isTable() {
				return render(cmd, content, nil)
			}

			_, err = io.WriteString(cmd.OutOrStdout(), content.Content)

			return err
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "", "published or draft")

	return cmd
}

func newRunbooksSetDraftCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "set-draft NAME",
		Short: "Replace the runbook draft",
		Long:  "Upload new draft content from --file, or from stdin when --file is -",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			var reader io.Reader = cmd.InOrStdin()

			if file != "-" {
				// #nosec G304 -- the user names the file to upload
				handle, err := os.Open(file)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", file, err)
				}
				defer handle.Close()

				reader = handle
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = client.Runbooks().SetDraftContent(commandContext(cmd), scope, args[0], reader)
			if err != nil {
				return fmt.Errorf("failed to set runbook draft: %w", err)
			}

			success(cmd, "Successfully updated draft of runbook '%s'", args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "-", "content file, - for stdin")

	return cmd
}

func newRunbooksImportCommand() *cobra.Command {
	var (
		name        string
		runbookType string
		description string
		tags        []string
		published   bool
		overwrite   bool
	)

	cmd := &cobra.Command{
		Use:   "import PATH",
		Short: "Import a runbook from a file",
		Long:  "Create a runbook from a .ps1, .graphrunbook or .py file and optionally publish it",
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

			runbook, err := client.Runbooks().Import(commandContext(cmd), scope, &automation.ImportRunbookRequest{
				Path:        args[0],
				Name:        name,
				Type:        automation.RunbookType(runbookType),
				Description: description,
				Tags:        parsedTags,
				LogProgress: boolFlag(cmd, "log-progress"),
				LogVerbose:  boolFlag(cmd, "log-verbose"),
				Published:   published,
				Overwrite:   overwrite,
			})
			if err != nil {
				return fmt.Errorf("failed to import runbook: %w", err)
			}

			success(cmd, "Successfully imported runbook '%s' (state: %s)", runbook.Name, runbook.State)

			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "runbook name (default: file base name)")
	cmd.Flags().StringVar(&runbookType, "type", "", "runbook type")
	cmd.Flags().StringVar(&description, "description", "", "runbook description")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag as KEY=VALUE (repeatable)")
	cmd.Flags().BoolVar(&published, "published", false, "publish after import")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing runbook")
	addLogFlags(cmd)

	return cmd
}

func newRunbooksExportCommand() *cobra.Command {
	var (
		slot      string
		output    string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Export a runbook to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			contentSlot, err := parseSlot(slot)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			path, err := client.Runbooks().Export(commandContext(cmd), scope, args[0], &automation.ExportRunbookRequest{
				Slot:         contentSlot,
				OutputFolder: output,
				Overwrite:    overwrite,
			})
			if err != nil {
				return fmt.Errorf("failed to export runbook: %w", err)
			}

			success(cmd, "Exported runbook '%s' to %s", args[0], path)

			return nil
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "", "published or draft (default: published, falling back to draft)")
	cmd.Flags().StringVarP(&output, "output-folder", "d", ".", "folder to write the file to")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace an existing file")

	return cmd
}

func newRunbooksStartCommand() *cobra.Command {
	var (
		params []string
		runOn  string
	)

	cmd := &cobra.Command{
		Use:   "start NAME",
		Short: "Start a runbook job",
		Long:  "Start a job of the published runbook. Parameters are KEY=VALUE, values that parse as JSON keep their type",
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

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			job, err := client.Runbooks().Start(commandContext(cmd), scope, args[0], &automation.StartRunbookRequest{
				Parameters: parameters,
				RunOn:      runOn,
			})
			if err != nil {
				return fmt.Errorf("failed to start runbook: %w", err)
			}

			success(cmd, "Started job %s for runbook '%s'", job.ID, args[0])

			return renderJob(cmd, job)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&runOn, "run-on", "", "hybrid worker group to run on")

	return cmd
}

func addLogFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("log-progress", false, "log progress records")
	cmd.Flags().Bool("log-verbose", false, "log verbose records")
}

// boolFlag returns a pointer to the flag value when it was set explicitly.
func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}

	value, _ := cmd.Flags().GetBool(name)

	return &value
}

func parseSlot(value string) (automation.ContentSlot, error) {
	switch strings.ToLower(value) {
	case "", "any":
		return automation.SlotAny, nil
	case "draft":
		return automation.SlotDraft, nil
	case "published":
		return automation.SlotPublished, nil
	default:
		return "", &automation.InvalidArgumentError{Argument: "slot", Reason: fmt.Sprintf("unknown content slot %q", value)}
	}
}

func renderRunbook(cmd *cobra.Command, runbook *automation.Runbook) error {
	rows := [][2]string{
		{"Name", runbook.Name},
		{"Type", string(runbook.Type)},
		{"State", string(runbook.State)},
		{"Description", valueOr(runbook.Description)},
		{"Log Progress", formatBool(runbook.LogProgress)},
		{"Log Verbose", formatBool(runbook.LogVerbose)},
		{"Jobs", strconv.Itoa(runbook.JobCount)},
		{"Tags", formatMap(runbook.Tags)},
		{"Created", formatTime(runbook.CreationTime)},
		{"Last Modified", formatTime(runbook.LastModifiedTime)},
	}

	names := make([]string, 0, len(runbook.Parameters))
	for name := range runbook.Parameters {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool {
		return runbook.Parameters[names[i]].Position < runbook.Parameters[names[j]].Position
	})

	for _, name := range names {
		param := runbook.Parameters[name]

		description := param.Type
		if param.IsMandatory {
			description += " (mandatory)"
		}

		if param.DefaultValue != "" {
			description += " = " + param.DefaultValue
		}

		rows = append(rows, [2]string{"Parameter " + name, description})
	}

	return renderProperties(cmd, runbook, rows)
}
