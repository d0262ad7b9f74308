package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewSourceControlsCommand creates the source-controls command group.
func NewSourceControlsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "source-controls",
		Aliases: []string{"source-control", "sc"},
		Short:   "Manage source control links",
		Long:    "Link an automation account to a GitHub or Azure DevOps repository",
	}

	cmd.AddCommand(newSourceControlsListCommand())
	cmd.AddCommand(newSourceControlsGetCommand())
	cmd.AddCommand(newSourceControlsCreateCommand())
	cmd.AddCommand(newSourceControlsUpdateCommand())
	cmd.AddCommand(deleteCommand("source control", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.SourceControls().Delete(ctx, scope, name)
	}))

	return cmd
}

func newSourceControlsListCommand() *cobra.Command {
	var sourceType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List source controls",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			filter := parseSourceType(sourceType)

			sourceControls, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.SourceControl], error) {
				return client.SourceControls().List(ctx, scope, filter, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list source controls: %w", err)
			}

			err = render(cmd, sourceControls, func(table *tablewriter.Table) {
				table.Header("Name", "Type", "Repository", "Branch", "Folder", "Auto Sync")

				for _, sourceControl := range sourceControls {
					_ = table.Append(sourceControl.Name, string(sourceControl.SourceType), sourceControl.RepoURL,
						valueOr(sourceControl.Branch), sourceControl.FolderPath, formatBool(sourceControl.AutoSync))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	cmd.Flags().StringVar(&sourceType, "type", "", "only GitHub, VsoGit or VsoTfvc links")
	addListFlags(cmd)

	return cmd
}

func newSourceControlsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get a source control link",
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

			sourceControl, err := client.SourceControls().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get source control: %w", err)
			}

			return renderProperties(cmd, sourceControl, [][2]string{
				{"Name", sourceControl.Name},
				{"Type", string(sourceControl.SourceType)},
				{"Repository", sourceControl.RepoURL},
				{"Branch", valueOr(sourceControl.Branch)},
				{"Folder", sourceControl.FolderPath},
				{"Auto Sync", formatBool(sourceControl.AutoSync)},
				{"Publish Runbooks", formatBool(sourceControl.PublishRunbook)},
				{"Description", valueOr(sourceControl.Description)},
				{"Created", formatTime(sourceControl.CreationTime)},
				{"Last Modified", formatTime(sourceControl.LastModifiedTime)},
			})
		},
	}
}

func newSourceControlsCreateCommand() *cobra.Command {
	var (
		repoURL        string
		branch         string
		folder         string
		token          string
		sourceType     string
		autoSync       bool
		publishRunbook bool
		description    string
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Link a repository",
		Long:  "Link a repository. The personal access token is prompted for when --access-token is omitted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			accessToken, err := readSecret(cmd, token, "Personal access token")
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			sourceControl, err := client.SourceControls().Create(commandContext(cmd), scope, &automation.CreateSourceControlRequest{
				Name:           args[0],
				RepoURL:        repoURL,
				Branch:         branch,
				FolderPath:     folder,
				AccessToken:    accessToken,
				SourceType:     parseSourceType(sourceType),
				AutoSync:       autoSync,
				PublishRunbook: publishRunbook,
				Description:    description,
			})
			if err != nil {
				return fmt.Errorf("failed to create source control: %w", err)
			}

			success(cmd, "Successfully linked '%s' to %s", sourceControl.Name, sourceControl.RepoURL)

			return nil
		},
	}

	cmd.Flags().StringVar(&repoURL, "repo-url", "", "repository URL (required)")
	cmd.Flags().StringVar(&branch, "branch", "", "branch (required for GitHub and VsoGit)")
	cmd.Flags().StringVar(&folder, "folder", "/", "folder holding the runbooks")
	cmd.Flags().StringVar(&token, "access-token", "", "personal access token")
	cmd.Flags().StringVar(&sourceType, "type", string(automation.SourceTypeGitHub), "GitHub, VsoGit or VsoTfvc")
	cmd.Flags().BoolVar(&autoSync, "auto-sync", false, "sync on every commit")
	cmd.Flags().BoolVar(&publishRunbook, "publish-runbook", true, "publish synced runbooks")
	cmd.Flags().StringVar(&description, "description", "", "description")
	_ = cmd.MarkFlagRequired("repo-url")

	return cmd
}

func newSourceControlsUpdateCommand() *cobra.Command {
	var (
		branch      string
		folder      string
		token       string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a source control link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			req := &automation.UpdateSourceControlRequest{
				Branch:         branch,
				FolderPath:     folder,
				AccessToken:    token,
				AutoSync:       boolFlag(cmd, "auto-sync"),
				PublishRunbook: boolFlag(cmd, "publish-runbook"),
				Description:    description,
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			sourceControl, err := client.SourceControls().Update(commandContext(cmd), scope, args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update source control: %w", err)
			}

			success(cmd, "Successfully updated source control '%s'", sourceControl.Name)

			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "new branch")
	cmd.Flags().StringVar(&folder, "folder", "", "new folder")
	cmd.Flags().StringVar(&token, "access-token", "", "new personal access token")
	cmd.Flags().Bool("auto-sync", false, "sync on every commit")
	cmd.Flags().Bool("publish-runbook", false, "publish synced runbooks")
	cmd.Flags().StringVar(&description, "description", "", "new description")

	return cmd
}

// NewSyncJobsCommand creates the sync-jobs command group.
func NewSyncJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync-jobs",
		Aliases: []string{"sync-job", "sync"},
		Short:   "Manage source control sync jobs",
		Long:    "Start source control synchronisation and inspect its runs",
	}

	cmd.AddCommand(newSyncJobsStartCommand())
	cmd.AddCommand(newSyncJobsListCommand())
	cmd.AddCommand(newSyncJobsGetCommand())
	cmd.AddCommand(newSyncJobsStreamsCommand())
	cmd.AddCommand(newSyncJobsStreamCommand())

	return cmd
}

func newSyncJobsStartCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "start SOURCE_CONTROL",
		Short: "Start a sync job",
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

			syncJob, err := client.SourceControlSyncJobs().Start(commandContext(cmd), scope, args[0], id)
			if err != nil {
				return fmt.Errorf("failed to start sync job: %w", err)
			}

			success(cmd, "Started sync job %s for '%s'", syncJob.SyncJobID, args[0])

			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "sync job id (generated when omitted)")

	return cmd
}

func newSyncJobsListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list SOURCE_CONTROL",
		Short: "List sync jobs",
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

			syncJobs, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.SourceControlSyncJob], error) {
				return client.SourceControlSyncJobs().List(ctx, scope, args[0], cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list sync jobs: %w", err)
			}

			err = render(cmd, syncJobs, func(table *tablewriter.Table) {
				table.Header("ID", "State", "Type", "Started", "Ended")

				for _, syncJob := range syncJobs {
					_ = table.Append(syncJob.SyncJobID, syncJob.ProvisioningState, valueOr(string(syncJob.SyncType)),
						formatTime(syncJob.StartTime), formatTime(syncJob.EndTime))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newSyncJobsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get SOURCE_CONTROL SYNC_JOB_ID",
		Short: "Get a sync job",
		Args:  cobra.ExactArgs(2), //nolint:mnd // source control and id
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			syncJob, err := client.SourceControlSyncJobs().Get(commandContext(cmd), scope, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get sync job: %w", err)
			}

			return renderProperties(cmd, syncJob, [][2]string{
				{"ID", syncJob.SyncJobID},
				{"Source Control", syncJob.SourceControlName},
				{"State", syncJob.ProvisioningState},
				{"Type", valueOr(string(syncJob.SyncType))},
				{"Created", formatTime(syncJob.CreationTime)},
				{"Started", formatTime(syncJob.StartTime)},
				{"Ended", formatTime(syncJob.EndTime)},
				{"Exception", valueOr(syncJob.Exception)},
			})
		},
	}
}

func newSyncJobsStreamsCommand() *cobra.Command {
	var streamType string

	cmd := &cobra.Command{
		Use:   "streams SOURCE_CONTROL SYNC_JOB_ID",
		Short: "List sync job streams",
		Args:  cobra.ExactArgs(2), //nolint:mnd // source control and id
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			filter := parseStreamType(streamType)

			streams, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.SyncJobStream], error) {
				return client.SourceControlSyncJobs().ListStreams(ctx, scope, args[0], args[1], filter, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list sync job streams: %w", err)
			}

			err = render(cmd, streams, func(table *tablewriter.Table) {
				table.Header("Stream ID", "Type", "Time", "Summary")

				for _, stream := range streams {
					_ = table.Append(stream.StreamID, string(stream.StreamType), formatTime(stream.Time), truncate(stream.Summary))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	cmd.Flags().StringVar(&streamType, "type", string(automation.StreamAny), "Any, Output or Error")
	addListFlags(cmd)

	return cmd
}

func newSyncJobsStreamCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stream SOURCE_CONTROL SYNC_JOB_ID STREAM_ID",
		Short: "Print one sync job stream record",
		Args:  cobra.ExactArgs(3), //nolint:mnd // source control, id and stream id
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			record, err := client.SourceControlSyncJobs().GetStreamRecord(commandContext(cmd), scope, args[0], args[1], args[2])
			if err != nil {
				return fmt.Errorf("failed to get sync job stream record: %w", err)
			}

			return writeJSON(cmd.OutOrStdout(), record)
		},
	}
}

func parseSourceType(value string) automation.SourceType {
	for _, sourceType := range []automation.SourceType{automation.SourceTypeGitHub, automation.SourceTypeVsoGit, automation.SourceTypeVsoTfvc} {
		if strings.EqualFold(value, string(sourceType)) {
			return sourceType
		}
	}

	return automation.SourceType(value)
}
