package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewJobsCommand creates the jobs command group.
func NewJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jobs",
		Aliases: []string{"job"},
		Short:   "Inspect and control jobs",
		Long:    "List jobs, read their output and streams, and stop, suspend or resume them",
	}

	cmd.AddCommand(newJobsListCommand())
	cmd.AddCommand(newJobsGetCommand())
	cmd.AddCommand(newJobControlCommand("stop", "Stop a job", func(ctx context.Context, jobs automation.JobsClient, scope automation.Scope, id string) error {
		return jobs.Stop(ctx, scope, id)
	}))
	cmd.AddCommand(newJobControlCommand("suspend", "Suspend a job", func(ctx context.Context, jobs automation.JobsClient, scope automation.Scope, id string) error {
		return jobs.Suspend(ctx, scope, id)
	}))
	cmd.AddCommand(newJobControlCommand("resume", "Resume a suspended job", func(ctx context.Context, jobs automation.JobsClient, scope automation.Scope, id string) error {
		return jobs.Resume(ctx, scope, id)
	}))
	cmd.AddCommand(newJobsOutputCommand())
	cmd.AddCommand(newJobsStreamsCommand())
	cmd.AddCommand(newJobsStreamCommand())

	return cmd
}

func newJobsListCommand() *cobra.Command {
	var (
		runbook string
		status  string
		from    string
		to      string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		Long:  "List jobs, optionally filtered by runbook, status and start/end time (RFC 3339)",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			opts := &automation.ListJobsOptions{RunbookName: runbook, Status: automation.JobStatus(status)}

			opts.StartTime, err = parseOptionalTime("from", from)
			if err != nil {
				return err
			}

			opts.EndTime, err = parseOptionalTime("to", to)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			jobs, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Job], error) {
				return client.Jobs().List(ctx, scope, opts, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list jobs: %w", err)
			}

			err = render(cmd, jobs, func(table *tablewriter.Table) {
				table.Header("ID", "Runbook", "Status", "Started", "Ended")

				for _, job := range jobs {
					_ = table.Append(job.ID, job.RunbookName, string(job.Status), formatTime(job.StartTime), formatTime(job.EndTime))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	cmd.Flags().StringVar(&runbook, "runbook", "", "only jobs of this runbook")
	cmd.Flags().StringVar(&status, "status", "", "only jobs in this status")
	cmd.Flags().StringVar(&from, "from", "", "only jobs started at or after this time")
	cmd.Flags().StringVar(&to, "to", "", "only jobs ended at or before this time")
	addListFlags(cmd)

	return cmd
}

func newJobsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get JOB_ID",
		Short: "Get job details",
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

			job, err := client.Jobs().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get job: %w", err)
			}

			return renderJob(cmd, job)
		},
	}
}

func newJobControlCommand(use, short string, action func(ctx context.Context, jobs automation.JobsClient, scope automation.Scope, id string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " JOB_ID",
		Short: short,
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

			err = action(commandContext(cmd), client.Jobs(), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to %s job: %w", use, err)
			}

			success(cmd, "Requested %s of job %s", use, args[0])

			return nil
		},
	}
}

func newJobsOutputCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "output JOB_ID",
		Short: "Print job output",
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

			output, err := client.Jobs().GetOutput(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get job output: %w", err)
			}

			_, err = io.WriteString(cmd.OutOrStdout(), output)

			return err
		},
	}
}

func newJobsStreamsCommand() *cobra.Command {
	var (
		streamType string
		since      string
	)

	cmd := &cobra.Command{
		Use:   "streams JOB_ID",
		Short: "List job streams",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			opts := &automation.ListJobStreamsOptions{StreamType: parseStreamType(streamType)}

			opts.Time, err = parseOptionalTime("since", since)
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			streams, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.JobStream], error) {
				return client.Jobs().ListStreams(ctx, scope, args[0], opts, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list job streams: %w", err)
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

	cmd.Flags().StringVar(&streamType, "type", string(automation.StreamAny), "Any, Progress, Output, Warning, Error, Debug or Verbose")
	cmd.Flags().StringVar(&since, "since", "", "only streams after this time (RFC 3339)")
	addListFlags(cmd)

	return cmd
}

func newJobsStreamCommand() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "stream JOB_ID STREAM_ID",
		Short: "Print one job stream record",
		Long:  "Print the value of a stream record without the remoting bookkeeping keys",
		Args:  cobra.ExactArgs(2), //nolint:mnd // job id and stream id
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			ctx := commandContext(cmd)

			if raw {
				record, err := client.Jobs().GetStreamRecord(ctx, scope, args[0], args[1])
				if err != nil {
					return fmt.Errorf("failed to get stream record: %w", err)
				}

				return writeJSON(cmd.OutOrStdout(), record)
			}

			value, err := client.Jobs().GetStreamRecordValue(ctx, scope, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to get stream record: %w", err)
			}

			if text, ok := value.(string); ok {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)

				return err
			}

			return writeJSON(cmd.OutOrStdout(), value)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the full record")

	return cmd
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(value)
}

func parseOptionalTime(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil //nolint:nilnil // unset flag
	}

	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag, err)
	}

	return &parsed, nil
}

func parseStreamType(value string) automation.StreamType {
	for _, streamType := range []automation.StreamType{
		automation.StreamAny, automation.StreamProgress, automation.StreamOutput, automation.StreamWarning,
		automation.StreamError, automation.StreamDebug, automation.StreamVerbose,
	} {
		if strings.EqualFold(value, string(streamType)) {
			return streamType
		}
	}

	return automation.StreamType(value)
}

func renderJob(cmd *cobra.Command, job *automation.Job) error {
	return renderProperties(cmd, job, [][2]string{
		{"ID", job.ID},
		{"Runbook", job.RunbookName},
		{"Status", string(job.Status)},
		{"Status Details", valueOr(job.StatusDetails)},
		{"Run On", valueOr(job.RunOn)},
		{"Parameters", formatMap(job.Parameters)},
		{"Started By", valueOr(job.StartedBy)},
		{"Created", formatTime(job.CreationTime)},
		{"Started", formatTime(job.StartTime)},
		{"Ended", formatTime(job.EndTime)},
		{"Exception", valueOr(job.Exception)},
	})
}
