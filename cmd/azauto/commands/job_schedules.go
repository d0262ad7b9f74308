package commands

import (
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewJobSchedulesCommand creates the job-schedules command group.
func NewJobSchedulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "job-schedules",
		Aliases: []string{"job-schedule", "js"},
		Short:   "Manage job schedules",
		Long:    "Link runbooks to schedules and remove those links",
	}

	cmd.AddCommand(newJobSchedulesListCommand())
	cmd.AddCommand(newJobSchedulesGetCommand())
	cmd.AddCommand(newJobSchedulesRegisterCommand())
	cmd.AddCommand(newJobSchedulesUnregisterCommand())

	return cmd
}

func newJobSchedulesListCommand() *cobra.Command {
	var (
		runbook  string
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List job schedules",
		Long:  "List job schedules, optionally only those of one runbook or one schedule",
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
				jobSchedules []automation.JobSchedule
				hasMore      bool
			)

			ctx := commandContext(cmd)

			switch {
			case runbook != "":
				jobSchedules, err = client.JobSchedules().ListByRunbook(ctx, scope, runbook)
			case schedule != "":
				jobSchedules, err = client.JobSchedules().ListBySchedule(ctx, scope, schedule)
			default:
				jobSchedules, hasMore, err = collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.JobSchedule], error) {
					return client.JobSchedules().List(ctx, scope, cursor)
				})
			}

			if err != nil {
				return fmt.Errorf("failed to list job schedules: %w", err)
			}

			err = render(cmd, jobSchedules, func(table *tablewriter.Table) {
				table.Header("ID", "Runbook", "Schedule", "Run On", "Parameters")

				for _, jobSchedule := range jobSchedules {
					_ = table.Append(jobSchedule.ID, jobSchedule.RunbookName, jobSchedule.ScheduleName,
						valueOr(jobSchedule.RunOn), formatMap(jobSchedule.Parameters))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	cmd.Flags().StringVar(&runbook, "runbook", "", "only job schedules of this runbook")
	cmd.Flags().StringVar(&schedule, "schedule", "", "only job schedules of this schedule")
	cmd.MarkFlagsMutuallyExclusive("runbook", "schedule")
	addListFlags(cmd)

	return cmd
}

func newJobSchedulesGetCommand() *cobra.Command {
	var (
		runbook  string
		schedule string
	)

	cmd := &cobra.Command{
		Use:   "get [JOB_SCHEDULE_ID]",
		Short: "Get a job schedule",
		Long:  "Get a job schedule by id, or by --runbook and --schedule",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			var jobSchedule *automation.JobSchedule

			if len(args) == 1 {
				jobSchedule, err = client.JobSchedules().Get(commandContext(cmd), scope, args[0])
			} else {
				if runbook == "" || schedule == "" {
					return &automation.InvalidArgumentError{Argument: "runbook", Reason: "pass a job schedule id or both --runbook and --schedule"}
				}

				jobSchedule, err = client.JobSchedules().GetByPair(commandContext(cmd), scope, runbook, schedule)
			}

			if err != nil {
				return fmt.Errorf("failed to get job schedule: %w", err)
			}

			return renderProperties(cmd, jobSchedule, [][2]string{
				{"ID", jobSchedule.ID},
				{"Runbook", jobSchedule.RunbookName},
				{"Schedule", jobSchedule.ScheduleName},
				{"Run On", valueOr(jobSchedule.RunOn)},
				{"Parameters", formatMap(jobSchedule.Parameters)},
			})
		},
	}

	cmd.Flags().StringVar(&runbook, "runbook", "", "runbook name")
	cmd.Flags().StringVar(&schedule, "schedule", "", "schedule name")

	return cmd
}

func newJobSchedulesRegisterCommand() *cobra.Command {
	var (
		params []string
		runOn  string
	)

	cmd := &cobra.Command{
		Use:   "register RUNBOOK SCHEDULE",
		Short: "Link a runbook to a schedule",
		Args:  cobra.ExactArgs(2), //nolint:mnd // runbook and schedule
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

			jobSchedule, err := client.JobSchedules().Register(commandContext(cmd), scope, &automation.RegisterJobScheduleRequest{
				RunbookName:  args[0],
				ScheduleName: args[1],
				Parameters:   parameters,
				RunOn:        runOn,
			})
			if err != nil {
				return fmt.Errorf("failed to register job schedule: %w", err)
			}

			success(cmd, "Linked runbook '%s' to schedule '%s' (job schedule %s)", args[0], args[1], jobSchedule.ID)

			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "parameter as KEY=VALUE (repeatable)")
	cmd.Flags().StringVar(&runOn, "run-on", "", "hybrid worker group to run on")

	return cmd
}

func newJobSchedulesUnregisterCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "unregister [RUNBOOK SCHEDULE]",
		Short: "Remove a runbook to schedule link",
		Long:  "Remove a job schedule by --id, or by runbook and schedule name",
		Args:  cobra.RangeArgs(0, 2), //nolint:mnd // runbook and schedule
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			if id == "" && len(args) != 2 {
				return &automation.InvalidArgumentError{Argument: "id", Reason: "pass --id or both RUNBOOK and SCHEDULE"}
			}

			force, _ := cmd.Flags().GetBool(flagForce)
			if !confirm(cmd, force, "Really remove the job schedule?") {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

				return nil
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			if id != "" {
				err = client.JobSchedules().Unregister(commandContext(cmd), scope, id)
			} else {
				err = client.JobSchedules().UnregisterByPair(commandContext(cmd), scope, args[0], args[1])
			}

			if err != nil {
				return fmt.Errorf("failed to unregister job schedule: %w", err)
			}

			success(cmd, "Successfully removed job schedule")

			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "job schedule id")
	addForceFlag(cmd)

	return cmd
}
