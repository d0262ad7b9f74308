package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// NewSchedulesCommand creates the schedules command group.
func NewSchedulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedules",
		Aliases: []string{"schedule", "sched"},
		Short:   "Manage schedules",
		Long:    "Create, list, update and delete schedules of an automation account",
	}

	cmd.AddCommand(newSchedulesListCommand())
	cmd.AddCommand(newSchedulesGetCommand())
	cmd.AddCommand(newSchedulesCreateCommand())
	cmd.AddCommand(newSchedulesUpdateCommand())
	cmd.AddCommand(deleteCommand("schedule", func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error {
		return client.Schedules().Delete(ctx, scope, name)
	}))

	return cmd
}

func newSchedulesListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			schedules, hasMore, err := collect(cmd, func(ctx context.Context, cursor string) (*automation.Page[automation.Schedule], error) {
				return client.Schedules().List(ctx, scope, cursor)
			})
			if err != nil {
				return fmt.Errorf("failed to list schedules: %w", err)
			}

			err = render(cmd, schedules, func(table *tablewriter.Table) {
				table.Header("Name", "Frequency", "Interval", "Enabled", "Next Run")

				for _, schedule := range schedules {
					_ = table.Append(schedule.Name, string(schedule.Frequency), strconv.Itoa(schedule.Interval),
						formatBool(schedule.IsEnabled), formatTime(schedule.NextRun))
				}
			})
			moreHint(cmd, hasMore)

			return err
		},
	}

	addListFlags(cmd)

	return cmd
}

func newSchedulesGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME",
		Short: "Get schedule details",
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

			schedule, err := client.Schedules().Get(commandContext(cmd), scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to get schedule: %w", err)
			}

			return renderSchedule(cmd, schedule)
		},
	}
}

func newSchedulesCreateCommand() *cobra.Command {
	var (
		start       string
		expiry      string
		interval    int
		frequency   string
		description string
		timeZone    string
		weekDays    []string
		monthDays   []int
	)

	cmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a schedule",
		Long:  "Create a schedule. Times are RFC 3339, for example 2030-01-02T08:00:00+01:00",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			startTime, err := time.Parse(time.RFC3339, start)
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}

			req := &automation.CreateScheduleRequest{
				Name:        args[0],
				StartTime:   startTime,
				Interval:    interval,
				Frequency:   automation.ScheduleFrequency(normalizeFrequency(frequency)),
				Description: description,
				TimeZone:    timeZone,
			}

			if expiry != "" {
				expiryTime, err := time.Parse(time.RFC3339, expiry)
				if err != nil {
					return fmt.Errorf("invalid --expiry: %w", err)
				}

				req.ExpiryTime = &expiryTime
			}

			if len(weekDays) > 0 || len(monthDays) > 0 {
				req.AdvancedSchedule = &automation.AdvancedSchedule{WeekDays: weekDays, MonthDays: monthDays}
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			schedule, err := client.Schedules().Create(commandContext(cmd), scope, req)
			if err != nil {
				return fmt.Errorf("failed to create schedule: %w", err)
			}

			success(cmd, "Successfully created schedule '%s'", schedule.Name)

			return renderSchedule(cmd, schedule)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start time, RFC 3339 (required)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry time, RFC 3339")
	cmd.Flags().IntVar(&interval, "interval", 0, "recurrence interval")
	cmd.Flags().StringVar(&frequency, "frequency", string(automation.FrequencyOneTime), "OneTime, Minute, Hour, Day, Week or Month")
	cmd.Flags().StringVar(&description, "description", "", "schedule description")
	cmd.Flags().StringVar(&timeZone, "time-zone", "", "time zone, for example Europe/Berlin")
	cmd.Flags().StringSliceVar(&weekDays, "week-days", nil, "week days for weekly schedules")
	cmd.Flags().IntSliceVar(&monthDays, "month-days", nil, "month days for monthly schedules")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newSchedulesUpdateCommand() *cobra.Command {
	var (
		enabled     bool
		description string
	)

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Update a schedule",
		Long:  "Enable, disable or re-describe a schedule. Start time and recurrence cannot change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			req := &automation.UpdateScheduleRequest{}
			if cmd.Flags().Changed("enabled") {
				req.IsEnabled = &enabled
			}

			if cmd.Flags().Changed("description") {
				req.Description = &description
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			schedule, err := client.Schedules().Update(commandContext(cmd), scope, args[0], req)
			if err != nil {
				return fmt.Errorf("failed to update schedule: %w", err)
			}

			success(cmd, "Successfully updated schedule '%s'", schedule.Name)

			return nil
		},
	}

	cmd.Flags().BoolVar(&enabled, "enabled", true, "enable or disable the schedule")
	cmd.Flags().StringVar(&description, "description", "", "schedule description")

	return cmd
}

// normalizeFrequency accepts frequencies case-insensitively.
func normalizeFrequency(value string) string {
	for _, frequency := range []automation.ScheduleFrequency{
		automation.FrequencyOneTime, automation.FrequencyMinute, automation.FrequencyHour,
		automation.FrequencyDay, automation.FrequencyWeek, automation.FrequencyMonth,
	} {
		if strings.EqualFold(value, string(frequency)) {
			return string(frequency)
		}
	}

	return value
}

func renderSchedule(cmd *cobra.Command, schedule *automation.Schedule) error {
	rows := [][2]string{
		{"Name", schedule.Name},
		{"Description", valueOr(schedule.Description)},
		{"Frequency", string(schedule.Frequency)},
		{"Interval", strconv.Itoa(schedule.Interval)},
		{"Enabled", formatBool(schedule.IsEnabled)},
		{"Start", formatTime(&schedule.StartTime)},
		{"Expiry", formatTime(schedule.ExpiryTime)},
		{"Next Run", formatTime(schedule.NextRun)},
		{"Time Zone", valueOr(schedule.TimeZone)},
	}

	if advanced := schedule.AdvancedSchedule; advanced != nil && len(advanced.WeekDays) > 0 {
		rows = append(rows, [2]string{"Week Days", strings.Join(advanced.WeekDays, ", ")})
	}

	return renderProperties(cmd, schedule, rows)
}
