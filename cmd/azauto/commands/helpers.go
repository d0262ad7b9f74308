package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// Common static errors used throughout the commands package.
var (
	ErrResourceGroupRequired  = errors.New("resource group is required (use --resource-group or set resource_group)")
	ErrAccountRequired        = errors.New("automation account is required (use --account or set account)")
	ErrInvalidParameterFormat = errors.New("invalid parameter format, expected KEY=VALUE")
	ErrInvalidTagFormat       = errors.New("invalid tag format, expected KEY=VALUE")
	ErrSecretRequired         = errors.New("secret is required and stdin is not a terminal")
	ErrUnknownConfigKey       = errors.New("unknown configuration key")
	ErrCancelled              = errors.New("cancelled")
)

// Flag names shared by several commands.
const (
	flagAll      = "all"
	flagMaxPages = "max-pages"
	flagForce    = "force"
)

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

// scopeFromFlags resolves the account scope from --resource-group/--account,
// falling back to the configured defaults.
func scopeFromFlags() (automation.Scope, error) {
	scope := automation.Scope{
		ResourceGroup: viper.GetString("resource_group"),
		Account:       viper.GetString("account"),
	}

	if scope.ResourceGroup == "" {
		return scope, ErrResourceGroupRequired
	}

	if scope.Account == "" {
		return scope, ErrAccountRequired
	}

	return scope, nil
}

func outputFormat() string {
	return strings.ToLower(viper.GetString("output"))
}

func isTable() bool {
	format := outputFormat()

	return format != constants.FormatJSON && format != constants.FormatYAML
}

// render writes data as JSON or YAML, or calls table for the default format.
func render(cmd *cobra.Command, data any, table func(*tablewriter.Table)) error {
	out := cmd.OutOrStdout()

	switch outputFormat() {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)
		encoder.SetIndent(constants.JSONIndentSize)

		err := encoder.Encode(data)
		if err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return encoder.Close()
	default:
		writer := tablewriter.NewWriter(out)
		table(writer)

		return writer.Render()
	}
}

// renderProperties renders a two column property table.
func renderProperties(cmd *cobra.Command, data any, rows [][2]string) error {
	return render(cmd, data, func(table *tablewriter.Table) {
		table.Header("Property", "Value")

		for _, row := range rows {
			_ = table.Append(row[0], row[1])
		}
	})
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Bool(flagAll, false, "fetch all pages")
	cmd.Flags().Int(flagMaxPages, 0, "maximum number of pages to fetch with --all (0 = unlimited)")
}

// collect fetches the first page, or every page when --all is set.
func collect[T any](cmd *cobra.Command, fetch automation.PageFunc[T]) ([]T, bool, error) {
	ctx := commandContext(cmd)

	all, _ := cmd.Flags().GetBool(flagAll)
	if all {
		maxPages, _ := cmd.Flags().GetInt(flagMaxPages)

		items, err := automation.FetchAll(ctx, fetch, &automation.PaginationOptions{MaxPages: maxPages})

		return items, false, err
	}

	page, err := fetch(ctx, "")
	if err != nil {
		return nil, false, err
	}

	return page.Items, page.HasMore(), nil
}

func moreHint(cmd *cobra.Command, hasMore bool) {
	if hasMore && isTable() {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("More results available, use --all to fetch every page"))
	}
}

func success(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), color.GreenString(format, args...))
}

func warn(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintln(w, color.YellowString(format, args...))
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return constants.NotAvailable
	}

	return t.Local().Format(constants.TimeDisplayFormat)
}

func formatBool(b bool) string {
	if b {
		return constants.BooleanTrue
	}

	return constants.BooleanFalse
}

func truncate(s string) string {
	if len(s) <= constants.DescriptionDisplayLength {
		return s
	}

	return s[:constants.DescriptionDisplayLength-3] + "..."
}

func valueOr(s string) string {
	if s == "" {
		return constants.NotAvailable
	}

	return s
}

// formatMap renders k=v pairs sorted by key.
func formatMap(values map[string]string) string {
	if len(values) == 0 {
		return constants.NotAvailable
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+values[key])
	}

	return strings.Join(pairs, ", ")
}

// parseParameters turns KEY=VALUE pairs into runbook parameters. A value
// that parses as JSON keeps its JSON type, anything else is a string.
func parseParameters(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil //nolint:nilnil // no parameters given
	}

	params := make(map[string]any, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidParameterFormat, pair)
		}

		var decoded any
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			params[strings.TrimSpace(key)] = decoded
		} else {
			params[strings.TrimSpace(key)] = value
		}
	}

	return params, nil
}

func parseTags(pairs []string) (automation.Tags, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	tags := make(automation.Tags, len(pairs))

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidTagFormat, pair)
		}

		tags[key] = value
	}

	return tags, nil
}

// confirm asks before destructive operations unless force is set.
func confirm(cmd *cobra.Command, force bool, prompt string) bool {
	if force {
		return true
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (y/N): ", prompt)

	var response string

	_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)

	return strings.EqualFold(response, "y") || strings.EqualFold(response, "yes")
}

// readSecret returns value if set, otherwise prompts without echo.
func readSecret(cmd *cobra.Command, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}

	fd := int(os.Stdin.Fd()) //nolint:gosec // file descriptors fit in int
	if !term.IsTerminal(fd) {
		return "", ErrSecretRequired
	}

	_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt+": ")

	secret, err := term.ReadPassword(fd)

	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(prompt), err)
	}

	return string(secret), nil
}

func addForceFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP(flagForce, "f", false, "skip confirmation")
}

// deleteCommand builds the common "delete NAME" subcommand.
func deleteCommand(kind string, remove func(ctx context.Context, client automation.Client, scope automation.Scope, name string) error) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a " + kind,
		Long:  "Delete a " + kind + " from the automation account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := scopeFromFlags()
			if err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool(flagForce)
			if !confirm(cmd, force, fmt.Sprintf("Really delete %s '%s'?", kind, args[0])) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

				return nil
			}

			client, err := newClient(cmd)
			if err != nil {
				return err
			}

			err = remove(commandContext(cmd), client, scope, args[0])
			if err != nil {
				return fmt.Errorf("failed to delete %s: %w", kind, err)
			}

			success(cmd, "Successfully deleted %s '%s'", kind, args[0])

			return nil
		},
	}

	addForceFlag(cmd)

	return cmd
}
