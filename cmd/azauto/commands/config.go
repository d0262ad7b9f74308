package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/automation-client/internal/constants"
)

// Config represents the CLI configuration file.
type Config struct {
	Endpoint       string `json:"endpoint,omitempty"        yaml:"endpoint,omitempty"`
	SubscriptionID string `json:"subscription_id,omitempty" yaml:"subscription_id,omitempty"`
	ResourceGroup  string `json:"resource_group,omitempty"  yaml:"resource_group,omitempty"`
	Account        string `json:"account,omitempty"         yaml:"account,omitempty"`
	APIVersion     string `json:"api_version,omitempty"     yaml:"api_version,omitempty"`
	DefaultPlan    string `json:"default_plan,omitempty"    yaml:"default_plan,omitempty"`

	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
	NoColor bool   `json:"no_color"         yaml:"no_color"`

	TenantID     string `json:"tenant_id,omitempty"     yaml:"tenant_id,omitempty"`
	ClientID     string `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"` //nolint:gosec // stored in a 0600 file
	UseCLI       bool   `json:"use_cli"                 yaml:"use_cli"`

	CachedToken          string     `json:"cached_token,omitempty"            yaml:"cached_token,omitempty"`
	CachedTokenEndpoint  string     `json:"cached_token_endpoint,omitempty"   yaml:"cached_token_endpoint,omitempty"`
	CachedTokenExpiresAt *time.Time `json:"cached_token_expires_at,omitempty" yaml:"cached_token_expires_at,omitempty"`

	HTTPTimeout string  `json:"http_timeout,omitempty" yaml:"http_timeout,omitempty"`
	RetryMax    int     `json:"retry_max,omitempty"    yaml:"retry_max,omitempty"`
	RateLimit   float64 `json:"rate_limit,omitempty"   yaml:"rate_limit,omitempty"`

	NATSURL            string `json:"nats_url,omitempty"             yaml:"nats_url,omitempty"`
	EventSubjectPrefix string `json:"event_subject_prefix,omitempty" yaml:"event_subject_prefix,omitempty"`
}

// configKeys maps settable keys to their setters.
var configKeys = map[string]func(*Config, string) error{
	"endpoint":        func(c *Config, v string) error { c.Endpoint = v; return nil },
	"subscription_id": func(c *Config, v string) error { c.SubscriptionID = v; return nil },
	"resource_group":  func(c *Config, v string) error { c.ResourceGroup = v; return nil },
	"account":         func(c *Config, v string) error { c.Account = v; return nil },
	"api_version":     func(c *Config, v string) error { c.APIVersion = v; return nil },
	"default_plan":    func(c *Config, v string) error { c.DefaultPlan = v; return nil },
	"output":          func(c *Config, v string) error { c.Output = v; return nil },
	"no_color":        func(c *Config, v string) error { return setBool(&c.NoColor, v) },
	"tenant_id":       func(c *Config, v string) error { c.TenantID = v; return nil },
	"client_id":       func(c *Config, v string) error { c.ClientID = v; return nil },
	"client_secret":   func(c *Config, v string) error { c.ClientSecret = v; return nil },
	"use_cli":         func(c *Config, v string) error { return setBool(&c.UseCLI, v) },
	"http_timeout": func(c *Config, v string) error {
		if v != "" {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid duration %q: %w", v, err)
			}
		}

		c.HTTPTimeout = v

		return nil
	},
	"retry_max": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", v, err)
		}

		c.RetryMax = n

		return nil
	},
	"rate_limit": func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", v, err)
		}

		c.RateLimit = f

		return nil
	},
	"nats_url":             func(c *Config, v string) error { c.NATSURL = v; return nil },
	"event_subject_prefix": func(c *Config, v string) error { c.EventSubjectPrefix = v; return nil },
}

func setBool(target *bool, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean %q: %w", value, err)
	}

	*target = b

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage azauto CLI configuration such as the subscription, default account and credentials",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigPathCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the configuration file contents with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readConfigFile()
			if err != nil {
				return err
			}

			masked := *config
			masked.ClientSecret = maskSecret(masked.ClientSecret)
			masked.CachedToken = maskSecret(masked.CachedToken)

			return render(cmd, masked, func(table *tablewriter.Table) {
				table.Header("Key", "Value")

				for _, row := range configRows(&masked) {
					_ = table.Append(row[0], row[1])
				}
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value in the config file",
		Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfigKey(cmd, args[0], args[1], "Set")
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			zero := ""

			switch args[0] {
			case "no_color", "use_cli":
				zero = constants.BooleanFalse
			case "retry_max", "rate_limit":
				zero = "0"
			}

			return updateConfigKey(cmd, args[0], zero, "Unset")
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configFilePath()
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)

			return nil
		},
	}
}

func updateConfigKey(cmd *cobra.Command, key, value, action string) error {
	setter, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s (valid keys: %s)", ErrUnknownConfigKey, key, validConfigKeys())
	}

	config, err := readConfigFile()
	if err != nil {
		return err
	}

	err = setter(config, value)
	if err != nil {
		return err
	}

	err = writeConfigFile(config)
	if err != nil {
		return err
	}

	success(cmd, "%s %s", action, key)

	return nil
}

func validConfigKeys() string {
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return fmt.Sprint(keys)
}

func configRows(config *Config) [][2]string {
	expires := constants.NotAvailable
	if config.CachedTokenExpiresAt != nil {
		expires = formatTime(config.CachedTokenExpiresAt)
	}

	return [][2]string{
		{"endpoint", valueOr(config.Endpoint)},
		{"subscription_id", valueOr(config.SubscriptionID)},
		{"resource_group", valueOr(config.ResourceGroup)},
		{"account", valueOr(config.Account)},
		{"api_version", valueOr(config.APIVersion)},
		{"default_plan", valueOr(config.DefaultPlan)},
		{"output", valueOr(config.Output)},
		{"no_color", formatBool(config.NoColor)},
		{"tenant_id", valueOr(config.TenantID)},
		{"client_id", valueOr(config.ClientID)},
		{"client_secret", valueOr(config.ClientSecret)},
		{"use_cli", formatBool(config.UseCLI)},
		{"cached_token", valueOr(config.CachedToken)},
		{"cached_token_expires_at", expires},
		{"http_timeout", valueOr(config.HTTPTimeout)},
		{"retry_max", strconv.Itoa(config.RetryMax)},
		{"rate_limit", strconv.FormatFloat(config.RateLimit, 'f', -1, 64)},
		{"nats_url", valueOr(config.NATSURL)},
		{"event_subject_prefix", valueOr(config.EventSubjectPrefix)},
	}
}

func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}

	return constants.MaskedSecret
}

// configFilePath returns --config, the file viper loaded, or
// ~/.azauto/config.yml.
func configFilePath() (string, error) {
	if path := viper.GetString("config"); path != "" {
		return path, nil
	}

	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName), nil
}

// readConfigFile reads the config file; a missing file is an empty config.
func readConfigFile() (*Config, error) {
	path, err := configFilePath()
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- path is the user's own config file
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return config, nil
}

func writeConfigFile(config *Config) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// configPersister stores acquired tokens in the config file.
type configPersister struct{}

func (configPersister) UpdateAccessToken(endpoint, token string, expiresAt time.Time) error {
	config, err := readConfigFile()
	if err != nil {
		return err
	}

	config.CachedToken = token
	config.CachedTokenEndpoint = endpoint
	config.CachedTokenExpiresAt = &expiresAt

	return writeConfigFile(config)
}
