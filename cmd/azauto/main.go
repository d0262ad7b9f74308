package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/automation-client/cmd/azauto/commands"
	"github.com/fivetwenty-io/automation-client/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "azauto",
	Short: "Azure Automation CLI",
	Long: `A command-line interface for Azure Automation accounts.

This CLI manages automation accounts and everything inside them: runbooks,
jobs, schedules, modules, shared assets, webhooks and source control.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.azauto/config.yml)")
	rootCmd.PersistentFlags().String("endpoint", "", "Resource Manager endpoint URL")
	rootCmd.PersistentFlags().StringP("subscription", "s", "", "subscription ID")
	rootCmd.PersistentFlags().StringP("token", "t", "", "bearer token (skips credential lookup)")
	rootCmd.PersistentFlags().StringP("resource-group", "g", "", "resource group of the automation account")
	rootCmd.PersistentFlags().StringP("account", "a", "", "automation account name")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"config":          "config",
		"endpoint":        "endpoint",
		"subscription_id": "subscription",
		"token":           "token",
		"resource_group":  "resource-group",
		"account":         "account",
		"output":          "output",
		"verbose":         "verbose",
		"no_color":        "no-color",
	} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag))
	}

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewAccountsCommand())
	rootCmd.AddCommand(commands.NewRunbooksCommand())
	rootCmd.AddCommand(commands.NewJobsCommand())
	rootCmd.AddCommand(commands.NewSchedulesCommand())
	rootCmd.AddCommand(commands.NewJobSchedulesCommand())
	rootCmd.AddCommand(commands.NewModulesCommand())
	rootCmd.AddCommand(commands.NewVariablesCommand())
	rootCmd.AddCommand(commands.NewCredentialsCommand())
	rootCmd.AddCommand(commands.NewCertificatesCommand())
	rootCmd.AddCommand(commands.NewConnectionsCommand())
	rootCmd.AddCommand(commands.NewConnectionTypesCommand())
	rootCmd.AddCommand(commands.NewHybridWorkerGroupsCommand())
	rootCmd.AddCommand(commands.NewWebhooksCommand())
	rootCmd.AddCommand(commands.NewSourceControlsCommand())
	rootCmd.AddCommand(commands.NewSyncJobsCommand())
}

func initConfig() {
	// A .env file in the working directory is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
	}

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.azauto/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType("yml")
		viper.SetConfigName(strings.TrimSuffix(constants.ConfigFileName, filepath.Ext(constants.ConfigFileName)))
	}

	// AZAUTO_SUBSCRIPTION_ID, AZAUTO_RESOURCE_GROUP, ...
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			_, _ = fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	if viper.GetBool("no_color") {
		color.NoColor = true
	}
}

func main() {
	err := rootCmd.Execute()

	commands.Close()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}
