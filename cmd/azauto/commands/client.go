package commands

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/automation-client/internal/auth"
	"github.com/fivetwenty-io/automation-client/internal/events"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
	"github.com/fivetwenty-io/automation-client/pkg/automationclient"
)

var (
	closersMu sync.Mutex
	closers   []func() error
)

// Close releases connections opened while running a command.
func Close() {
	closersMu.Lock()
	defer closersMu.Unlock()

	for _, closer := range closers {
		_ = closer()
	}

	closers = nil
}

func registerCloser(closer func() error) {
	closersMu.Lock()
	defer closersMu.Unlock()

	closers = append(closers, closer)
}

func noColor() bool {
	return color.NoColor || viper.GetBool("no_color")
}

// newClient builds a client from flags, environment and the config file.
func newClient(cmd *cobra.Command) (automation.Client, error) {
	config, err := buildClientConfig(cmd)
	if err != nil {
		return nil, err
	}

	client, err := automationclient.New(commandContext(cmd), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

func buildClientConfig(cmd *cobra.Command) (*automation.Config, error) {
	verbose := viper.GetBool("verbose")
	endpoint := automationclient.NormalizeEndpoint(viper.GetString("endpoint"))

	config := &automation.Config{
		Endpoint:       endpoint,
		SubscriptionID: viper.GetString("subscription_id"),
		APIVersion:     viper.GetString("api_version"),
		DefaultPlan:    viper.GetString("default_plan"),
		HTTPTimeout:    viper.GetDuration("http_timeout"),
		RetryMax:       viper.GetInt("retry_max"),
		RateLimit:      viper.GetFloat64("rate_limit"),
		Debug:          verbose,
		Logger:         NewLogger(cmd.ErrOrStderr(), verbose),
	}

	if token := viper.GetString("token"); token != "" {
		config.AccessToken = token
	} else {
		source, err := credentialTokenSource(cmd, endpoint)
		if err != nil {
			return nil, err
		}

		config.TokenSource = source
	}

	if natsURL := viper.GetString("nats_url"); natsURL != "" {
		publisher, err := events.Connect(natsURL, events.WithSubjectPrefix(viper.GetString("event_subject_prefix")))
		if err != nil {
			warn(cmd.ErrOrStderr(), "Event publishing disabled: %v", err)
		} else {
			registerCloser(publisher.Close)

			config.Publisher = publisher
		}
	}

	return config, nil
}

func credentialTokenSource(cmd *cobra.Command, endpoint string) (*auth.CredentialTokenSource, error) {
	credential, err := auth.NewCredential(auth.CredentialConfig{
		TenantID:     viper.GetString("tenant_id"),
		ClientID:     viper.GetString("client_id"),
		ClientSecret: viper.GetString("client_secret"),
		UseCLI:       viper.GetBool("use_cli"),
	})
	if err != nil {
		return nil, err
	}

	options := []auth.CredentialOption{
		auth.WithPersister(&configPersister{}),
		auth.WithPersistWarning(func(err error) { warn(cmd.ErrOrStderr(), "Warning: %v", err) }),
	}

	stored, err := readConfigFile()
	if err == nil && stored.CachedToken != "" && sameEndpoint(stored.CachedTokenEndpoint, endpoint) && stored.CachedTokenExpiresAt != nil {
		options = append(options, auth.WithInitialToken(stored.CachedToken, *stored.CachedTokenExpiresAt))
	}

	return auth.NewCredentialTokenSource(commandContext(cmd), credential, endpoint, options...), nil
}

func sameEndpoint(a, b string) bool {
	return strings.EqualFold(auth.Scope(a), auth.Scope(b))
}
