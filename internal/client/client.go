package client

import (
	"context"
	"errors"

	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/automation-client/internal/constants"
	"github.com/fivetwenty-io/automation-client/internal/http"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// Static errors for err113 compliance.
var (
	ErrSubscriptionIDRequired = errors.New("subscription ID is required")
	ErrConfigRequired         = errors.New("config is required")
)

// Client implements the automation.Client interface.
type Client struct {
	httpClient *http.Client
	deps       *Deps

	// Resource clients
	accounts              *AccountsClient
	modules               *ModulesClient
	runbooks              *RunbooksClient
	jobs                  *JobsClient
	schedules             *SchedulesClient
	jobSchedules          *JobSchedulesClient
	webhooks              *WebhooksClient
	hybridWorkerGroups    *HybridWorkerGroupsClient
	variables             *VariablesClient
	credentials           *CredentialsClient
	certificates          *CertificatesClient
	connections           *ConnectionsClient
	connectionTypes       *ConnectionTypesClient
	sourceControls        *SourceControlsClient
	sourceControlSyncJobs *SourceControlSyncJobsClient
}

// New creates a new automation client. The endpoint is used as given;
// normalization happens in automationclient.New.
func New(_ context.Context, config *automation.Config) (*Client, error) {
	if config == nil {
		return nil, ErrConfigRequired
	}

	if config.SubscriptionID == "" {
		return nil, ErrSubscriptionIDRequired
	}

	endpoint := config.Endpoint
	if endpoint == "" {
		endpoint = constants.DefaultEndpoint
	}

	httpClient := http.NewClient(endpoint, createTokenSource(config), createHTTPClientOptions(config)...)

	deps := NewDeps(httpClient, config.SubscriptionID, config.Publisher, config.Logger)
	if config.DefaultPlan != "" {
		deps.defaultPlan = config.DefaultPlan
	}

	client := &Client{
		httpClient: httpClient,
		deps:       deps,
	}

	client.initializeResourceClients()

	return client, nil
}

// createTokenSource picks the configured token provider. A static access
// token is wrapped so it is only parsed once.
func createTokenSource(config *automation.Config) oauth2.TokenSource {
	if config.TokenSource != nil {
		return config.TokenSource
	}

	if config.AccessToken != "" {
		return oauth2.ReuseTokenSource(nil, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: config.AccessToken,
			TokenType:   "Bearer",
		}))
	}

	return nil // No authentication
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *automation.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.APIVersion != "" {
		httpOpts = append(httpOpts, http.WithAPIVersion(config.APIVersion))
	}

	if config.RetryMax > 0 {
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, retryWaitMin, retryWaitMax))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.RateLimit > 0 {
		httpOpts = append(httpOpts, http.WithRateLimit(config.RateLimit))
	}

	return httpOpts
}

func (c *Client) initializeResourceClients() {
	c.accounts = NewAccountsClient(c.deps)
	c.modules = NewModulesClient(c.deps)
	c.runbooks = NewRunbooksClient(c.deps)
	c.jobs = NewJobsClient(c.deps)
	c.schedules = NewSchedulesClient(c.deps)
	c.jobSchedules = NewJobSchedulesClient(c.deps, c.runbooks)
	c.webhooks = NewWebhooksClient(c.deps, c.runbooks)
	c.hybridWorkerGroups = NewHybridWorkerGroupsClient(c.deps)
	c.variables = NewVariablesClient(c.deps)
	c.credentials = NewCredentialsClient(c.deps)
	c.certificates = NewCertificatesClient(c.deps)
	c.connections = NewConnectionsClient(c.deps)
	c.connectionTypes = NewConnectionTypesClient(c.deps)
	c.sourceControls = NewSourceControlsClient(c.deps)
	c.sourceControlSyncJobs = NewSourceControlSyncJobsClient(c.deps)
}

// BaseURL returns the management endpoint requests are sent to.
func (c *Client) BaseURL() string {
	return c.httpClient.BaseURL()
}

// Resource client accessors

// Accounts implements automation.Client.Accounts.
func (c *Client) Accounts() automation.AccountsClient {
	return c.accounts
}

// Modules implements automation.Client.Modules.
func (c *Client) Modules() automation.ModulesClient {
	return c.modules
}

// Runbooks implements automation.Client.Runbooks.
func (c *Client) Runbooks() automation.RunbooksClient {
	return c.runbooks
}

// Jobs implements automation.Client.Jobs.
func (c *Client) Jobs() automation.JobsClient {
	return c.jobs
}

// Schedules implements automation.Client.Schedules.
func (c *Client) Schedules() automation.SchedulesClient {
	return c.schedules
}

// JobSchedules implements automation.Client.JobSchedules.
func (c *Client) JobSchedules() automation.JobSchedulesClient {
	return c.jobSchedules
}

// Webhooks implements automation.Client.Webhooks.
func (c *Client) Webhooks() automation.WebhooksClient {
	return c.webhooks
}

// HybridWorkerGroups implements automation.Client.HybridWorkerGroups.
func (c *Client) HybridWorkerGroups() automation.HybridWorkerGroupsClient {
	return c.hybridWorkerGroups
}

// Variables implements automation.Client.Variables.
func (c *Client) Variables() automation.VariablesClient {
	return c.variables
}

// Credentials implements automation.Client.Credentials.
func (c *Client) Credentials() automation.CredentialsClient {
	return c.credentials
}

// Certificates implements automation.Client.Certificates.
func (c *Client) Certificates() automation.CertificatesClient {
	return c.certificates
}

// Connections implements automation.Client.Connections.
func (c *Client) Connections() automation.ConnectionsClient {
	return c.connections
}

// ConnectionTypes implements automation.Client.ConnectionTypes.
func (c *Client) ConnectionTypes() automation.ConnectionTypesClient {
	return c.connectionTypes
}

// SourceControls implements automation.Client.SourceControls.
func (c *Client) SourceControls() automation.SourceControlsClient {
	return c.sourceControls
}

// SourceControlSyncJobs implements automation.Client.SourceControlSyncJobs.
func (c *Client) SourceControlSyncJobs() automation.SourceControlSyncJobsClient {
	return c.sourceControlSyncJobs
}

// loggerAdapter adapts automation.Logger to http.Logger.
type loggerAdapter struct {
	logger automation.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}

var _ automation.Client = (*Client)(nil)
