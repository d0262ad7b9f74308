package automation

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Static errors for err113 compliance.
var (
	ErrResourceGroupRequired = errors.New("resource group name is required")
	ErrAccountRequired       = errors.New("automation account name is required")
)

// AccountClients provides access to account-level resource clients.
type AccountClients interface {
	Accounts() AccountsClient
	Modules() ModulesClient
}

// ExecutionClients provides access to runbook execution resource clients.
type ExecutionClients interface {
	Runbooks() RunbooksClient
	Jobs() JobsClient
	Schedules() SchedulesClient
	JobSchedules() JobSchedulesClient
	Webhooks() WebhooksClient
	HybridWorkerGroups() HybridWorkerGroupsClient
}

// AssetClients provides access to the shared asset clients.
type AssetClients interface {
	Variables() VariablesClient
	Credentials() CredentialsClient
	Certificates() CertificatesClient
	Connections() ConnectionsClient
	ConnectionTypes() ConnectionTypesClient
}

// SourceControlClients provides access to source control clients.
type SourceControlClients interface {
	SourceControls() SourceControlsClient
	SourceControlSyncJobs() SourceControlSyncJobsClient
}

// Client is the Azure Automation facade.
type Client interface {
	AccountClients
	ExecutionClients
	AssetClients
	SourceControlClients
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Scope addresses an automation account: the two-level namespace every
// account-owned entity lives under.
type Scope struct {
	ResourceGroup string `json:"resource_group" yaml:"resource_group"`
	Account       string `json:"account"        yaml:"account"`
}

// Validate reports whether both halves of the scope are set.
func (s Scope) Validate() error {
	if s.ResourceGroup == "" {
		return &InvalidArgumentError{Argument: "ResourceGroup", Reason: ErrResourceGroupRequired.Error()}
	}

	if s.Account == "" {
		return &InvalidArgumentError{Argument: "Account", Reason: ErrAccountRequired.Error()}
	}

	return nil
}

func (s Scope) String() string {
	return fmt.Sprintf("%s/%s", s.ResourceGroup, s.Account)
}

// Config represents client configuration for building an automation Client.
//
// # Authentication
//
// The client never acquires credentials itself. Provide either TokenSource
// (any oauth2.TokenSource, for example one backed by an Azure identity
// credential) or AccessToken, which is wrapped in a static token source.
// TokenSource wins when both are set.
//
// # Retries
//
// The facade issues every mutation exactly once. RetryMax enables transport
// level retries of 5xx/429 responses and is 0 unless set explicitly.
type Config struct {
	// Endpoint: management endpoint (default "https://management.azure.com").
	// automationclient.New trims a trailing slash and adds "https://" if no
	// scheme is present.
	Endpoint string
	// SubscriptionID: subscription every request is scoped to. Required.
	SubscriptionID string
	// APIVersion: api-version query parameter. Defaults to the version the
	// client was written against.
	APIVersion string

	// TokenSource: bearer token provider.
	TokenSource oauth2.TokenSource
	// AccessToken: static bearer token, used when TokenSource is nil.
	AccessToken string

	// DefaultPlan: SKU applied by Accounts().Create when no plan is given.
	// Defaults to "Free".
	DefaultPlan string

	// HTTPTimeout: per-request timeout applied to the underlying transport.
	// Most calls should rely on context deadlines instead.
	HTTPTimeout time.Duration
	// RetryMax: maximum transport retries for 5xx/429 responses. 0 disables.
	RetryMax int
	// RetryWaitMin: minimum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMin time.Duration
	// RetryWaitMax: maximum backoff between retries. Applied when RetryMax > 0.
	RetryWaitMax time.Duration
	// RateLimit: client-side request rate in requests per second. 0 disables.
	RateLimit float64

	// Debug: enables HTTP request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger used by the transport and facade.
	Logger Logger
	// UserAgent: overrides the default User-Agent header.
	UserAgent string

	// Publisher: optional sink notified after every successful mutation.
	Publisher EventPublisher
}
