package constants

import "time"

// CLI configuration location.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".azauto"

	// ConfigFileName is the CLI config file name.
	ConfigFileName = "config.yml"

	// EnvPrefix is the prefix of environment variables read by the CLI.
	EnvPrefix = "AZAUTO"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600

	// ExportDirPerm is the permission for runbook export folders.
	ExportDirPerm = 0750

	// ExportFilePerm is the permission for exported runbook files.
	ExportFilePerm = 0600
)

// Management API defaults.
const (
	// DefaultEndpoint is the public cloud Resource Manager endpoint.
	DefaultEndpoint = "https://management.azure.com"

	// DefaultAPIVersion is the Microsoft.Automation api-version used for
	// every resource kind except webhooks.
	DefaultAPIVersion = "2023-11-01"

	// WebhookAPIVersion is the api-version the webhook endpoints accept.
	WebhookAPIVersion = "2015-10-31"

	// ProviderNamespace is the resource provider of automation accounts.
	ProviderNamespace = "Microsoft.Automation"

	// DefaultPlan is the SKU used when an account is created without one.
	DefaultPlan = "Free"

	// DefaultUserAgent identifies the client to the service.
	DefaultUserAgent = "azauto-go/1.0"

	// DefaultTokenScopeSuffix is appended to the endpoint to build the token scope.
	DefaultTokenScopeSuffix = "/.default"
)

// HTTP headers.
const (
	// HeaderClientRequestID carries the correlation id of a logical operation.
	HeaderClientRequestID = "x-ms-client-request-id"

	// HeaderReturnClientRequestID asks the service to echo the correlation id.
	HeaderReturnClientRequestID = "x-ms-return-client-request-id"

	// HeaderServiceRequestID is the service-side request id.
	HeaderServiceRequestID = "x-ms-request-id"
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits. Retries are off unless configured.
const (
	// DefaultRetryWaitMin is the minimum wait time between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second
)

// Runbook content.
const (
	// PowerShellExtension is the file extension of script runbooks.
	PowerShellExtension = ".ps1"

	// GraphRunbookExtension is the file extension of graphical runbooks.
	GraphRunbookExtension = ".graphrunbook"

	// PythonExtension is the file extension of Python runbooks.
	PythonExtension = ".py"

	// RunbookContentType is the media type of uploaded runbook text.
	RunbookContentType = "text/powershell"
)

// Job stream record keys added by PowerShell remoting.
const (
	StreamKeyComputerName     = "PSComputerName"
	StreamKeyShowComputerName = "PSShowComputerName"
	StreamKeySourceJobID      = "PSSourceJobInstanceId"
	StreamKeyValue            = "value"
)

// Source control.
const (
	// SecurityTokenTypePAT is the only token type the service accepts.
	SecurityTokenTypePAT = "PersonalAccessToken"
)

// UI and display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndentSize is the number of spaces for JSON/YAML indentation.
	JSONIndentSize = 2

	// DescriptionDisplayLength is the default length for displaying descriptions.
	DescriptionDisplayLength = 60

	// TimeDisplayFormat is used in table output.
	TimeDisplayFormat = "2006-01-02 15:04:05"
)

// Boolean string constants.
const (
	// BooleanTrue string representation.
	BooleanTrue = "true"

	// BooleanFalse string representation.
	BooleanFalse = "false"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"
)

// NATS event publishing.
const (
	// DefaultEventSubjectPrefix is prepended to <kind>.<action>.
	DefaultEventSubjectPrefix = "automation.events"

	// NATSClientName identifies the CLI connection.
	NATSClientName = "azauto"

	// NATSMaxReconnects bounds reconnect attempts of the event connection.
	NATSMaxReconnects = 5
)
