package constants

import "errors"

// Configuration errors.
var (
	ErrSubscriptionRequired  = errors.New("subscription ID is required, use --subscription or 'azauto config set subscription <id>'")
	ErrNoCredentials         = errors.New("no access token configured and no Azure credential available")
	ErrUnknownConfigKey      = errors.New("unknown configuration key")
	ErrResourceGroupRequired = errors.New("resource group is required (use --resource-group)")
	ErrAccountRequired       = errors.New("automation account is required (use --account)")
)

// Transport errors.
var (
	ErrForeignNextLink = errors.New("next link points at a different host than the configured endpoint")
)

// Input errors.
var (
	ErrInvalidKeyValue     = errors.New("expected KEY=VALUE")
	ErrInvalidEnabledFlag  = errors.New("enabled flag must be 'true' or 'false'")
	ErrEmptySecret         = errors.New("secret must not be empty")
	ErrNotATerminal        = errors.New("stdin is not a terminal, pass the secret with a flag or environment variable")
	ErrInvalidOutputFormat = errors.New("output format must be table, json or yaml")
)
