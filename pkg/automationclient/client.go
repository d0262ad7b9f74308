package automationclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/automation-client/internal/client"
	"github.com/fivetwenty-io/automation-client/pkg/automation"
)

// New creates a new Azure Automation client.
func New(ctx context.Context, config *automation.Config) (automation.Client, error) {
	if config == nil {
		return nil, client.ErrConfigRequired
	}

	normalized := *config
	normalized.Endpoint = NormalizeEndpoint(config.Endpoint)

	automationClient, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return automationClient, nil
}

// NewWithToken creates a client authenticating with a static bearer token.
func NewWithToken(ctx context.Context, subscriptionID, accessToken string) (automation.Client, error) {
	return New(ctx, &automation.Config{
		SubscriptionID: subscriptionID,
		AccessToken:    accessToken,
	})
}

// NormalizeEndpoint trims a trailing slash and adds https:// when no scheme
// is given. An empty endpoint stays empty so the default applies.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return ""
	}

	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}
