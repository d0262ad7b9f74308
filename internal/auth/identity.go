package auth

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// CredentialConfig selects an Azure identity credential. A service principal
// is used when ClientID and ClientSecret are set, the Azure CLI login when
// UseCLI is set, and the default credential chain otherwise.
type CredentialConfig struct {
	TenantID     string
	ClientID     string
	ClientSecret string //nolint:gosec // credential field
	UseCLI       bool
}

// NewCredential builds the credential described by config.
func NewCredential(config CredentialConfig) (azcore.TokenCredential, error) {
	switch {
	case config.ClientID != "" && config.ClientSecret != "":
		credential, err := azidentity.NewClientSecretCredential(config.TenantID, config.ClientID, config.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create client secret credential: %w", err)
		}

		return credential, nil
	case config.UseCLI:
		credential, err := azidentity.NewAzureCLICredential(&azidentity.AzureCLICredentialOptions{TenantID: config.TenantID})
		if err != nil {
			return nil, fmt.Errorf("failed to create Azure CLI credential: %w", err)
		}

		return credential, nil
	default:
		credential, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{TenantID: config.TenantID})
		if err != nil {
			return nil, fmt.Errorf("failed to create default Azure credential: %w", err)
		}

		return credential, nil
	}
}
