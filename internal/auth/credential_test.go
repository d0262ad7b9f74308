package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/automation-client/internal/auth"
)

var (
	errCredentialUnavailable = errors.New("credential unavailable")
	errDiskFull              = errors.New("disk full")
)

type fakeCredential struct {
	mu      sync.Mutex
	tokens  []azcore.AccessToken
	scopes  [][]string
	err     error
	callNum int
}

func (c *fakeCredential) GetToken(_ context.Context, options policy.TokenRequestOptions) (azcore.AccessToken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.scopes = append(c.scopes, options.Scopes)
	if c.err != nil {
		return azcore.AccessToken{}, c.err
	}

	token := c.tokens[c.callNum%len(c.tokens)]
	c.callNum++

	return token, nil
}

func (c *fakeCredential) calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.callNum
}

type recordingPersister struct {
	endpoint string
	token    string
	err      error
}

func (p *recordingPersister) UpdateAccessToken(endpoint, token string, _ time.Time) error {
	p.endpoint = endpoint
	p.token = token

	return p.err
}

func TestScope(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://management.azure.com/.default", auth.Scope(""))
	assert.Equal(t, "https://management.usgovcloudapi.net/.default", auth.Scope("https://management.usgovcloudapi.net/"))
}

func TestCredentialTokenSource_CachesUntilExpiry(t *testing.T) {
	t.Parallel()

	credential := &fakeCredential{tokens: []azcore.AccessToken{
		{Token: "first", ExpiresOn: time.Now().Add(time.Hour)},
		{Token: "second", ExpiresOn: time.Now().Add(time.Hour)},
	}}
	source := auth.NewCredentialTokenSource(context.Background(), credential, "https://management.azure.com")

	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "first", token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)

	token, err = source.Token()
	require.NoError(t, err)
	assert.Equal(t, "first", token.AccessToken)
	assert.Equal(t, 1, credential.calls())
	assert.Equal(t, []string{"https://management.azure.com/.default"}, credential.scopes[0])

	require.NoError(t, source.Refresh(context.Background()))

	token, err = source.Token()
	require.NoError(t, err)
	assert.Equal(t, "second", token.AccessToken)
}

func TestCredentialTokenSource_InitialToken(t *testing.T) {
	t.Parallel()

	credential := &fakeCredential{tokens: []azcore.AccessToken{{Token: "fresh", ExpiresOn: time.Now().Add(time.Hour)}}}

	valid := auth.NewCredentialTokenSource(context.Background(), credential, "",
		auth.WithInitialToken("cached", time.Now().Add(time.Hour)))

	token, err := valid.Token()
	require.NoError(t, err)
	assert.Equal(t, "cached", token.AccessToken)
	assert.Equal(t, 0, credential.calls())

	expired := auth.NewCredentialTokenSource(context.Background(), credential, "",
		auth.WithInitialToken("stale", time.Now().Add(-time.Minute)))

	token, err = expired.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh", token.AccessToken)
}

func TestCredentialTokenSource_Persists(t *testing.T) {
	t.Parallel()

	credential := &fakeCredential{tokens: []azcore.AccessToken{{Token: "fresh", ExpiresOn: time.Now().Add(time.Hour)}}}
	persister := &recordingPersister{err: errDiskFull}

	var warned error

	source := auth.NewCredentialTokenSource(context.Background(), credential, "https://management.azure.com",
		auth.WithPersister(persister),
		auth.WithPersistWarning(func(err error) { warned = err }))

	_, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "https://management.azure.com", persister.endpoint)
	assert.Equal(t, "fresh", persister.token)
	require.ErrorIs(t, warned, errDiskFull)
	assert.False(t, source.Expiry().IsZero())
}

func TestCredentialTokenSource_Errors(t *testing.T) {
	t.Parallel()

	_, err := auth.NewCredentialTokenSource(context.Background(), nil, "").Token()
	require.ErrorIs(t, err, auth.ErrNoCredential)

	failing := &fakeCredential{err: errCredentialUnavailable}
	_, err = auth.NewCredentialTokenSource(context.Background(), failing, "").Token()
	require.ErrorIs(t, err, errCredentialUnavailable)
	assert.Contains(t, err.Error(), "https://management.azure.com/.default")

	empty := &fakeCredential{tokens: []azcore.AccessToken{{}}}
	_, err = auth.NewCredentialTokenSource(context.Background(), empty, "").Token()
	require.ErrorIs(t, err, auth.ErrEmptyAccessToken)
}

func TestNewCredential(t *testing.T) {
	t.Parallel()

	credential, err := auth.NewCredential(auth.CredentialConfig{
		TenantID:     "00000000-0000-0000-0000-000000000001",
		ClientID:     "00000000-0000-0000-0000-000000000002",
		ClientSecret: "secret",
	})
	require.NoError(t, err)
	assert.NotNil(t, credential)

	credential, err = auth.NewCredential(auth.CredentialConfig{UseCLI: true})
	require.NoError(t, err)
	assert.NotNil(t, credential)
}
