package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"golang.org/x/oauth2"

	"github.com/fivetwenty-io/automation-client/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoCredential     = errors.New("no credential configured")
	ErrEmptyAccessToken = errors.New("credential returned an empty access token")
)

// TokenPersister stores tokens acquired for an endpoint, typically in the
// CLI config file so the next invocation can reuse them.
type TokenPersister interface {
	UpdateAccessToken(endpoint, token string, expiresAt time.Time) error
}

// CredentialTokenSource adapts an azcore.TokenCredential to an
// oauth2.TokenSource and caches the token until it is about to expire.
type CredentialTokenSource struct {
	ctx        context.Context //nolint:containedctx // oauth2.TokenSource has no context parameter
	credential azcore.TokenCredential
	endpoint   string
	scopes     []string
	store      *TokenStore
	persister  TokenPersister
	warn       func(error)
	mutex      sync.Mutex
}

// CredentialOption configures a CredentialTokenSource.
type CredentialOption func(*CredentialTokenSource)

// WithPersister saves every newly acquired token.
func WithPersister(persister TokenPersister) CredentialOption {
	return func(s *CredentialTokenSource) { s.persister = persister }
}

// WithInitialToken seeds the cache, for example with a token read from config.
func WithInitialToken(token string, expiresAt time.Time) CredentialOption {
	return func(s *CredentialTokenSource) {
		if token != "" {
			s.store.Set(&Token{AccessToken: token, TokenType: "Bearer", ExpiresAt: expiresAt})
		}
	}
}

// WithPersistWarning receives persist failures, which never fail a request.
func WithPersistWarning(warn func(error)) CredentialOption {
	return func(s *CredentialTokenSource) { s.warn = warn }
}

// Scope returns the token scope of a management endpoint.
func Scope(endpoint string) string {
	if endpoint == "" {
		endpoint = constants.DefaultEndpoint
	}

	return strings.TrimSuffix(endpoint, "/") + constants.DefaultTokenScopeSuffix
}

// NewCredentialTokenSource creates a token source for the given endpoint.
func NewCredentialTokenSource(ctx context.Context, credential azcore.TokenCredential, endpoint string, opts ...CredentialOption) *CredentialTokenSource {
	if ctx == nil {
		ctx = context.Background()
	}

	source := &CredentialTokenSource{
		ctx:        ctx,
		credential: credential,
		endpoint:   endpoint,
		scopes:     []string{Scope(endpoint)},
		store:      NewTokenStore(),
	}

	for _, opt := range opts {
		opt(source)
	}

	return source
}

// Token implements oauth2.TokenSource.
func (s *CredentialTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.current(s.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{AccessToken: token.AccessToken, TokenType: "Bearer", Expiry: token.ExpiresAt}, nil
}

// Refresh drops the cached token and acquires a new one.
func (s *CredentialTokenSource) Refresh(ctx context.Context) error {
	s.store.Clear()

	_, err := s.current(ctx)

	return err
}

// Expiry returns the expiry of the cached token.
func (s *CredentialTokenSource) Expiry() time.Time {
	token := s.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (s *CredentialTokenSource) current(ctx context.Context) (*Token, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if token := s.store.Get(); token.Valid() {
		return token, nil
	}

	if s.credential == nil {
		return nil, ErrNoCredential
	}

	accessToken, err := s.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: s.scopes})
	if err != nil {
		return nil, fmt.Errorf("failed to acquire token for %s: %w", s.scopes[0], err)
	}

	if accessToken.Token == "" {
		return nil, ErrEmptyAccessToken
	}

	token := &Token{AccessToken: accessToken.Token, TokenType: "Bearer", ExpiresAt: accessToken.ExpiresOn}
	s.store.Set(token)

	if s.persister != nil {
		persistErr := s.persister.UpdateAccessToken(s.endpoint, token.AccessToken, token.ExpiresAt)
		if persistErr != nil && s.warn != nil {
			s.warn(fmt.Errorf("failed to persist access token: %w", persistErr))
		}
	}

	return token, nil
}

var _ oauth2.TokenSource = (*CredentialTokenSource)(nil)
