package xero

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sales793/torenius-timber/pkg/utils"
)

// memoryStorage is a minimal CredentialStorage for tests.
type memoryStorage struct {
	tokens *TokenSet
	config *OrgConfig
}

func (m *memoryStorage) GetTokens(context.Context) (*TokenSet, error)  { return m.tokens, nil }
func (m *memoryStorage) GetConfig(context.Context) (*OrgConfig, error) { return m.config, nil }
func (m *memoryStorage) SaveTokens(_ context.Context, t *TokenSet) error {
	m.tokens = t
	return nil
}
func (m *memoryStorage) SaveConfig(_ context.Context, c *OrgConfig) error {
	m.config = c
	return nil
}
func (m *memoryStorage) Clear(context.Context) error {
	m.tokens, m.config = nil, nil
	return nil
}

func newTestClient(identityURL, apiURL string, storage CredentialStorage) *Client {
	cfg := utils.NewConfig(map[string]string{
		"XERO_CLIENT_ID":     "client-id",
		"XERO_CLIENT_SECRET": "client-secret",
		"XERO_REDIRECT_URI":  "https://example.com/admin",
		"XERO_IDENTITY_URL":  identityURL,
		"XERO_API_URL":       apiURL,
	})
	return NewClient(cfg, storage)
}

func TestEnsureValidToken_NoTokensStored(t *testing.T) {
	client := newTestClient("http://identity.invalid", "http://api.invalid", &memoryStorage{})

	_, err := client.EnsureValidToken(context.Background())
	assert.ErrorIs(t, err, ErrSetupRequired)
}

func TestEnsureValidToken_FreshTokenNoNetworkCall(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	now := time.Now()
	storage := &memoryStorage{tokens: &TokenSet{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    now.Add(time.Hour),
		TokenType:    "Bearer",
	}}

	client := newTestClient(server.URL, server.URL, storage)

	token, err := client.EnsureValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A1", token)
	assert.Equal(t, 0, calls)
}

func TestEnsureValidToken_RefreshesWithinMargin(t *testing.T) {
	// Not yet expired, but inside the five-minute safety margin
	server := newIdentityServer(t, func(r *http.Request) {
		assert.Equal(t, "refresh_token", r.PostFormValue("grant_type"))
		assert.Equal(t, "R1", r.PostFormValue("refresh_token"))
	})
	defer server.Close()

	storage := &memoryStorage{tokens: &TokenSet{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    time.Now().Add(4 * time.Minute),
	}}
	client := newTestClient(server.URL, server.URL, storage)

	token, err := client.EnsureValidToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A2", token)
}

func TestEnsureValidToken_ExpiredTokenRefreshRotation(t *testing.T) {
	authorized := false
	server := newIdentityServer(t, func(r *http.Request) {
		username, password, ok := r.BasicAuth()
		require.True(t, ok, "expected HTTP Basic auth")
		assert.Equal(t, "client-id", username)
		assert.Equal(t, "client-secret", password)
		authorized = true
	})
	defer server.Close()

	storage := &memoryStorage{tokens: &TokenSet{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    time.Now().Add(-10 * time.Second),
	}}
	client := newTestClient(server.URL, server.URL, storage)

	token, err := client.EnsureValidToken(context.Background())
	require.NoError(t, err)
	assert.True(t, authorized)
	assert.Equal(t, "A2", token)

	// The entire credential is replaced: rotated refresh token, new expiry
	require.NotNil(t, storage.tokens)
	assert.Equal(t, "A2", storage.tokens.AccessToken)
	assert.Equal(t, "R2", storage.tokens.RefreshToken)
	assert.WithinDuration(t, time.Now().Add(1800*time.Second), storage.tokens.ExpiresAt, 30*time.Second)
}

func TestEnsureValidToken_RejectedRefreshLeavesStoreUntouched(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "invalid_grant",
			"error_description": "refresh token is no longer valid",
		})
	}))
	defer server.Close()

	original := &TokenSet{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    time.Now().Add(-time.Minute),
	}
	storage := &memoryStorage{tokens: original}
	client := newTestClient(server.URL, server.URL, storage)

	_, err := client.EnsureValidToken(context.Background())
	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.Contains(t, err.Error(), "refresh token is no longer valid")

	// No partial state: the stored credential is exactly what was there before
	assert.Same(t, original, storage.tokens)
}

func TestExchangeCode(t *testing.T) {
	server := newIdentityServer(t, func(r *http.Request) {
		assert.Equal(t, "authorization_code", r.PostFormValue("grant_type"))
		assert.Equal(t, "the-code", r.PostFormValue("code"))
		assert.Equal(t, "https://example.com/admin", r.PostFormValue("redirect_uri"))
	})
	defer server.Close()

	client := newTestClient(server.URL, server.URL, &memoryStorage{})

	tokens, err := client.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "A2", tokens.AccessToken)
	assert.Equal(t, "R2", tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
	assert.WithinDuration(t, time.Now().Add(1800*time.Second), tokens.ExpiresAt, 30*time.Second)
}

func TestTokenExpired(t *testing.T) {
	client := newTestClient("http://identity.invalid", "http://api.invalid", &memoryStorage{})

	assert.False(t, client.TokenExpired(&TokenSet{ExpiresAt: time.Now().Add(time.Minute)}))
	assert.True(t, client.TokenExpired(&TokenSet{ExpiresAt: time.Now().Add(-time.Minute)}))
}

// newIdentityServer returns a token endpoint that checks the request with
// verify and answers with a fixed rotated token set.
func newIdentityServer(t *testing.T, verify func(r *http.Request)) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		if verify != nil {
			verify(r)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "A2",
			"refresh_token": "R2",
			"expires_in":    1800,
			"token_type":    "Bearer",
		})
	}))
}
