package connection_module

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sales793/torenius-timber/internal/stores/credential"
	"github.com/sales793/torenius-timber/internal/xero"
	"github.com/sales793/torenius-timber/pkg/sdk"
	"github.com/sales793/torenius-timber/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupModule(t *testing.T, xeroURL string) (*gin.Engine, *credential.InMemoryStore) {
	t.Helper()

	cfg := utils.NewConfig(map[string]string{
		"XERO_CLIENT_ID":     "client-id",
		"XERO_CLIENT_SECRET": "client-secret",
		"XERO_REDIRECT_URI":  "https://example.com/admin",
		"XERO_IDENTITY_URL":  xeroURL,
		"XERO_API_URL":       xeroURL,
	})

	storage := credential.NewInMemoryStore()
	require.NoError(t, Init(cfg, xero.NewClient(cfg, storage)))

	engine := gin.New()
	RegisterRoutes(engine.Group("/api"))
	return engine, storage
}

func TestAuthorizeCallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/connect/token":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "A1",
				"refresh_token": "R1",
				"expires_in":    1800,
				"token_type":    "Bearer",
			})
		case "/connections":
			json.NewEncoder(w).Encode([]xero.Connection{
				{TenantID: "tenant-1", TenantName: "Torenius Timber", TenantType: "ORGANISATION"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	engine, storage := setupModule(t, server.URL)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/connection/callback?code=the-code", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp sdk.ApiResponse[sdk.AuthorizeResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Connected to Xero", resp.Message)
	assert.Equal(t, "Torenius Timber", resp.Data.Organization)

	tokens, err := storage.GetTokens(context.Background())
	require.NoError(t, err)
	require.NotNil(t, tokens)
	assert.Equal(t, "R1", tokens.RefreshToken)
}

func TestAuthorizeCallback_MissingCode(t *testing.T) {
	engine, _ := setupModule(t, "http://xero.invalid")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/connection/callback", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp sdk.ApiResponse[any]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No authorization code", resp.Message)
}

func TestAuthorizeCallback_NoOrganization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/connect/token":
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"access_token": "A1", "expires_in": 1800})
		case "/connections":
			w.Write([]byte("[]"))
		}
	}))
	defer server.Close()

	engine, _ := setupModule(t, server.URL)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/connection/callback?code=the-code", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetStatus_NotConnected(t *testing.T) {
	engine, _ := setupModule(t, "http://xero.invalid")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/connection/status", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp sdk.ApiResponse[sdk.StatusResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Data.Connected)
	assert.Empty(t, resp.Data.Organization)
}

func TestGetStatus_Connected(t *testing.T) {
	engine, storage := setupModule(t, "http://xero.invalid")

	require.NoError(t, storage.SaveTokens(context.Background(), &xero.TokenSet{
		AccessToken:  "A1",
		RefreshToken: "R1",
		ExpiresAt:    time.Now().Add(-time.Minute), // expired, refresh pending
	}))
	require.NoError(t, storage.SaveConfig(context.Background(), &xero.OrgConfig{
		TenantID:    "tenant-1",
		TenantName:  "Torenius Timber",
		ConnectedAt: time.Now().Add(-24 * time.Hour),
	}))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/connection/status", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp sdk.ApiResponse[sdk.StatusResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Connected)
	assert.Equal(t, "Torenius Timber", resp.Data.Organization)
	assert.True(t, resp.Data.NeedsRefresh)
}

func TestDisconnect(t *testing.T) {
	engine, storage := setupModule(t, "http://xero.invalid")

	require.NoError(t, storage.SaveTokens(context.Background(), &xero.TokenSet{AccessToken: "A1"}))
	require.NoError(t, storage.SaveConfig(context.Background(), &xero.OrgConfig{TenantID: "tenant-1"}))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/connection/disconnect", nil))

	require.Equal(t, http.StatusOK, w.Code)

	tokens, err := storage.GetTokens(context.Background())
	require.NoError(t, err)
	assert.Nil(t, tokens)
	config, err := storage.GetConfig(context.Background())
	require.NoError(t, err)
	assert.Nil(t, config)
}
