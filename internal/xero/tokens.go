package xero

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2"
)

// staleMargin is the refresh safety margin: a token within five minutes of
// expiry is treated as already stale so it cannot lapse mid-flight during the
// remote call that uses it.
const staleMargin = 5 * time.Minute

// EnsureValidToken returns a usable access token, refreshing the stored
// credential first when it is stale. A fresh cached token is returned with
// zero network calls.
func (c *Client) EnsureValidToken(ctx context.Context) (string, error) {
	tokens, err := c.storage.GetTokens(ctx)
	if err != nil {
		return "", err
	}
	if tokens == nil {
		return "", ErrSetupRequired
	}

	if c.now().Before(tokens.ExpiresAt.Add(-staleMargin)) {
		return tokens.AccessToken, nil
	}

	log.Println("[XERO]: Token expired or expiring soon, refreshing...")
	return c.refreshAccessToken(ctx, tokens.RefreshToken)
}

// refreshAccessToken exchanges the refresh token for a new token set and
// persists it wholesale. Refresh tokens rotate, so the entire set is replaced;
// on failure nothing is written and the caller must re-authorize. There is no
// retry here: a rejected refresh token stays rejected.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	src := c.oauth.TokenSource(c.httpContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.ErrorCode != "" {
			if rerr.ErrorDescription != "" {
				return "", fmt.Errorf("%w: %s", ErrRefreshFailed, rerr.ErrorDescription)
			}
			return "", fmt.Errorf("%w: %s", ErrRefreshFailed, rerr.ErrorCode)
		}
		return "", fmt.Errorf("%w: %v", ErrRefreshFailed, err)
	}

	set := c.newTokenSet(tok)
	if err := c.storage.SaveTokens(ctx, set); err != nil {
		return "", err
	}

	log.Println("[XERO]: Token refreshed successfully")
	return set.AccessToken, nil
}

// TokenExpired reports whether the stored access token is already past its
// recorded expiry (without the refresh safety margin). Used for status
// display only; freshness decisions go through EnsureValidToken.
func (c *Client) TokenExpired(tokens *TokenSet) bool {
	return !c.now().Before(tokens.ExpiresAt)
}

// ExchangeCode performs the one-time authorization-code exchange. The caller
// is responsible for persisting the returned token set together with the
// selected organization.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*TokenSet, error) {
	tok, err := c.oauth.Exchange(c.httpContext(ctx), code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.ErrorDescription != "" {
			return nil, fmt.Errorf("code exchange failed: %s", rerr.ErrorDescription)
		}
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	return c.newTokenSet(tok), nil
}

func (c *Client) newTokenSet(tok *oauth2.Token) *TokenSet {
	return &TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
		TokenType:    tok.TokenType,
		SavedAt:      c.now(),
	}
}
