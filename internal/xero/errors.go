package xero

import (
	"errors"
	"net/http"
)

var (
	// ErrSetupRequired means no credential has ever been stored. The only way
	// out is the one-time authorization flow at /api/connection/callback.
	ErrSetupRequired = errors.New("no tokens stored - admin setup required")

	// ErrRefreshFailed means the identity endpoint rejected our refresh token
	// (or returned garbage). The stored credential is left untouched and the
	// admin must reconnect.
	ErrRefreshFailed = errors.New("token refresh failed - reconnect required")

	// ErrNoOrganization means authorization succeeded but the account has no
	// connected organizations.
	ErrNoOrganization = errors.New("no Xero organizations found")

	// ErrUpstream covers any unreachable or unparsable remote API response.
	ErrUpstream = errors.New("upstream Xero API error")
)

// HTTPStatus maps a pipeline error to the status code the API surfaces it
// with. Both credential failures come back 401 with a pointer to the connect
// flow; anything unrecognized is a plain 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrSetupRequired), errors.Is(err, ErrRefreshFailed):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNoOrganization):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
