// Package cognito talks to an AWS Cognito user pool: it validates the
// pool's RS256 bearer tokens against the published JWKS and signs users
// in through the InitiateAuth API. Core services never see this package;
// only the HTTP layer does.
package cognito

import (
	"errors"
	"fmt"
	"time"
)

// Config carries everything needed to reach one user pool. Endpoint is
// normally derived from Region and UserPoolID; tests point it at a local
// server.
type Config struct {
	Region       string
	UserPoolID   string
	ClientID     string
	ClientSecret string
	RequiredRole string
	Endpoint     string
	Timeout      time.Duration
}

// IssuerURL is the token issuer for the pool, also the base of the JWKS
// document.
func (c Config) IssuerURL() string {
	if c.Endpoint != "" {
		return c.Endpoint
	}
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region, c.UserPoolID)
}

var (
	// ErrInvalidToken is returned for any token that fails validation.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNotAuthorized is returned when the identity provider rejects
	// the credentials.
	ErrNotAuthorized = errors.New("invalid username or password")
	// ErrNotConfirmed is returned for accounts that exist but were
	// never confirmed.
	ErrNotConfirmed = errors.New("user account not confirmed")
)
