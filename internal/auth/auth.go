// Package auth exchanges a GitHub App private key for a short-lived
// organization installation token.
package auth

import (
	"context"
	"crypto/rsa"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/go-github/v57/github"

	"github.com/sdp-dev/tech-audit-scraper/internal/apperrors"
)

// TokenSource mints an installation token scoped to an organization.
type TokenSource interface {
	InstallationToken(ctx context.Context, org string) (string, error)
}

// AppAuthenticator implements TokenSource for a GitHub App.
type AppAuthenticator struct {
	clientID   string
	privateKey *rsa.PrivateKey
	httpClient *http.Client
	now        func() time.Time
}

// Option configures an AppAuthenticator.
type Option func(*AppAuthenticator)

// WithHTTPClient overrides the HTTP client used for the token exchange.
func WithHTTPClient(c *http.Client) Option {
	return func(a *AppAuthenticator) {
		a.httpClient = c
	}
}

// New creates an authenticator from the app client ID and the PEM-encoded
// private key held in the secrets store.
func New(clientID, privateKeyPEM string, opts ...Option) (*AppAuthenticator, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return nil, apperrors.NewCredential("failed to parse GitHub App private key", err)
	}
	a := &AppAuthenticator{
		clientID:   clientID,
		privateKey: key,
		now:        time.Now,
	}
	for _, apply := range opts {
		apply(a)
	}
	return a, nil
}

// appJWT signs the short-lived app JWT used to talk to the Apps API.
// Issued-at is backdated one minute to tolerate clock drift, as GitHub
// recommends; expiry stays under the 10 minute maximum.
func (a *AppAuthenticator) appJWT() (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    a.clientID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(a.privateKey)
}

// InstallationToken finds the app installation on the organization and
// mints an access token for it.
func (a *AppAuthenticator) InstallationToken(ctx context.Context, org string) (string, error) {
	appJWT, err := a.appJWT()
	if err != nil {
		return "", apperrors.NewCredential("failed to sign app JWT", err)
	}

	client := github.NewClient(a.httpClient).WithAuthToken(appJWT)

	installation, _, err := client.Apps.FindOrganizationInstallation(ctx, org)
	if err != nil {
		return "", apperrors.NewCredential("failed to find installation for organization "+org, err)
	}

	token, _, err := client.Apps.CreateInstallationToken(ctx, installation.GetID(), nil)
	if err != nil {
		return "", apperrors.NewCredential("failed to create installation token", err)
	}
	return token.GetToken(), nil
}
