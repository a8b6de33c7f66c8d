// Package secrets resolves credentials from AWS Secrets Manager behind a
// narrow capability interface so the core never touches the AWS SDK.
package secrets

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/secretsmanager"

	"github.com/sdp-dev/tech-audit-scraper/internal/apperrors"
)

// Resolver resolves a secret identifier to its string payload.
type Resolver interface {
	Resolve(ctx context.Context, secretID string) (string, error)
}

// secretsManagerAPI is the subset of the Secrets Manager client used here.
type secretsManagerAPI interface {
	GetSecretValueWithContext(ctx aws.Context, input *secretsmanager.GetSecretValueInput, opts ...request.Option) (*secretsmanager.GetSecretValueOutput, error)
}

// Manager resolves secrets from AWS Secrets Manager.
type Manager struct {
	api secretsManagerAPI
}

// NewManager creates a resolver for the given region.
func NewManager(region string) *Manager {
	sess := session.Must(session.NewSession(aws.NewConfig().WithRegion(region)))
	return &Manager{api: secretsmanager.New(sess)}
}

// Resolve fetches the secret's string payload. A missing or inaccessible
// secret is a credential error.
func (m *Manager) Resolve(ctx context.Context, secretID string) (string, error) {
	out, err := m.api.GetSecretValueWithContext(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", apperrors.NewCredential("failed to resolve secret "+secretID, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return "", apperrors.NewCredential("secret "+secretID+" has no string payload", nil)
	}
	return *out.SecretString, nil
}
