package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// API is the subset of the Secrets Manager client the store uses.
type API interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Store fetches secret strings by name.
type Store struct {
	api API
}

func NewStore(api API) *Store {
	return &Store{api: api}
}

// NewStoreFromConfig creates a Store backed by a real Secrets Manager client.
func NewStoreFromConfig(cfg aws.Config) *Store {
	return NewStore(secretsmanager.NewFromConfig(cfg))
}

// Get returns the secret string for name.
func (s *Store) Get(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("secrets: secret name not configured")
	}
	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		return "", fmt.Errorf("secrets: failed to fetch %s: %w", name, err)
	}
	if out.SecretString == nil || *out.SecretString == "" {
		return "", fmt.Errorf("secrets: %s has an empty secret string", name)
	}
	return *out.SecretString, nil
}

// GetToken returns a token secret that may be stored either as a raw
// string or as JSON like {"token": "..."}.
func (s *Store) GetToken(ctx context.Context, name string) (string, error) {
	raw, err := s.Get(ctx, name)
	if err != nil {
		return "", err
	}
	var wrapped struct {
		Token string `json:"token"`
	}
	if json.Unmarshal([]byte(raw), &wrapped) == nil && wrapped.Token != "" {
		return wrapped.Token, nil
	}
	return raw, nil
}
