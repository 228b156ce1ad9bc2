package mocks

import (
	"context"
	"fmt"

	"github.com/kevin07696/ucp-client/internal/adapters/ports"
)

// MockSecretManager serves secrets from an in-memory map
type MockSecretManager struct {
	Secrets map[string]string
	Err     error
}

var _ ports.SecretManagerAdapter = (*MockSecretManager)(nil)

// GetSecret implements ports.SecretManagerAdapter
func (m *MockSecretManager) GetSecret(ctx context.Context, path string) (*ports.Secret, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	value, ok := m.Secrets[path]
	if !ok {
		return nil, fmt.Errorf("secret not found: %s", path)
	}
	return &ports.Secret{Value: value, Version: "mock"}, nil
}
