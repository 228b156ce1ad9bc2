package ports

import (
	"context"
)

// Secret represents a retrieved secret with metadata
type Secret struct {
	Value     string            // The secret value (e.g., gateway app key)
	Version   string            // Secret version identifier
	Metadata  map[string]string // Additional secret metadata
	CreatedAt string            // When this version was created
}

// SecretManagerAdapter defines the port for retrieving secrets from a secret management service
// Supports multiple backends: AWS Secrets Manager, HashiCorp Vault, local filesystem
// Path format depends on implementation:
//   - AWS: "ucp-client/app-key" or full ARN
//   - Vault: "ucp-client/credentials" (KV mount prefix is added by the adapter)
//   - Local: path relative to the configured base directory
type SecretManagerAdapter interface {
	// GetSecret retrieves a secret by its path/name
	// Returns error if the secret does not exist, permissions are insufficient,
	// or the secret manager cannot be reached
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
