package secrets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kevin07696/ucp-client/internal/adapters/ports"
)

// Provider names accepted by New
const (
	ProviderAWS   = "aws"
	ProviderVault = "vault"
	ProviderLocal = "local"
)

// Options selects and configures a secret manager backend
type Options struct {
	Provider string

	AWSRegion   string
	AWSProfile  string
	AWSEndpoint string

	VaultAddress   string
	VaultToken     string
	VaultRoleID    string
	VaultSecretID  string
	VaultMountPath string

	LocalPath string
}

// New builds the secret manager named by opts.Provider
func New(ctx context.Context, opts Options, logger *zap.Logger) (ports.SecretManagerAdapter, error) {
	switch opts.Provider {
	case ProviderAWS:
		cfg := DefaultAWSSecretsManagerConfig(opts.AWSRegion)
		cfg.Profile = opts.AWSProfile
		cfg.Endpoint = opts.AWSEndpoint
		return NewAWSSecretsManagerAdapter(ctx, cfg, logger)

	case ProviderVault:
		cfg := DefaultVaultConfig(opts.VaultAddress)
		cfg.Token = opts.VaultToken
		if opts.VaultRoleID != "" {
			cfg.AuthMethod = "approle"
			cfg.RoleID = opts.VaultRoleID
			cfg.SecretID = opts.VaultSecretID
		}
		if opts.VaultMountPath != "" {
			cfg.MountPath = opts.VaultMountPath
		}
		return NewVaultAdapter(ctx, cfg, logger)

	case ProviderLocal:
		return NewLocalSecretManager(opts.LocalPath, logger), nil

	default:
		return nil, fmt.Errorf("unknown secret provider %q", opts.Provider)
	}
}
