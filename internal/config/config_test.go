package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kevin07696/ucp-client/internal/adapters/secrets"
	"github.com/kevin07696/ucp-client/internal/adapters/ucp"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
	"github.com/kevin07696/ucp-client/test/mocks"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("UCP_GATEWAY__APP_ID", "env-app")
	t.Setenv("UCP_GATEWAY__APP_KEY", "env-key")
	t.Setenv("UCP_GATEWAY__ENVIRONMENT", "production")
	t.Setenv("UCP_GATEWAY__TIMEOUT", "5s")
	t.Setenv("UCP_GATEWAY__REQUESTS_PER_SECOND", "2.5")
	t.Setenv("UCP_LOGGER__LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-app", cfg.Gateway.AppID)
	assert.Equal(t, "env-key", cfg.Gateway.AppKey)
	assert.Equal(t, "production", cfg.Gateway.Environment)
	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 2.5, cfg.Gateway.RequestsPerSecond)
	assert.Equal(t, "debug", cfg.Logger.Level)

	// Defaults fill what the environment leaves out
	assert.Equal(t, "Transaction_Processing", cfg.Gateway.AccountName)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("UCP_GATEWAY__APP_ID", "env-app")
	t.Setenv("UCP_GATEWAY__APP_KEY", "env-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Gateway.Environment)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Empty(t, cfg.Secrets.Provider)
}

func TestLoad_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantField string
	}{
		{
			name:      "missing app id",
			env:       map[string]string{"UCP_GATEWAY__APP_KEY": "key"},
			wantField: "gateway.app_id",
		},
		{
			name:      "missing app key without secrets provider",
			env:       map[string]string{"UCP_GATEWAY__APP_ID": "id"},
			wantField: "gateway.app_key",
		},
		{
			name:      "unknown environment",
			env:       map[string]string{"UCP_GATEWAY__APP_ID": "id", "UCP_GATEWAY__APP_KEY": "key", "UCP_GATEWAY__ENVIRONMENT": "staging"},
			wantField: "gateway.environment",
		},
		{
			name:      "invalid service url",
			env:       map[string]string{"UCP_GATEWAY__APP_ID": "id", "UCP_GATEWAY__APP_KEY": "key", "UCP_GATEWAY__SERVICE_URL": "not a url"},
			wantField: "gateway.service_url",
		},
		{
			name:      "unknown secrets provider",
			env:       map[string]string{"UCP_GATEWAY__APP_ID": "id", "UCP_SECRETS__PROVIDER": "gcp", "UCP_SECRETS__APP_KEY_PATH": "p"},
			wantField: "secrets.provider",
		},
		{
			name:      "secrets provider without path",
			env:       map[string]string{"UCP_GATEWAY__APP_ID": "id", "UCP_SECRETS__PROVIDER": "local"},
			wantField: "secrets.app_key_path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()

			var cfgErr *pkgerrors.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestResolveAppKey_FromLocalSecrets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ucp"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ucp", "app_key"), []byte("file-key\n"), 0o600))

	t.Setenv("UCP_GATEWAY__APP_ID", "id")
	t.Setenv("UCP_SECRETS__PROVIDER", "local")
	t.Setenv("UCP_SECRETS__APP_KEY_PATH", "ucp/app_key")
	t.Setenv("UCP_SECRETS__LOCAL_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)

	sm, err := secrets.New(context.Background(), cfg.SecretOptions(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, cfg.ResolveAppKey(context.Background(), sm))

	assert.Equal(t, "file-key", cfg.Gateway.AppKey)
	assert.Equal(t, "file-key", cfg.ConnectorConfig().Credentials.AppKey)
}

func TestResolveAppKey(t *testing.T) {
	t.Run("direct key wins", func(t *testing.T) {
		cfg := &Config{Gateway: GatewayConfig{AppKey: "direct"}}
		require.NoError(t, cfg.ResolveAppKey(context.Background(), nil))
		assert.Equal(t, "direct", cfg.Gateway.AppKey)
	})

	t.Run("no secret manager", func(t *testing.T) {
		cfg := &Config{}
		assert.True(t, pkgerrors.IsConfiguration(cfg.ResolveAppKey(context.Background(), nil)))
	})

	t.Run("lookup failure", func(t *testing.T) {
		cfg := &Config{Secrets: SecretsConfig{AppKeyPath: "ucp/app_key"}}
		err := cfg.ResolveAppKey(context.Background(), &mocks.MockSecretManager{Err: errors.New("access denied")})
		assert.True(t, pkgerrors.IsConfiguration(err))
	})

	t.Run("empty secret", func(t *testing.T) {
		cfg := &Config{Secrets: SecretsConfig{AppKeyPath: "ucp/app_key"}}
		sm := &mocks.MockSecretManager{Secrets: map[string]string{"ucp/app_key": ""}}
		assert.True(t, pkgerrors.IsConfiguration(cfg.ResolveAppKey(context.Background(), sm)))
	})

	t.Run("resolved", func(t *testing.T) {
		cfg := &Config{Secrets: SecretsConfig{AppKeyPath: "ucp/app_key"}}
		sm := &mocks.MockSecretManager{Secrets: map[string]string{"ucp/app_key": "secret-key"}}
		require.NoError(t, cfg.ResolveAppKey(context.Background(), sm))
		assert.Equal(t, "secret-key", cfg.Gateway.AppKey)
	})
}

func TestConnectorConfig(t *testing.T) {
	cfg := &Config{Gateway: GatewayConfig{
		AppID:             "id",
		AppKey:            "key",
		Nonce:             "nonce",
		Environment:       "production",
		AccountName:       "acct",
		Timeout:           10 * time.Second,
		RequestsPerSecond: 3,
		Burst:             2,
	}}

	cc := cfg.ConnectorConfig()
	assert.Equal(t, ucp.Credentials{AppID: "id", AppKey: "key", Nonce: "nonce"}, cc.Credentials)
	assert.Equal(t, ucp.EnvironmentProduction, cc.Environment)
	assert.Equal(t, ucp.ProductionURL, cc.BaseURL())
	assert.Equal(t, "acct", cc.AccountName)
	assert.Equal(t, ucp.APIVersion, cc.APIVersion)
	assert.Equal(t, 10*time.Second, cc.Timeout)
	assert.Equal(t, 3.0, cc.RequestsPerSecond)
	assert.Equal(t, 2, cc.Burst)
	assert.NoError(t, cc.Validate())
}
