package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"

	"github.com/kevin07696/ucp-client/internal/adapters/ports"
	"github.com/kevin07696/ucp-client/internal/adapters/secrets"
	"github.com/kevin07696/ucp-client/internal/adapters/ucp"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
)

// EnvPrefix namespaces every environment variable the client reads.
// Nested keys use a double underscore: UCP_GATEWAY__APP_ID -> gateway.app_id
const EnvPrefix = "UCP_"

// Config holds all client configuration
type Config struct {
	Gateway GatewayConfig `koanf:"gateway"`
	Logger  LoggerConfig  `koanf:"logger"`
	Secrets SecretsConfig `koanf:"secrets"`
}

// GatewayConfig holds UCP gateway configuration
type GatewayConfig struct {
	AppID             string        `koanf:"app_id" validate:"required"`
	AppKey            string        `koanf:"app_key"` // May come from Secrets instead
	Nonce             string        `koanf:"nonce"`
	Environment       string        `koanf:"environment" validate:"oneof=test production"`
	ServiceURL        string        `koanf:"service_url" validate:"omitempty,url"`
	AccountName       string        `koanf:"account_name"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int           `koanf:"burst" validate:"gte=0"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string `koanf:"level" validate:"oneof=debug info warn error"`
	Development bool   `koanf:"development"`
}

// SecretsConfig selects where the app key is read from when it is not set directly
type SecretsConfig struct {
	Provider   string `koanf:"provider" validate:"omitempty,oneof=aws vault local"`
	AppKeyPath string `koanf:"app_key_path"`

	AWSRegion   string `koanf:"aws_region"`
	AWSProfile  string `koanf:"aws_profile"`
	AWSEndpoint string `koanf:"aws_endpoint"`

	VaultAddress   string `koanf:"vault_address"`
	VaultToken     string `koanf:"vault_token"`
	VaultRoleID    string `koanf:"vault_role_id"`
	VaultSecretID  string `koanf:"vault_secret_id"`
	VaultMountPath string `koanf:"vault_mount_path"`

	LocalPath string `koanf:"local_path"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"gateway.environment":  string(ucp.EnvironmentTest),
		"gateway.account_name": "Transaction_Processing",
		"gateway.timeout":      "30s",
		"logger.level":         "info",
		"secrets.local_path":   "./secrets",
	}
}

// Load reads configuration from defaults, then the environment (after a
// .env file, if present), and validates it
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, pkgerrors.NewConfigurationError("config", err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and reports the first problem as a
// ConfigurationError naming the offending key
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(koanfTagName)

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return pkgerrors.NewConfigurationError(configKey(fe.Namespace()), fmt.Sprintf("failed '%s' check", fe.Tag()))
		}
		return pkgerrors.NewConfigurationError("config", err.Error())
	}

	if c.Secrets.Provider == "" && c.Gateway.AppKey == "" {
		return pkgerrors.NewConfigurationError("gateway.app_key", "app key is required unless a secrets provider is configured")
	}
	if c.Secrets.Provider != "" && c.Secrets.AppKeyPath == "" {
		return pkgerrors.NewConfigurationError("secrets.app_key_path", "app key path is required with a secrets provider")
	}
	return nil
}

// ResolveAppKey fills in the app key from the secret manager when it was not
// set directly
func (c *Config) ResolveAppKey(ctx context.Context, sm ports.SecretManagerAdapter) error {
	if c.Gateway.AppKey != "" {
		return nil
	}
	if sm == nil {
		return pkgerrors.NewConfigurationError("secrets.provider", "no secret manager available to resolve the app key")
	}
	secret, err := sm.GetSecret(ctx, c.Secrets.AppKeyPath)
	if err != nil {
		return pkgerrors.NewConfigurationError("secrets.app_key_path", err.Error())
	}
	if secret.Value == "" {
		return pkgerrors.NewConfigurationError("secrets.app_key_path", "secret is empty")
	}
	c.Gateway.AppKey = secret.Value
	return nil
}

// SecretOptions maps the secrets section onto the secret manager factory options
func (c *Config) SecretOptions() secrets.Options {
	s := c.Secrets
	return secrets.Options{
		Provider:       s.Provider,
		AWSRegion:      s.AWSRegion,
		AWSProfile:     s.AWSProfile,
		AWSEndpoint:    s.AWSEndpoint,
		VaultAddress:   s.VaultAddress,
		VaultToken:     s.VaultToken,
		VaultRoleID:    s.VaultRoleID,
		VaultSecretID:  s.VaultSecretID,
		VaultMountPath: s.VaultMountPath,
		LocalPath:      s.LocalPath,
	}
}

// ConnectorConfig builds the gateway connector configuration
func (c *Config) ConnectorConfig() *ucp.ConnectorConfig {
	g := c.Gateway
	return &ucp.ConnectorConfig{
		Credentials: ucp.Credentials{
			AppID:  g.AppID,
			AppKey: g.AppKey,
			Nonce:  g.Nonce,
		},
		Environment:       ucp.Environment(g.Environment),
		ServiceURL:        g.ServiceURL,
		AccountName:       g.AccountName,
		APIVersion:        ucp.APIVersion,
		Timeout:           g.Timeout,
		RequestsPerSecond: g.RequestsPerSecond,
		Burst:             g.Burst,
	}
}

// Helper functions

func koanfTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// configKey turns "Config.gateway.app_id" into "gateway.app_id"
func configKey(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
