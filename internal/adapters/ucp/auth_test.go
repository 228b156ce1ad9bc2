package ucp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
)

func TestGenerateSecret(t *testing.T) {
	tests := []struct {
		name   string
		nonce  string
		appKey string
		want   string
	}{
		{
			name:   "empty input",
			nonce:  "",
			appKey: "",
			want:   "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
		},
		{
			name:   "nonce is prepended to key",
			nonce:  "a",
			appKey: "bc",
			want:   "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateSecret(tt.nonce, tt.appKey))
		})
	}
}

func TestGenerateSecret_Format(t *testing.T) {
	got := GenerateSecret("10/20/2024 14:30:00.000", "app-key")

	assert.Len(t, got, 128, "SHA-512 hex digest should be 128 characters")
	assert.Regexp(t, "^[0-9a-f]{128}$", got, "Should be lowercase hex")
	assert.Equal(t, got, GenerateSecret("10/20/2024 14:30:00.000", "app-key"), "Same input should produce same secret")
	assert.NotEqual(t, got, GenerateSecret("10/20/2024 14:30:00.001", "app-key"), "Different nonces should produce different secrets")
}

func TestCredentials_Validate(t *testing.T) {
	tests := []struct {
		name      string
		creds     Credentials
		wantField string
	}{
		{name: "valid", creds: Credentials{AppID: "id", AppKey: "key"}},
		{name: "missing app id", creds: Credentials{AppKey: "key"}, wantField: "app_id"},
		{name: "missing app key", creds: Credentials{AppID: "id"}, wantField: "app_key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *pkgerrors.ConfigurationError
			if assert.ErrorAs(t, err, &cfgErr) {
				assert.Equal(t, tt.wantField, cfgErr.Field)
			}
		})
	}
}

func TestCredentials_WithDefaultNonce(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 7, 3, 42_000_000, time.UTC)

	generated := Credentials{AppID: "id", AppKey: "key"}.WithDefaultNonce(now)
	assert.Equal(t, "03/05/2024 09:07:03.042", generated.Nonce)

	explicit := Credentials{AppID: "id", AppKey: "key", Nonce: "fixed"}.WithDefaultNonce(now)
	assert.Equal(t, "fixed", explicit.Nonce)
}
