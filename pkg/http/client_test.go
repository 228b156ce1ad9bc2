package http

import (
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayClientConfig(t *testing.T) {
	cfg := GatewayClientConfig()

	assert.True(t, cfg.DisableCompression, "the connector inflates gzip bodies itself")
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinTLSVersion)
	assert.False(t, cfg.InsecureSkipVerify)
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(GatewayClientConfig(), 15*time.Second)

	assert.Equal(t, 15*time.Second, client.Timeout)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.DisableCompression)
	assert.Equal(t, 50, transport.MaxIdleConnsPerHost)
	assert.Equal(t, uint16(tls.VersionTLS12), transport.TLSClientConfig.MinVersion)
}
