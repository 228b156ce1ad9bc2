package ucp

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kevin07696/ucp-client/internal/adapters/ports"
	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
	pkghttp "github.com/kevin07696/ucp-client/pkg/http"
	"github.com/kevin07696/ucp-client/pkg/timeutil"
)

const (
	// APIVersion is sent as X-GP-Version on every call
	APIVersion = "2020-04-10"

	SandboxURL    = "https://apis.sandbox.globalpay.com"
	ProductionURL = "https://apis.globalpay.com"

	defaultAccountName = "Transaction_Processing"
)

// Environment selects the default service URL
type Environment string

const (
	EnvironmentTest       Environment = "test"
	EnvironmentProduction Environment = "production"
)

// ConnectorConfig contains configuration for the gateway connector
type ConnectorConfig struct {
	Credentials Credentials
	Environment Environment
	ServiceURL  string // Overrides the environment default when set
	AccountName string // Merchant account transactions are booked against
	APIVersion  string
	Timeout     time.Duration

	// Outbound rate limit; zero disables it
	RequestsPerSecond float64
	Burst             int
}

// DefaultConnectorConfig returns default configuration
func DefaultConnectorConfig() *ConnectorConfig {
	return &ConnectorConfig{
		Environment: EnvironmentTest,
		AccountName: defaultAccountName,
		APIVersion:  APIVersion,
		Timeout:     30 * time.Second,
	}
}

// BaseURL resolves the service URL for the configured environment
func (c *ConnectorConfig) BaseURL() string {
	if c.ServiceURL != "" {
		return strings.TrimRight(c.ServiceURL, "/")
	}
	if c.Environment == EnvironmentProduction {
		return ProductionURL
	}
	return SandboxURL
}

// Validate checks the configuration before any network activity
func (c *ConnectorConfig) Validate() error {
	if err := c.Credentials.Validate(); err != nil {
		return err
	}
	switch c.Environment {
	case "", EnvironmentTest, EnvironmentProduction:
	default:
		return pkgerrors.NewConfigurationError("environment", fmt.Sprintf("unknown environment %q", c.Environment))
	}
	if c.Timeout < 0 {
		return pkgerrors.NewConfigurationError("timeout", "timeout cannot be negative")
	}
	if c.RequestsPerSecond < 0 {
		return pkgerrors.NewConfigurationError("requests_per_second", "rate cannot be negative")
	}
	return nil
}

// Connector is the gateway client. It is safe for concurrent use: the session
// token lives in its SessionManager and every other field is read-only after
// construction.
type Connector struct {
	config       *ConnectorConfig
	httpClient   ports.HTTPClient
	logger       ports.Logger
	session      *SessionManager
	limiter      *rate.Limiter
	newReference func() string
	now          func() time.Time
}

var (
	_ ports.TransactionGateway = (*Connector)(nil)
	_ ports.ReportingGateway   = (*Connector)(nil)
	_ ports.SessionGateway     = (*Connector)(nil)
)

// NewConnector creates a connector with dependency injection. The config is
// validated here, so a missing app id or key fails before any request.
func NewConnector(config *ConnectorConfig, httpClient ports.HTTPClient, logger ports.Logger) (*Connector, error) {
	if config == nil {
		return nil, pkgerrors.NewConfigurationError("config", "connector config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if httpClient == nil {
		return nil, pkgerrors.NewConfigurationError("http_client", "http client is required")
	}
	if logger == nil {
		logger = ports.NopLogger{}
	}

	cfg := *config
	if cfg.APIVersion == "" {
		cfg.APIVersion = APIVersion
	}
	if cfg.AccountName == "" {
		cfg.AccountName = defaultAccountName
	}
	if cfg.Environment == "" {
		cfg.Environment = EnvironmentTest
	}

	c := &Connector{
		config:       &cfg,
		httpClient:   httpClient,
		logger:       logger,
		newReference: NewReference,
		now:          timeutil.Now,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	c.session = NewSessionManager(c.signIn, logger)
	c.session.signInTimeout = cfg.Timeout
	return c, nil
}

// NewConnectorWithDefaults creates a connector with the tuned gateway HTTP client
func NewConnectorWithDefaults(config *ConnectorConfig, logger ports.Logger) (*Connector, error) {
	timeout := 30 * time.Second
	if config != nil && config.Timeout > 0 {
		timeout = config.Timeout
	}
	return NewConnector(config, pkghttp.NewHTTPClient(pkghttp.GatewayClientConfig(), timeout), logger)
}

// Session exposes the connector's session state
func (c *Connector) Session() *SessionManager {
	return c.session
}

// EnsureAuthenticated signs in unless a usable session already exists
func (c *Connector) EnsureAuthenticated(ctx context.Context) error {
	_, err := c.session.EnsureAuthenticated(ctx)
	return err
}

// SignIn forces a fresh sign-in
func (c *Connector) SignIn(ctx context.Context) (*domain.SessionToken, error) {
	return c.session.SignIn(ctx)
}

// SignOut clears the local session
func (c *Connector) SignOut() {
	c.session.SignOut()
}

// ProcessTransaction implements TransactionGateway.ProcessTransaction.
// The request is translated before signing in so an unsupported or invalid
// request never costs a sign-in round trip. A declined transaction is returned
// fully mapped together with a declined PaymentError.
func (c *Connector) ProcessTransaction(ctx context.Context, req *domain.TransactionRequest) (*domain.Transaction, error) {
	gwReq, err := BuildTransactionRequest(c.config.AccountName, req, c.newReference)
	if err != nil {
		return nil, err
	}

	tok, err := c.session.EnsureAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.execute(ctx, "process_transaction", gwReq, tok)
	if err != nil {
		return nil, err
	}

	txn, err := MapTransaction(raw)
	if err != nil {
		return nil, err
	}

	if txn.Status == "DECLINED" || (txn.Action != nil && txn.Action.ResultCode == "DECLINED") {
		payErr := pkgerrors.NewPaymentError("DECLINED", "transaction was declined", pkgerrors.CategoryDeclined, false)
		payErr.GatewayMessage = txn.PaymentMessage
		payErr.Details["transaction_id"] = txn.ID
		payErr.Details["reference"] = txn.Reference
		c.logger.Warn("transaction declined",
			ports.String("transaction_id", txn.ID),
			ports.String("status", txn.Status),
		)
		return txn, payErr
	}

	c.logger.Info("transaction processed",
		ports.String("transaction_id", txn.ID),
		ports.String("status", txn.Status),
	)
	return txn, nil
}

// ProcessReport implements ReportingGateway.ProcessReport. Reports never sign
// in on their own: without an established session they fail with ErrNotSignedIn.
func (c *Connector) ProcessReport(ctx context.Context, query *domain.ReportQuery) (*domain.ReportResult, error) {
	if query == nil {
		return nil, pkgerrors.NewValidationError("query", "report query is required")
	}
	gwReq, err := BuildReportRequest(query)
	if err != nil {
		return nil, err
	}

	tok, err := c.session.Token()
	if err != nil {
		return nil, err
	}

	raw, err := c.execute(ctx, query.ReportType.String(), gwReq, tok)
	if err != nil {
		return nil, err
	}

	if gwReq.ResultsField != "" {
		page, err := MapTransactionList(raw, gwReq.ResultsField)
		if err != nil {
			return nil, err
		}
		return &domain.ReportResult{Transactions: page}, nil
	}

	row, err := MapTransactionSummary(raw)
	if err != nil {
		return nil, err
	}
	return &domain.ReportResult{Detail: row}, nil
}

// signIn is the SessionManager's sign-in round trip
func (c *Connector) signIn(ctx context.Context) (*domain.SessionToken, error) {
	creds := c.config.Credentials.WithDefaultNonce(c.now())
	raw, err := c.execute(ctx, "sign_in", buildAccessTokenRequest(creds), nil)
	if err != nil {
		return nil, pkgerrors.NewAuthenticationError("sign-in request failed", err)
	}
	tok, err := MapAccessToken(raw, c.now())
	if err != nil {
		return nil, pkgerrors.NewAuthenticationError("sign-in response unusable", err)
	}
	return tok, nil
}

// execute makes one HTTP call to the gateway and returns the (inflated) body
// of a successful response. There is no retry: timeouts and transport
// failures surface directly.
func (c *Connector) execute(ctx context.Context, operation string, req *gatewayRequest, tok *domain.SessionToken) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, pkgerrors.NewGatewayError("RATE_LIMITED", "outbound rate limit wait aborted", 0, "", err)
		}
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.config.BaseURL()+req.Endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("X-GP-Version", c.config.APIVersion)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Accept-Encoding", "gzip")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if tok != nil {
		httpReq.Header.Set("Authorization", "Bearer "+tok.Value)
	}

	// Log request (excluding body, which carries card data and secrets)
	c.logger.Info("making request to UCP gateway",
		ports.String("operation", operation),
		ports.String("method", req.Method),
		ports.String("endpoint", endpointPath(req.Endpoint)),
	)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	gatewayRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		gatewayRequestsTotal.WithLabelValues(operation, "network_error").Inc()
		c.logger.Error("UCP gateway request failed",
			ports.String("operation", operation),
			ports.Err(err),
			ports.Duration("elapsed", time.Since(start)),
		)
		code := "NETWORK_ERROR"
		if errors.Is(err, context.DeadlineExceeded) {
			code = "TIMEOUT"
		}
		return nil, pkgerrors.NewGatewayError(code, "failed to reach payment gateway", 0, "", err)
	}
	defer httpResp.Body.Close()

	raw, err := readBody(httpResp)
	if err != nil {
		gatewayRequestsTotal.WithLabelValues(operation, "network_error").Inc()
		return nil, pkgerrors.NewGatewayError("READ_ERROR", "failed to read response body", httpResp.StatusCode, "", err)
	}

	gatewayRequestsTotal.WithLabelValues(operation, statusLabel(httpResp.StatusCode)).Inc()
	c.logger.Info("UCP gateway response",
		ports.String("operation", operation),
		ports.Int("status_code", httpResp.StatusCode),
		ports.Duration("elapsed", time.Since(start)),
	)

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		if httpResp.StatusCode == http.StatusUnauthorized && tok != nil {
			c.session.Invalidate(tok)
		}
		gwErr := mapErrorResponse(httpResp.StatusCode, raw)
		c.logger.Error("UCP gateway returned non-success status",
			ports.String("operation", operation),
			ports.Int("status_code", httpResp.StatusCode),
			ports.String("error_code", gwErr.Code),
		)
		return nil, gwErr
	}

	return raw, nil
}

func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		reader = gz
	}
	return io.ReadAll(reader)
}

// endpointPath strips the query string, which can carry card digits and names
func endpointPath(endpoint string) string {
	if i := strings.IndexByte(endpoint, '?'); i >= 0 {
		return endpoint[:i]
	}
	return endpoint
}
