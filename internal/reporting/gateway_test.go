package reporting

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/ucp-client/internal/adapters/ucp"
	"github.com/kevin07696/ucp-client/test/mocks"
)

func setupGateway(t *testing.T, handler http.HandlerFunc) (*ucp.Connector, *int32) {
	t.Helper()
	var listCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/ucp/accesstoken" {
			fmt.Fprint(w, `{"token":"tok","type":"Bearer","seconds_to_expire":600}`)
			return
		}
		atomic.AddInt32(&listCalls, 1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	cfg := ucp.DefaultConnectorConfig()
	cfg.Credentials = ucp.Credentials{AppID: "app", AppKey: "key"}
	cfg.ServiceURL = server.URL

	connector, err := ucp.NewConnector(cfg, server.Client(), mocks.NewMockLogger())
	require.NoError(t, err)
	return connector, &listCalls
}

func TestFindTransactions_AgainstGateway(t *testing.T) {
	connector, calls := setupGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ucp/transactions", r.URL.Path)
		assert.Equal(t, "2024-01-01", r.URL.Query().Get("from_time_created"))
		assert.Equal(t, "2024-01-31", r.URL.Query().Get("to_time_created"))
		fmt.Fprint(w, `{"transactions":[{"id":"T1","status":"CAPTURED","amount":"1999"}]}`)
	})
	require.NoError(t, connector.EnsureAuthenticated(context.Background()))

	result, err := FindTransactions(connector).
		WithStartDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)).
		WithEndDate(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)).
		Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	assert.Equal(t, "T1", result.Results[0].ID)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestTransactionDetail_ValidationSendsNothing(t *testing.T) {
	connector, calls := setupGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no report request expected")
	})
	require.NoError(t, connector.EnsureAuthenticated(context.Background()))

	_, err := TransactionDetail(connector, "").Execute(context.Background())
	require.Error(t, err)

	_, err = FindTransactions(connector).WithTransactionID("X").Execute(context.Background())
	require.Error(t, err)

	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}

func TestTransactionDetail_RequiresSignIn(t *testing.T) {
	connector, calls := setupGateway(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no report request expected")
	})

	_, err := TransactionDetail(connector, "TRN_1").Execute(context.Background())
	assert.ErrorIs(t, err, ucp.ErrNotSignedIn)
	assert.Equal(t, int32(0), atomic.LoadInt32(calls))
}
