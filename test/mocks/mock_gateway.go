package mocks

import (
	"context"
	"sync"

	"github.com/kevin07696/ucp-client/internal/adapters/ports"
	"github.com/kevin07696/ucp-client/internal/domain"
)

// MockReportingGateway records report queries and answers with ProcessFunc
type MockReportingGateway struct {
	mu          sync.Mutex
	ProcessFunc func(ctx context.Context, query *domain.ReportQuery) (*domain.ReportResult, error)
	Queries     []*domain.ReportQuery
}

var _ ports.ReportingGateway = (*MockReportingGateway)(nil)

// ProcessReport implements ports.ReportingGateway
func (m *MockReportingGateway) ProcessReport(ctx context.Context, query *domain.ReportQuery) (*domain.ReportResult, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	fn := m.ProcessFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, query)
	}
	return &domain.ReportResult{}, nil
}

// CallCount returns the number of queries received
func (m *MockReportingGateway) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Queries)
}

// MockTransactionGateway records transaction requests and answers with ProcessFunc
type MockTransactionGateway struct {
	mu          sync.Mutex
	ProcessFunc func(ctx context.Context, req *domain.TransactionRequest) (*domain.Transaction, error)
	Requests    []*domain.TransactionRequest
}

var _ ports.TransactionGateway = (*MockTransactionGateway)(nil)

// ProcessTransaction implements ports.TransactionGateway
func (m *MockTransactionGateway) ProcessTransaction(ctx context.Context, req *domain.TransactionRequest) (*domain.Transaction, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, req)
	fn := m.ProcessFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, req)
	}
	return &domain.Transaction{ID: "TRN_mock", Status: "CAPTURED"}, nil
}
