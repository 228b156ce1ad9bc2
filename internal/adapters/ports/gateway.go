package ports

import (
	"context"

	"github.com/kevin07696/ucp-client/internal/domain"
)

// TransactionGateway runs write operations against the payment gateway.
// Implementations sign in on first use.
type TransactionGateway interface {
	ProcessTransaction(ctx context.Context, req *domain.TransactionRequest) (*domain.Transaction, error)
}

// ReportingGateway runs read-only report queries. Implementations require an
// established session and never sign in on their own.
type ReportingGateway interface {
	ProcessReport(ctx context.Context, query *domain.ReportQuery) (*domain.ReportResult, error)
}

// SessionGateway exposes the authentication lifecycle of a gateway connection
type SessionGateway interface {
	SignIn(ctx context.Context) (*domain.SessionToken, error)
	SignOut()
}
