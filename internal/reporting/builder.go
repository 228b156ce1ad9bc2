package reporting

import (
	"context"
	"time"

	"github.com/kevin07696/ucp-client/internal/adapters/ports"
	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
)

// ReportBuilder composes a report query. Setters overwrite the previous value
// of their field and return the builder; Execute validates and dispatches.
// A builder is owned by its caller and is not safe for concurrent use.
//
// T is the shape the caller wants back; extract pulls it out of the gateway's
// report result.
type ReportBuilder[T any] struct {
	query   domain.ReportQuery
	gateway ports.ReportingGateway
	extract func(*domain.ReportResult) (T, error)
}

// NewReportBuilder creates a builder that returns the raw report result
func NewReportBuilder(reportType domain.ReportType, gateway ports.ReportingGateway) *ReportBuilder[*domain.ReportResult] {
	return newBuilder(reportType, gateway, func(r *domain.ReportResult) (*domain.ReportResult, error) {
		return r, nil
	})
}

// TransactionDetail builds a single-transaction lookup
func TransactionDetail(gateway ports.ReportingGateway, transactionID string) *ReportBuilder[*domain.TransactionSummary] {
	b := newBuilder(domain.ReportTypeTransactionDetail, gateway, func(r *domain.ReportResult) (*domain.TransactionSummary, error) {
		if r == nil || r.Detail == nil {
			return nil, pkgerrors.NewGatewayError("MAPPING_ERROR", "report returned no transaction", 0, "", nil)
		}
		return r.Detail, nil
	})
	if transactionID != "" {
		b.WithTransactionID(transactionID)
	}
	return b
}

// FindTransactions builds a paged transaction activity report
func FindTransactions(gateway ports.ReportingGateway) *ReportBuilder[*domain.PagedResult[*domain.TransactionSummary]] {
	return newBuilder(domain.ReportTypeActivity, gateway, func(r *domain.ReportResult) (*domain.PagedResult[*domain.TransactionSummary], error) {
		if r == nil || r.Transactions == nil {
			return nil, pkgerrors.NewGatewayError("MAPPING_ERROR", "report returned no transaction list", 0, "", nil)
		}
		return r.Transactions, nil
	})
}

func newBuilder[T any](reportType domain.ReportType, gateway ports.ReportingGateway, extract func(*domain.ReportResult) (T, error)) *ReportBuilder[T] {
	return &ReportBuilder[T]{
		query: domain.ReportQuery{
			ReportType:    reportType,
			SortDirection: domain.SortAscending,
			Criteria:      make(map[domain.SearchCriteria]string),
		},
		gateway: gateway,
		extract: extract,
	}
}

// WithDeviceID filters by device
func (b *ReportBuilder[T]) WithDeviceID(deviceID string) *ReportBuilder[T] {
	b.query.DeviceID = deviceID
	return b
}

// WithStartDate filters to transactions created on or after date
func (b *ReportBuilder[T]) WithStartDate(date time.Time) *ReportBuilder[T] {
	b.query.StartDate = &date
	return b
}

// WithEndDate filters to transactions created on or before date
func (b *ReportBuilder[T]) WithEndDate(date time.Time) *ReportBuilder[T] {
	b.query.EndDate = &date
	return b
}

// WithTransactionID targets a single transaction
func (b *ReportBuilder[T]) WithTransactionID(transactionID string) *ReportBuilder[T] {
	b.query.TransactionID = transactionID
	return b
}

// WithPaging sets the page number and page size
func (b *ReportBuilder[T]) WithPaging(page, pageSize int) *ReportBuilder[T] {
	b.query.Page = &page
	b.query.PageSize = &pageSize
	return b
}

// OrderBy sorts the report. The direction defaults to ascending.
func (b *ReportBuilder[T]) OrderBy(property domain.SortProperty, direction ...domain.SortDirection) *ReportBuilder[T] {
	b.query.SortProperty = &property
	b.query.SortDirection = domain.SortAscending
	if len(direction) > 0 {
		b.query.SortDirection = direction[0]
	}
	return b
}

// Where starts a chain of search criteria
func (b *ReportBuilder[T]) Where(criterion domain.SearchCriteria, value string) *SearchCriteriaBuilder[T] {
	sc := &SearchCriteriaBuilder[T]{owner: b}
	return sc.And(criterion, value)
}

// Query returns a copy of the query as currently built
func (b *ReportBuilder[T]) Query() domain.ReportQuery {
	q := b.query
	q.Criteria = make(map[domain.SearchCriteria]string, len(b.query.Criteria))
	for k, v := range b.query.Criteria {
		q.Criteria[k] = v
	}
	return q
}

// Execute validates the query and, when it passes, runs it against the
// gateway. A validation failure returns before any request is sent.
func (b *ReportBuilder[T]) Execute(ctx context.Context) (T, error) {
	var zero T

	query := b.Query()
	if err := Validate(&query); err != nil {
		return zero, err
	}
	if b.gateway == nil {
		return zero, pkgerrors.NewConfigurationError("gateway", "report builder has no gateway")
	}

	result, err := b.gateway.ProcessReport(ctx, &query)
	if err != nil {
		return zero, err
	}
	return b.extract(result)
}
