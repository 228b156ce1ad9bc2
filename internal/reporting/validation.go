package reporting

import (
	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
)

// rule checks one constraint of a report query
type rule func(q *domain.ReportQuery) error

// rules is keyed by report type; a type without an entry always passes
var rules = map[domain.ReportType][]rule{
	domain.ReportTypeTransactionDetail: {
		requireTransactionID,
	},
	domain.ReportTypeActivity: {
		forbidTransactionID,
		requireOrderedDates,
		requirePositivePaging,
	},
}

// Validate runs the rule set of the query's report type
func Validate(q *domain.ReportQuery) error {
	for _, check := range rules[q.ReportType] {
		if err := check(q); err != nil {
			return err
		}
	}
	return nil
}

func requireTransactionID(q *domain.ReportQuery) error {
	if !q.HasTransactionID() {
		return pkgerrors.NewValidationError("transaction_id", "transaction id is required for "+q.ReportType.String()+" reports")
	}
	return nil
}

func forbidTransactionID(q *domain.ReportQuery) error {
	if q.HasTransactionID() {
		return pkgerrors.NewValidationError("transaction_id", "transaction id cannot be set for "+q.ReportType.String()+" reports")
	}
	return nil
}

func requireOrderedDates(q *domain.ReportQuery) error {
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return pkgerrors.NewValidationError("end_date", "end date is before start date")
	}
	return nil
}

func requirePositivePaging(q *domain.ReportQuery) error {
	if q.Page != nil && *q.Page < 1 {
		return pkgerrors.NewValidationError("page", "page must be at least 1")
	}
	if q.PageSize != nil && *q.PageSize < 1 {
		return pkgerrors.NewValidationError("page_size", "page size must be at least 1")
	}
	return nil
}
