package reporting

import (
	"context"

	"github.com/kevin07696/ucp-client/internal/domain"
)

// SearchCriteriaBuilder adds filters to its owning report builder. It keeps
// no state of its own.
type SearchCriteriaBuilder[T any] struct {
	owner *ReportBuilder[T]
}

// And adds criterion to the report, replacing any earlier value for it
func (s *SearchCriteriaBuilder[T]) And(criterion domain.SearchCriteria, value string) *SearchCriteriaBuilder[T] {
	s.owner.query.Criteria[criterion] = value
	return s
}

// Builder returns the owning report builder
func (s *SearchCriteriaBuilder[T]) Builder() *ReportBuilder[T] {
	return s.owner
}

// Execute runs the owning report
func (s *SearchCriteriaBuilder[T]) Execute(ctx context.Context) (T, error) {
	return s.owner.Execute(ctx)
}
