package domain

import (
	"time"
)

// ReportType selects the endpoint shape and validation rules of a report query
type ReportType int

const (
	ReportTypeTransactionDetail ReportType = iota
	ReportTypeActivity
	ReportTypeBatchDetail
)

func (r ReportType) String() string {
	switch r {
	case ReportTypeTransactionDetail:
		return "transaction_detail"
	case ReportTypeActivity:
		return "activity"
	case ReportTypeBatchDetail:
		return "batch_detail"
	default:
		return "unknown"
	}
}

// SearchCriteria is a filterable field of a transaction report
type SearchCriteria int

const (
	SearchCriteriaAccountName SearchCriteria = iota
	SearchCriteriaAuthCode
	SearchCriteriaBatchID
	SearchCriteriaCardBrand
	SearchCriteriaCardHolderName
	SearchCriteriaCardNumberFirstSix
	SearchCriteriaCardNumberLastFour
	SearchCriteriaChannel
	SearchCriteriaCountry
	SearchCriteriaCurrency
	SearchCriteriaEntryMode
	SearchCriteriaReferenceNumber
	SearchCriteriaTransactionStatus
	SearchCriteriaTransactionType

	searchCriteriaCount
)

// AllSearchCriteria lists every SearchCriteria
func AllSearchCriteria() []SearchCriteria {
	out := make([]SearchCriteria, 0, searchCriteriaCount)
	for c := SearchCriteria(0); c < searchCriteriaCount; c++ {
		out = append(out, c)
	}
	return out
}

// SortProperty is a field a transaction list can be ordered by
type SortProperty int

const (
	SortPropertyTimeCreated SortProperty = iota
	SortPropertyStatus
	SortPropertyType
	SortPropertyID

	sortPropertyCount
)

// SortProperties lists every SortProperty
func SortProperties() []SortProperty {
	out := make([]SortProperty, 0, sortPropertyCount)
	for p := SortProperty(0); p < sortPropertyCount; p++ {
		out = append(out, p)
	}
	return out
}

// SortDirection orders report rows
type SortDirection int

const (
	SortAscending SortDirection = iota
	SortDescending

	sortDirectionCount
)

// SortDirections lists every SortDirection
func SortDirections() []SortDirection {
	out := make([]SortDirection, 0, sortDirectionCount)
	for d := SortDirection(0); d < sortDirectionCount; d++ {
		out = append(out, d)
	}
	return out
}

// ReportQuery is the validated input of a report request
type ReportQuery struct {
	ReportType    ReportType
	TransactionID string
	DeviceID      string
	StartDate     *time.Time
	EndDate       *time.Time
	Page          *int
	PageSize      *int
	SortProperty  *SortProperty
	SortDirection SortDirection
	Criteria      map[SearchCriteria]string
}

// HasTransactionID reports whether a transaction id filter is set
func (q *ReportQuery) HasTransactionID() bool {
	return q.TransactionID != ""
}

// PagedResult is one page of report rows
type PagedResult[T any] struct {
	Page             int
	PageSize         int
	TotalRecordCount int
	Results          []T
}

// ReportResult carries the mapped output of a report. Exactly one field is
// populated, depending on the report type.
type ReportResult struct {
	Detail       *TransactionSummary
	Transactions *PagedResult[*TransactionSummary]
}
