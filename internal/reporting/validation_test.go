package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
)

func intPtr(v int) *int { return &v }

func TestValidate(t *testing.T) {
	jan1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan31 := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		query     domain.ReportQuery
		wantField string
	}{
		{
			name:  "detail with id",
			query: domain.ReportQuery{ReportType: domain.ReportTypeTransactionDetail, TransactionID: "TRN_1"},
		},
		{
			name:      "detail without id",
			query:     domain.ReportQuery{ReportType: domain.ReportTypeTransactionDetail},
			wantField: "transaction_id",
		},
		{
			name:  "activity without filters",
			query: domain.ReportQuery{ReportType: domain.ReportTypeActivity},
		},
		{
			name:      "activity with id",
			query:     domain.ReportQuery{ReportType: domain.ReportTypeActivity, TransactionID: "TRN_1"},
			wantField: "transaction_id",
		},
		{
			name:  "activity with ordered dates",
			query: domain.ReportQuery{ReportType: domain.ReportTypeActivity, StartDate: &jan1, EndDate: &jan31},
		},
		{
			name:      "activity with reversed dates",
			query:     domain.ReportQuery{ReportType: domain.ReportTypeActivity, StartDate: &jan31, EndDate: &jan1},
			wantField: "end_date",
		},
		{
			name:      "activity with page zero",
			query:     domain.ReportQuery{ReportType: domain.ReportTypeActivity, Page: intPtr(0), PageSize: intPtr(10)},
			wantField: "page",
		},
		{
			name:      "activity with negative page size",
			query:     domain.ReportQuery{ReportType: domain.ReportTypeActivity, Page: intPtr(1), PageSize: intPtr(-1)},
			wantField: "page_size",
		},
		{
			name:  "report type without rules",
			query: domain.ReportQuery{ReportType: domain.ReportTypeBatchDetail, TransactionID: "anything"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.query)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var valErr *pkgerrors.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantField, valErr.Field)
		})
	}
}
