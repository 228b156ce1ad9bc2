package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestTransaction_IsApproved tests the IsApproved method with various scenarios
func TestTransaction_IsApproved(t *testing.T) {
	tests := []struct {
		name     string
		txn      Transaction
		expected bool
	}{
		{name: "captured", txn: Transaction{Status: "CAPTURED"}, expected: true},
		{name: "preauthorized", txn: Transaction{Status: "PREAUTHORIZED"}, expected: true},
		{name: "declined", txn: Transaction{Status: "DECLINED"}, expected: false},
		{name: "empty status", txn: Transaction{}, expected: false},
		{
			name:     "captured with successful action",
			txn:      Transaction{Status: "CAPTURED", Action: &Action{ResultCode: "SUCCESS"}},
			expected: true,
		},
		{
			name:     "captured with declined action",
			txn:      Transaction{Status: "CAPTURED", Action: &Action{ResultCode: "DECLINED"}},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.txn.IsApproved())
		})
	}
}

func TestTransactionType_String(t *testing.T) {
	seen := make(map[string]bool)
	for _, tt := range TransactionTypes() {
		name := tt.String()
		assert.NotEqual(t, "unknown", name)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
	assert.Equal(t, "sale", TransactionTypeSale.String())
	assert.Equal(t, "unknown", TransactionType(99).String())
}

func TestEnumLists(t *testing.T) {
	assert.Len(t, TransactionTypes(), 6)
	assert.Equal(t, []Channel{ChannelCardNotPresent, ChannelCardPresent}, Channels())
	assert.Equal(t, []CaptureMode{CaptureModeAuto, CaptureModeLater, CaptureModeMultiple}, CaptureModes())
	assert.Equal(t, []EntryMode{EntryModeEcom, EntryModeMoto, EntryModeManual}, EntryModes())
	assert.Len(t, AllSearchCriteria(), 14)
	assert.Equal(t, []SortDirection{SortAscending, SortDescending}, SortDirections())
}
