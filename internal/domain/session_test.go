package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionToken_Expiry(t *testing.T) {
	received := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tok := &SessionToken{Value: "t", SecondsToExpire: 60, ReceivedAt: received}
	assert.Equal(t, received.Add(time.Minute), tok.ExpiresAt())
	assert.False(t, tok.Expired(received.Add(59*time.Second)))
	assert.True(t, tok.Expired(received.Add(60*time.Second)))

	forever := &SessionToken{Value: "t", ReceivedAt: received}
	assert.True(t, forever.ExpiresAt().IsZero())
	assert.False(t, forever.Expired(received.Add(24*365*time.Hour)))
}

func TestReportQuery_HasTransactionID(t *testing.T) {
	assert.False(t, (&ReportQuery{}).HasTransactionID())
	assert.True(t, (&ReportQuery{TransactionID: "TRN_1"}).HasTransactionID())
	assert.Equal(t, "transaction_detail", ReportTypeTransactionDetail.String())
	assert.Equal(t, "activity", ReportTypeActivity.String())
}
