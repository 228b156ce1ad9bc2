package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of transaction a caller asks the gateway to run
type TransactionType int

const (
	TransactionTypeSale      TransactionType = iota // Combined authorize + capture
	TransactionTypeAuthorize                        // Authorization only
	TransactionTypeCapture                          // Capture previously authorized funds
	TransactionTypeRefund                           // Return funds
	TransactionTypeReversal                         // Cancel before settlement
	TransactionTypeVerify                           // Account verification, no funds moved

	transactionTypeCount
)

// TransactionTypes lists every TransactionType, in declaration order
func TransactionTypes() []TransactionType {
	types := make([]TransactionType, 0, transactionTypeCount)
	for t := TransactionType(0); t < transactionTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeSale:
		return "sale"
	case TransactionTypeAuthorize:
		return "authorize"
	case TransactionTypeCapture:
		return "capture"
	case TransactionTypeRefund:
		return "refund"
	case TransactionTypeReversal:
		return "reversal"
	case TransactionTypeVerify:
		return "verify"
	default:
		return "unknown"
	}
}

// Channel identifies whether the card was present at the point of sale
type Channel int

const (
	ChannelCardNotPresent Channel = iota
	ChannelCardPresent

	channelCount
)

// Channels lists every Channel
func Channels() []Channel {
	out := make([]Channel, 0, channelCount)
	for c := Channel(0); c < channelCount; c++ {
		out = append(out, c)
	}
	return out
}

// CaptureMode controls when the gateway captures authorized funds
type CaptureMode int

const (
	CaptureModeAuto CaptureMode = iota
	CaptureModeLater
	CaptureModeMultiple

	captureModeCount
)

// CaptureModes lists every CaptureMode
func CaptureModes() []CaptureMode {
	out := make([]CaptureMode, 0, captureModeCount)
	for m := CaptureMode(0); m < captureModeCount; m++ {
		out = append(out, m)
	}
	return out
}

// TransactionRequest is the caller's intent for a single write to the gateway.
// Optional amounts are pointers: nil means "not sent", a zero value is sent as zero.
type TransactionRequest struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Currency    string
	Country     string
	Reference   string // Generated when empty
	Channel     Channel
	CaptureMode CaptureMode

	Gratuity          *decimal.Decimal
	Cashback          *decimal.Decimal
	ConvenienceAmount *decimal.Decimal

	Card           *Card
	BillingAddress *Address
}

// Action is the gateway's record of the operation it performed
type Action struct {
	ID         string
	Type       string
	ResultCode string
	AppID      string
	AppName    string
	CreatedAt  time.Time
}

// Transaction is the gateway's view of a single processed transaction
type Transaction struct {
	ID          string
	Status      string
	Type        string
	Channel     string
	Reference   string
	BatchID     string
	AccountName string
	Currency    string
	Country     string
	Amount      decimal.Decimal
	CreatedAt   time.Time

	Action *Action

	// Payment method outcome, populated when the gateway returns it
	AuthCode         string
	PaymentResult    string
	PaymentMessage   string
	CardBrand        string
	MaskedCardNumber string
	BrandReference   string
	AVSResult        string
	CVVResult        string
}

// IsApproved reports whether the gateway captured or authorized the transaction
func (t *Transaction) IsApproved() bool {
	if t.Action != nil && t.Action.ResultCode != "" && t.Action.ResultCode != "SUCCESS" {
		return false
	}
	switch t.Status {
	case "CAPTURED", "PREAUTHORIZED", "INITIATED", "FUNDED":
		return true
	default:
		return false
	}
}

// TransactionSummary is one row of a transaction report
type TransactionSummary struct {
	ID               string
	Status           string
	Type             string
	Channel          string
	Reference        string
	BatchID          string
	Currency         string
	Country          string
	Amount           decimal.Decimal
	CreatedAt        time.Time
	AuthCode         string
	CardBrand        string
	MaskedCardNumber string
	EntryMode        string
	ResultCode       string
}
