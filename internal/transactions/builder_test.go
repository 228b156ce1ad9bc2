package transactions

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
	"github.com/kevin07696/ucp-client/test/mocks"
)

func TestSale_Defaults(t *testing.T) {
	req := Sale(decimal.RequireFromString("19.99")).Request()

	assert.Equal(t, domain.TransactionTypeSale, req.Type)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("19.99")))
	assert.Equal(t, domain.ChannelCardNotPresent, req.Channel)
	assert.Equal(t, domain.CaptureModeAuto, req.CaptureMode)
	assert.Nil(t, req.Gratuity)
	assert.Nil(t, req.Card)
}

func TestAuthorize_CapturesLater(t *testing.T) {
	req := Authorize(decimal.NewFromInt(10)).Request()

	assert.Equal(t, domain.TransactionTypeAuthorize, req.Type)
	assert.Equal(t, domain.CaptureModeLater, req.CaptureMode)
}

func TestBuilder_Setters(t *testing.T) {
	card := domain.Card{Number: "4263970000005262", ExpMonth: 12, ExpYear: 2030}
	address := domain.Address{StreetAddress1: "1 Main St", PostalCode: "12345"}

	req := Refund(decimal.NewFromInt(5)).
		WithCurrency("EUR").
		WithCountry("IE").
		WithReference("order-1").
		WithChannel(domain.ChannelCardPresent).
		WithCaptureMode(domain.CaptureModeMultiple).
		WithGratuity(decimal.NewFromInt(1)).
		WithCashback(decimal.Zero).
		WithConvenienceAmount(decimal.RequireFromString("0.50")).
		WithCard(card).
		WithAddress(address).
		Request()

	assert.Equal(t, domain.TransactionTypeRefund, req.Type)
	assert.Equal(t, "EUR", req.Currency)
	assert.Equal(t, "IE", req.Country)
	assert.Equal(t, "order-1", req.Reference)
	assert.Equal(t, domain.ChannelCardPresent, req.Channel)
	assert.Equal(t, domain.CaptureModeMultiple, req.CaptureMode)
	require.NotNil(t, req.Cashback)
	assert.True(t, req.Cashback.IsZero(), "an explicit zero is kept")
	assert.True(t, req.ConvenienceAmount.Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, card, *req.Card)
	assert.Equal(t, address, *req.BillingAddress)
}

func TestBuilder_Execute(t *testing.T) {
	gw := &mocks.MockTransactionGateway{}

	txn, err := Sale(decimal.NewFromInt(10)).WithCurrency("USD").Execute(context.Background(), gw)
	require.NoError(t, err)
	assert.Equal(t, "TRN_mock", txn.ID)

	require.Len(t, gw.Requests, 1)
	assert.Equal(t, "USD", gw.Requests[0].Currency)
}

func TestBuilder_ExecuteWithoutGateway(t *testing.T) {
	_, err := Sale(decimal.NewFromInt(10)).Execute(context.Background(), nil)
	assert.True(t, pkgerrors.IsConfiguration(err))
}
