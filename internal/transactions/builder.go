package transactions

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/ucp-client/internal/adapters/ports"
	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
)

// Builder composes a transaction request. Setters overwrite and return the
// builder; Execute sends the request. Owned by the caller, not safe for
// concurrent use.
type Builder struct {
	req domain.TransactionRequest
}

// NewBuilder starts a request of the given type
func NewBuilder(txType domain.TransactionType) *Builder {
	return &Builder{req: domain.TransactionRequest{
		Type:        txType,
		Channel:     domain.ChannelCardNotPresent,
		CaptureMode: domain.CaptureModeAuto,
	}}
}

// Sale starts a sale for amount
func Sale(amount decimal.Decimal) *Builder {
	return NewBuilder(domain.TransactionTypeSale).WithAmount(amount)
}

// Authorize starts an authorization for amount
func Authorize(amount decimal.Decimal) *Builder {
	return NewBuilder(domain.TransactionTypeAuthorize).WithAmount(amount).WithCaptureMode(domain.CaptureModeLater)
}

// Refund starts a standalone refund for amount
func Refund(amount decimal.Decimal) *Builder {
	return NewBuilder(domain.TransactionTypeRefund).WithAmount(amount)
}

func (b *Builder) WithAmount(amount decimal.Decimal) *Builder {
	b.req.Amount = amount
	return b
}

func (b *Builder) WithCurrency(currency string) *Builder {
	b.req.Currency = currency
	return b
}

func (b *Builder) WithCountry(country string) *Builder {
	b.req.Country = country
	return b
}

// WithReference sets the merchant reference; one is generated when unset
func (b *Builder) WithReference(reference string) *Builder {
	b.req.Reference = reference
	return b
}

func (b *Builder) WithChannel(channel domain.Channel) *Builder {
	b.req.Channel = channel
	return b
}

func (b *Builder) WithCaptureMode(mode domain.CaptureMode) *Builder {
	b.req.CaptureMode = mode
	return b
}

func (b *Builder) WithGratuity(amount decimal.Decimal) *Builder {
	b.req.Gratuity = &amount
	return b
}

func (b *Builder) WithCashback(amount decimal.Decimal) *Builder {
	b.req.Cashback = &amount
	return b
}

func (b *Builder) WithConvenienceAmount(amount decimal.Decimal) *Builder {
	b.req.ConvenienceAmount = &amount
	return b
}

func (b *Builder) WithCard(card domain.Card) *Builder {
	b.req.Card = &card
	return b
}

func (b *Builder) WithAddress(address domain.Address) *Builder {
	b.req.BillingAddress = &address
	return b
}

// Request returns a copy of the request as currently built
func (b *Builder) Request() domain.TransactionRequest {
	return b.req
}

// Execute sends the request through gateway
func (b *Builder) Execute(ctx context.Context, gateway ports.TransactionGateway) (*domain.Transaction, error) {
	if gateway == nil {
		return nil, pkgerrors.NewConfigurationError("gateway", "transaction builder has no gateway")
	}
	req := b.req
	return gateway.ProcessTransaction(ctx, &req)
}
