package ucp

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
	"github.com/kevin07696/ucp-client/pkg/timeutil"
)

const (
	accessTokenEndpoint  = "/ucp/accesstoken"
	transactionsEndpoint = "/ucp/transactions"

	// TransactionsResultsField is the key holding the rows of a transaction list
	TransactionsResultsField = "transactions"

	grantTypeClientCredentials = "client_credentials"

	// minorUnitPlaces is the number of decimal places the gateway accepts
	minorUnitPlaces = 2
)

// gatewayRequest is one outbound call. It is built per call and never retained.
type gatewayRequest struct {
	Method       string
	Endpoint     string
	Body         interface{}
	ResultsField string
}

// accessTokenRequest is the sign-in body
type accessTokenRequest struct {
	AppID     string `json:"app_id"`
	Nonce     string `json:"nonce"`
	GrantType string `json:"grant_type"`
	Secret    string `json:"secret"`
}

func buildAccessTokenRequest(creds Credentials) *gatewayRequest {
	return &gatewayRequest{
		Method:   http.MethodPost,
		Endpoint: accessTokenEndpoint,
		Body: accessTokenRequest{
			AppID:     creds.AppID,
			Nonce:     creds.Nonce,
			GrantType: grantTypeClientCredentials,
			Secret:    GenerateSecret(creds.Nonce, creds.AppKey),
		},
	}
}

// document is a JSON object under construction. The setIfPresent helpers
// leave absent values out entirely instead of sending null or zero.
type document map[string]interface{}

func (d document) set(key string, value interface{}) document {
	d[key] = value
	return d
}

func (d document) setIfPresent(key, value string) document {
	if value != "" {
		d[key] = value
	}
	return d
}

func (d document) setAmountIfPresent(key string, value *decimal.Decimal) document {
	if value != nil {
		d[key] = ToMinorUnits(*value)
	}
	return d
}

func (d document) setDocumentIfPresent(key string, value document) document {
	if len(value) > 0 {
		d[key] = value
	}
	return d
}

// BuildTransactionRequest translates a transaction intent into the gateway's
// JSON body. Only sales have a translation; every other type is reported as
// unsupported rather than sent half-built. newReference supplies the
// reference when the caller did not set one.
func BuildTransactionRequest(accountName string, req *domain.TransactionRequest, newReference func() string) (*gatewayRequest, error) {
	if req == nil {
		return nil, pkgerrors.NewValidationError("transaction", "transaction request is required")
	}
	if req.Type != domain.TransactionTypeSale {
		return nil, pkgerrors.NewUnsupportedOperationError(req.Type.String() + " transaction")
	}
	if err := validateSale(req); err != nil {
		return nil, err
	}

	txType, err := lookup(transactionTypeCodes, req.Type, "transaction type")
	if err != nil {
		return nil, err
	}
	channel, err := lookup(channelCodes, req.Channel, "channel")
	if err != nil {
		return nil, err
	}
	captureMode, err := lookup(captureModeCodes, req.CaptureMode, "capture mode")
	if err != nil {
		return nil, err
	}
	paymentMethod, err := buildPaymentMethod(req.Card, req.BillingAddress)
	if err != nil {
		return nil, err
	}

	reference := req.Reference
	if reference == "" {
		if newReference == nil {
			newReference = NewReference
		}
		reference = newReference()
	}

	body := document{}
	body.set("account_name", accountName).
		set("type", txType).
		set("channel", channel).
		set("capture_mode", captureMode).
		set("amount", ToMinorUnits(req.Amount)).
		set("currency", strings.ToUpper(req.Currency)).
		set("reference", reference).
		setAmountIfPresent("gratuity_amount", req.Gratuity).
		setAmountIfPresent("cashback_amount", req.Cashback).
		setAmountIfPresent("convenience_amount", req.ConvenienceAmount).
		setIfPresent("country", strings.ToUpper(req.Country)).
		set("payment_method", paymentMethod)

	return &gatewayRequest{
		Method:   http.MethodPost,
		Endpoint: transactionsEndpoint,
		Body:     body,
	}, nil
}

func validateSale(req *domain.TransactionRequest) error {
	if !req.Amount.IsPositive() {
		return pkgerrors.NewValidationError("amount", "amount must be greater than zero")
	}
	if !fitsMinorUnits(req.Amount) {
		return pkgerrors.NewValidationError("amount", "amount has more than two decimal places")
	}
	if req.Currency == "" {
		return pkgerrors.NewValidationError("currency", "currency is required")
	}
	if req.Card == nil {
		return pkgerrors.NewValidationError("card", "card is required for a sale")
	}
	if req.Card.Number == "" {
		return pkgerrors.NewValidationError("card.number", "card number is required")
	}
	if req.Card.ExpYear <= 0 {
		return pkgerrors.NewValidationError("card.expiry_year", "expiry year is required")
	}
	for field, amount := range map[string]*decimal.Decimal{
		"gratuity_amount":    req.Gratuity,
		"cashback_amount":    req.Cashback,
		"convenience_amount": req.ConvenienceAmount,
	} {
		if amount == nil {
			continue
		}
		if amount.IsNegative() {
			return pkgerrors.NewValidationError(field, "amount cannot be negative")
		}
		if !fitsMinorUnits(*amount) {
			return pkgerrors.NewValidationError(field, "amount has more than two decimal places")
		}
	}
	return nil
}

// fitsMinorUnits reports whether amount converts to minor units without rounding
func fitsMinorUnits(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(minorUnitPlaces))
}

func buildPaymentMethod(card *domain.Card, billing *domain.Address) (document, error) {
	month, err := FormatExpiryMonth(card.ExpMonth)
	if err != nil {
		return nil, err
	}
	year, err := FormatExpiryYear(card.ExpYear)
	if err != nil {
		return nil, err
	}
	entryMode, err := lookup(entryModeCodes, card.EntryMode, "entry mode")
	if err != nil {
		return nil, err
	}

	avsAddress, avsPostCode := card.AVSAddress, card.AVSPostCode
	if billing != nil {
		if avsAddress == "" {
			avsAddress = billing.StreetAddress1
		}
		if avsPostCode == "" {
			avsPostCode = billing.PostalCode
		}
	}

	cardDoc := document{}
	cardDoc.set("number", card.Number).
		set("expiry_month", month).
		set("expiry_year", year).
		setIfPresent("cvv", card.CVV).
		setIfPresent("avs_address", avsAddress).
		setIfPresent("avs_postal_code", avsPostCode)
	if card.CVV != "" {
		cardDoc.set("cvv_indicator", "PRESENT")
	}

	pm := document{}
	pm.setIfPresent("name", card.HolderName).
		set("entry_mode", entryMode).
		setDocumentIfPresent("card", cardDoc)
	return pm, nil
}

// FormatExpiryMonth renders a 1-12 month as two digits
func FormatExpiryMonth(month int) (string, error) {
	if month < 1 || month > 12 {
		return "", pkgerrors.NewValidationError("card.expiry_month", fmt.Sprintf("invalid month %d", month))
	}
	return fmt.Sprintf("%02d", month), nil
}

// FormatExpiryYear keeps the last two digits of the year, zero-padded
func FormatExpiryYear(year int) (string, error) {
	if year <= 0 {
		return "", pkgerrors.NewValidationError("card.expiry_year", fmt.Sprintf("invalid year %d", year))
	}
	return fmt.Sprintf("%02d", year%100), nil
}

// ToMinorUnits renders a major-unit amount as a whole number of minor units
// (19.99 -> "1999"). Sub-minor digits are rounded half away from zero; sale
// validation rejects such amounts before they get here.
func ToMinorUnits(amount decimal.Decimal) string {
	return amount.Shift(minorUnitPlaces).Round(0).String()
}

// FromMinorUnits parses a minor-unit amount back into major units
func FromMinorUnits(minor string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(minor)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Shift(-minorUnitPlaces), nil
}

// NewReference generates a unique merchant reference for a transaction
func NewReference() string {
	return uuid.NewString()
}

// BuildReportRequest translates a validated report query into a GET request.
// TransactionDetail addresses one transaction by path; Activity lists
// transactions with paging, date and criteria filters.
func BuildReportRequest(q *domain.ReportQuery) (*gatewayRequest, error) {
	switch q.ReportType {
	case domain.ReportTypeTransactionDetail:
		return &gatewayRequest{
			Method:   http.MethodGet,
			Endpoint: transactionsEndpoint + "/" + url.PathEscape(q.TransactionID),
		}, nil

	case domain.ReportTypeActivity:
		params, err := activityParams(q)
		if err != nil {
			return nil, err
		}
		endpoint := transactionsEndpoint
		if encoded := params.Encode(); encoded != "" {
			endpoint += "?" + encoded
		}
		return &gatewayRequest{
			Method:       http.MethodGet,
			Endpoint:     endpoint,
			ResultsField: TransactionsResultsField,
		}, nil

	default:
		return nil, pkgerrors.NewUnsupportedOperationError(q.ReportType.String() + " report")
	}
}

func activityParams(q *domain.ReportQuery) (url.Values, error) {
	params := url.Values{}
	if q.Page != nil {
		params.Set("page", strconv.Itoa(*q.Page))
	}
	if q.PageSize != nil {
		params.Set("page_size", strconv.Itoa(*q.PageSize))
	}
	if q.StartDate != nil {
		params.Set("from_time_created", q.StartDate.Format(timeutil.DateLayout))
	}
	if q.EndDate != nil {
		params.Set("to_time_created", q.EndDate.Format(timeutil.DateLayout))
	}
	if q.DeviceID != "" {
		params.Set("device_id", q.DeviceID)
	}
	if q.SortProperty != nil {
		orderBy, err := lookup(sortPropertyCodes, *q.SortProperty, "sort property")
		if err != nil {
			return nil, err
		}
		order, err := lookup(sortDirectionCodes, q.SortDirection, "sort direction")
		if err != nil {
			return nil, err
		}
		params.Set("order_by", orderBy)
		params.Set("order", order)
	}
	for criterion, value := range q.Criteria {
		name, err := lookup(searchCriteriaParams, criterion, "search criteria")
		if err != nil {
			return nil, err
		}
		params.Set(name, value)
	}
	return params, nil
}
