package ucp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
)

// Gateway response structures

type accessTokenResponse struct {
	Token           string `json:"token"`
	Type            string `json:"type"`
	AppID           string `json:"app_id"`
	AppName         string `json:"app_name"`
	TimeCreated     string `json:"time_created"`
	SecondsToExpire int    `json:"seconds_to_expire"`
	Email           string `json:"email"`
}

// minorAmount accepts the amount as either a JSON string or number
type minorAmount string

func (m *minorAmount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = minorAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*m = minorAmount(n.String())
	return nil
}

type transactionResponse struct {
	ID          string      `json:"id"`
	TimeCreated string      `json:"time_created"`
	Type        string      `json:"type"`
	Status      string      `json:"status"`
	Channel     string      `json:"channel"`
	Amount      minorAmount `json:"amount"`
	Currency    string      `json:"currency"`
	Country     string      `json:"country"`
	Reference   string      `json:"reference"`
	BatchID     string      `json:"batch_id"`
	AccountName string      `json:"account_name"`

	PaymentMethod *struct {
		Result    string `json:"result"`
		Message   string `json:"message"`
		EntryMode string `json:"entry_mode"`
		Card      *struct {
			Brand             string `json:"brand"`
			MaskedNumberLast4 string `json:"masked_number_last4"`
			AuthCode          string `json:"authcode"`
			BrandReference    string `json:"brand_reference"`
			AVSAddressResult  string `json:"avs_address_result"`
			CVVResult         string `json:"cvv_result"`
		} `json:"card"`
	} `json:"payment_method"`

	Action *struct {
		ID          string `json:"id"`
		Type        string `json:"type"`
		TimeCreated string `json:"time_created"`
		ResultCode  string `json:"result_code"`
		AppID       string `json:"app_id"`
		AppName     string `json:"app_name"`
	} `json:"action"`
}

type pagingEnvelope struct {
	TotalRecordCount int `json:"total_record_count"`
	CurrentPageSize  int `json:"current_page_size"`
	Paging           struct {
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
	} `json:"paging"`
}

type errorResponse struct {
	ErrorCode                string `json:"error_code"`
	DetailedErrorCode        string `json:"detailed_error_code"`
	DetailedErrorDescription string `json:"detailed_error_description"`
}

// MapAccessToken maps a sign-in response into a session token
func MapAccessToken(raw []byte, receivedAt time.Time) (*domain.SessionToken, error) {
	var resp accessTokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, malformed(raw, err)
	}
	if resp.Token == "" {
		return nil, pkgerrors.NewMappingError("token", raw)
	}
	created, err := parseTime("time_created", resp.TimeCreated, raw)
	if err != nil {
		return nil, err
	}
	return &domain.SessionToken{
		Value:           resp.Token,
		TokenType:       resp.Type,
		AppID:           resp.AppID,
		AppName:         resp.AppName,
		Email:           resp.Email,
		CreatedAt:       created,
		SecondsToExpire: resp.SecondsToExpire,
		ReceivedAt:      receivedAt,
	}, nil
}

// MapTransaction maps a single transaction response
func MapTransaction(raw []byte) (*domain.Transaction, error) {
	var resp transactionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, malformed(raw, err)
	}
	if err := requireIdentity(&resp, raw); err != nil {
		return nil, err
	}
	created, err := parseTime("time_created", resp.TimeCreated, raw)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(resp.Amount, raw)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:          resp.ID,
		Status:      resp.Status,
		Type:        resp.Type,
		Channel:     resp.Channel,
		Reference:   resp.Reference,
		BatchID:     resp.BatchID,
		AccountName: resp.AccountName,
		Currency:    resp.Currency,
		Country:     resp.Country,
		Amount:      amount,
		CreatedAt:   created,
	}

	if a := resp.Action; a != nil {
		actionCreated, err := parseTime("action.time_created", a.TimeCreated, raw)
		if err != nil {
			return nil, err
		}
		txn.Action = &domain.Action{
			ID:         a.ID,
			Type:       a.Type,
			ResultCode: a.ResultCode,
			AppID:      a.AppID,
			AppName:    a.AppName,
			CreatedAt:  actionCreated,
		}
	}

	if pm := resp.PaymentMethod; pm != nil {
		txn.PaymentResult = pm.Result
		txn.PaymentMessage = pm.Message
		if c := pm.Card; c != nil {
			txn.AuthCode = c.AuthCode
			txn.CardBrand = c.Brand
			txn.MaskedCardNumber = c.MaskedNumberLast4
			txn.BrandReference = c.BrandReference
			txn.AVSResult = c.AVSAddressResult
			txn.CVVResult = c.CVVResult
		}
	}

	return txn, nil
}

// MapTransactionSummary maps one transaction into a report row
func MapTransactionSummary(raw []byte) (*domain.TransactionSummary, error) {
	var resp transactionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, malformed(raw, err)
	}
	if err := requireIdentity(&resp, raw); err != nil {
		return nil, err
	}
	created, err := parseTime("time_created", resp.TimeCreated, raw)
	if err != nil {
		return nil, err
	}
	amount, err := parseAmount(resp.Amount, raw)
	if err != nil {
		return nil, err
	}

	row := &domain.TransactionSummary{
		ID:        resp.ID,
		Status:    resp.Status,
		Type:      resp.Type,
		Channel:   resp.Channel,
		Reference: resp.Reference,
		BatchID:   resp.BatchID,
		Currency:  resp.Currency,
		Country:   resp.Country,
		Amount:    amount,
		CreatedAt: created,
	}
	if resp.Action != nil {
		row.ResultCode = resp.Action.ResultCode
	}
	if pm := resp.PaymentMethod; pm != nil {
		row.EntryMode = pm.EntryMode
		if c := pm.Card; c != nil {
			row.AuthCode = c.AuthCode
			row.CardBrand = c.Brand
			row.MaskedCardNumber = c.MaskedNumberLast4
		}
	}
	return row, nil
}

// MapTransactionList maps a paged list response. The rows are read from the
// array under resultsField; a missing field is a mapping error, an empty
// array is an empty page.
func MapTransactionList(raw []byte, resultsField string) (*domain.PagedResult[*domain.TransactionSummary], error) {
	rows, err := mapList(raw, resultsField, MapTransactionSummary)
	if err != nil {
		return nil, err
	}

	var env pagingEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, malformed(raw, err)
	}
	pageSize := env.Paging.PageSize
	if pageSize == 0 {
		pageSize = env.CurrentPageSize
	}

	return &domain.PagedResult[*domain.TransactionSummary]{
		Page:             env.Paging.Page,
		PageSize:         pageSize,
		TotalRecordCount: env.TotalRecordCount,
		Results:          rows,
	}, nil
}

// mapList decodes the array under resultsField, building each element with mapOne
func mapList[T any](raw []byte, resultsField string, mapOne func([]byte) (T, error)) ([]T, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, malformed(raw, err)
	}
	field, ok := doc[resultsField]
	if !ok {
		return nil, pkgerrors.NewMappingError(resultsField, raw)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(field, &items); err != nil {
		return nil, malformed(raw, fmt.Errorf("field '%s' is not an array: %w", resultsField, err))
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		mapped, err := mapOne(item)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", resultsField, i, err)
		}
		out = append(out, mapped)
	}
	return out, nil
}

// mapErrorResponse turns a non-success response into a GatewayError,
// keeping the raw body for diagnostics
func mapErrorResponse(statusCode int, raw []byte) *pkgerrors.GatewayError {
	var resp errorResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.ErrorCode == "" {
		return pkgerrors.NewGatewayError("GATEWAY_ERROR", "gateway returned a non-success status", statusCode, string(raw), nil)
	}
	message := resp.DetailedErrorDescription
	if resp.DetailedErrorCode != "" {
		message = fmt.Sprintf("%s [%s]", message, resp.DetailedErrorCode)
	}
	return pkgerrors.NewGatewayError(resp.ErrorCode, message, statusCode, string(raw), nil)
}

func requireIdentity(resp *transactionResponse, raw []byte) error {
	if resp.ID == "" {
		return pkgerrors.NewMappingError("id", raw)
	}
	if resp.Status == "" {
		return pkgerrors.NewMappingError("status", raw)
	}
	return nil
}

func parseTime(field, value string, raw []byte) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, pkgerrors.NewGatewayError("MAPPING_ERROR", fmt.Sprintf("field '%s' is not a timestamp", field), 0, string(raw), err)
	}
	return t.UTC(), nil
}

func parseAmount(value minorAmount, raw []byte) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	amount, err := FromMinorUnits(string(value))
	if err != nil {
		return decimal.Zero, pkgerrors.NewGatewayError("MAPPING_ERROR", "field 'amount' is not numeric", 0, string(raw), err)
	}
	return amount, nil
}

func malformed(raw []byte, err error) *pkgerrors.GatewayError {
	return pkgerrors.NewGatewayError("MALFORMED_RESPONSE", "gateway response is not valid JSON", 0, string(raw), err)
}
