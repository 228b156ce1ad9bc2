package ucp

import (
	"fmt"

	"github.com/kevin07696/ucp-client/internal/domain"
	pkgerrors "github.com/kevin07696/ucp-client/pkg/errors"
)

// Gateway wire values for each domain enumeration. Every enum value must have
// an entry; enums_test.go walks the domain's value lists to enforce it.

var transactionTypeCodes = map[domain.TransactionType]string{
	domain.TransactionTypeSale:      "SALE",
	domain.TransactionTypeAuthorize: "SALE",
	domain.TransactionTypeCapture:   "CAPTURE",
	domain.TransactionTypeRefund:    "REFUND",
	domain.TransactionTypeReversal:  "REVERSAL",
	domain.TransactionTypeVerify:    "VERIFY",
}

var channelCodes = map[domain.Channel]string{
	domain.ChannelCardNotPresent: "CNP",
	domain.ChannelCardPresent:    "CP",
}

var captureModeCodes = map[domain.CaptureMode]string{
	domain.CaptureModeAuto:     "AUTO",
	domain.CaptureModeLater:    "LATER",
	domain.CaptureModeMultiple: "MULTIPLE",
}

var entryModeCodes = map[domain.EntryMode]string{
	domain.EntryModeEcom:   "ECOM",
	domain.EntryModeMoto:   "MOTO",
	domain.EntryModeManual: "MANUAL",
}

// Query parameter names of the transaction list endpoint
var searchCriteriaParams = map[domain.SearchCriteria]string{
	domain.SearchCriteriaAccountName:        "account_name",
	domain.SearchCriteriaAuthCode:           "authcode",
	domain.SearchCriteriaBatchID:            "batch_id",
	domain.SearchCriteriaCardBrand:          "brand",
	domain.SearchCriteriaCardHolderName:     "name",
	domain.SearchCriteriaCardNumberFirstSix: "number_first6",
	domain.SearchCriteriaCardNumberLastFour: "number_last4",
	domain.SearchCriteriaChannel:            "channel",
	domain.SearchCriteriaCountry:            "country",
	domain.SearchCriteriaCurrency:           "currency",
	domain.SearchCriteriaEntryMode:          "entry_mode",
	domain.SearchCriteriaReferenceNumber:    "reference",
	domain.SearchCriteriaTransactionStatus:  "status",
	domain.SearchCriteriaTransactionType:    "type",
}

var sortPropertyCodes = map[domain.SortProperty]string{
	domain.SortPropertyTimeCreated: "TIME_CREATED",
	domain.SortPropertyStatus:      "STATUS",
	domain.SortPropertyType:        "TYPE",
	domain.SortPropertyID:          "ID",
}

var sortDirectionCodes = map[domain.SortDirection]string{
	domain.SortAscending:  "ASC",
	domain.SortDescending: "DESC",
}

// lookup resolves an enum value to its wire string
func lookup[K comparable](table map[K]string, key K, kind string) (string, error) {
	code, ok := table[key]
	if !ok {
		return "", pkgerrors.NewUnsupportedOperationError(fmt.Sprintf("%s %v", kind, key))
	}
	return code, nil
}
