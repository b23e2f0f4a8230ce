// Package entity defines data models for the payment relay.
package entity

// Wire field names of the PayWeb3 form protocol.
const (
	FieldPaygateID         = "PAYGATE_ID"
	FieldPayRequestID      = "PAY_REQUEST_ID"
	FieldReference         = "REFERENCE"
	FieldAmount            = "AMOUNT"
	FieldCurrency          = "CURRENCY"
	FieldReturnURL         = "RETURN_URL"
	FieldTransactionDate   = "TRANSACTION_DATE"
	FieldLocale            = "LOCALE"
	FieldCountry           = "COUNTRY"
	FieldEmail             = "EMAIL"
	FieldNotifyURL         = "NOTIFY_URL"
	FieldChecksum          = "CHECKSUM"
	FieldTransactionStatus = "TRANSACTION_STATUS"
	FieldError             = "ERROR"
)

// SignatureFieldOrder is the order in which field values are concatenated
// before hashing. The gateway computes the same concatenation on its side,
// so the order must not be changed. A field that is not part of a request
// contributes an empty string.
var SignatureFieldOrder = []string{
	FieldPaygateID,
	FieldPayRequestID,
	FieldReference,
	FieldAmount,
	FieldCurrency,
	FieldReturnURL,
	FieldTransactionDate,
	FieldLocale,
	FieldCountry,
	FieldEmail,
	FieldNotifyURL,
}

// RequestFields is an outgoing gateway request as wire name to value pairs.
// A key that is absent from the map is not sent at all; for signing it is
// read as an empty string.
type RequestFields map[string]string

// TransactionRequest carries the fields of a payment initiation.
// Amount must contain decimal digits only.
type TransactionRequest struct {
	PaygateID       string
	Reference       string
	Amount          string
	Currency        string
	ReturnURL       string
	TransactionDate string
	Locale          string
	Country         string
	Email           string
	NotifyURL       string
}

// Fields converts the request to its wire representation. PAY_REQUEST_ID is
// never set on an initiation, it only exists in query requests after the
// gateway has issued one.
func (r *TransactionRequest) Fields() RequestFields {
	return RequestFields{
		FieldPaygateID:       r.PaygateID,
		FieldReference:       r.Reference,
		FieldAmount:          r.Amount,
		FieldCurrency:        r.Currency,
		FieldReturnURL:       r.ReturnURL,
		FieldTransactionDate: r.TransactionDate,
		FieldLocale:          r.Locale,
		FieldCountry:         r.Country,
		FieldEmail:           r.Email,
		FieldNotifyURL:       r.NotifyURL,
	}
}
