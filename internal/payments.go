package internal

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"payrelay/config"
	"payrelay/entity"
	"payrelay/services"
)

const (
	initiatePath = "/payweb3/initiate.trans"
	processPath  = "/payweb3/process.trans"
	queryPath    = "/payweb3/query.trans"

	defaultCurrency = "BWP"
	defaultLocale   = "en-bw"
	defaultCountry  = "BWA"

	transactionDateLayout = "2006-01-02 15:04:05"

	// gatewayTimeout bounds every outbound gateway call. Nothing is retried
	// on timeout; the failure surfaces to the caller as a gateway error.
	gatewayTimeout = 10 * time.Second
)

// Payments orchestrates the PayWeb3 flow against the gateway: initiate,
// status query and notification handling. The reference store is the only
// shared mutable state; everything else is per-call.
type Payments struct {
	conf       *config.Config
	logger     services.LogHandler
	database   services.Database
	store      services.ReferenceStore
	httpClient *http.Client
}

// NewPayments creates the payment service with a configured HTTP client.
// The client carries the gateway timeout and connection pooling for the
// two gateway endpoints.
func NewPayments(conf *config.Config) *Payments {
	return &Payments{
		conf: conf,
		httpClient: &http.Client{
			Timeout: gatewayTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				DisableKeepAlives:   false,
			},
		},
	}
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
}

func (p *Payments) SetDatabase(database services.Database) {
	p.database = database
}

func (p *Payments) SetStore(store services.ReferenceStore) {
	p.store = store
}

// Initiate validates the caller's intent, signs a transaction request and
// registers it with the gateway. On success the gateway-issued request id
// is mapped to the merchant reference in the store, and the caller receives
// everything the browser needs to hand the user over to the payment page.
func (p *Payments) Initiate(ctx context.Context, intent entity.PaymentIntent) (*entity.InitiateResult, error) {
	if intent.Amount == "" || intent.Email == "" {
		return nil, &services.ValidationError{Message: "amount and email are required"}
	}
	currency := intent.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	request := &entity.TransactionRequest{
		PaygateID:       p.conf.Paygate.ID,
		Reference:       newReference(),
		Amount:          digitsOnly(intent.Amount),
		Currency:        currency,
		ReturnURL:       p.conf.BaseURL + "/api/return",
		TransactionDate: time.Now().UTC().Format(transactionDateLayout),
		Locale:          defaultLocale,
		Country:         defaultCountry,
		Email:           intent.Email,
		NotifyURL:       p.conf.BaseURL + "/api/notify",
	}
	fields := request.Fields()
	fields[entity.FieldChecksum] = Checksum(fields, p.conf.Paygate.Secret)

	p.logger.Debug(fmt.Sprintf("initiate request: %s", EncodeForm(fields)))

	body, code, err := p.postForm(ctx, p.conf.Paygate.URL+initiatePath, fields)
	if err != nil {
		return nil, &services.GatewayError{Message: "payment initiation failed", Code: code, Response: body, Err: err}
	}
	response, err := DecodeForm(body)
	if err != nil {
		return nil, &services.GatewayError{Message: "undecodable initiate response", Response: body, Err: err}
	}
	if errorCode, ok := response.ErrorCode(); ok {
		return nil, &services.GatewayError{Message: fmt.Sprintf("gateway error: %s", errorCode), Response: body}
	}
	if response.PayRequestID() == "" || response.Checksum() == "" {
		return nil, &services.GatewayError{Message: "incomplete gateway response: missing request id or checksum", Response: body}
	}

	p.store.Put(response.PayRequestID(), request.Reference)
	p.savePaymentRecord(ctx, request, response)

	return &entity.InitiateResult{
		PayRequestID: response.PayRequestID(),
		Checksum:     response.Checksum(),
		PaymentURL:   p.conf.Paygate.URL + processPath,
		Reference:    request.Reference,
	}, nil
}

// QueryStatus asks the gateway for the current state of a transaction and
// maps the status code to view data for the status page. When the stored
// reference is gone (process restart), the query is still sent: the gateway
// resolves the transaction by PAY_REQUEST_ID alone and echoes its own
// stored reference back.
func (p *Payments) QueryStatus(ctx context.Context, payRequestId string) (*entity.StatusResult, error) {
	if payRequestId == "" {
		return nil, &services.ValidationError{Message: "missing pay request id"}
	}

	fields := entity.RequestFields{
		entity.FieldPaygateID:    p.conf.Paygate.ID,
		entity.FieldPayRequestID: payRequestId,
	}
	reference, found := p.lookupReference(ctx, payRequestId)
	if found {
		fields[entity.FieldReference] = reference
	} else {
		p.logger.Warn(fmt.Sprintf("no stored reference for request %s, querying without it", payRequestId))
	}
	fields[entity.FieldChecksum] = Checksum(fields, p.conf.Paygate.Secret)

	body, code, err := p.postForm(ctx, p.conf.Paygate.URL+queryPath, fields)
	if err != nil {
		return nil, &services.GatewayError{Message: "status query failed", Code: code, Response: body, Err: err}
	}
	response, err := DecodeForm(body)
	if err != nil {
		return nil, &services.GatewayError{Message: "undecodable query response", Response: body, Err: err}
	}

	status := response.TransactionStatus()
	result := &entity.StatusResult{
		IsSuccessful:    status.Successful(),
		DetailedMessage: status.Label(),
		Reference:       response.Reference(),
		PayRequestID:    response.PayRequestID(),
	}
	if result.IsSuccessful {
		result.StatusMessage = "Payment Successful"
	} else {
		result.StatusMessage = "Payment Failed"
	}
	p.logger.Info(fmt.Sprintf("status of request %s: %s", payRequestId, result.DetailedMessage))
	return result, nil
}

// Notify processes the gateway's asynchronous server-to-server callback.
// The notification only needs to be classified and acknowledged; order
// fulfillment would hang off the classification and is out of scope here.
// The handler must answer the gateway with the literal body "OK" whenever
// this returns without error, otherwise the gateway re-delivers.
func (p *Payments) Notify(ctx context.Context, fields entity.GatewayResponse) (bool, error) {
	if fields.PayRequestID() == "" || fields[entity.FieldTransactionStatus] == "" {
		return false, &services.ValidationError{Message: "notification missing request id or transaction status"}
	}

	status := fields.TransactionStatus()
	p.logger.Info(fmt.Sprintf("notification for request %s: %s", fields.PayRequestID(), status.Label()))
	p.savePaymentResult(ctx, fields)

	return status.Successful(), nil
}

// lookupReference resolves a merchant reference for a request id, falling
// back to the audit trail when the in-memory entry did not survive a
// restart and a database sink is available.
func (p *Payments) lookupReference(ctx context.Context, payRequestId string) (string, bool) {
	reference, found := p.store.Get(payRequestId)
	if found {
		return reference, true
	}
	if p.database == nil {
		return "", false
	}
	record, err := p.database.GetPaymentRecord(ctx, payRequestId)
	if err != nil || record == nil {
		return "", false
	}
	p.logger.Warn(fmt.Sprintf("reference for request %s recovered from audit record", payRequestId))
	return record.Reference, true
}

// postForm sends a form-encoded request to a gateway endpoint and returns
// the raw response body. A non-2xx status is an error; the body is still
// returned for logging.
func (p *Payments) postForm(ctx context.Context, endpoint string, fields entity.RequestFields) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(EncodeForm(fields)))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := p.httpClient.Do(request)
	if err != nil {
		if ctx.Err() != nil {
			return "", 0, fmt.Errorf("request timeout or cancelled: %w", ctx.Err())
		}
		return "", 0, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			p.logger.Error("close response body", err)
		}
	}(response.Body)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", response.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	if response.StatusCode >= http.StatusBadRequest {
		return string(body), response.StatusCode, fmt.Errorf("gateway status %d", response.StatusCode)
	}
	return string(body), response.StatusCode, nil
}

func (p *Payments) savePaymentRecord(ctx context.Context, request *entity.TransactionRequest, response entity.GatewayResponse) {
	if p.database == nil {
		return
	}
	record := &entity.PaymentRecord{
		PayRequestID: response.PayRequestID(),
		Reference:    request.Reference,
		Amount:       request.Amount,
		Currency:     request.Currency,
		Email:        request.Email,
		Checksum:     response.Checksum(),
		TimeCreated:  time.Now(),
	}
	if err := p.database.SavePaymentRecord(ctx, record); err != nil {
		p.logger.Error("save payment record", err)
	}
}

func (p *Payments) savePaymentResult(ctx context.Context, result entity.GatewayResponse) {
	if p.database == nil {
		return
	}
	if err := p.database.SavePaymentResult(ctx, result); err != nil {
		p.logger.Error("save payment result", err)
	}
}

// newReference generates a merchant reference for a new initiation:
// millisecond timestamp plus a random suffix. Uniqueness is best effort.
func newReference() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("ORDER_%d_%s", time.Now().UnixMilli(), suffix)
}

// digitsOnly strips everything but decimal digits from an amount, so the
// signed AMOUNT field never carries currency symbols or separators.
func digitsOnly(amount string) string {
	var digits strings.Builder
	for _, r := range amount {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
