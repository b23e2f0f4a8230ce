package services

import (
	"context"

	"payrelay/entity"
)

type Payments interface {
	// Initiate signs a new transaction and registers it with the gateway.
	Initiate(ctx context.Context, intent entity.PaymentIntent) (*entity.InitiateResult, error)
	// QueryStatus re-queries the gateway for the current state of a transaction.
	QueryStatus(ctx context.Context, payRequestId string) (*entity.StatusResult, error)
	// Notify processes the gateway's server-to-server callback and reports
	// whether the payment was classified as successful.
	Notify(ctx context.Context, fields entity.GatewayResponse) (bool, error)
}

// ReferenceStore correlates gateway-issued request identifiers with merchant
// references. Entries live for the lifetime of the process.
type ReferenceStore interface {
	Put(payRequestId, reference string)
	Get(payRequestId string) (string, bool)
}
