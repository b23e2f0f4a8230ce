package services

import (
	"context"

	"payrelay/entity"
)

// Database is an optional audit sink. The payment flow works without one;
// correlation always goes through the ReferenceStore.
type Database interface {
	WriteLogMessage(data Data) error

	SavePaymentRecord(ctx context.Context, record *entity.PaymentRecord) error
	GetPaymentRecord(ctx context.Context, payRequestId string) (*entity.PaymentRecord, error)
	SavePaymentResult(ctx context.Context, result entity.GatewayResponse) error
}

type Data interface {
	DataType() string
}
