package entity

import "time"

// PaymentRecord is an audit snapshot of an initiated transaction, persisted
// when a database sink is configured. It is a trail for reconciliation, not
// the source of truth for in-flight correlation.
type PaymentRecord struct {
	PayRequestID string    `json:"pay_request_id" bson:"pay_request_id"`
	Reference    string    `json:"reference" bson:"reference"`
	Amount       string    `json:"amount" bson:"amount"`
	Currency     string    `json:"currency" bson:"currency"`
	Email        string    `json:"email" bson:"email"`
	Checksum     string    `json:"checksum" bson:"checksum"`
	TimeCreated  time.Time `json:"time_created" bson:"time_created"`
}
