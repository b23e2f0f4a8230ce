package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGatewayResponseAccessors(t *testing.T) {
	response := GatewayResponse{
		FieldPayRequestID:      "REQ-1",
		FieldChecksum:          "abc123",
		FieldReference:         "ORDER_1",
		FieldTransactionStatus: "1",
	}

	assert.Equal(t, "REQ-1", response.PayRequestID())
	assert.Equal(t, "abc123", response.Checksum())
	assert.Equal(t, "ORDER_1", response.Reference())
	assert.Equal(t, StatusApproved, response.TransactionStatus())

	_, ok := response.ErrorCode()
	assert.False(t, ok)
}

func TestGatewayResponseErrorCode(t *testing.T) {
	response := GatewayResponse{FieldError: "DATA_CHK"}
	code, ok := response.ErrorCode()
	assert.True(t, ok)
	assert.Equal(t, "DATA_CHK", code)
}

func TestGatewayResponseStatusParsing(t *testing.T) {
	assert.Equal(t, StatusDeclined, GatewayResponse{FieldTransactionStatus: "2"}.TransactionStatus())
	// missing or non-numeric status falls outside the known set
	assert.Equal(t, "Unknown Status", GatewayResponse{}.TransactionStatus().Label())
	assert.Equal(t, "Unknown Status", GatewayResponse{FieldTransactionStatus: "abc"}.TransactionStatus().Label())
}
