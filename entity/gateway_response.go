package entity

import "strconv"

// GatewayResponse is a decoded form-encoded gateway body: an unordered
// mapping of wire field names to values.
type GatewayResponse map[string]string

func (g GatewayResponse) PayRequestID() string {
	return g[FieldPayRequestID]
}

func (g GatewayResponse) Checksum() string {
	return g[FieldChecksum]
}

func (g GatewayResponse) Reference() string {
	return g[FieldReference]
}

// ErrorCode returns the gateway rejection code and whether the ERROR field
// is present. A present ERROR field takes precedence over everything else
// in the response.
func (g GatewayResponse) ErrorCode() (string, bool) {
	code, ok := g[FieldError]
	return code, ok
}

// TransactionStatus parses the TRANSACTION_STATUS field. A missing or
// non-numeric value yields a status outside the known set, which maps to
// the unknown label.
func (g GatewayResponse) TransactionStatus() TransactionStatus {
	code, err := strconv.Atoi(g[FieldTransactionStatus])
	if err != nil {
		return TransactionStatus(-1)
	}
	return TransactionStatus(code)
}
