package entity

// TransactionStatus is the gateway's numeric transaction state.
type TransactionStatus int

const (
	StatusNotDone          TransactionStatus = 0
	StatusApproved         TransactionStatus = 1
	StatusDeclined         TransactionStatus = 2
	StatusCancelled        TransactionStatus = 3
	StatusUserCancelled    TransactionStatus = 4
	StatusReceived         TransactionStatus = 5
	StatusSettlementVoided TransactionStatus = 7
)

// Successful reports whether the status represents a completed payment.
// Only an approved transaction counts; "received by gateway" is still pending.
func (s TransactionStatus) Successful() bool {
	return s == StatusApproved
}

// Label returns the human-readable form of the status. Codes outside the
// documented set are reported as unknown rather than rejected.
func (s TransactionStatus) Label() string {
	switch s {
	case StatusNotDone:
		return "Not Done"
	case StatusApproved:
		return "Approved"
	case StatusDeclined:
		return "Declined"
	case StatusCancelled:
		return "Cancelled"
	case StatusUserCancelled:
		return "User Cancelled"
	case StatusReceived:
		return "Received by PayGate"
	case StatusSettlementVoided:
		return "Settlement Voided"
	default:
		return "Unknown Status"
	}
}
