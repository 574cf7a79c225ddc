package models

// Pending transaction statuses reported by the API.
const (
	PendingStatusReceived = "received"
	PendingStatusPending  = "pending"
	PendingStatusCleared  = "cleared"
	PendingStatusFailed   = "failed"
)

// PendingTransaction is the handle returned after submitting a signed
// transaction.
type PendingTransaction struct {
	Hash         string `json:"hash"`
	Status       string `json:"status,omitempty"`
	Type         string `json:"type,omitempty"`
	Fee          int64  `json:"fee,omitempty"`
	FailedReason string `json:"failed_reason,omitempty"`
	CreatedAt    string `json:"created_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// Failed reports whether the ledger rejected the transaction.
func (p PendingTransaction) Failed() bool {
	return p.Status == PendingStatusFailed
}
