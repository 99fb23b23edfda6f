package wager

// Status tracks a StakeTicket through its life: a ticket that never found
// funds is rejected and never reaches placed; a placed ticket ends settled
// (loss, or payout broadcast) or failed (payout broadcast failed).
type Status string

const (
	StatusPlaced   Status = "placed"
	StatusRejected Status = "rejected"
	StatusSettling Status = "settling"
	StatusSettled  Status = "settled"
	StatusFailed   Status = "failed"
)

// StakeTicket is an in-flight wager against the external ledger. Reference
// is the broadcast id of the stake transaction, kept for display and audit
// only. A ticket is never reused across rounds.
type StakeTicket struct {
	Amount    float64 `json:"amount"`
	Status    Status  `json:"status"`
	Reference string  `json:"reference,omitempty"`
}

// SettlementResult reports what the payout leg did.
type SettlementResult struct {
	Status    Status  `json:"status"`
	Payout    float64 `json:"payout"`
	Reference string  `json:"reference,omitempty"`
}
