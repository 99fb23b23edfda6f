package wager

import (
	"errors"
	"fmt"
)

var (
	ErrLedgerOperationFailed = errors.New("ledger_operation_failed")
	ErrPayoutFailed          = errors.New("payout_failed")
	ErrLedgerTimeout         = errors.New("ledger_timeout")
	ErrTicketNotSettleable   = errors.New("ticket_not_settleable")
)

// InsufficientFundsError reports that no single spendable coin covered the
// requested stake. Recoverable at the UI level: offer a smaller bet.
type InsufficientFundsError struct {
	Required float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient_funds: no coin covers %v", e.Required)
}
