// Package ledger defines the narrow contract this system consumes from the
// external ledger platform, plus an RPC client for a Minima-style node. The
// platform is the sole arbiter of double-spend prevention; nothing here locks
// the spendable coin set.
package ledger

import (
	"context"
	"errors"
)

var (
	ErrUnavailable     = errors.New("ledger_unavailable")
	ErrSigningFailed   = errors.New("signing_failed")
	ErrBroadcastFailed = errors.New("broadcast_failed")
)

// Coin is one spendable fund unit.
type Coin struct {
	ID      string
	Amount  float64
	TokenID string
}

// Output pays Amount to Address in a draft transaction.
type Output struct {
	Address string
	Amount  float64
}

// Client is the capability consumed by the wager settlement saga.
type Client interface {
	// SpendableCoins lists spendable coins of the given token, in the
	// node's natural order.
	SpendableCoins(ctx context.Context, tokenID string) ([]Coin, error)

	// ReceiveAddress returns the wallet's own receive address.
	ReceiveAddress(ctx context.Context) (string, error)

	// BuildTransaction drafts a transaction consuming the input coin IDs
	// and producing the outputs, returning a draft ID.
	BuildTransaction(ctx context.Context, inputs []string, outputs []Output) (string, error)

	// Sign signs a draft. Fails with ErrSigningFailed.
	Sign(ctx context.Context, draftID string) (string, error)

	// Broadcast posts a signed transaction to the network and returns the
	// broadcast ID. Fails with ErrBroadcastFailed. Once broadcast, the
	// spent coins are gone; there is no reversal from this side.
	Broadcast(ctx context.Context, signedID string) (string, error)
}
