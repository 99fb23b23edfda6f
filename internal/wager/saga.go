// Package wager runs the settlement saga: place a stake on the ledger before
// a round deals, pay the outcome out after it ends. Steps are strictly
// sequential, each under its own timeout, and a failing step aborts the rest.
// There is no automatic retry and no compensating transaction: once the stake
// transaction is broadcast it is spent, whatever happens afterwards.
package wager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"minimorph-blackjack/internal/game"
	"minimorph-blackjack/internal/ledger"
)

const (
	defaultDustThreshold = 0.000001
	defaultStepTimeout   = 10 * time.Second
)

type Config struct {
	// HouseAddress receives stakes and funds payouts.
	HouseAddress string
	// TokenID is the wager's unit of account.
	TokenID string
	// DustThreshold is the smallest change output worth creating.
	DustThreshold float64
	// StepTimeout bounds each individual ledger call.
	StepTimeout time.Duration
}

type Saga struct {
	client ledger.Client
	cfg    Config
}

func New(client ledger.Client, cfg Config) *Saga {
	if cfg.DustThreshold <= 0 {
		cfg.DustThreshold = defaultDustThreshold
	}
	if cfg.StepTimeout <= 0 {
		cfg.StepTimeout = defaultStepTimeout
	}
	return &Saga{client: client, cfg: cfg}
}

// PlaceStake moves a stake from the player's wallet to the house, before any
// card is dealt. On success the returned ticket is placed and the stake is
// irrevocably spent; callers must treat this as the point of no return. When
// no single coin covers the stake the ticket comes back rejected together
// with an InsufficientFundsError, and the round must not start.
func (s *Saga) PlaceStake(ctx context.Context, amount float64) (*StakeTicket, error) {
	ticket := &StakeTicket{Amount: amount}

	coins, err := s.spendableCoins(ctx)
	if err != nil {
		return nil, err
	}
	coin, ok := pickCoin(coins, amount)
	if !ok {
		ticket.Status = StatusRejected
		return ticket, &InsufficientFundsError{Required: amount}
	}

	outputs := []ledger.Output{{Address: s.cfg.HouseAddress, Amount: amount}}
	if change := coin.Amount - amount; change > s.cfg.DustThreshold {
		playerAddr, err := s.receiveAddress(ctx)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, ledger.Output{Address: playerAddr, Amount: change})
	}

	reference, err := s.submit(ctx, []string{coin.ID}, outputs, ErrLedgerOperationFailed)
	if err != nil {
		return nil, err
	}

	ticket.Status = StatusPlaced
	ticket.Reference = reference
	log.Info().Str("reference", reference).Float64("amount", amount).Msg("stake placed")
	return ticket, nil
}

// Settle runs the payout leg once the round is terminal. A loss needs no
// ledger operation: the stake was consumed by the stake transaction. A win,
// blackjack, or push pays the computed amount from the house coin set to the
// player; a push is deliberately treated the same way rather than refunding
// the original stake coin.
func (s *Saga) Settle(ctx context.Context, ticket *StakeTicket, state game.State, payout float64) (*SettlementResult, error) {
	if ticket == nil || ticket.Status != StatusPlaced {
		return nil, ErrTicketNotSettleable
	}

	if state == game.StateDealerWon || payout <= 0 {
		ticket.Status = StatusSettled
		log.Info().Str("reference", ticket.Reference).Float64("amount", ticket.Amount).Msg("stake burned on loss")
		return &SettlementResult{Status: StatusSettled}, nil
	}

	ticket.Status = StatusSettling

	coins, err := s.spendableCoins(ctx)
	if err != nil {
		ticket.Status = StatusFailed
		return nil, fmt.Errorf("%w: %w", ErrPayoutFailed, err)
	}
	coin, ok := pickCoin(coins, payout)
	if !ok {
		ticket.Status = StatusFailed
		return nil, fmt.Errorf("%w: %w", ErrPayoutFailed, &InsufficientFundsError{Required: payout})
	}

	playerAddr, err := s.receiveAddress(ctx)
	if err != nil {
		ticket.Status = StatusFailed
		return nil, fmt.Errorf("%w: %w", ErrPayoutFailed, err)
	}
	outputs := []ledger.Output{{Address: playerAddr, Amount: payout}}
	if change := coin.Amount - payout; change > s.cfg.DustThreshold {
		outputs = append(outputs, ledger.Output{Address: s.cfg.HouseAddress, Amount: change})
	}

	reference, err := s.submit(ctx, []string{coin.ID}, outputs, ErrPayoutFailed)
	if err != nil {
		ticket.Status = StatusFailed
		return nil, err
	}

	ticket.Status = StatusSettled
	log.Info().Str("reference", reference).Float64("payout", payout).Str("state", string(state)).Msg("payout broadcast")
	return &SettlementResult{Status: StatusSettled, Payout: payout, Reference: reference}, nil
}

func (s *Saga) spendableCoins(ctx context.Context) ([]ledger.Coin, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
	defer cancel()
	coins, err := s.client.SpendableCoins(ctx, s.cfg.TokenID)
	if err != nil {
		return nil, s.classify(err)
	}
	return coins, nil
}

func (s *Saga) receiveAddress(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
	defer cancel()
	addr, err := s.client.ReceiveAddress(ctx)
	if err != nil {
		return "", s.classify(err)
	}
	return addr, nil
}

// submit builds, signs, and broadcasts, wrapping any failure in wrapErr.
func (s *Saga) submit(ctx context.Context, inputs []string, outputs []ledger.Output, wrapErr error) (string, error) {
	draftID, err := s.buildStep(ctx, inputs, outputs)
	if err != nil {
		return "", fmt.Errorf("%w: %w", wrapErr, err)
	}
	signedID, err := s.signStep(ctx, draftID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", wrapErr, err)
	}
	reference, err := s.broadcastStep(ctx, signedID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", wrapErr, err)
	}
	return reference, nil
}

func (s *Saga) buildStep(ctx context.Context, inputs []string, outputs []ledger.Output) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
	defer cancel()
	id, err := s.client.BuildTransaction(ctx, inputs, outputs)
	if err != nil {
		return "", s.timeoutOr(err)
	}
	return id, nil
}

func (s *Saga) signStep(ctx context.Context, draftID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
	defer cancel()
	id, err := s.client.Sign(ctx, draftID)
	if err != nil {
		return "", s.timeoutOr(err)
	}
	return id, nil
}

func (s *Saga) broadcastStep(ctx context.Context, signedID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.StepTimeout)
	defer cancel()
	id, err := s.client.Broadcast(ctx, signedID)
	if err != nil {
		return "", s.timeoutOr(err)
	}
	return id, nil
}

// classify wraps read-step failures for the stake leg.
func (s *Saga) classify(err error) error {
	return fmt.Errorf("%w: %w", ErrLedgerOperationFailed, s.timeoutOr(err))
}

func (s *Saga) timeoutOr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrLedgerTimeout, err)
	}
	return err
}

// pickCoin takes the first coin, in the client's natural order, that covers
// the amount. No change-minimizing selection is attempted.
func pickCoin(coins []ledger.Coin, amount float64) (ledger.Coin, bool) {
	for _, c := range coins {
		if c.Amount >= amount {
			return c, true
		}
	}
	return ledger.Coin{}, false
}
