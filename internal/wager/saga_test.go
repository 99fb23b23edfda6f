package wager

import (
	"context"
	"errors"
	"testing"

	"minimorph-blackjack/internal/game"
	"minimorph-blackjack/internal/ledger"
	"minimorph-blackjack/internal/ledger/ledgertest"
)

func newTestSaga(node *ledgertest.Node) *Saga {
	return New(node, Config{
		HouseAddress: "MxHOUSE",
		TokenID:      "0x00",
	})
}

func TestPlaceStakeSpendsFirstCoveringCoin(t *testing.T) {
	node := ledgertest.NewNode("MxPLAYER",
		ledger.Coin{ID: "0xS", Amount: 3, TokenID: "0x00"},
		ledger.Coin{ID: "0xB", Amount: 50, TokenID: "0x00"},
	)
	saga := newTestSaga(node)

	ticket, err := saga.PlaceStake(context.Background(), 10)
	if err != nil {
		t.Fatalf("PlaceStake: %v", err)
	}
	if ticket.Status != StatusPlaced {
		t.Fatalf("ticket status = %s, want placed", ticket.Status)
	}
	if ticket.Reference == "" {
		t.Fatal("placed ticket has no broadcast reference")
	}

	txn := node.LastBroadcast()
	if txn == nil {
		t.Fatal("no transaction broadcast")
	}
	if len(txn.Inputs) != 1 || txn.Inputs[0] != "0xB" {
		t.Fatalf("inputs = %v, want the first covering coin 0xB", txn.Inputs)
	}
	if len(txn.Outputs) != 2 {
		t.Fatalf("outputs = %v, want stake + change", txn.Outputs)
	}
	if txn.Outputs[0].Address != "MxHOUSE" || txn.Outputs[0].Amount != 10 {
		t.Fatalf("stake output = %+v", txn.Outputs[0])
	}
	if txn.Outputs[1].Address != "MxPLAYER" || txn.Outputs[1].Amount != 40 {
		t.Fatalf("change output = %+v", txn.Outputs[1])
	}
}

func TestPlaceStakeSkipsDustChange(t *testing.T) {
	node := ledgertest.NewNode("MxPLAYER",
		ledger.Coin{ID: "0xExact", Amount: 10, TokenID: "0x00"},
	)
	saga := newTestSaga(node)

	if _, err := saga.PlaceStake(context.Background(), 10); err != nil {
		t.Fatalf("PlaceStake: %v", err)
	}
	txn := node.LastBroadcast()
	if len(txn.Outputs) != 1 {
		t.Fatalf("outputs = %v, want only the stake output", txn.Outputs)
	}
}

func TestPlaceStakeInsufficientFunds(t *testing.T) {
	node := ledgertest.NewNode("MxPLAYER",
		ledger.Coin{ID: "0xS", Amount: 7, TokenID: "0x00"},
	)
	saga := newTestSaga(node)

	ticket, err := saga.PlaceStake(context.Background(), 10)
	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientFundsError", err)
	}
	if insufficient.Required != 10 {
		t.Fatalf("required = %v, want 10", insufficient.Required)
	}
	if ticket.Status != StatusRejected {
		t.Fatalf("ticket status = %s, want rejected", ticket.Status)
	}
	if node.BroadcastCount() != 0 {
		t.Fatal("a rejected stake must not broadcast anything")
	}
}

func TestPlaceStakeSigningFailureAborts(t *testing.T) {
	node := ledgertest.NewNode("MxPLAYER",
		ledger.Coin{ID: "0xB", Amount: 50, TokenID: "0x00"},
	)
	node.FailSign = true
	saga := newTestSaga(node)

	_, err := saga.PlaceStake(context.Background(), 10)
	if !errors.Is(err, ErrLedgerOperationFailed) {
		t.Fatalf("err = %v, want ErrLedgerOperationFailed", err)
	}
	if !errors.Is(err, ledger.ErrSigningFailed) {
		t.Fatalf("err = %v, should keep the signing cause", err)
	}
	if node.BroadcastCount() != 0 {
		t.Fatal("nothing may be broadcast after a failed signature")
	}
}

func TestPlaceStakeUnreachableLedger(t *testing.T) {
	node := ledgertest.NewNode("MxPLAYER")
	node.FailCoins = ledger.ErrUnavailable
	saga := newTestSaga(node)

	if _, err := saga.PlaceStake(context.Background(), 10); !errors.Is(err, ErrLedgerOperationFailed) {
		t.Fatalf("err = %v, want ErrLedgerOperationFailed", err)
	}
}

func TestSettleLossBurnsStakeWithoutLedgerCall(t *testing.T) {
	node := ledgertest.NewNode("MxPLAYER",
		ledger.Coin{ID: "0xB", Amount: 50, TokenID: "0x00"},
	)
	saga := newTestSaga(node)

	ticket, err := saga.PlaceStake(context.Background(), 10)
	if err != nil {
		t.Fatalf("PlaceStake: %v", err)
	}
	stakeBroadcasts := node.BroadcastCount()

	res, err := saga.Settle(context.Background(), ticket, game.StateDealerWon, 0)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if res.Status != StatusSettled || ticket.Status != StatusSettled {
		t.Fatalf("loss should settle the ticket, got result=%s ticket=%s", res.Status, ticket.Status)
	}
	if node.BroadcastCount() != stakeBroadcasts {
		t.Fatal("loss must not trigger a ledger operation")
	}
}

func TestSettleWinPaysPlayerWithChangeToHouse(t *testing.T) {
	node := ledgertest.NewNode("MxPLAYER",
		ledger.Coin{ID: "0xHouse", Amount: 100, TokenID: "0x00"},
	)
	saga := newTestSaga(node)
	ticket := &StakeTicket{Amount: 10, Status: StatusPlaced, Reference: "0xSTAKE"}

	res, err := saga.Settle(context.Background(), ticket, game.StatePlayerWon, 20)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if res.Status != StatusSettled || res.Payout != 20 {
		t.Fatalf("result = %+v", res)
	}
	txn := node.LastBroadcast()
	if txn.Outputs[0].Address != "MxPLAYER" || txn.Outputs[0].Amount != 20 {
		t.Fatalf("payout output = %+v", txn.Outputs[0])
	}
	if txn.Outputs[1].Address != "MxHOUSE" || txn.Outputs[1].Amount != 80 {
		t.Fatalf("change output = %+v", txn.Outputs[1])
	}
}

func TestSettlePushPaysStakeFromHouse(t *testing.T) {
	// Push pays from the payout source; it does not rebuild the original
	// stake transaction.
	node := ledgertest.NewNode("MxPLAYER",
		ledger.Coin{ID: "0xHouse", Amount: 100, TokenID: "0x00"},
	)
	saga := newTestSaga(node)
	ticket := &StakeTicket{Amount: 10, Status: StatusPlaced}

	res, err := saga.Settle(context.Background(), ticket, game.StatePush, 10)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if res.Payout != 10 {
		t.Fatalf("push payout = %v, want the stake amount", res.Payout)
	}
	txn := node.LastBroadcast()
	if txn.Outputs[0].Address != "MxPLAYER" || txn.Outputs[0].Amount != 10 {
		t.Fatalf("payout output = %+v", txn.Outputs[0])
	}
}

func TestSettleBroadcastFailureMarksTicketFailed(t *testing.T) {
	node := ledgertest.NewNode("MxPLAYER",
		ledger.Coin{ID: "0xHouse", Amount: 100, TokenID: "0x00"},
	)
	node.FailBroadcast = true
	saga := newTestSaga(node)
	ticket := &StakeTicket{Amount: 10, Status: StatusPlaced}

	_, err := saga.Settle(context.Background(), ticket, game.StatePlayerWon, 20)
	if !errors.Is(err, ErrPayoutFailed) {
		t.Fatalf("err = %v, want ErrPayoutFailed", err)
	}
	if ticket.Status != StatusFailed {
		t.Fatalf("ticket status = %s, want failed", ticket.Status)
	}
}

func TestSettleHouseUnderfunded(t *testing.T) {
	node := ledgertest.NewNode("MxPLAYER",
		ledger.Coin{ID: "0xHouse", Amount: 5, TokenID: "0x00"},
	)
	saga := newTestSaga(node)
	ticket := &StakeTicket{Amount: 10, Status: StatusPlaced}

	_, err := saga.Settle(context.Background(), ticket, game.StatePlayerBlackjack, 25)
	if !errors.Is(err, ErrPayoutFailed) {
		t.Fatalf("err = %v, want ErrPayoutFailed", err)
	}
	var insufficient *InsufficientFundsError
	if !errors.As(err, &insufficient) || insufficient.Required != 25 {
		t.Fatalf("err = %v, should carry the required payout", err)
	}
}

func TestSettleRequiresPlacedTicket(t *testing.T) {
	saga := newTestSaga(ledgertest.NewNode("MxPLAYER"))

	if _, err := saga.Settle(context.Background(), nil, game.StatePlayerWon, 20); !errors.Is(err, ErrTicketNotSettleable) {
		t.Fatalf("nil ticket: err = %v, want ErrTicketNotSettleable", err)
	}
	rejected := &StakeTicket{Amount: 10, Status: StatusRejected}
	if _, err := saga.Settle(context.Background(), rejected, game.StatePlayerWon, 20); !errors.Is(err, ErrTicketNotSettleable) {
		t.Fatalf("rejected ticket: err = %v, want ErrTicketNotSettleable", err)
	}
}
