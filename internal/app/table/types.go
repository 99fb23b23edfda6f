package table

import (
	"minimorph-blackjack/internal/dealer"
	"minimorph-blackjack/internal/game"
	"minimorph-blackjack/internal/wager"
)

type StartRequest struct {
	Bet           float64 `json:"bet"`
	Mode          string  `json:"mode"`
	Stake         bool    `json:"stake"`
	Personality   string  `json:"personality"`
	PlayerAddress string  `json:"player_address"`
}

type RoundView struct {
	RoundID    string             `json:"round_id"`
	Snapshot   *game.Snapshot     `json:"snapshot"`
	DealerMood dealer.Mood        `json:"dealer_mood"`
	DealerLine string             `json:"dealer_line,omitempty"`
	Stake      *wager.StakeTicket `json:"stake,omitempty"`
	Result     *RoundResult       `json:"result,omitempty"`
}

// RoundResult is attached to the view once the round reaches a terminal
// state. SettlementError carries the ledger failure verbatim when the payout
// could not be delivered; the round outcome itself stands regardless.
type RoundResult struct {
	Payout          float64                 `json:"payout"`
	NetProfit       float64                 `json:"net_profit"`
	XPEarned        int                     `json:"xp_earned"`
	PointsEarned    int                     `json:"points_earned"`
	Settlement      *wager.SettlementResult `json:"settlement,omitempty"`
	SettlementError string                  `json:"settlement_error,omitempty"`
}
