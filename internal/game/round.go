package game

import "errors"

type Mode string

const (
	ModeSolo Mode = "solo"
	ModePvP  Mode = "pvp"
)

type State string

const (
	StatePlaying         State = "playing"
	StatePlayerBlackjack State = "player_blackjack"
	StatePlayerWon       State = "player_won"
	StateDealerWon       State = "dealer_won"
	StatePush            State = "push"
)

var (
	ErrInvalidBet          = errors.New("invalid_bet")
	ErrInvalidMode         = errors.New("invalid_mode")
	ErrSplitNotImplemented = errors.New("split_not_implemented")
)

// Config is the immutable per-round setup. There is no shared session state
// in the engine; callers own anything that outlives a round.
type Config struct {
	Bet  float64
	Mode Mode
}

// Round is one complete play from deal to terminal outcome. It owns its deck
// and both hands. Once the state is terminal the round no longer mutates;
// callers read the outcome and payout, then discard it.
type Round struct {
	deck   *Deck
	player []Card
	dealer []Card
	state  State
	bet    float64
	mode   Mode
}

// NewRound builds a fresh shuffled deck and deals two cards each, strictly
// alternating player, dealer, player, dealer. A two-card 21 ends the round as
// player_blackjack without giving the dealer a turn.
func NewRound(cfg Config) (*Round, error) {
	return NewRoundWithDeck(cfg, NewShuffledDeck())
}

// NewRoundWithDeck deals from the supplied deck instead of a fresh shuffle.
// Pair it with NewDeckFromCards to replay a known sequence of deals.
func NewRoundWithDeck(cfg Config, deck *Deck) (*Round, error) {
	if cfg.Bet < 0 {
		return nil, ErrInvalidBet
	}
	switch cfg.Mode {
	case ModeSolo, ModePvP:
	case "":
		cfg.Mode = ModeSolo
	default:
		return nil, ErrInvalidMode
	}

	r := &Round{
		deck: deck,
		bet:  cfg.Bet,
		mode: cfg.Mode,
	}
	r.player = append(r.player, r.draw())
	r.dealer = append(r.dealer, r.draw())
	r.player = append(r.player, r.draw())
	r.dealer = append(r.dealer, r.draw())

	if HandValue(r.player) == 21 {
		r.state = StatePlayerBlackjack
	} else {
		r.state = StatePlaying
	}
	return r, nil
}

func (r *Round) draw() Card {
	c, err := r.deck.Draw()
	if err != nil {
		// At most 21 draws are ever requested from a 52-card deck, so this
		// only fires on a corrupted or reused deck.
		panic(err)
	}
	return c
}

// Hit draws one card into the player hand. Over 21 ends the round as
// dealer_won; exactly 21 stands automatically. Returns nil outside playing.
func (r *Round) Hit() *Snapshot {
	if r.state != StatePlaying {
		return nil
	}
	r.player = append(r.player, r.draw())
	value := HandValue(r.player)
	if value > 21 {
		r.state = StateDealerWon
	} else if value == 21 {
		return r.Stand()
	}
	return r.Snapshot()
}

// Stand runs the dealer out and compares hands. The dealer draws only while
// under 17 and stands on soft 17. Returns nil outside playing.
func (r *Round) Stand() *Snapshot {
	if r.state != StatePlaying {
		return nil
	}
	for HandValue(r.dealer) < 17 {
		r.dealer = append(r.dealer, r.draw())
	}

	playerValue := HandValue(r.player)
	dealerValue := HandValue(r.dealer)
	switch {
	case dealerValue > 21:
		r.state = StatePlayerWon
	case playerValue > dealerValue:
		r.state = StatePlayerWon
	case dealerValue > playerValue:
		r.state = StateDealerWon
	default:
		r.state = StatePush
	}
	return r.Snapshot()
}

// Double doubles the bet, draws exactly one card, and ends the round: either
// an immediate bust or the dealer's turn. Only valid in playing with exactly
// two cards in the player hand; otherwise nil.
func (r *Round) Double() *Snapshot {
	if r.state != StatePlaying || len(r.player) != 2 {
		return nil
	}
	r.bet *= 2
	r.player = append(r.player, r.draw())
	if HandValue(r.player) > 21 {
		r.state = StateDealerWon
		return r.Snapshot()
	}
	return r.Stand()
}

// Split is unsupported in this version. A matched pair fails with
// ErrSplitNotImplemented so callers can never mistake it for success; any
// other call is an invalid action and returns nil, nil.
func (r *Round) Split() (*Snapshot, error) {
	if r.state != StatePlaying || len(r.player) != 2 {
		return nil, nil
	}
	if r.player[0].Rank != r.player[1].Rank {
		return nil, nil
	}
	return nil, ErrSplitNotImplemented
}

func (r *Round) State() State {
	return r.state
}

func (r *Round) Bet() float64 {
	return r.bet
}

func (r *Round) Mode() Mode {
	return r.mode
}

func (r *Round) Terminal() bool {
	return r.state != StatePlaying
}

func (r *Round) PlayerCards() []Card {
	return append([]Card{}, r.player...)
}

func (r *Round) DealerCards() []Card {
	return append([]Card{}, r.dealer...)
}

// Payout is a pure function of the terminal state and the staked bet
// (post-double). Blackjack pays 3:2, a win pays even money, a push returns
// the stake, a loss pays nothing.
func (r *Round) Payout() float64 {
	switch r.state {
	case StatePlayerBlackjack:
		return r.bet * 2.5
	case StatePlayerWon:
		return r.bet * 2
	case StatePush:
		return r.bet
	default:
		return 0
	}
}

// NetProfit is the payout minus the bet actually staked.
func (r *Round) NetProfit() float64 {
	return r.Payout() - r.bet
}
