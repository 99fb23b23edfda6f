package game

type CardView struct {
	Rank  string `json:"rank"`
	Suit  string `json:"suit"`
	Value int    `json:"value"`
}

// Snapshot is the round view handed to callers after every operation. While
// the round is still playing the dealer hand carries only the up-card and its
// value; the hole card never leaves the engine until the round is terminal.
type Snapshot struct {
	PlayerHand       []CardView `json:"player_hand"`
	DealerHand       []CardView `json:"dealer_hand"`
	PlayerValue      int        `json:"player_value"`
	DealerValue      int        `json:"dealer_value"`
	State            State      `json:"state"`
	BetAmount        float64    `json:"bet_amount"`
	Mode             Mode       `json:"mode"`
	DealerHiddenCard bool       `json:"dealer_hidden_card"`
}

func (r *Round) Snapshot() *Snapshot {
	dealer := r.dealer
	if r.state == StatePlaying {
		dealer = r.dealer[:1]
	}
	return &Snapshot{
		PlayerHand:       cardViews(r.player),
		DealerHand:       cardViews(dealer),
		PlayerValue:      HandValue(r.player),
		DealerValue:      HandValue(dealer),
		State:            r.state,
		BetAmount:        r.bet,
		Mode:             r.mode,
		DealerHiddenCard: r.state == StatePlaying,
	}
}

func cardViews(cards []Card) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardView{Rank: c.Rank.Label(), Suit: c.Suit.String(), Value: c.Rank.NumericValue()})
	}
	return out
}

// HandStrings is the compact card form ("As", "Td") used in history records.
func HandStrings(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.String())
	}
	return out
}
