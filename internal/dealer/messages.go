package dealer

import (
	_ "embed"
	"encoding/json"
	"math/rand"

	"minimorph-blackjack/internal/game"
)

// Event is something worth a line of table chatter.
type Event string

const (
	EventWelcome         Event = "welcome"
	EventDeal            Event = "deal"
	EventHit             Event = "hit"
	EventStand           Event = "stand"
	EventDouble          Event = "double"
	EventPlayerWin       Event = "player_win"
	EventPlayerBlackjack Event = "player_blackjack"
	EventDealerWin       Event = "dealer_win"
	EventPush            Event = "push"
)

//go:embed messages.json
var messagesRaw []byte

var messages map[Personality]map[Event][]string

func init() {
	if err := json.Unmarshal(messagesRaw, &messages); err != nil {
		panic(err)
	}
}

// Lines returns every chat line for the personality and event, in resource
// order. Empty when the resource has nothing to say.
func Lines(p Personality, e Event) []string {
	return messages[p][e]
}

// Line picks one chat line at random, or "" when there is none.
func Line(p Personality, e Event) string {
	lines := Lines(p, e)
	if len(lines) == 0 {
		return ""
	}
	return lines[rand.Intn(len(lines))]
}

// OutcomeEvent maps a terminal round state to its chatter event.
func OutcomeEvent(state game.State) Event {
	switch state {
	case game.StatePlayerWon:
		return EventPlayerWin
	case game.StatePlayerBlackjack:
		return EventPlayerBlackjack
	case game.StateDealerWon:
		return EventDealerWin
	case game.StatePush:
		return EventPush
	default:
		return EventDeal
	}
}
