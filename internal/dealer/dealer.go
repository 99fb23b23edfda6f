// Package dealer maps a closed set of dealer personalities onto moods and
// table chatter. Mood selection is a pure function of the round state; the
// chat lines themselves live in an embedded JSON resource so they can be
// swapped without touching code.
package dealer

import (
	"errors"

	"minimorph-blackjack/internal/game"
)

type Personality string

const (
	EvenTempered Personality = "even_tempered"
	Sardonic     Personality = "sardonic"
	Flat         Personality = "flat"
)

var ErrUnknownPersonality = errors.New("unknown_personality")

func ParsePersonality(s string) (Personality, error) {
	switch Personality(s) {
	case EvenTempered, Sardonic, Flat:
		return Personality(s), nil
	case "":
		return EvenTempered, nil
	default:
		return "", ErrUnknownPersonality
	}
}

type Mood string

const (
	MoodNeutral      Mood = "neutral"
	MoodPleased      Mood = "pleased"
	MoodImpressed    Mood = "impressed"
	MoodWorried      Mood = "worried"
	MoodApologetic   Mood = "apologetic"
	MoodSmirking     Mood = "smirking"
	MoodSkeptical    Mood = "skeptical"
	MoodAmused       Mood = "amused"
	MoodConfident    Mood = "confident"
	MoodIndifferent  Mood = "indifferent"
	MoodDisappointed Mood = "disappointed"
)

// MoodFor is pure: the same personality, state, and player value always give
// the same mood. Flat dealers never emote.
func MoodFor(p Personality, state game.State, playerValue int) Mood {
	switch p {
	case EvenTempered:
		return evenTemperedMood(state, playerValue)
	case Sardonic:
		return sardonicMood(state, playerValue)
	default:
		return MoodNeutral
	}
}

func evenTemperedMood(state game.State, playerValue int) Mood {
	switch state {
	case game.StatePlaying:
		if playerValue > 18 {
			return MoodImpressed
		}
		if playerValue < 12 {
			return MoodWorried
		}
		return MoodPleased
	case game.StatePlayerWon, game.StatePlayerBlackjack, game.StatePush:
		return MoodPleased
	case game.StateDealerWon:
		return MoodApologetic
	default:
		return MoodNeutral
	}
}

func sardonicMood(state game.State, playerValue int) Mood {
	switch state {
	case game.StatePlaying:
		if playerValue > 18 {
			return MoodSkeptical
		}
		if playerValue < 12 {
			return MoodAmused
		}
		return MoodSmirking
	case game.StatePlayerWon, game.StatePlayerBlackjack:
		return MoodDisappointed
	case game.StateDealerWon:
		return MoodConfident
	case game.StatePush:
		return MoodIndifferent
	default:
		return MoodSmirking
	}
}
