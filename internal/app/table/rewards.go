package table

import (
	"math"

	"minimorph-blackjack/internal/game"
)

type rewards struct {
	XP     int
	Points int
}

// rewardsFor grades a finished round. Every round pays a participation base,
// outcomes stack on top, PvP doubles the running total before the bet bonus
// lands, and rounds backed by a real stake earn half again as much.
func rewardsFor(state game.State, bet float64, mode game.Mode, staked bool) rewards {
	xp, points := 10, 5

	switch state {
	case game.StatePlayerBlackjack:
		xp += 50
		points += 25
	case game.StatePlayerWon:
		xp += 30
		points += 15
	case game.StatePush:
		xp += 5
		points += 5
	}

	if mode == game.ModePvP {
		xp *= 2
		points *= 2
	}

	if bet > 0 {
		xp += int(math.Floor(bet * 0.1))
		points += int(math.Floor(bet * 0.05))
	}

	if staked {
		xp = xp * 3 / 2
		points = points * 3 / 2
	}

	return rewards{XP: xp, Points: points}
}
