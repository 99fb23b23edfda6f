package game

// HandValue sums the cards' numeric values, then re-counts one Ace at a time
// as 1 instead of 11 while the total is over 21. Pure; always recomputed from
// the cards, never cached.
func HandValue(cards []Card) int {
	value := 0
	aces := 0
	for _, c := range cards {
		value += c.Rank.NumericValue()
		if c.Rank == Ace {
			aces++
		}
	}
	for value > 21 && aces > 0 {
		value -= 10
		aces--
	}
	return value
}

// IsBlackjack reports a natural 21: exactly two cards valuing 21.
func IsBlackjack(cards []Card) bool {
	return len(cards) == 2 && HandValue(cards) == 21
}
