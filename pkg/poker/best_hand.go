package poker

import (
	"sort"

	"beatme-server/pkg/deck"
)

// BestHand returns the best five card hand that can be made from the cards
// Every five card subset is evaluated. Nil is returned if there are fewer than five cards.
func BestHand(cards []deck.Card) *Hand {
	if len(cards) < HandSize {
		return nil
	}

	bestCategory := HighCard
	candidates := make([]deck.Hand, 0)

	// classify everything first, only the subsets in the best category need tiebreaks
	for _, combo := range combinations(len(cards), HandSize) {
		sorted := make(deck.Hand, HandSize)
		for i, index := range combo {
			sorted[i] = cards[index]
		}
		sort.Sort(sorted)

		category := classify(sorted)
		if category > bestCategory {
			bestCategory = category
			candidates = candidates[:0]
		}

		if category == bestCategory {
			candidates = append(candidates, sorted)
		}
	}

	var best *Hand
	for _, sorted := range candidates {
		hand := byRank(bestCategory, sorted)
		if best == nil || hand.Beats(*best) {
			best = &hand
		}
	}

	return best
}

// combinations returns every k-sized set of indexes from 0..n-1
func combinations(n, k int) [][]int {
	if k > n {
		return nil
	}

	combos := make([][]int, 0)
	indexes := make([]int, k)
	for i := range indexes {
		indexes[i] = i
	}

	for {
		combo := make([]int, k)
		copy(combo, indexes)
		combos = append(combos, combo)

		// find the right-most index that can still move right
		i := k - 1
		for i >= 0 && indexes[i] == n-k+i {
			i--
		}

		if i < 0 {
			return combos
		}

		indexes[i]++
		for j := i + 1; j < k; j++ {
			indexes[j] = indexes[j-1] + 1
		}
	}
}
