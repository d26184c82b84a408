package potmanager

import (
	"errors"
	"fmt"
	"sort"

	"beatme-server/internal/rng"
)

// ErrNoWinner is an error when a pot has chips but none of the winners are eligible for it
var ErrNoWinner = errors.New("no eligible winner for pot")

// Contribution is everything a seat put into the pot during a hand
type Contribution struct {
	Seat   int
	Amount int
	Folded bool
}

// Calculate splits the contributions into a main pot and side pots
// There is one pot per distinct amount contributed by a seat that did not fold. Each pot takes
// the slice of every contribution between the previous level and its own level, and only the
// seats who reached the level are eligible for it. Folded chips above the top level go to the top pot.
func Calculate(contributions []Contribution) Pots {
	levels := make([]int, 0, len(contributions))
	seen := make(map[int]bool)
	total := 0
	for _, c := range contributions {
		total += c.Amount
		if c.Folded || c.Amount <= 0 || seen[c.Amount] {
			continue
		}

		seen[c.Amount] = true
		levels = append(levels, c.Amount)
	}

	// everybody folded, nobody can win the chips
	if len(levels) == 0 {
		if total == 0 {
			return Pots{}
		}

		return Pots{{Amount: total}}
	}

	sort.Ints(levels)

	pots := make(Pots, 0, len(levels))
	prevLevel := 0
	for _, level := range levels {
		pot := &Pot{
			Eligible: make([]int, 0),
		}

		for _, c := range contributions {
			amount := c.Amount
			if amount > level {
				amount = level
			}

			if diff := amount - prevLevel; diff > 0 {
				pot.Amount += diff
			}

			if !c.Folded && c.Amount >= level {
				pot.Eligible = append(pot.Eligible, c.Seat)
			}
		}

		sort.Ints(pot.Eligible)
		pots = append(pots, pot)
		prevLevel = level
	}

	// dead money from folded seats that put in more than anybody still in the hand
	for _, c := range contributions {
		if c.Amount > prevLevel {
			pots[len(pots)-1].Amount += c.Amount - prevLevel
		}
	}

	return pots
}

// PayWinners returns the payout for every winning seat
// Tiers are ordered from the strongest hand to the weakest. Each pot is split evenly by the first
// tier that has a seat eligible for it. Chips that cannot be split evenly are handed out one at a
// time to a randomly ordered subset of those winners.
func PayWinners(pots Pots, tiers [][]int, gen rng.Generator) (map[int]int, error) {
	payouts := make(map[int]int)

	for i, pot := range pots {
		if pot.Amount == 0 {
			continue
		}

		winners := eligibleWinners(pot, tiers)
		if len(winners) == 0 {
			return nil, fmt.Errorf("%w: pot %d", ErrNoWinner, i)
		}

		share := pot.Amount / len(winners)
		for _, seat := range winners {
			payouts[seat] += share
		}

		remainder := pot.Amount % len(winners)
		if remainder == 0 {
			continue
		}

		rng.Shuffle(gen, len(winners), func(i, j int) {
			winners[i], winners[j] = winners[j], winners[i]
		})

		for _, seat := range winners[:remainder] {
			payouts[seat]++
		}
	}

	return payouts, nil
}

func eligibleWinners(pot *Pot, tiers [][]int) []int {
	for _, tier := range tiers {
		winners := make([]int, 0, len(tier))
		for _, seat := range tier {
			if pot.IsEligible(seat) {
				winners = append(winners, seat)
			}
		}

		if len(winners) > 0 {
			return winners
		}
	}

	return nil
}
