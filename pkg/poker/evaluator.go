package poker

import (
	"errors"
	"fmt"
	"sort"

	"beatme-server/pkg/deck"
)

// ErrInvalidHandSize is an error when a hand does not have exactly five cards
var ErrInvalidHandSize = errors.New("a hand must have exactly five cards")

type group struct {
	face  int
	cards deck.Hand
}

// Evaluate returns the hand made from exactly five cards
func Evaluate(cards []deck.Card) (Hand, error) {
	sorted, err := sortFive(cards)
	if err != nil {
		return Hand{}, err
	}

	return byRank(classify(sorted), sorted), nil
}

// Classify returns only the category of exactly five cards
func Classify(cards []deck.Card) (Category, error) {
	sorted, err := sortFive(cards)
	if err != nil {
		return HighCard, err
	}

	return classify(sorted), nil
}

// ByRank builds the hand for five cards whose category is already known
// The category is trusted and not recomputed. Only the tiebreak order is derived.
func ByRank(category Category, cards []deck.Card) (Hand, error) {
	sorted, err := sortFive(cards)
	if err != nil {
		return Hand{}, err
	}

	return byRank(category, sorted), nil
}

func sortFive(cards []deck.Card) (deck.Hand, error) {
	if len(cards) != HandSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHandSize, len(cards))
	}

	sorted := make(deck.Hand, HandSize)
	copy(sorted, cards)
	sort.Sort(sorted)

	return sorted, nil
}

// classify expects five cards sorted by face ascending
func classify(sorted deck.Hand) Category {
	groups := groupByFace(sorted)
	flush := isFlush(sorted)
	straight := isStraight(sorted) || isWheel(sorted)

	switch {
	case len(groups[0].cards) == 5:
		return FiveOfAKind
	case straight && flush && !isWheel(sorted) && sorted[4].Face == deck.Ace:
		return RoyalFlush
	case straight && flush:
		return StraightFlush
	case len(groups[0].cards) == 4:
		return FourOfAKind
	case len(groups[0].cards) == 3 && len(groups[1].cards) == 2:
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case len(groups[0].cards) == 3:
		return ThreeOfAKind
	case len(groups[0].cards) == 2 && len(groups[1].cards) == 2:
		return TwoPair
	case len(groups[0].cards) == 2:
		return OnePair
	}

	return HighCard
}

// byRank expects five cards sorted by face ascending
func byRank(category Category, sorted deck.Hand) Hand {
	ordered := make(deck.Hand, 0, HandSize)

	switch category {
	case Straight, StraightFlush, RoyalFlush:
		if isWheel(sorted) {
			// the ace plays low: 5, 4, 3, 2, A
			for i := 3; i >= 0; i-- {
				ordered = append(ordered, sorted[i])
			}
			ordered = append(ordered, sorted[4])
			break
		}

		for i := len(sorted) - 1; i >= 0; i-- {
			ordered = append(ordered, sorted[i])
		}
	default:
		for _, g := range groupByFace(sorted) {
			ordered = append(ordered, g.cards...)
		}
	}

	return Hand{
		Category: category,
		Cards:    ordered,
	}
}

func isFlush(sorted deck.Hand) bool {
	for _, card := range sorted[1:] {
		if card.Suit != sorted[0].Suit {
			return false
		}
	}

	return true
}

func isStraight(sorted deck.Hand) bool {
	for i, card := range sorted {
		if card.Face != sorted[0].Face+i {
			return false
		}
	}

	return true
}

// isWheel returns true for A-2-3-4-5, the straight where the ace counts as the lowest card
func isWheel(sorted deck.Hand) bool {
	return sorted[0].Face == deck.Two &&
		sorted[1].Face == deck.Three &&
		sorted[2].Face == deck.Four &&
		sorted[3].Face == deck.Five &&
		sorted[4].Face == deck.Ace
}

// groupByFace returns the cards grouped by face, the largest group first and ties broken by the higher face
// Within a group the cards are ordered by suit descending so the result is stable
func groupByFace(sorted deck.Hand) []*group {
	groups := make([]*group, 0, HandSize)
	for i := len(sorted) - 1; i >= 0; i-- {
		card := sorted[i]
		if n := len(groups); n > 0 && groups[n-1].face == card.Face {
			groups[n-1].cards = append(groups[n-1].cards, card)
			continue
		}

		groups = append(groups, &group{
			face:  card.Face,
			cards: deck.Hand{card},
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].cards) != len(groups[j].cards) {
			return len(groups[i].cards) > len(groups[j].cards)
		}

		return groups[i].face > groups[j].face
	})

	return groups
}
