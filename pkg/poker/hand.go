package poker

import (
	"encoding/json"
	"fmt"

	"beatme-server/pkg/deck"
)

// HandSize is the number of cards in a poker hand
const HandSize = 5

// Category is the rank class of a poker hand, i.e., royal flush
type Category int

// Constants for Category
const (
	HighCard Category = iota
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
	// FiveOfAKind cannot be made with a single deck
	FiveOfAKind
)

// String returns the string representation of a category
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High card"
	case OnePair:
		return "Pair"
	case TwoPair:
		return "Two pair"
	case ThreeOfAKind:
		return "Three of a kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full house"
	case FourOfAKind:
		return "Four of a kind"
	case StraightFlush:
		return "Straight flush"
	case RoyalFlush:
		return "Royal flush"
	case FiveOfAKind:
		return "Five of a kind"
	default:
		panic(fmt.Sprintf("unknown hand: %d", c))
	}
}

// MarshalJSON encodes JSON
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(c),
		Name: c.String(),
	})
}

// Hand is an evaluated five card hand
type Hand struct {
	Category Category
	// Cards are in tiebreak order: the largest groups first, then kickers from high to low
	Cards deck.Hand
}

// Name returns the human-readable category
func (h Hand) Name() string {
	return h.Category.String()
}

func (h Hand) String() string {
	return fmt.Sprintf("%s (%s)", h.Category, h.Cards)
}

// Strength returns a single number which orders hands the same way Compare does
func (h Hand) Strength() int {
	strength := int(h.Category)
	for _, card := range h.Cards {
		strength = strength*deck.NumFaces + card.Face
	}

	return strength
}

// Beats returns true if h is strictly better than other
func (h Hand) Beats(other Hand) bool {
	return Compare(h, other) > 0
}

// MarshalJSON encodes JSON
func (h Hand) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Category Category  `json:"category"`
		Cards    deck.Hand `json:"cards"`
	}{
		Category: h.Category,
		Cards:    h.Cards,
	})
}

// Compare returns 1 if a is the better hand, -1 if b is the better hand and 0 on a tie
// Categories are compared first, then the tiebreak cards by face until one differs
func Compare(a, b Hand) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}

		return -1
	}

	for i := 0; i < len(a.Cards) && i < len(b.Cards); i++ {
		if a.Cards[i].Face > b.Cards[i].Face {
			return 1
		} else if a.Cards[i].Face < b.Cards[i].Face {
			return -1
		}
	}

	return 0
}
