package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"fmt"

	"beatme-server/internal/rng"
)

// DeckSize is the number of cards in a full deck
const DeckSize = NumFaces * NumSuits

// ErrInsufficientCards is an error when Deal() is asked for more cards than remain
var ErrInsufficientCards = errors.New("insufficient cards in the deck")

// Deck represents a playing deck
type Deck struct {
	cards Hand
	gen   rng.Generator
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New(gen rng.Generator) *Deck {
	d := &Deck{
		gen: gen,
	}

	d.buildDeck()
	return d
}

func (d *Deck) buildDeck() {
	cards := make(Hand, 0, DeckSize)
	for face := 0; face < NumFaces; face++ {
		for suit := 0; suit < NumSuits; suit++ {
			cards = append(cards, Card{
				Face: face,
				Suit: Suit(suit),
			})
		}
	}

	d.cards = cards
}

// Shuffle will shuffle the cards remaining in the deck
func (d *Deck) Shuffle() {
	rng.Shuffle(d.gen, len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal removes and returns the first n cards
// If there are not enough cards, no cards are removed and ErrInsufficientCards is returned
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot deal %d cards", n)
	}

	if len(d.cards) < n {
		return nil, fmt.Errorf("%w: wanted %d, have %d", ErrInsufficientCards, n, len(d.cards))
	}

	cards := make([]Card, n)
	copy(cards, d.cards[:n])
	d.cards = d.cards[n:]

	return cards, nil
}

// Recycle returns cards to the deck
// The order is irrelevant, the deck must be shuffled before it is dealt again
func (d *Deck) Recycle(cards ...Card) {
	d.cards = append(d.cards, cards...)
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.cards)
}

// Cards returns a copy of the cards left in the deck
func (d *Deck) Cards() Hand {
	return d.cards.Clone()
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}
