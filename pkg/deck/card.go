package deck

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Suit represents a card suit
type Suit int

// suit constants
const (
	Spades Suit = iota
	Clubs
	Hearts
	Diamonds
)

// NumSuits is the number of suits in a deck
const NumSuits = 4

// face constants
// A face is the rank of the card from 0 (the deuce) to 12 (the ace)
const (
	Two = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumFaces is the number of faces per suit
const NumFaces = 13

var faceNames = [NumFaces]string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

var suitSymbols = [NumSuits]string{"♠", "♣", "♥", "♦"}

var suitLetters = [NumSuits]string{"s", "c", "h", "d"}

// String returns the symbol of the suit
func (s Suit) String() string {
	if s < 0 || int(s) >= NumSuits {
		panic(fmt.Sprintf("unknown suit: %d", int(s)))
	}

	return suitSymbols[s]
}

// Card is an individual playing card
// Cards are values. Two cards are the same card if both face and suit match.
type Card struct {
	Face int
	Suit Suit
}

type cardJSON struct {
	Face int    `json:"face"`
	Suit Suit   `json:"suit"`
	Name string `json:"name"`
}

func (c Card) String() string {
	return faceNames[c.Face] + c.Suit.String()
}

// MarshalJSON encodes the card with a display name
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(cardJSON{
		Face: c.Face,
		Suit: c.Suit,
		Name: c.String(),
	})
}

// UnmarshalJSON decodes a card, ignoring the display name
func (c *Card) UnmarshalJSON(b []byte) error {
	var cj cardJSON
	if err := json.Unmarshal(b, &cj); err != nil {
		return err
	}

	if cj.Face < 0 || cj.Face >= NumFaces || cj.Suit < 0 || int(cj.Suit) >= NumSuits {
		return fmt.Errorf("invalid card: face %d, suit %d", cj.Face, cj.Suit)
	}

	c.Face = cj.Face
	c.Suit = cj.Suit
	return nil
}

// Equal returns true if the cards are equal (matches suit and face)
func (c Card) Equal(card Card) bool {
	return c.Suit == card.Suit && c.Face == card.Face
}

var cardRx = regexp.MustCompile(`(?i)^([2-9]|10|[jqka])([scdh])\z`)

// CardFromString returns a Card from the string.
// The string must be in the format of <rank><suit> where rank is 2-10, J, Q, K or A and suit in [scdh]
func CardFromString(s string) Card {
	match := cardRx.FindStringSubmatch(strings.TrimSpace(s))
	if match == nil {
		panic(fmt.Sprintf("could not parse card: %s", s))
	}

	face := -1
	for i, name := range faceNames {
		if strings.EqualFold(name, match[1]) {
			face = i
			break
		}
	}

	var suit Suit
	for i, letter := range suitLetters {
		if strings.EqualFold(letter, match[2]) {
			suit = Suit(i)
			break
		}
	}

	return Card{
		Face: face,
		Suit: suit,
	}
}

// CardsFromString will returns a slice of cards
func CardsFromString(s string) Hand {
	if s == "" {
		return Hand{}
	}

	cardStrings := strings.Split(s, ",")
	cards := make(Hand, len(cardStrings))
	for i, card := range cardStrings {
		cards[i] = CardFromString(card)
	}

	return cards
}

// CardToString converts a card (Ace of Spades) to a string (As)
func CardToString(card Card) string {
	return faceNames[card.Face] + suitLetters[card.Suit]
}

// CardsToString will convert a slice of cards to a string in the format of As,10h,2c,...
func CardsToString(cards []Card) string {
	c := make([]string, len(cards))
	for i, card := range cards {
		c[i] = CardToString(card)
	}

	return strings.Join(c, ",")
}
