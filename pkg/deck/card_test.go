package deck

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_constants(t *testing.T) {
	assert.Equal(t, 0, Two)
	assert.Equal(t, 8, Ten)
	assert.Equal(t, 9, Jack)
	assert.Equal(t, 12, Ace)
	assert.Equal(t, 52, DeckSize)
}

func TestCard_String(t *testing.T) {
	assert.Equal(t, "2♥", Card{Face: Two, Suit: Hearts}.String())
	assert.Equal(t, "J♣", Card{Face: Jack, Suit: Clubs}.String())
	assert.Equal(t, "Q♦", Card{Face: Queen, Suit: Diamonds}.String())
	assert.Equal(t, "10♠", Card{Face: Ten, Suit: Spades}.String())
	assert.Equal(t, "A♠", Card{Face: Ace, Suit: Spades}.String())

	assert.PanicsWithValue(t, "unknown suit: 7", func() {
		_ = Card{Face: Ace, Suit: 7}.String()
	})
}

func TestCardFromString(t *testing.T) {
	a := assert.New(t)

	a.Equal(Card{Face: Ace, Suit: Spades}, CardFromString("As"))
	a.Equal(Card{Face: Ten, Suit: Hearts}, CardFromString("10h"))
	a.Equal(Card{Face: Two, Suit: Diamonds}, CardFromString("2d"))
	a.Equal(Card{Face: King, Suit: Clubs}, CardFromString("kC"))

	a.PanicsWithValue("could not parse card: 1s", func() {
		CardFromString("1s")
	})

	a.PanicsWithValue("could not parse card: 14s", func() {
		CardFromString("14s")
	})
}

func TestCardsToString(t *testing.T) {
	cards := CardsFromString("As,10h,2c")
	assert.Equal(t, "As,10h,2c", CardsToString(cards))
	assert.Equal(t, Hand{}, CardsFromString(""))
}

func TestCard_Equal(t *testing.T) {
	assert.True(t, CardFromString("As").Equal(Card{Face: Ace, Suit: Spades}))
	assert.False(t, CardFromString("As").Equal(CardFromString("Ah")))
	assert.False(t, CardFromString("As").Equal(CardFromString("Ks")))
}

func TestCard_JSON(t *testing.T) {
	a := assert.New(t)

	b, err := json.Marshal(CardFromString("Qd"))
	a.NoError(err)
	a.JSONEq(`{"face":10,"suit":3,"name":"Q♦"}`, string(b))

	var card Card
	a.NoError(json.Unmarshal(b, &card))
	a.Equal(CardFromString("Qd"), card)

	a.EqualError(json.Unmarshal([]byte(`{"face":13,"suit":0}`), &card), "invalid card: face 13, suit 0")
}
