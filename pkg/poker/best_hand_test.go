package poker

import (
	"encoding/json"
	"testing"

	"beatme-server/pkg/deck"
	"github.com/stretchr/testify/assert"
)

func TestBestHand(t *testing.T) {
	tests := []struct {
		cards    string
		category Category
		order    string
	}{
		{"As,Kd,Ks,Qs,Js,10s,2c", RoyalFlush, "As,Ks,Qs,Js,10s"},
		{"Ah,2c,3d,4s,5h,Kc,Kd", Straight, "5h,4s,3d,2c,Ah"},
		{"Ah,2c,3d,4s,5h,6c,Kd", Straight, "6c,5h,4s,3d,2c"},
		{"7c,7d,7h,2s,2c,2d,9s", FullHouse, "7d,7h,7c,2c,2s"},
		{"2c,2d,3h,3s,4c,4d,Ac", TwoPair, "4d,4c,3h,3s,Ac"},
		{"Kc,9c,2c,3c,8c,Ac,4d", Flush, "Ac,Kc,9c,8c,3c"},
		{"Ac,Kd,Qh,Js,9c", HighCard, "Ac,Kd,Qh,Js,9c"},
	}

	for _, test := range tests {
		t.Run(test.cards, func(t *testing.T) {
			h := BestHand(deck.CardsFromString(test.cards))
			if assert.NotNil(t, h) {
				assert.Equal(t, test.category, h.Category)
				assert.Equal(t, test.order, h.Cards.String())
			}
		})
	}
}

func TestBestHand_notEnoughCards(t *testing.T) {
	assert.Nil(t, BestHand(deck.CardsFromString("As,Ks,Qs,Js")))
	assert.Nil(t, BestHand(nil))
}

func TestBestHand_matchesEvaluate(t *testing.T) {
	cards := deck.CardsFromString("9h,Kh,Qh,Jh,10h")
	expected, err := Evaluate(cards)
	assert.NoError(t, err)
	assert.Equal(t, expected, *BestHand(cards))
}

func Test_combinations(t *testing.T) {
	a := assert.New(t)

	a.Equal(21, len(combinations(7, 5)))
	a.Equal(6, len(combinations(6, 5)))
	a.Equal([][]int{{0, 1, 2, 3, 4}}, combinations(5, 5))
	a.Equal([][]int{{0, 1}, {0, 2}, {1, 2}}, combinations(3, 2))
	a.Nil(combinations(4, 5))
}

func TestHand_MarshalJSON(t *testing.T) {
	h := BestHand(deck.CardsFromString("7h,7d,3c,3s,Kc"))
	b, err := json.Marshal(h)
	assert.NoError(t, err)
	assert.JSONEq(t, `{
  "category": {"id": 2, "name": "Two pair"},
  "cards": [
    {"face": 5, "suit": 3, "name": "7♦"},
    {"face": 5, "suit": 2, "name": "7♥"},
    {"face": 1, "suit": 1, "name": "3♣"},
    {"face": 1, "suit": 0, "name": "3♠"},
    {"face": 11, "suit": 1, "name": "K♣"}
  ]
}`, string(b))
}

func BenchmarkBestHand(b *testing.B) {
	cards := deck.CardsFromString("3s,5s,6h,7h,Jc,Qc,Ah")
	for i := 0; i < b.N; i++ {
		BestHand(cards)
	}
}
