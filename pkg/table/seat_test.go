package table

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"beatme-server/pkg/deck"
	"beatme-server/pkg/poker"
)

func TestSeat_Take(t *testing.T) {
	a := assert.New(t)

	s := newSeat(2)
	a.True(s.IsEmpty())
	a.False(s.HasChips())

	a.NoError(s.Take("abc", 300))
	a.False(s.IsEmpty())
	a.True(s.HasChips())
	a.Equal("abc", s.Occupant())
	a.Equal(300, s.Stack())
	a.Equal(2, s.Index())

	a.Equal(ErrSeatOccupied, s.Take("def", 300))
	a.Equal("abc", s.Occupant())
}

func TestSeat_DealCards(t *testing.T) {
	a := assert.New(t)

	s := newSeat(0)
	a.Equal(ErrSeatEmpty, s.DealCards(deck.CardsFromString("As,Ad")))
	a.False(s.IsDealt())

	_ = s.Take("abc", 300)
	cards := deck.CardsFromString("As,Ad")
	a.NoError(s.DealCards(cards))
	a.True(s.IsDealt())
	a.True(s.InHand())
	a.True(s.CanAct())
	a.False(s.IsAllIn())

	cards[0] = deck.CardFromString("2c")
	a.Equal("As,Ad", s.Cards().String())
}

func TestSeat_Bet(t *testing.T) {
	a := assert.New(t)

	s := newSeat(0)
	_ = s.Take("abc", 100)
	_ = s.DealCards(deck.CardsFromString("As,Ad"))

	a.Equal(30, s.Bet(30))
	a.Equal(70, s.Stack())
	a.Equal(30, s.Wager())

	a.Equal(0, s.Bet(-5))
	a.Equal(70, s.Stack())

	// all-in clamp
	a.Equal(70, s.Bet(500))
	a.Equal(0, s.Stack())
	a.Equal(100, s.Wager())
	a.True(s.IsAllIn())
	a.False(s.CanAct())
	a.True(s.InHand())

	a.Equal(0, s.Bet(10))
	a.Equal(100, s.Wager())
}

func TestSeat_Settle(t *testing.T) {
	a := assert.New(t)

	s := newSeat(0)
	_ = s.Take("abc", 100)
	s.Bet(20)

	a.Equal(20, s.Settle())
	a.Equal(0, s.Wager())
	a.Equal(20, s.Contributed())

	s.Bet(15)
	a.Equal(15, s.Settle())
	a.Equal(35, s.Contributed())
	a.Equal(0, s.Settle())
}

func TestSeat_Fold(t *testing.T) {
	a := assert.New(t)

	s := newSeat(0)
	_ = s.Take("abc", 100)
	_ = s.DealCards(deck.CardsFromString("As,Ad"))

	s.Fold()
	a.True(s.Folded())
	a.True(s.IsDealt())
	a.False(s.InHand())
	a.False(s.CanAct())
	a.Equal(SeatFolded, s.status())
}

func TestSeat_BestHand(t *testing.T) {
	a := assert.New(t)

	s := newSeat(0)
	_ = s.Take("abc", 100)
	_ = s.DealCards(deck.CardsFromString("As,Ad"))

	a.Nil(s.BestHand(nil))
	a.Nil(s.BestHand(deck.CardsFromString("Kc,Qd")))
	a.Equal(0, s.evaluations)

	community := deck.CardsFromString("Ah,Kc,Kd")
	hand := s.BestHand(community)
	a.Equal(poker.FullHouse, hand.Category)
	a.Equal(1, s.evaluations)

	// memoized on the same cards
	a.Same(hand, s.BestHand(deck.CardsFromString("Ah,Kc,Kd")))
	a.Equal(1, s.evaluations)

	community = append(community, deck.CardFromString("Ac"))
	hand = s.BestHand(community)
	a.Equal(poker.FourOfAKind, hand.Category)
	a.Equal(2, s.evaluations)

	// new pocket cards invalidate the memo
	_ = s.DealCards(deck.CardsFromString("2c,7d"))
	hand = s.BestHand(community)
	a.Equal(poker.TwoPair, hand.Category)
	a.Equal(3, s.evaluations)
}

func TestSeat_Realize(t *testing.T) {
	a := assert.New(t)

	s := newSeat(0)
	_ = s.Take("abc", 100)
	_ = s.DealCards(deck.CardsFromString("As,Ad"))
	s.Bet(40)
	s.Settle()
	s.Bet(10)

	stack, cards := s.Realize()
	a.Equal(50, stack)
	a.Equal("As,Ad", cards.String())

	a.True(s.IsEmpty())
	a.False(s.IsDealt())
	a.Equal(0, s.Stack())
	a.Equal(0, s.Wager())
	a.Equal(0, s.Contributed())
	a.Equal(SeatEmpty, s.status())

	a.NoError(s.Take("def", 300))
	a.Equal(300, s.Stack())
	a.Equal(SeatWaiting, s.status())
}
