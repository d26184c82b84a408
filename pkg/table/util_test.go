package table

import (
	"fmt"
	"testing"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"beatme-server/internal/rng"
	"beatme-server/pkg/deck"
)

// riggedGenerator replays a fixed sequence of numbers, then always returns 0
type riggedGenerator struct {
	values []int
}

func (r *riggedGenerator) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}

	v := r.values[0]
	r.values = r.values[1:]
	if v >= n {
		panic(fmt.Sprintf("rigged value %d is not less than %d", v, n))
	}

	return v
}

// rigDeck replaces the deck so the next shuffle puts the cards on top in the order provided
// The table must be between hands.
func rigDeck(t *testing.T, tbl *Table, cards string) {
	t.Helper()

	top := deck.CardsFromString(cards)
	current := deck.New(nil).Cards()

	target := make(deck.Hand, 0, deck.DeckSize)
	target = append(target, top...)
	for _, card := range current {
		if !top.HasCard(card) {
			target = append(target, card)
		}
	}

	if !assert.Equal(t, deck.DeckSize, len(target), "rigged cards must be unique") {
		t.FailNow()
	}

	values := make([]int, 0, deck.DeckSize)
	arr := current.Clone()
	for j := len(arr) - 1; j > 0; j-- {
		i := 0
		for ; i <= j; i++ {
			if arr[i].Equal(target[j]) {
				break
			}
		}

		values = append(values, i)
		arr[i], arr[j] = arr[j], arr[i]
	}

	tbl.deck = deck.New(&riggedGenerator{values: values})
}

func newTestTable(t *testing.T, opts Options) (*Table, *quartz.Mock) {
	t.Helper()

	if !assert.NoError(t, opts.Validate()) {
		t.FailNow()
	}

	clock := quartz.NewMock(t)
	tbl := New(opts, logrus.StandardLogger(), rng.NewSeeded(1), clock)
	t.Cleanup(tbl.Close)

	return tbl, clock
}

// setupTable seats a player with each stack without starting a hand
// A stack of zero leaves the seat empty.
func setupTable(t *testing.T, opts Options, stacks ...int) (*Table, *quartz.Mock, []SeatHandle) {
	t.Helper()

	opts.Seats = len(stacks)
	tbl, clock := newTestTable(t, opts)

	handles := make([]SeatHandle, len(stacks))
	for i, stack := range stacks {
		if stack == 0 {
			handles[i] = SeatHandle{Index: i}
			continue
		}

		handles[i] = SeatHandle{Index: i, Token: uuid.New().String()}
		if !assert.NoError(t, tbl.seats[i].Take(handles[i].Token, stack)) {
			t.FailNow()
		}
	}

	return tbl, clock, handles
}

func assertAct(t *testing.T, tbl *Table, h SeatHandle, a Action, amount int, msgAndArgs ...interface{}) {
	t.Helper()

	before := tbl.TotalChips()
	assert.NoError(t, tbl.Act(h, a, amount), msgAndArgs...)
	assert.Equal(t, before, tbl.TotalChips(), msgAndArgs...)
}

func assertTurn(t *testing.T, tbl *Table, seat int, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, seat, tbl.turn, msgAndArgs...)
}

// assertCardsAccountedFor checks that the deck, pockets and community make exactly one deck
func assertCardsAccountedFor(t *testing.T, tbl *Table) {
	t.Helper()

	cards := tbl.deck.Cards()
	for _, seat := range tbl.seats {
		cards = append(cards, seat.pocket...)
	}
	cards = append(cards, tbl.community...)

	assert.Equal(t, deck.DeckSize, len(cards))

	seen := make(map[deck.Card]bool)
	for _, card := range cards {
		assert.False(t, seen[card], "duplicate card %s", card)
		seen[card] = true
	}
}

func stacks(tbl *Table) []int {
	s := make([]int, len(tbl.seats))
	for i, seat := range tbl.seats {
		s[i] = seat.stack
	}

	return s
}
