package table

import (
	"beatme-server/pkg/deck"
	"beatme-server/pkg/poker"
)

// PocketSize is the number of cards dealt to each seat
const PocketSize = 2

// Seat is one position at the table and the betting state of whoever sits there
type Seat struct {
	index    int
	occupant string

	stack       int
	pocket      deck.Hand
	wager       int
	contributed int
	folded      bool
	// acted is true once the seat made a decision since the last bet or raise
	acted bool

	bestHand    *poker.Hand
	bestHandKey string
	evaluations int
}

func newSeat(index int) *Seat {
	return &Seat{
		index: index,
	}
}

// Take seats an occupant with a stack of buyIn chips
func (s *Seat) Take(occupant string, buyIn int) error {
	if !s.IsEmpty() {
		return ErrSeatOccupied
	}

	s.occupant = occupant
	s.stack = buyIn
	s.resetHand()

	return nil
}

// DealCards assigns the pocket cards
func (s *Seat) DealCards(cards []deck.Card) error {
	if s.IsEmpty() {
		return ErrSeatEmpty
	}

	s.pocket = deck.Hand(cards).Clone()
	s.bestHand = nil
	s.bestHandKey = ""

	return nil
}

// Bet commits up to amount chips to the current wager
// A seat can never wager more than its stack. The value returned is the amount actually committed.
func (s *Seat) Bet(amount int) int {
	if amount < 0 {
		amount = 0
	}

	if amount > s.stack {
		amount = s.stack
	}

	s.stack -= amount
	s.wager += amount

	return amount
}

// Fold removes the seat from the hand
func (s *Seat) Fold() {
	s.folded = true
}

// BestHand returns the best hand from the pocket and community cards
// The result is memoized on the combined cards. Nil is returned if there are fewer than five cards.
func (s *Seat) BestHand(community []deck.Card) *poker.Hand {
	if len(s.pocket)+len(community) < poker.HandSize {
		return nil
	}

	key := s.pocket.String() + "|" + deck.Hand(community).String()
	if s.bestHandKey != key {
		cards := make([]deck.Card, 0, len(s.pocket)+len(community))
		cards = append(cards, s.pocket...)
		cards = append(cards, community...)

		s.bestHand = poker.BestHand(cards)
		s.bestHandKey = key
		s.evaluations++
	}

	return s.bestHand
}

// Realize empties the seat
// The remaining stack and the pocket cards are returned
func (s *Seat) Realize() (int, deck.Hand) {
	stack := s.stack
	cards := s.resetHand()

	s.occupant = ""
	s.stack = 0

	return stack, cards
}

// Settle moves the current wager into the amount contributed this hand
func (s *Seat) Settle() int {
	wager := s.wager
	s.contributed += wager
	s.wager = 0

	return wager
}

// resetHand clears everything about the current hand and returns the pocket cards
func (s *Seat) resetHand() deck.Hand {
	cards := s.pocket

	s.pocket = nil
	s.wager = 0
	s.contributed = 0
	s.folded = false
	s.acted = false
	s.bestHand = nil
	s.bestHandKey = ""

	return cards
}

// Index returns the position at the table
func (s *Seat) Index() int {
	return s.index
}

// Occupant returns the id of whoever is in the seat
func (s *Seat) Occupant() string {
	return s.occupant
}

// IsEmpty returns true if nobody is in the seat
func (s *Seat) IsEmpty() bool {
	return s.occupant == ""
}

// IsDealt returns true if the seat was dealt into the current hand
func (s *Seat) IsDealt() bool {
	return !s.IsEmpty() && len(s.pocket) > 0
}

// InHand returns true if the seat was dealt in and has not folded
func (s *Seat) InHand() bool {
	return s.IsDealt() && !s.folded
}

// IsAllIn returns true if the seat is in the hand without any chips left
func (s *Seat) IsAllIn() bool {
	return s.InHand() && s.stack == 0
}

// CanAct returns true if the seat can still make decisions this hand
func (s *Seat) CanAct() bool {
	return s.InHand() && s.stack > 0
}

// HasChips returns true if the seat is occupied and can be dealt in
func (s *Seat) HasChips() bool {
	return !s.IsEmpty() && s.stack > 0
}

// Folded returns true if the seat folded the current hand
func (s *Seat) Folded() bool {
	return s.folded
}

// Stack returns the chips the seat has not wagered
func (s *Seat) Stack() int {
	return s.stack
}

// Wager returns the chips committed in the current betting round
func (s *Seat) Wager() int {
	return s.wager
}

// Contributed returns the chips committed in previous betting rounds of the hand
func (s *Seat) Contributed() int {
	return s.contributed
}

// Cards returns a copy of the pocket cards
func (s *Seat) Cards() deck.Hand {
	return s.pocket.Clone()
}
