package table

import (
	"beatme-server/pkg/deck"
	"beatme-server/pkg/poker"
	"beatme-server/pkg/potmanager"
)

// SeatStatus is how a seat appears to observers
type SeatStatus string

// SeatStatus constants
const (
	SeatEmpty   SeatStatus = "empty"
	SeatWaiting SeatStatus = "waiting"
	SeatFolded  SeatStatus = "folded"
	SeatActive  SeatStatus = "active"
)

// Showdown is the result of the last hand
// It is kept until the next hand starts.
type Showdown struct {
	Community deck.Hand       `json:"community"`
	Seats     []*ShowdownSeat `json:"seats"`
	Pots      potmanager.Pots `json:"pots"`
	// Uncontested is true if everybody else folded or left, no cards are revealed
	Uncontested bool `json:"uncontested"`
}

// ShowdownSeat is a seat that made it to the end of the hand
type ShowdownSeat struct {
	Seat   int         `json:"seat"`
	Cards  deck.Hand   `json:"cards"`
	Hand   *poker.Hand `json:"hand"`
	Payout int         `json:"payout"`
}

// SeatSnapshot is a seat as seen from a perspective
// Stack and Wager are nil if they are hidden from the perspective.
type SeatSnapshot struct {
	Seat     int        `json:"seat"`
	Status   SeatStatus `json:"status"`
	Stack    *int       `json:"stack"`
	Wager    *int       `json:"wager"`
	IsDealer bool       `json:"isDealer"`
	IsTurn   bool       `json:"isTurn"`
	Cards    deck.Hand  `json:"cards"`
	Hand     string     `json:"hand,omitempty"`
}

// Snapshot is the state of the table as seen from a perspective
type Snapshot struct {
	Phase     Phase           `json:"phase"`
	SeatCount int             `json:"seatCount"`
	Seats     []*SeatSnapshot `json:"seats"`
	Dealer    *int            `json:"dealer"`
	Turn      *int            `json:"turn"`
	Round     int             `json:"round"`
	Community deck.Hand       `json:"community"`
	Pot       int             `json:"pot"`
	// Pots are the main pot and side pots from the completed betting rounds
	Pots         potmanager.Pots `json:"pots"`
	Perspective  *int            `json:"perspective"`
	LegalActions LegalActions    `json:"legalActions,omitempty"`
	Showdown     *Showdown       `json:"showdown"`
}

// Snapshot returns the state of the table
// If a perspective seat is provided, that seat sees its own stack, wager, cards and legal actions.
func (t *Table) Snapshot(perspective ...int) *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	viewer := noSeat
	if len(perspective) > 0 && perspective[0] >= 0 && perspective[0] < len(t.seats) {
		viewer = perspective[0]
	}

	// everything is in the open once the hand was shown down
	revealAll := t.showdown != nil && !t.showdown.Uncontested

	s := &Snapshot{
		Phase:     t.phase,
		SeatCount: len(t.seats),
		Seats:     make([]*SeatSnapshot, len(t.seats)),
		Dealer:    optionalSeat(t.dealer),
		Turn:      optionalSeat(t.turn),
		Round:     t.round,
		Community: t.community.Clone(),
		Pot:       t.livePot(),
		Pots:      t.settledPots(),
		Showdown:  t.showdown,
	}

	if viewer != noSeat {
		s.Perspective = optionalSeat(viewer)
	}

	for i, seat := range t.seats {
		ss := &SeatSnapshot{
			Seat:     i,
			Status:   seat.status(),
			IsDealer: i == t.dealer,
			IsTurn:   t.phase == PhaseOn && i == t.turn,
		}

		if !seat.IsEmpty() && (i == viewer || revealAll) {
			stack := seat.stack
			wager := seat.wager
			ss.Stack = &stack
			ss.Wager = &wager
		}

		if i == viewer && seat.IsDealt() {
			ss.Cards = seat.Cards()
			if hand := seat.BestHand(t.community); hand != nil {
				ss.Hand = hand.Name()
			}
		}

		s.Seats[i] = ss
	}

	if t.phase == PhaseOn && viewer != noSeat && viewer == t.turn {
		s.LegalActions = t.legalActions()
	}

	return s
}

func (s *Seat) status() SeatStatus {
	switch {
	case s.IsEmpty():
		return SeatEmpty
	case !s.IsDealt():
		return SeatWaiting
	case s.folded:
		return SeatFolded
	}

	return SeatActive
}

func (t *Table) settledPots() potmanager.Pots {
	if t.phase != PhaseOn {
		return potmanager.Pots{}
	}

	contributions := make([]potmanager.Contribution, 0, len(t.seats)+len(t.departed))
	contributions = append(contributions, t.departed...)
	for _, seat := range t.seats {
		if seat.IsDealt() {
			contributions = append(contributions, potmanager.Contribution{
				Seat:   seat.index,
				Amount: seat.contributed,
				Folded: seat.folded,
			})
		}
	}

	return potmanager.Calculate(contributions)
}

func optionalSeat(index int) *int {
	if index == noSeat {
		return nil
	}

	return &index
}
