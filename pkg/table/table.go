package table

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"beatme-server/internal/rng"
	"beatme-server/pkg/deck"
	"beatme-server/pkg/playable"
	"beatme-server/pkg/potmanager"
)

// noSeat marks an unset dealer or turn
const noSeat = -1

// maxLogMessages is how much hand history the table keeps
const maxLogMessages = 25

// community cards revealed after each betting round: flop, turn, river
var streets = []struct {
	name  string
	cards int
}{
	{"flop", 3},
	{"turn", 1},
	{"river", 1},
}

// lastRound is the betting round after the river
const lastRound = 3

// Phase is where the table is in the life of a hand
type Phase int

// Phase constants
const (
	PhaseOff Phase = iota
	PhaseOn
	PhaseSettling
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseOff:
		return "OFF"
	case PhaseOn:
		return "ON"
	case PhaseSettling:
		return "SETTLING"
	}

	panic(fmt.Sprintf("unknown phase: %d", p))
}

// MarshalJSON encodes JSON
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}{
		ID:   int(p),
		Name: p.String(),
	})
}

// SeatHandle identifies a seat and whoever signed into it
type SeatHandle struct {
	Index int    `json:"seat"`
	Token string `json:"token"`
}

// Table is a hold'em table
// Every exported method is safe for concurrent use.
type Table struct {
	mu sync.Mutex

	options Options
	logger  logrus.FieldLogger
	gen     rng.Generator
	clock   quartz.Clock

	deck      *deck.Deck
	seats     []*Seat
	phase     Phase
	dealer    int
	button    int
	turn      int
	round     int
	community deck.Hand
	// pot is the settled chips, wagers of the current betting round are not included
	pot int
	// departed are contributions from seats that left during the hand
	departed []potmanager.Contribution

	showdown *Showdown
	log      []*playable.LogMessage

	nextHand    *quartz.Timer
	nextHandGen int
	closed      bool
	onChange    func()

	// err is set when the table fails a consistency check
	err error
}

// New returns a new table
// The options must already be validated.
func New(opts Options, logger logrus.FieldLogger, gen rng.Generator, clock quartz.Clock) *Table {
	seats := make([]*Seat, opts.Seats)
	for i := range seats {
		seats[i] = newSeat(i)
	}

	return &Table{
		options:   opts,
		logger:    logger,
		gen:       gen,
		clock:     clock,
		deck:      deck.New(gen),
		seats:     seats,
		phase:     PhaseOff,
		dealer:    noSeat,
		button:    noSeat,
		turn:      noSeat,
		community: make(deck.Hand, 0, 5),
		log:       make([]*playable.LogMessage, 0, maxLogMessages),
	}
}

// OnChange registers a callback for state changes that did not come from a caller, i.e., the next hand starting
// The callback is invoked without the table lock held.
func (t *Table) OnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.onChange = fn
}

// Close stops the timer for the next hand
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	t.cancelNextHand()
}

// Err returns the consistency failure, if any
func (t *Table) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.brokenErr()
}

// Options returns the table options
func (t *Table) Options() Options {
	return t.options
}

// SignIn seats a new occupant
// The preferred seat is used if it is valid and empty, otherwise the lowest empty seat is used.
// A hand is started if the table is idle and there are enough players.
func (t *Table) SignIn(preferredSeat ...int) (SeatHandle, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.brokenErr(); err != nil {
		return SeatHandle{}, err
	}

	seat := t.findEmptySeat(preferredSeat...)
	if seat == nil {
		return SeatHandle{}, ErrTableFull
	}

	handle := SeatHandle{
		Index: seat.index,
		Token: uuid.New().String(),
	}

	if err := seat.Take(handle.Token, t.options.BuyIn); err != nil {
		return SeatHandle{}, err
	}

	t.logger.WithField("seat", seat.index).Info("signed in")
	t.addLog(playable.SimpleLogMessage(seat.index, "sat down with ${%d}", t.options.BuyIn))

	if t.phase == PhaseOff && t.nextHand == nil {
		t.start()
	}

	return handle, t.brokenErr()
}

func (t *Table) findEmptySeat(preferredSeat ...int) *Seat {
	if len(preferredSeat) > 0 {
		if i := preferredSeat[0]; i >= 0 && i < len(t.seats) && t.seats[i].IsEmpty() {
			return t.seats[i]
		}
	}

	for _, seat := range t.seats {
		if seat.IsEmpty() {
			return seat
		}
	}

	return nil
}

// SignOut removes an occupant from the table and returns the remaining stack
// Signing out an empty seat, or with a handle for someone who already left, does nothing.
func (t *Table) SignOut(h SeatHandle) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.brokenErr(); err != nil {
		return 0, err
	}

	seat := t.seatForHandle(h)
	if seat == nil {
		return 0, nil
	}

	wasTurn := t.phase == PhaseOn && t.turn == seat.index
	if t.phase == PhaseOn && seat.IsDealt() {
		// whatever the seat put in stays in the pot as dead money
		seat.Fold()
		t.pot += seat.Settle()
		t.departed = append(t.departed, potmanager.Contribution{
			Seat:   seat.index,
			Amount: seat.contributed,
			Folded: true,
		})
	}

	stack, cards := seat.Realize()
	t.deck.Recycle(cards...)

	t.logger.WithFields(logrus.Fields{
		"seat":  seat.index,
		"stack": stack,
	}).Info("signed out")
	t.addLog(playable.SimpleLogMessage(seat.index, "left the table with ${%d}", stack))

	if t.phase == PhaseOn {
		if t.countInHand() < 2 {
			t.abandon()
		} else if wasTurn || t.roundComplete() {
			t.progress(seat.index)
		}
	}

	return stack, t.brokenErr()
}

func (t *Table) seatForHandle(h SeatHandle) *Seat {
	if h.Index < 0 || h.Index >= len(t.seats) {
		return nil
	}

	seat := t.seats[h.Index]
	if seat.IsEmpty() || seat.occupant != h.Token {
		return nil
	}

	return seat
}

// IsSeated returns true if the handle still holds its seat
func (t *Table) IsSeated(h SeatHandle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.seatForHandle(h) != nil
}

// BeginNextHand starts the next hand without waiting for the pause between hands
func (t *Table) BeginNextHand() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.brokenErr(); err != nil {
		return err
	}

	if t.phase != PhaseOff {
		return ErrHandInProgress
	}

	if t.countWithChips() < 2 {
		return ErrNotEnoughPlayers
	}

	t.cancelNextHand()
	t.start()

	return t.brokenErr()
}

// start deals a new hand
// Returns true if a hand was started.
func (t *Table) start() bool {
	if t.phase != PhaseOff || t.err != nil || t.countWithChips() < 2 {
		return false
	}

	t.showdown = nil
	t.community = t.community[:0]
	t.pot = 0
	t.departed = nil
	t.round = 0
	for _, seat := range t.seats {
		seat.resetHand()
	}

	if n := t.deck.CardsLeft(); n != deck.DeckSize {
		t.fail(fmt.Errorf("%w: deck has %d cards before the deal", deck.ErrInsufficientCards, n))
		return false
	}

	t.deck.Shuffle()

	t.dealer = t.nextSeat(t.button, (*Seat).HasChips)
	t.button = t.dealer

	for i := 1; i <= len(t.seats); i++ {
		seat := t.seats[(t.dealer+i)%len(t.seats)]
		if !seat.HasChips() {
			continue
		}

		cards, err := t.deck.Deal(PocketSize)
		if err != nil {
			t.fail(err)
			return false
		}

		if err := seat.DealCards(cards); err != nil {
			t.fail(err)
			return false
		}
	}

	t.phase = PhaseOn

	t.logger.WithFields(logrus.Fields{
		"dealer": t.dealer,
		"deck":   t.deck.HashCode(),
	}).Info("new hand")
	t.addLog(playable.SimpleLogMessage(t.dealer, "is the dealer"))

	smallBlind := t.nextSeat(t.dealer, (*Seat).CanAct)
	t.postBlind(smallBlind, t.options.SmallBlind, "small")

	bigBlind := t.nextSeat(smallBlind, (*Seat).CanAct)
	t.postBlind(bigBlind, t.options.BigBlind, "big")

	t.turn = t.nextSeat(bigBlind, (*Seat).CanAct)
	if t.turn == noSeat || t.roundComplete() {
		t.progress(bigBlind)
	}

	return true
}

func (t *Table) postBlind(index, amount int, name string) {
	posted := t.seats[index].Bet(amount)
	t.addLog(playable.SimpleLogMessage(index, "posted the %s blind of ${%d}", name, posted))
}

// LegalActions returns the actions available to the seat on the clock
func (t *Table) LegalActions() (LegalActions, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.brokenErr(); err != nil {
		return nil, err
	}

	if t.phase != PhaseOn {
		return nil, ErrGameNotActive
	}

	return t.legalActions(), nil
}

func (t *Table) legalActions() LegalActions {
	if t.turn == noSeat {
		return LegalActions{}
	}

	seat := t.seats[t.turn]
	maxWager := t.maxWager()

	actions := LegalActions{
		Fold: {},
	}

	if seat.wager == maxWager {
		actions[Check] = Range{}
	}

	call := maxWager - seat.wager
	if call > seat.stack {
		call = seat.stack
	}

	if call > 0 {
		actions[Call] = Range{Min: call, Max: call}
	}

	if maxWager == 0 {
		actions[Bet] = Range{Min: min(t.options.BigBlind, seat.stack), Max: seat.stack}
	} else if seat.stack > call {
		actions[Raise] = Range{Min: min(t.options.BigBlind+call, seat.stack), Max: seat.stack}
	}

	return actions
}

// Act performs an action for the seat on the clock
// For a bet or raise, amount is the number of chips added by this action. It is ignored otherwise.
// A rejected action never changes the table.
func (t *Table) Act(h SeatHandle, a Action, amount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.brokenErr(); err != nil {
		return err
	}

	if t.phase != PhaseOn {
		return ErrGameNotActive
	}

	seat := t.seatForHandle(h)
	if seat == nil || seat.index != t.turn {
		return ErrNotYourTurn
	}

	legal := t.legalActions()
	r, ok := legal[a]
	if !ok {
		return fmt.Errorf("%w: you cannot %s", ErrIllegalAction, string(a))
	}

	maxWager := t.maxWager()

	switch a {
	case Fold:
		seat.Fold()
		amount = 0
	case Check:
		amount = 0
	case Call:
		amount = seat.Bet(r.Min)
	case Bet, Raise:
		if !r.Contains(amount) {
			return fmt.Errorf("%w: %w", ErrIllegalAction, UserError(fmt.Sprintf("your %s must be between ${%d} and ${%d}", string(a), r.Min, r.Max)))
		}

		amount = seat.Bet(amount)
		if seat.wager > maxWager {
			t.reopenAction(seat)
		}
	}

	seat.acted = true

	t.logger.WithFields(logrus.Fields{
		"seat":   seat.index,
		"action": a,
		"amount": amount,
	}).Debug("action")
	t.addLog(playable.SimpleLogMessage(seat.index, "%s", a.LogMessage(amount, seat.wager)))

	t.progress(seat.index)
	return t.brokenErr()
}

// reopenAction requires everybody else to act again after a bet or raise
func (t *Table) reopenAction(aggressor *Seat) {
	for _, seat := range t.seats {
		if seat != aggressor {
			seat.acted = false
		}
	}
}

// progress moves the hand forward after the seat at index acted or left
func (t *Table) progress(index int) {
	if t.countInHand() < 2 {
		t.awardUncontested()
		return
	}

	for t.roundComplete() {
		if !t.completeRound() {
			return
		}

		// nobody is left to bet against, the remaining streets are dealt without betting
		if t.countCanAct() >= 2 {
			t.turn = t.nextSeat(t.dealer, (*Seat).CanAct)
			return
		}
	}

	t.turn = t.nextSeat(index, (*Seat).CanAct)
}

// roundComplete returns true if every seat that can act has acted and matched the highest wager
// All-in seats are matched by definition.
func (t *Table) roundComplete() bool {
	maxWager := t.maxWager()
	canAct := 0
	for _, seat := range t.seats {
		if !seat.CanAct() {
			continue
		}

		canAct++
		if seat.wager < maxWager {
			return false
		}
	}

	// a lone seat that already matched has nobody left to bet against
	if canAct <= 1 {
		return true
	}

	for _, seat := range t.seats {
		if seat.CanAct() && !seat.acted {
			return false
		}
	}

	return true
}

// completeRound settles the wagers and deals the next street
// Returns false if the hand is over.
func (t *Table) completeRound() bool {
	for _, seat := range t.seats {
		t.pot += seat.Settle()
		seat.acted = false
	}

	if t.round == lastRound {
		t.settle()
		return false
	}

	street := streets[t.round]
	cards, err := t.deck.Deal(street.cards)
	if err != nil {
		t.fail(err)
		return false
	}

	t.community.AddCard(cards...)
	t.round++
	t.turn = noSeat

	t.addLog(playable.CardsLogMessage(playable.NoSeat, cards, "dealt the %s", street.name))
	return true
}

// awardUncontested pays the whole pot to the last seat in the hand
func (t *Table) awardUncontested() {
	t.phase = PhaseSettling

	winner := t.nextSeat(noSeat, (*Seat).InHand)
	for _, seat := range t.seats {
		t.pot += seat.Settle()
	}

	showdown := &Showdown{
		Community:   t.community.Clone(),
		Uncontested: true,
	}

	if winner != noSeat {
		t.seats[winner].stack += t.pot
		showdown.Seats = []*ShowdownSeat{{
			Seat:   winner,
			Payout: t.pot,
		}}

		t.addLog(playable.SimpleLogMessage(winner, "won ${%d}", t.pot))
	}

	t.showdown = showdown
	t.endHand()
}

// abandon ends a hand that lost too many players
func (t *Table) abandon() {
	t.logger.Info("hand abandoned")
	t.awardUncontested()
}

// settle pays out the pots to the best hands
func (t *Table) settle() {
	t.phase = PhaseSettling

	wm := potmanager.NewWinManager()
	contributions := make([]potmanager.Contribution, 0, len(t.seats)+len(t.departed))
	contributions = append(contributions, t.departed...)

	showdown := &Showdown{
		Community: t.community.Clone(),
		Seats:     make([]*ShowdownSeat, 0, len(t.seats)),
	}

	for _, seat := range t.seats {
		if !seat.IsDealt() {
			continue
		}

		contributions = append(contributions, potmanager.Contribution{
			Seat:   seat.index,
			Amount: seat.contributed,
			Folded: seat.folded,
		})

		if seat.folded {
			continue
		}

		hand := seat.BestHand(t.community)
		wm.AddSeat(seat.index, hand.Strength())

		showdown.Seats = append(showdown.Seats, &ShowdownSeat{
			Seat:  seat.index,
			Cards: seat.Cards(),
			Hand:  hand,
		})
	}

	pots := potmanager.Calculate(contributions)
	payouts, err := potmanager.PayWinners(pots, wm.GetSortedTiers(), t.gen)
	if err != nil {
		t.fail(err)
		return
	}

	for _, ss := range showdown.Seats {
		ss.Payout = payouts[ss.Seat]
		t.seats[ss.Seat].stack += ss.Payout

		if ss.Payout > 0 {
			t.addLog(playable.CardsLogMessage(ss.Seat, ss.Hand.Cards, "won ${%d} with %s", ss.Payout, ss.Hand.Name()))
		} else {
			t.addLog(playable.CardsLogMessage(ss.Seat, ss.Hand.Cards, "lost with %s", ss.Hand.Name()))
		}
	}

	showdown.Pots = pots
	t.showdown = showdown
	t.endHand()
}

// endHand recycles the cards and schedules the next hand
func (t *Table) endHand() {
	for _, seat := range t.seats {
		t.deck.Recycle(seat.resetHand()...)
	}

	t.deck.Recycle(t.community...)
	t.community = t.community[:0]
	t.pot = 0
	t.departed = nil
	t.dealer = noSeat
	t.turn = noSeat
	t.round = 0
	t.phase = PhaseOff

	t.logger.WithField("deck", t.deck.CardsLeft()).Info("hand over")
	t.scheduleNextHand()
}

func (t *Table) scheduleNextHand() {
	t.cancelNextHand()
	if t.closed {
		return
	}

	gen := t.nextHandGen
	t.nextHand = t.clock.AfterFunc(t.options.NextHandDelay, func() {
		t.nextHandTimer(gen)
	})
}

func (t *Table) cancelNextHand() {
	t.nextHandGen++
	if t.nextHand != nil {
		t.nextHand.Stop()
		t.nextHand = nil
	}
}

func (t *Table) nextHandTimer(gen int) {
	t.mu.Lock()
	if gen != t.nextHandGen {
		t.mu.Unlock()
		return
	}

	t.nextHand = nil
	started := t.start()
	fn := t.onChange
	t.mu.Unlock()

	if started && fn != nil {
		fn()
	}
}

// fail marks the table as broken
func (t *Table) fail(err error) {
	t.err = err
	t.cancelNextHand()
	t.logger.WithError(err).Error("table failed a consistency check")
}

func (t *Table) brokenErr() error {
	if t.err == nil {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrTableBroken, t.err)
}

// nextSeat returns the first seat after index that matches, wrapping around the table
// Use noSeat to start at the first seat.
func (t *Table) nextSeat(index int, match func(*Seat) bool) int {
	n := len(t.seats)
	for i := 1; i <= n; i++ {
		seat := t.seats[(index+i+n)%n]
		if match(seat) {
			return seat.index
		}
	}

	return noSeat
}

func (t *Table) maxWager() int {
	maxWager := 0
	for _, seat := range t.seats {
		if seat.InHand() && seat.wager > maxWager {
			maxWager = seat.wager
		}
	}

	return maxWager
}

func (t *Table) countInHand() int {
	return t.count((*Seat).InHand)
}

func (t *Table) countCanAct() int {
	return t.count((*Seat).CanAct)
}

func (t *Table) countWithChips() int {
	return t.count((*Seat).HasChips)
}

func (t *Table) count(match func(*Seat) bool) int {
	count := 0
	for _, seat := range t.seats {
		if match(seat) {
			count++
		}
	}

	return count
}

// livePot returns the settled pot plus every wager of the current betting round
func (t *Table) livePot() int {
	pot := t.pot
	for _, seat := range t.seats {
		pot += seat.wager
	}

	return pot
}

// Pot returns the chips in the middle, including the wagers of the current betting round
func (t *Table) Pot() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.livePot()
}

// TotalChips returns every stack plus the pot
// Only signing in and signing out change this number.
func (t *Table) TotalChips() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	total := t.livePot()
	for _, seat := range t.seats {
		total += seat.stack
	}

	return total
}

func (t *Table) addLog(lm *playable.LogMessage) {
	lm.Time = t.clock.Now()

	t.log = append(t.log, lm)
	if n := len(t.log); n > maxLogMessages {
		t.log = append(t.log[:0:0], t.log[n-maxLogMessages:]...)
	}
}

// Log returns the most recent hand history
func (t *Table) Log() []*playable.LogMessage {
	t.mu.Lock()
	defer t.mu.Unlock()

	log := make([]*playable.LogMessage, len(t.log))
	copy(log, t.log)

	return log
}

// NextHandPending returns true if the next hand is waiting on the pause between hands
func (t *Table) NextHandPending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.nextHand != nil
}
