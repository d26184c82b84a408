package table

import (
	"encoding/json"
	"fmt"
)

// Action represents an action a seat can take on its turn
type Action string

// action constants
const (
	Fold  Action = "fold"
	Check Action = "check"
	Call  Action = "call"
	Bet   Action = "bet"
	Raise Action = "raise"
)

var allowedActions = map[Action]bool{
	Fold:  true,
	Check: true,
	Call:  true,
	Bet:   true,
	Raise: true,
}

// ActionFromString returns an action for the given string
func ActionFromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case Fold:
		return "Fold"
	case Check:
		return "Check"
	case Call:
		return "Call"
	case Bet:
		return "Bet"
	case Raise:
		return "Raise"
	}

	panic("unknown action")
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// LogMessage returns a message formatted for the log
// amount is the chips added and wager is the seat's wager after the action
func (a Action) LogMessage(amount, wager int) string {
	switch a {
	case Fold:
		return "folded"
	case Check:
		return "checked"
	case Call:
		return fmt.Sprintf("called ${%d}", amount)
	case Bet:
		return fmt.Sprintf("bet ${%d}", amount)
	case Raise:
		return fmt.Sprintf("raised to ${%d}", wager)
	}

	return ""
}

// Range is the inclusive amount allowed for an action
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains returns true if amount is within the range
func (r Range) Contains(amount int) bool {
	return amount >= r.Min && amount <= r.Max
}

// LegalActions are the actions available to the seat on the clock
// Fold and check have an empty range. Call has a fixed amount.
type LegalActions map[Action]Range

// Has returns true if the action is legal
func (l LegalActions) Has(a Action) bool {
	_, ok := l[a]
	return ok
}

// Actions returns the legal actions in a fixed order
func (l LegalActions) Actions() []Action {
	actions := make([]Action, 0, len(l))
	for _, a := range []Action{Check, Call, Bet, Raise, Fold} {
		if l.Has(a) {
			actions = append(actions, a)
		}
	}

	return actions
}
