package table

import "errors"

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// ErrTableFull is returned when there is no empty seat
var ErrTableFull = UserError("the table is full")

// ErrSeatOccupied is returned when taking a seat that already has an occupant
var ErrSeatOccupied = UserError("the seat is occupied")

// ErrSeatEmpty is returned when a seat needs an occupant but does not have one
var ErrSeatEmpty = UserError("the seat is empty")

// ErrGameNotActive is returned when acting while there is no hand in progress
var ErrGameNotActive = UserError("there is no hand in progress")

// ErrNotYourTurn is returned when a seat acts out of turn
var ErrNotYourTurn = UserError("it is not your turn")

// ErrIllegalAction is returned when an action or amount is not allowed
// It is always wrapped with the reason
var ErrIllegalAction = UserError("illegal action")

// ErrHandInProgress is returned when starting a hand while one is being played
var ErrHandInProgress = UserError("a hand is already in progress")

// ErrNotEnoughPlayers is returned when starting a hand without two seats that have chips
var ErrNotEnoughPlayers = UserError("at least two players with chips are needed")

// ErrTableBroken is returned by every operation after the table failed a consistency check
var ErrTableBroken = errors.New("table is broken")
