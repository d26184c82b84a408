package table

import (
	"errors"
	"time"
)

// Options configures a table
type Options struct {
	Seats         int
	BuyIn         int
	SmallBlind    int
	BigBlind      int
	NextHandDelay time.Duration
}

// DefaultOptions returns the default options for a table
func DefaultOptions() Options {
	return Options{
		Seats:         5,
		BuyIn:         300,
		SmallBlind:    10,
		BigBlind:      20,
		NextHandDelay: 5 * time.Second,
	}
}

// Validate returns an error if the options cannot be used
func (o Options) Validate() error {
	if o.Seats < 2 || o.Seats > 10 {
		return errors.New("seats must be between 2 and 10")
	}

	if o.SmallBlind <= 0 {
		return errors.New("small blind must be > 0")
	}

	if o.BigBlind < o.SmallBlind {
		return errors.New("big blind must be >= small blind")
	}

	if o.BuyIn < o.BigBlind {
		return errors.New("buy-in must be >= big blind")
	}

	if o.NextHandDelay < 0 {
		return errors.New("next hand delay must be >= 0")
	}

	return nil
}
