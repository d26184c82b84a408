package potmanager

import "encoding/json"

// Pot is a main pot or a side pot
type Pot struct {
	Amount int
	// Eligible are the seats that can win the pot, ordered by seat index
	Eligible []int
}

type potJSON struct {
	Amount   int   `json:"amount"`
	Eligible []int `json:"eligible"`
}

// MarshalJSON provides custom marshalling
func (p Pot) MarshalJSON() ([]byte, error) {
	eligible := p.Eligible
	if eligible == nil {
		eligible = []int{}
	}

	return json.Marshal(potJSON{
		Amount:   p.Amount,
		Eligible: eligible,
	})
}

// IsEligible returns true if the seat can win the pot
func (p Pot) IsEligible(seat int) bool {
	for _, s := range p.Eligible {
		if s == seat {
			return true
		}
	}

	return false
}

// Pots is a collection of pots, main pot first
type Pots []*Pot

// Total returns the combined total of all pots
func (p Pots) Total() int {
	total := 0
	for _, pot := range p {
		total += pot.Amount
	}

	return total
}
