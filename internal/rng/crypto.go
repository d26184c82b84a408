package rng

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Crypto is a Generator backed by crypto/rand
// It is safe for concurrent use and is what tables use outside of tests.
type Crypto struct{}

// Intn returns a random number from 0 <= x < n
func (c Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("could not read random number: %v", err))
	}

	return int(b.Int64())
}
