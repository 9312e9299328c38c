package utils

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand/v2"
)

// Random is the single source of randomness for shuffles, phrase picks and
// room codes.
type Random interface {
	// Intn returns a uniform value in [0, n). It panics if n <= 0.
	Intn(n int) int
}

type cryptoRandom struct{}

// NewCryptoRandom returns a Random backed by crypto/rand.
func NewCryptoRandom() Random {
	return cryptoRandom{}
}

func (cryptoRandom) Intn(n int) int {
	if n <= 0 {
		panic("utils: Intn called with non-positive n")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(err)
	}
	return int(v.Int64())
}

type seededRandom struct {
	r *mrand.Rand
}

// NewSeededRandom returns a deterministic Random, for tests and replays.
func NewSeededRandom(seed uint64) Random {
	return &seededRandom{r: mrand.New(mrand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededRandom) Intn(n int) int {
	return s.r.IntN(n)
}
