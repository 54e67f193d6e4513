package dice

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// floatPrecision is the number of distinct values Float64 can produce.
const floatPrecision = 1 << 53

// cryptoSource implements Source using crypto/rand.
//
// Invariant: All values produced are uniformly distributed in [0, n) for any n > 0.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
// Panics with "dice: crypto/rand failure: <err>" if crypto/rand fails.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}

// Float64 returns a random float in [0.0, 1.0) with 53 bits of precision.
func (c *cryptoSource) Float64() float64 {
	return float64(c.Intn(floatPrecision)) / floatPrecision
}

// seededSource implements Source with a deterministic math/rand generator.
type seededSource struct {
	r *mrand.Rand
}

// NewSeededSource returns a deterministic Source. Two sources built from the
// same seed produce the same sequence.
func NewSeededSource(seed int64) Source {
	return &seededSource{r: mrand.New(mrand.NewSource(seed))}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0.
func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.r.Intn(n)
}

// Float64 returns a random float in [0.0, 1.0).
func (s *seededSource) Float64() float64 {
	return s.r.Float64()
}

// Fixed is a Source that replays preset values in order, cycling when
// exhausted. An empty list yields zero. Intn reduces each value modulo n.
type Fixed struct {
	Ints   []int
	Floats []float64
	i, f   int
}

// Intn returns the next preset int modulo n.
func (x *Fixed) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	if len(x.Ints) == 0 {
		return 0
	}
	v := x.Ints[x.i%len(x.Ints)]
	x.i++
	if v < 0 {
		v = -v
	}
	return v % n
}

// Float64 returns the next preset float.
func (x *Fixed) Float64() float64 {
	if len(x.Floats) == 0 {
		return 0
	}
	v := x.Floats[x.f%len(x.Floats)]
	x.f++
	return v
}
