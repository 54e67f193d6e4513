// Package dice provides the randomness abstraction used by monster selection,
// loot drops and random room placement.
package dice

// Source is the randomness provider for all rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a random float in [0.0, 1.0).
	Float64() float64
}
