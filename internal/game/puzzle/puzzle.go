// Package puzzle implements answer checking and hint rotation for puzzles
// that gate doors or sit in rooms.
package puzzle

import (
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DigestPrefix marks a solution stored as the blake2b-256 hex digest of its
// normalized text, so world files need not spell out answers.
const DigestPrefix = "blake2b:"

// Puzzle holds the mutable solving state of a single puzzle.
type Puzzle struct {
	solutions []string
	hints     []string
	attempts  *int
	solved    bool
	hintIndex int
	// Drops lists item eids spawned into the room when the puzzle is solved.
	Drops []string
}

// New creates a Puzzle. Duplicate hints are dropped, keeping first occurrence
// order. A nil attempts pointer means unlimited attempts; a negative count is
// treated as zero.
func New(solutions, hints []string, attempts *int) *Puzzle {
	p := &Puzzle{
		solutions: append([]string(nil), solutions...),
		hints:     dedupe(hints),
	}
	if attempts != nil {
		n := *attempts
		if n < 0 {
			n = 0
		}
		p.attempts = &n
	}
	return p
}

// Solve checks guess against every stored solution after normalizing both.
//
// Postcondition: on success IsSolved() is true. On failure with finite
// attempts, the remaining count decreases by one, floored at zero.
func (p *Puzzle) Solve(guess string) bool {
	if p.solved {
		return true
	}
	norm := Normalize(guess)
	for _, s := range p.solutions {
		if matches(s, norm) {
			p.solved = true
			return true
		}
	}
	if p.attempts != nil && *p.attempts > 0 {
		*p.attempts--
	}
	return false
}

// Hint returns the next hint, cycling through the list. It returns "" when the
// puzzle has no hints.
func (p *Puzzle) Hint() string {
	if len(p.hints) == 0 {
		return ""
	}
	h := p.hints[p.hintIndex%len(p.hints)]
	p.hintIndex = (p.hintIndex + 1) % len(p.hints)
	return h
}

// IsSolved reports whether the puzzle has been solved.
func (p *Puzzle) IsSolved() bool { return p.solved }

// Remaining returns the attempts left and whether attempts are limited.
func (p *Puzzle) Remaining() (int, bool) {
	if p.attempts == nil {
		return 0, false
	}
	return *p.attempts, true
}

// Exhausted reports whether a finite attempt budget has been used up.
func (p *Puzzle) Exhausted() bool {
	n, limited := p.Remaining()
	return limited && n == 0 && !p.solved
}

// Solutions returns a copy of the accepted answers as stored.
func (p *Puzzle) Solutions() []string {
	return append([]string(nil), p.solutions...)
}

// Hints returns a copy of the deduplicated hints.
func (p *Puzzle) Hints() []string {
	return append([]string(nil), p.hints...)
}

// HintIndex returns the position of the next hint.
func (p *Puzzle) HintIndex() int { return p.hintIndex }

// Restore overwrites the mutable state, used when loading a saved game.
func (p *Puzzle) Restore(solved bool, attempts *int, hintIndex int) {
	p.solved = solved
	if attempts != nil {
		n := *attempts
		p.attempts = &n
	} else {
		p.attempts = nil
	}
	if len(p.hints) > 0 {
		p.hintIndex = hintIndex % len(p.hints)
	}
}

// Normalize lowercases s, strips punctuation and symbols and trims
// surrounding space.
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return -1
		}
		return r
	}, s)
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// Digest returns the stored form of answer for use with DigestPrefix.
func Digest(answer string) string {
	sum := blake2b.Sum256([]byte(Normalize(answer)))
	return DigestPrefix + hex.EncodeToString(sum[:])
}

func matches(solution, normGuess string) bool {
	if strings.HasPrefix(solution, DigestPrefix) {
		sum := blake2b.Sum256([]byte(normGuess))
		return strings.EqualFold(strings.TrimPrefix(solution, DigestPrefix), hex.EncodeToString(sum[:]))
	}
	return Normalize(solution) == normGuess
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
