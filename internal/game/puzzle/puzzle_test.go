package puzzle

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func intPtr(n int) *int { return &n }

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"  Echo! ":        "echo",
		"A Map.":          "a map",
		"it's a PIANO?":   "its a piano",
		"":                "",
		"\tquiet, please": "quiet please",
		"a+b=c^2":         "abc2",
		"$100 <or> `~|`":  "100 or",
	}
	for in, want := range cases {
		assert.Equal(t, want, Normalize(in), "Normalize(%q)", in)
	}
}

func TestSolve_AnySolutionAccepted(t *testing.T) {
	p := New([]string{"Echo", "an echo"}, nil, nil)
	assert.False(t, p.IsSolved())
	assert.True(t, p.Solve("AN ECHO!"))
	assert.True(t, p.IsSolved())
}

func TestSolve_WrongGuessDecrementsAttempts(t *testing.T) {
	p := New([]string{"echo"}, nil, intPtr(2))
	assert.False(t, p.Solve("piano"))
	n, limited := p.Remaining()
	require.True(t, limited)
	assert.Equal(t, 1, n)

	assert.False(t, p.Solve("piano"))
	assert.False(t, p.Solve("piano"))
	n, _ = p.Remaining()
	assert.Equal(t, 0, n)
	assert.True(t, p.Exhausted())
	assert.False(t, p.IsSolved())
}

func TestSolve_UnlimitedAttempts(t *testing.T) {
	p := New([]string{"echo"}, nil, nil)
	for i := 0; i < 5; i++ {
		p.Solve("wrong")
	}
	_, limited := p.Remaining()
	assert.False(t, limited)
	assert.False(t, p.Exhausted())
}

func TestSolve_DigestSolution(t *testing.T) {
	p := New([]string{Digest("a towel")}, nil, nil)
	assert.True(t, strings.HasPrefix(Digest("x"), DigestPrefix))
	assert.False(t, p.Solve("towel"))
	assert.True(t, p.Solve("A Towel."))
}

func TestHint_RotatesAndDedupes(t *testing.T) {
	p := New(nil, []string{"one", "two", "one", "three"}, nil)
	assert.Equal(t, []string{"one", "two", "three"}, p.Hints())
	got := []string{p.Hint(), p.Hint(), p.Hint(), p.Hint()}
	assert.Equal(t, []string{"one", "two", "three", "one"}, got)
}

func TestHint_Empty(t *testing.T) {
	p := New([]string{"x"}, nil, nil)
	assert.Equal(t, "", p.Hint())
}

func TestNew_NegativeAttemptsClamped(t *testing.T) {
	p := New([]string{"x"}, nil, intPtr(-3))
	n, limited := p.Remaining()
	assert.True(t, limited)
	assert.Equal(t, 0, n)
}

func TestRestore(t *testing.T) {
	p := New([]string{"x"}, []string{"a", "b"}, nil)
	p.Restore(true, intPtr(4), 3)
	assert.True(t, p.IsSolved())
	n, limited := p.Remaining()
	assert.True(t, limited)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, p.HintIndex())
}

func TestPropertyNormalizedGuessSolves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		answer := rapid.StringMatching(`[a-z]{1,8}( [a-z]{1,8})?`).Draw(t, "answer")
		punct := rapid.SampledFrom([]string{"", "!", ".", "?", ","}).Draw(t, "punct")
		pad := rapid.SampledFrom([]string{"", " ", "  ", "\t"}).Draw(t, "pad")
		guess := pad + strings.ToUpper(answer) + punct + pad

		p := New([]string{answer}, nil, intPtr(3))
		if !p.Solve(guess) {
			t.Fatalf("guess %q should solve %q", guess, answer)
		}
		if !p.IsSolved() {
			t.Fatal("puzzle should be solved")
		}
	})
}

func TestPropertyWrongGuessDecreasesAttempts(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		attempts := rapid.IntRange(0, 5).Draw(t, "attempts")
		guess := rapid.StringMatching(`[0-9]{1,6}`).Draw(t, "guess")
		p := New([]string{"letters only"}, nil, intPtr(attempts))

		p.Solve(guess)
		n, _ := p.Remaining()
		want := attempts - 1
		if want < 0 {
			want = 0
		}
		if n != want {
			t.Fatalf("remaining = %d, want %d", n, want)
		}
		if p.IsSolved() {
			t.Fatal("puzzle should not be solved")
		}
	})
}
