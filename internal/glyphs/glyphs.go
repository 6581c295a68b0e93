// Package glyphs supplies the characters that rain down the grid.
package glyphs

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

// Rand is the randomness the glyph source and the simulation draw from.
// *rand.Rand from math/rand/v2 satisfies it; tests substitute scripted values.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

var ErrEmptyAlphabet = errors.New("glyphs: alphabet is empty")

// Named alphabets selectable from config.
var alphabets = map[string]string{
	"default":  "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789~!#$%^&*()+-_=[]{}'\";:,.<>/?\\|",
	"katakana": "ｱｲｳｴｵｶｷｸｹｺｻｼｽｾｿﾀﾁﾂﾃﾄﾅﾆﾇﾈﾉﾊﾋﾌﾍﾎﾏﾐﾑﾒﾓﾔﾕﾖﾗﾘﾙﾚﾛﾜﾝ0123456789",
	"binary":   "01",
	"greek":    "αβγδεζηθικλμνξοπρστυφχψω",
}

// Names returns the named alphabets in sorted order.
func Names() []string {
	names := make([]string, 0, len(alphabets))
	for n := range alphabets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the runes of a named alphabet, or the runes of name itself
// when it does not match any known alphabet.
func Resolve(name string) ([]rune, error) {
	if set, ok := alphabets[strings.ToLower(name)]; ok {
		return []rune(set), nil
	}
	if name == "" {
		return nil, ErrEmptyAlphabet
	}
	return []rune(name), nil
}

// Source picks glyphs uniformly from a fixed alphabet.
type Source struct {
	alphabet []rune
	rng      Rand
}

// New creates a Source. A nil rng uses a time-seeded PCG generator.
func New(alphabet []rune, rng Rand) (*Source, error) {
	if len(alphabet) == 0 {
		return nil, ErrEmptyAlphabet
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	set := make([]rune, len(alphabet))
	copy(set, alphabet)
	return &Source{alphabet: set, rng: rng}, nil
}

// MustNew is New for alphabets known to be valid at compile time.
func MustNew(alphabet []rune, rng Rand) *Source {
	s, err := New(alphabet, rng)
	if err != nil {
		panic(fmt.Sprintf("glyphs.MustNew: %v", err))
	}
	return s
}

// Next returns a random glyph.
func (s *Source) Next() rune {
	return s.alphabet[s.rng.IntN(len(s.alphabet))]
}

// Len is the alphabet size.
func (s *Source) Len() int { return len(s.alphabet) }

// Contains reports whether r belongs to the alphabet.
func (s *Source) Contains(r rune) bool {
	for _, c := range s.alphabet {
		if c == r {
			return true
		}
	}
	return false
}
