// Package generator builds typing text sequences.
package generator

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/verte-zerg/typetest/internal/model"
)

// ErrConfiguration reports a corpus or word count that cannot produce a text.
var ErrConfiguration = errors.New("configuration error")

// Option customizes a Generator.
type Option func(*Generator)

// WithCaps capitalizes the first letter of each word with probability pct.
func WithCaps(pct float64) Option {
	return func(g *Generator) {
		g.capsPct = pct
	}
}

// WithPunct appends a character from set to each word with probability pct.
func WithPunct(pct float64, set []rune) Option {
	return func(g *Generator) {
		g.punctPct = pct
		g.punctSet = append([]rune(nil), set...)
	}
}

// Generator produces randomized typing text.
type Generator struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	words  []string
	counts model.WordCounts

	capsPct  float64
	punctPct float64
	punctSet []rune
}

// New returns a Generator seeded with the current time.
func New(words []string, counts model.WordCounts, opts ...Option) (*Generator, error) {
	return NewWithSource(words, counts, rand.NewSource(time.Now().UnixNano()), opts...)
}

// NewWithSource returns a Generator drawing from src. A seeded source makes
// the output deterministic.
func NewWithSource(words []string, counts model.WordCounts, src rand.Source, opts ...Option) (*Generator, error) {
	g := &Generator{rnd: rand.New(src), counts: counts}
	for _, opt := range opts {
		opt(g)
	}
	if err := g.SetWords(words); err != nil {
		return nil, err
	}
	for _, d := range model.Difficulties {
		if counts.For(d) <= 0 {
			return nil, fmt.Errorf("%w: word count for %s must be > 0, got %d", ErrConfiguration, d, counts.For(d))
		}
	}
	return g, nil
}

// SetWords replaces the corpus used by later calls to Generate.
func (g *Generator) SetWords(words []string) error {
	cleaned := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		cleaned = append(cleaned, w)
	}
	if len(cleaned) == 0 {
		return fmt.Errorf("%w: word list is empty", ErrConfiguration)
	}
	g.mu.Lock()
	g.words = cleaned
	g.mu.Unlock()
	return nil
}

// Generate selects words uniformly with replacement and joins them with
// single spaces.
func (g *Generator) Generate(d model.Difficulty) ([]rune, error) {
	count := g.counts.For(d)
	if count <= 0 {
		return nil, fmt.Errorf("%w: word count for %s must be > 0, got %d", ErrConfiguration, d, count)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.words) == 0 {
		return nil, fmt.Errorf("%w: word list is empty", ErrConfiguration)
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := g.words[g.rnd.Intn(len(g.words))]
		word = applyCaps(g.rnd, word, g.capsPct)
		word = applyPunct(g.rnd, word, g.punctPct, g.punctSet)
		result = append(result, word)
	}
	return []rune(strings.Join(result, " ")), nil
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	punct := punctSet[rnd.Intn(len(punctSet))]
	return word + string(punct)
}
