package words

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"strings"
	"sync"
)

const (
	// Any disables a category or difficulty filter.
	Any = "all"

	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

//go:embed words.json
var bank []byte

var ErrEmptyBank = errors.New("word bank is empty")

// Word is a drawable secret together with the clue everyone may see.
type Word struct {
	Word       string `json:"word"`
	Hint       string `json:"hint"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
}

// Provider hands out random words from an in-memory bank. It is safe for
// concurrent use.
type Provider struct {
	words []Word

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProvider builds a provider over words. src may be nil for a randomly
// seeded source.
func NewProvider(words []Word, src rand.Source) (*Provider, error) {
	clean := make([]Word, 0, len(words))
	for _, w := range words {
		w.Word = strings.TrimSpace(w.Word)
		if w.Word == "" {
			continue
		}
		if w.Difficulty == "" {
			w.Difficulty = Easy
		}
		clean = append(clean, w)
	}
	if len(clean) == 0 {
		return nil, ErrEmptyBank
	}
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Provider{words: clean, rng: rand.New(src)}, nil
}

// Default returns a provider over the embedded word bank.
func Default() *Provider {
	p, err := Parse(bank, nil)
	if err != nil {
		panic(fmt.Sprintf("embedded word bank: %v", err))
	}
	return p
}

// LoadFile reads a JSON array of words from path.
func LoadFile(path string) (*Provider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word bank: %w", err)
	}
	return Parse(data, nil)
}

func Parse(data []byte, src rand.Source) (*Provider, error) {
	var list []Word
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode word bank: %w", err)
	}
	return NewProvider(list, src)
}

// RandomWord picks a word matching category and difficulty. Empty or "all"
// disables a filter. When nothing matches it falls back to the easy pool, so
// the only failure is a cancelled context.
func (p *Provider) RandomWord(ctx context.Context, category, difficulty string) (Word, error) {
	if err := ctx.Err(); err != nil {
		return Word{}, err
	}

	pool := p.filter(func(w Word) bool {
		return matches(w.Category, category) && matches(w.Difficulty, difficulty)
	})
	if len(pool) == 0 {
		pool = p.ByDifficulty(Easy)
	}
	if len(pool) == 0 {
		pool = p.words
	}

	p.mu.Lock()
	idx := p.rng.IntN(len(pool))
	p.mu.Unlock()
	return pool[idx], nil
}

// Categories lists the distinct categories in the bank, sorted.
func (p *Provider) Categories() []string {
	var out []string
	for _, w := range p.words {
		if w.Category != "" && !slices.Contains(out, w.Category) {
			out = append(out, w.Category)
		}
	}
	slices.Sort(out)
	return out
}

func (p *Provider) ByDifficulty(difficulty string) []Word {
	return p.filter(func(w Word) bool { return matches(w.Difficulty, difficulty) })
}

func (p *Provider) filter(keep func(Word) bool) []Word {
	var out []Word
	for _, w := range p.words {
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}

func matches(value, filter string) bool {
	filter = strings.TrimSpace(filter)
	return filter == "" || strings.EqualFold(filter, Any) || strings.EqualFold(value, filter)
}
