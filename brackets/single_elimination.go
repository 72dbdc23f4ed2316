package brackets

import (
	"context"
	"fmt"
)

type buildOptions struct {
	idPrefix string
}

type BuildOption func(*buildOptions)

// WithIDPrefix sets the prefix of issued match ids. Callers that keep many
// brackets side by side pass a per-build unique prefix.
func WithIDPrefix(prefix string) BuildOption {
	return func(o *buildOptions) {
		if prefix != "" {
			o.idPrefix = prefix
		}
	}
}

// idSequence issues match ids for a single build call.
type idSequence struct {
	prefix string
	n      int
}

func newIDSequence(opts []BuildOption) *idSequence {
	o := buildOptions{idPrefix: "m"}
	for _, opt := range opts {
		opt(&o)
	}
	return &idSequence{prefix: o.idPrefix}
}

func (s *idSequence) next() string {
	s.n++
	return fmt.Sprintf("%s%d", s.prefix, s.n)
}

// BracketSize is the smallest power of two that is >= max(2, n).
func BracketSize(n int) int {
	size := 2
	for size < n {
		size <<= 1
	}
	return size
}

// RoundCount is log2(BracketSize(n)).
func RoundCount(n int) int {
	rounds := 0
	for size := BracketSize(n); size > 1; size >>= 1 {
		rounds++
	}
	return rounds
}

// PadEntrants appends byes until the list reaches BracketSize(len(entrants)).
// The input slice is not modified.
func PadEntrants(entrants []string) []string {
	size := BracketSize(len(entrants))
	padded := make([]string, size)
	copy(padded, entrants)
	for i := len(entrants); i < size; i++ {
		padded[i] = Bye
	}
	return padded
}

// BuildSingleElimination builds a single-elimination bracket. Entrants are
// paired in the order given; fewer than two entrants are sized as two. Byes are
// placed but not advanced; see AdvanceByes.
func BuildSingleElimination(entrants []string, opts ...BuildOption) *Bracket {
	b := newBracket(FormatSingleElimination)
	b.buildWinners(entrants, newIDSequence(opts))
	return b
}

func (b *Bracket) buildWinners(entrants []string, seq *idSequence) {
	names := PadEntrants(entrants)
	total := RoundCount(len(entrants))

	first := Round{Index: 1, Name: roundName(1, total), MatchIDs: make([]string, 0, len(names)/2)}
	for i := 0; i < len(names); i += 2 {
		m := &Match{ID: seq.next(), Slot1: names[i], Slot2: names[i+1]}
		b.Matches[m.ID] = m
		first.MatchIDs = append(first.MatchIDs, m.ID)
	}
	b.Rounds = append(b.Rounds, first)

	for prev := first; len(prev.MatchIDs) > 1; {
		r := Round{Index: prev.Index + 1, Name: roundName(prev.Index+1, total)}
		r.MatchIDs = make([]string, 0, len(prev.MatchIDs)/2)
		for i := 0; i < len(prev.MatchIDs); i += 2 {
			m := &Match{ID: seq.next()}
			b.Matches[m.ID] = m
			r.MatchIDs = append(r.MatchIDs, m.ID)
			b.Matches[prev.MatchIDs[i]].NextMatchID = MatchTarget(m.ID)
			b.Matches[prev.MatchIDs[i+1]].NextMatchID = MatchTarget(m.ID)
		}
		b.Rounds = append(b.Rounds, r)
		prev = r
	}
}

func roundName(index, total int) string {
	switch total - index {
	case 0:
		return "Final"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	default:
		return fmt.Sprintf("Round %d", index)
	}
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() BracketGenerator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

func (g *SingleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	if err := params.validate(ctx); err != nil {
		return nil, err
	}
	return BuildSingleElimination(params.Entrants, WithIDPrefix(params.IDPrefix)), nil
}
