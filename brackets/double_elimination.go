package brackets

import (
	"context"
	"fmt"
)

// BuildDoubleElimination builds a winners bracket with BuildSingleElimination
// and derives a losers bracket and grand final from it.
//
// The losers bracket follows the standard feed only: winners round-1 losers
// are paired two to a losers round-1 match, winners round-2 losers drop into
// slot 2 of the matching losers round-2 match, and later losers rounds halve
// down to the losers final. Losers from winners round 3 onward are not fed
// back, and there is no losers-bracket reseeding.
func BuildDoubleElimination(entrants []string, opts ...BuildOption) *Bracket {
	seq := newIDSequence(opts)
	b := newBracket(FormatDoubleElimination)
	b.buildWinners(entrants, seq)
	b.Final().NextMatchID = GrandFinalTarget

	w1 := b.Rounds[0].MatchIDs
	count := max(1, len(w1)/2)
	lr1 := b.addLoserRound(seq, count)
	lr2 := b.addLoserRound(seq, count)

	for i, id := range lr1.MatchIDs {
		b.Matches[id].NextMatchID = MatchTarget(lr2.MatchIDs[i])
	}
	for i, id := range w1 {
		m := b.Matches[id]
		m.LoserNextMatchID = lr1.MatchIDs[i/2]
		m.LoserSlot = 1
		if i%2 == 1 {
			m.LoserSlot = 2
		}
	}
	if len(b.Rounds) > 1 {
		for i, id := range b.Rounds[1].MatchIDs {
			m := b.Matches[id]
			m.LoserNextMatchID = lr2.MatchIDs[i]
			m.LoserSlot = 2
		}
	}

	prev := lr2
	for len(prev.MatchIDs) > 1 {
		next := b.addLoserRound(seq, len(prev.MatchIDs)/2)
		for i, id := range prev.MatchIDs {
			b.Matches[id].NextMatchID = MatchTarget(next.MatchIDs[i/2])
		}
		prev = next
	}
	b.Matches[prev.MatchIDs[0]].NextMatchID = GrandFinalTarget

	for i := range b.LoserRounds {
		b.LoserRounds[i].Name = fmt.Sprintf("Losers Round %d", i+1)
	}
	b.LoserRounds[len(b.LoserRounds)-1].Name = "Losers Final"

	b.GrandFinal = &GrandFinal{ID: GrandFinalID}
	return b
}

func (b *Bracket) addLoserRound(seq *idSequence, count int) Round {
	r := Round{Index: len(b.LoserRounds) + 1, MatchIDs: make([]string, 0, count)}
	for i := 0; i < count; i++ {
		m := &Match{ID: seq.next()}
		b.Matches[m.ID] = m
		r.MatchIDs = append(r.MatchIDs, m.ID)
	}
	b.LoserRounds = append(b.LoserRounds, r)
	return r
}

type DoubleEliminationGenerator struct{}

func NewDoubleEliminationGenerator() BracketGenerator {
	return &DoubleEliminationGenerator{}
}

func (g *DoubleEliminationGenerator) GetName() string {
	return "DoubleElimination"
}

func (g *DoubleEliminationGenerator) GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error) {
	if err := params.validate(ctx); err != nil {
		return nil, err
	}
	return BuildDoubleElimination(params.Entrants, WithIDPrefix(params.IDPrefix)), nil
}
