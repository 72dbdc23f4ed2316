package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entrants(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("P%d", i+1)
	}
	return names
}

func TestBracketSize(t *testing.T) {
	tests := []struct {
		n, size, rounds int
	}{
		{0, 2, 1},
		{1, 2, 1},
		{2, 2, 1},
		{3, 4, 2},
		{4, 4, 2},
		{5, 8, 3},
		{8, 8, 3},
		{9, 16, 4},
		{33, 64, 6},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			assert.Equal(t, tt.size, BracketSize(tt.n))
			assert.Equal(t, tt.rounds, RoundCount(tt.n))
		})
	}
}

func TestBuildSingleEliminationThreeEntrants(t *testing.T) {
	b := BuildSingleElimination([]string{"A", "B", "C"})

	require.Len(t, b.Rounds, 2)
	r1 := b.RoundMatches(b.Rounds[0])
	require.Len(t, r1, 2)
	assert.Equal(t, "A", r1[0].Slot1)
	assert.Equal(t, "B", r1[0].Slot2)
	assert.Equal(t, "C", r1[1].Slot1)
	assert.Equal(t, Bye, r1[1].Slot2)

	r2 := b.RoundMatches(b.Rounds[1])
	require.Len(t, r2, 1)
	assert.Empty(t, r2[0].Slot1)
	assert.Empty(t, r2[0].Slot2)
	assert.True(t, r2[0].NextMatchID.IsZero())

	assert.Equal(t, MatchTarget(r2[0].ID), r1[0].NextMatchID)
	assert.Equal(t, MatchTarget(r2[0].ID), r1[1].NextMatchID)
	assert.Equal(t, "Semifinals", b.Rounds[0].Name)
	assert.Equal(t, "Final", b.Rounds[1].Name)
	assert.Nil(t, b.GrandFinal)
	assert.Empty(t, b.LoserRounds)
}

func TestBuildSingleEliminationStructure(t *testing.T) {
	for n := 1; n <= 17; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			b := BuildSingleElimination(entrants(n))
			require.NoError(t, b.Validate())

			size := BracketSize(n)
			assert.Len(t, b.Rounds, RoundCount(n))
			assert.Len(t, b.Rounds[0].MatchIDs, size/2)
			assert.Len(t, b.Matches, size-1)

			byes := 0
			for _, m := range b.RoundMatches(b.Rounds[0]) {
				for _, s := range []string{m.Slot1, m.Slot2} {
					if s == Bye {
						byes++
					}
				}
				assert.Empty(t, m.Winner, "builder must not advance byes")
			}
			assert.Equal(t, size-n, byes)
			if n >= 2 {
				assert.Less(t, byes, n)
			}

			for ri, r := range b.Rounds {
				if ri > 0 {
					assert.Len(t, r.MatchIDs, len(b.Rounds[ri-1].MatchIDs)/2)
				}
				for _, id := range r.MatchIDs {
					m := b.Matches[id]
					if ri == len(b.Rounds)-1 {
						assert.True(t, m.NextMatchID.IsZero())
						continue
					}
					require.Equal(t, TargetMatch, m.NextMatchID.Kind)
					assert.Contains(t, b.Rounds[ri+1].MatchIDs, m.NextMatchID.MatchID)
				}
			}
		})
	}
}

func TestBuildSingleEliminationDoesNotMutateInput(t *testing.T) {
	in := []string{"A", "B", "C"}
	BuildSingleElimination(in)
	assert.Equal(t, []string{"A", "B", "C"}, in)
}

func TestBuildSingleEliminationIDs(t *testing.T) {
	b := BuildSingleElimination(entrants(4))
	assert.Equal(t, []string{"m1", "m2"}, b.Rounds[0].MatchIDs)
	assert.Equal(t, []string{"m3"}, b.Rounds[1].MatchIDs)

	other := BuildSingleElimination(entrants(4), WithIDPrefix("t7-"))
	assert.Equal(t, []string{"t7-1", "t7-2"}, other.Rounds[0].MatchIDs)
	for id := range other.Matches {
		_, clash := b.Matches[id]
		assert.False(t, clash, "id %s reused across builds with different prefixes", id)
	}
}

func TestBuildSingleEliminationRoundNames(t *testing.T) {
	b := BuildSingleElimination(entrants(16))
	names := make([]string, len(b.Rounds))
	for i, r := range b.Rounds {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Round 1", "Quarterfinals", "Semifinals", "Final"}, names)
}

func TestBuildSingleEliminationAllByeMatch(t *testing.T) {
	b := BuildSingleElimination(entrants(5))
	last := b.Matches[b.Rounds[0].MatchIDs[3]]
	assert.Equal(t, Bye, last.Slot1)
	assert.Equal(t, Bye, last.Slot2)
	assert.Empty(t, last.Winner)
}

func TestSingleEliminationGenerator(t *testing.T) {
	g := NewSingleEliminationGenerator()
	assert.Equal(t, "SingleElimination", g.GetName())

	_, err := g.GenerateBracket(context.Background(), GenerateBracketParams{Entrants: []string{"A"}})
	require.ErrorIs(t, err, ErrNotEnoughEntrants)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.GenerateBracket(ctx, GenerateBracketParams{Entrants: entrants(4)})
	require.ErrorIs(t, err, context.Canceled)

	b, err := g.GenerateBracket(context.Background(), GenerateBracketParams{Entrants: entrants(4), IDPrefix: "x"})
	require.NoError(t, err)
	assert.Equal(t, FormatSingleElimination, b.Format)
	assert.Equal(t, []string{"x1", "x2"}, b.Rounds[0].MatchIDs)
}

func TestNewGenerator(t *testing.T) {
	g, err := NewGenerator(FormatDoubleElimination)
	require.NoError(t, err)
	assert.Equal(t, "DoubleElimination", g.GetName())

	_, err = NewGenerator("round_robin")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
