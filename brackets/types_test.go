package brackets

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetJSON(t *testing.T) {
	tests := []struct {
		target Target
		wire   string
	}{
		{Target{}, `null`},
		{GrandFinalTarget, `"gf"`},
		{MatchTarget("m3"), `"m3"`},
	}
	for _, tt := range tests {
		t.Run(tt.wire, func(t *testing.T) {
			data, err := json.Marshal(tt.target)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wire, string(data))

			var got Target
			require.NoError(t, json.Unmarshal([]byte(tt.wire), &got))
			assert.Equal(t, tt.target, got)
		})
	}

	var got Target
	require.NoError(t, json.Unmarshal([]byte(`""`), &got))
	assert.True(t, got.IsZero())
	assert.Error(t, json.Unmarshal([]byte(`42`), &got))
}

func TestBracketJSONRoundTrip(t *testing.T) {
	b := BuildDoubleElimination([]string{"A", "B", "C", "D"})
	_, err := b.RecordResult("m1", "A")
	require.NoError(t, err)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nextMatchId":"gf"`)
	assert.Contains(t, string(data), `"loserSlot":2`)

	var got Bracket
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, b, &got)

	single := BuildSingleElimination([]string{"A", "B"})
	data, err = json.Marshal(single)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nextMatchId":null`)
	assert.NotContains(t, string(data), "grandFinal")

	var gotSingle Bracket
	require.NoError(t, json.Unmarshal(data, &gotSingle))
	assert.Equal(t, single, &gotSingle)
}

func TestBracketJSONNestedRounds(t *testing.T) {
	const legacy = `{
		"winnersRounds": [
			{"name": "Semifinals", "matches": [
				{"id": "1", "slot1": "A", "slot2": "B", "nextMatchId": "3", "loserNextMatchId": "4", "loserSlot": 1},
				{"id": "2", "slot1": "C", "slot2": "D", "nextMatchId": "3", "loserNextMatchId": "4", "loserSlot": 2}
			]},
			{"name": "Final", "matches": [
				{"id": "3", "slot1": "", "slot2": "", "nextMatchId": "gf", "loserNextMatchId": "5", "loserSlot": 2}
			]}
		],
		"loserRounds": [
			{"name": "Losers Round 1", "matches": [{"id": "4", "slot1": "", "slot2": "", "nextMatchId": "5"}]},
			{"name": "Losers Final", "matches": [{"id": "5", "slot1": "", "slot2": "", "nextMatchId": "gf"}]}
		],
		"grandFinal": {"slot1": "", "slot2": ""}
	}`

	var b Bracket
	require.NoError(t, json.Unmarshal([]byte(legacy), &b))
	require.NoError(t, b.Validate())

	assert.Equal(t, FormatDoubleElimination, b.Format)
	assert.Equal(t, GrandFinalID, b.GrandFinal.ID)
	assert.Equal(t, []string{"1", "2"}, b.Rounds[0].MatchIDs)
	assert.Equal(t, 2, b.Rounds[1].Index)
	assert.Len(t, b.Matches, 5)

	_, err := b.RecordResult("1", "A")
	require.NoError(t, err)
	assert.Equal(t, "B", b.Matches["4"].Slot1)
}

func TestBracketJSONNestedSingle(t *testing.T) {
	const legacy = `{"rounds": [{"roundIndex": 1, "name": "Final", "matches": [
		{"id": "x", "slot1": "A", "slot2": "B", "nextMatchId": null}
	]}]}`

	var b Bracket
	require.NoError(t, json.Unmarshal([]byte(legacy), &b))
	assert.Equal(t, FormatSingleElimination, b.Format)
	require.NoError(t, b.Validate())
}

func TestClone(t *testing.T) {
	b := BuildDoubleElimination([]string{"A", "B", "C", "D"})
	c := b.Clone()
	require.Equal(t, b, c)

	_, err := c.RecordResult("m1", "A")
	require.NoError(t, err)
	c.Rounds[0].MatchIDs[0] = "zz"
	c.GrandFinal.Slot1 = "Q"

	assert.Empty(t, b.Matches["m1"].Winner)
	assert.Empty(t, b.Matches["m3"].Slot1)
	assert.Equal(t, "m1", b.Rounds[0].MatchIDs[0])
	assert.Empty(t, b.GrandFinal.Slot1)

	var nilBracket *Bracket
	assert.Nil(t, nilBracket.Clone())
}

func TestMatchLoser(t *testing.T) {
	m := &Match{Slot1: "A", Slot2: "B"}
	assert.Empty(t, m.Loser())
	m.Winner = "A"
	assert.Equal(t, "B", m.Loser())
	m.Winner = "B"
	assert.Equal(t, "A", m.Loser())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(b *Bracket)
		wantErr error
	}{
		{
			name:    "winner not playing",
			corrupt: func(b *Bracket) { b.Matches["m1"].Winner = "Z" },
			wantErr: ErrInvalidWinner,
		},
		{
			name:    "missing grand final",
			corrupt: func(b *Bracket) { b.GrandFinal = nil },
			wantErr: ErrNoGrandFinal,
		},
		{
			name:    "bad loser slot",
			corrupt: func(b *Bracket) { b.Matches["m1"].LoserSlot = 0 },
			wantErr: ErrInvalidSlot,
		},
		{
			name:    "round lists unknown match",
			corrupt: func(b *Bracket) { b.Rounds[0].MatchIDs = append(b.Rounds[0].MatchIDs, "ghost") },
		},
		{
			name:    "next match skips a round",
			corrupt: func(b *Bracket) { b.Matches["m4"].NextMatchID = GrandFinalTarget },
		},
		{
			name:    "orphan match",
			corrupt: func(b *Bracket) { b.Matches["m9"] = &Match{ID: "m9"} },
		},
		{
			name:    "unknown format",
			corrupt: func(b *Bracket) { b.Format = "swiss" },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := BuildDoubleElimination([]string{"A", "B", "C", "D"})
			tt.corrupt(b)

			err := b.Validate()
			require.ErrorIs(t, err, ErrInvalidBracket)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
