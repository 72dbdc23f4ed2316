package brackets

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// Bye marks a padding slot inserted to reach a power-of-two bracket size.
	Bye = "Bye"
	// GrandFinalID is the id of the grand final and its wire form as a match target.
	GrandFinalID = "gf"
)

type Format string

const (
	FormatSingleElimination Format = "single_elimination"
	FormatDoubleElimination Format = "double_elimination"
)

func (f Format) Valid() bool {
	return f == FormatSingleElimination || f == FormatDoubleElimination
}

type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetMatch
	TargetGrandFinal
)

// Target is where a match result flows next: another match, the grand final,
// or nowhere (the final of a single-elimination bracket).
//
// On the wire a target is the match id, the string "gf", or null, which is the
// same shape older persisted graphs used for nextMatchId.
type Target struct {
	Kind    TargetKind
	MatchID string
}

var GrandFinalTarget = Target{Kind: TargetGrandFinal}

func MatchTarget(id string) Target {
	return Target{Kind: TargetMatch, MatchID: id}
}

func (t Target) IsZero() bool { return t.Kind == TargetNone }

func (t Target) String() string {
	switch t.Kind {
	case TargetMatch:
		return t.MatchID
	case TargetGrandFinal:
		return GrandFinalID
	default:
		return ""
	}
}

func (t Target) MarshalJSON() ([]byte, error) {
	if t.Kind == TargetNone {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Target) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Target{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("match target must be a string or null: %w", err)
	}
	switch s {
	case "":
		*t = Target{}
	case GrandFinalID:
		*t = GrandFinalTarget
	default:
		*t = MatchTarget(s)
	}
	return nil
}

type Match struct {
	ID     string `json:"id"`
	Slot1  string `json:"slot1"`
	Slot2  string `json:"slot2"`
	Winner string `json:"winner,omitempty"`

	NextMatchID Target `json:"nextMatchId"`

	// Set only on winners-bracket matches that feed the losers bracket.
	LoserNextMatchID string `json:"loserNextMatchId,omitempty"`
	LoserSlot        int    `json:"loserSlot,omitempty"`
}

func (m *Match) Decided() bool { return m.Winner != "" }

// Ready reports whether both slots hold an entrant (a bye counts).
func (m *Match) Ready() bool { return m.Slot1 != "" && m.Slot2 != "" }

// Loser is the slot that is not the winner, or "" while the match is pending.
func (m *Match) Loser() string {
	switch {
	case m.Winner == "":
		return ""
	case m.Winner == m.Slot1:
		return m.Slot2
	default:
		return m.Slot1
	}
}

func (m *Match) slots() slotPair { return slotPair{&m.Slot1, &m.Slot2} }

type Round struct {
	Index    int      `json:"roundIndex"`
	Name     string   `json:"name"`
	MatchIDs []string `json:"matchIds"`
}

type GrandFinal struct {
	ID     string `json:"id"`
	Slot1  string `json:"slot1"`
	Slot2  string `json:"slot2"`
	Winner string `json:"winner,omitempty"`
}

func (g *GrandFinal) slots() slotPair { return slotPair{&g.Slot1, &g.Slot2} }

// Bracket is a complete bracket graph. Matches live in an arena keyed by id;
// rounds only order the ids. A Bracket has a single owner and is not safe for
// concurrent mutation.
type Bracket struct {
	Format      Format            `json:"format"`
	Matches     map[string]*Match `json:"matches"`
	Rounds      []Round           `json:"rounds"`
	LoserRounds []Round           `json:"loserRounds,omitempty"`
	GrandFinal  *GrandFinal       `json:"grandFinal,omitempty"`
}

func newBracket(format Format) *Bracket {
	return &Bracket{Format: format, Matches: make(map[string]*Match)}
}

// Match looks an id up in the arena regardless of which half it belongs to.
func (b *Bracket) Match(id string) (*Match, bool) {
	m, ok := b.Matches[id]
	return m, ok
}

// RoundMatches returns the matches of r in bracket order.
func (b *Bracket) RoundMatches(r Round) []*Match {
	out := make([]*Match, 0, len(r.MatchIDs))
	for _, id := range r.MatchIDs {
		if m, ok := b.Matches[id]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Final is the last winners-bracket match.
func (b *Bracket) Final() *Match {
	if len(b.Rounds) == 0 {
		return nil
	}
	last := b.Rounds[len(b.Rounds)-1]
	if len(last.MatchIDs) == 0 {
		return nil
	}
	return b.Matches[last.MatchIDs[0]]
}

// Champion returns the overall winner once it is known.
func (b *Bracket) Champion() (string, bool) {
	var winner string
	if b.Format == FormatDoubleElimination {
		if b.GrandFinal == nil {
			return "", false
		}
		winner = b.GrandFinal.Winner
	} else if final := b.Final(); final != nil {
		winner = final.Winner
	}
	if winner == "" || winner == Bye {
		return "", false
	}
	return winner, true
}

func (b *Bracket) Clone() *Bracket {
	if b == nil {
		return nil
	}
	c := &Bracket{
		Format:      b.Format,
		Matches:     make(map[string]*Match, len(b.Matches)),
		Rounds:      cloneRounds(b.Rounds),
		LoserRounds: cloneRounds(b.LoserRounds),
	}
	for id, m := range b.Matches {
		cp := *m
		c.Matches[id] = &cp
	}
	if b.GrandFinal != nil {
		gf := *b.GrandFinal
		c.GrandFinal = &gf
	}
	return c
}

func cloneRounds(rounds []Round) []Round {
	if rounds == nil {
		return nil
	}
	out := make([]Round, len(rounds))
	for i, r := range rounds {
		out[i] = Round{Index: r.Index, Name: r.Name, MatchIDs: append([]string(nil), r.MatchIDs...)}
	}
	return out
}

// persistedRound also accepts the older nested form where a round carried its
// matches inline instead of ids into the arena.
type persistedRound struct {
	Index    int      `json:"roundIndex"`
	Name     string   `json:"name"`
	MatchIDs []string `json:"matchIds"`
	Matches  []*Match `json:"matches"`
}

type persistedBracket struct {
	Format        Format            `json:"format"`
	Matches       map[string]*Match `json:"matches"`
	Rounds        []persistedRound  `json:"rounds"`
	WinnersRounds []persistedRound  `json:"winnersRounds"`
	LoserRounds   []persistedRound  `json:"loserRounds"`
	GrandFinal    *GrandFinal       `json:"grandFinal"`
}

func (b *Bracket) UnmarshalJSON(data []byte) error {
	var p persistedBracket
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	out := Bracket{Format: p.Format, Matches: p.Matches, GrandFinal: p.GrandFinal}
	if out.Matches == nil {
		out.Matches = make(map[string]*Match)
	}
	rounds := p.Rounds
	if len(rounds) == 0 {
		rounds = p.WinnersRounds
	}
	out.Rounds = hoistRounds(out.Matches, rounds)
	out.LoserRounds = hoistRounds(out.Matches, p.LoserRounds)
	if out.Format == "" {
		out.Format = FormatSingleElimination
		if out.GrandFinal != nil || len(out.LoserRounds) > 0 {
			out.Format = FormatDoubleElimination
		}
	}
	if out.GrandFinal != nil && out.GrandFinal.ID == "" {
		out.GrandFinal.ID = GrandFinalID
	}
	*b = out
	return nil
}

func hoistRounds(arena map[string]*Match, in []persistedRound) []Round {
	if len(in) == 0 {
		return nil
	}
	out := make([]Round, len(in))
	for i, pr := range in {
		r := Round{Index: pr.Index, Name: pr.Name, MatchIDs: pr.MatchIDs}
		if r.Index == 0 {
			r.Index = i + 1
		}
		if len(r.MatchIDs) == 0 && len(pr.Matches) > 0 {
			r.MatchIDs = make([]string, 0, len(pr.Matches))
			for _, m := range pr.Matches {
				if m == nil {
					continue
				}
				arena[m.ID] = m
				r.MatchIDs = append(r.MatchIDs, m.ID)
			}
		}
		out[i] = r
	}
	return out
}

type slotPair struct {
	slot1, slot2 *string
}

func (p slotPair) get(slot int) string {
	if slot == 1 {
		return *p.slot1
	}
	return *p.slot2
}

func (p slotPair) set(slot int, name string) {
	if slot == 1 {
		*p.slot1 = name
	} else {
		*p.slot2 = name
	}
}

func (p slotPair) firstEmpty() (int, bool) {
	switch {
	case *p.slot1 == "":
		return 1, true
	case *p.slot2 == "":
		return 2, true
	default:
		return 0, false
	}
}

// holding returns the slot that currently holds name, preferring the given slot.
func (p slotPair) holding(name string, prefer int) int {
	if prefer != 0 && p.get(prefer) == name {
		return prefer
	}
	switch name {
	case *p.slot1:
		return 1
	case *p.slot2:
		return 2
	}
	return 0
}

func (p slotPair) contains(name string) bool {
	return name == *p.slot1 || name == *p.slot2
}
