package brackets

import "fmt"

type SkipReason string

const (
	SkipNoNextMatch   SkipReason = "no next match"
	SkipNoLoserTarget SkipReason = "match does not feed the losers bracket"
	SkipByeLoser      SkipReason = "loser is a bye"
	SkipEmptyLoser    SkipReason = "loser slot is empty"
)

// Placement describes where an entrant went after a result was recorded.
// Skipped is set when nothing was placed for a legitimate reason.
type Placement struct {
	Entrant string     `json:"entrant,omitempty"`
	Target  Target     `json:"target"`
	Slot    int        `json:"slot,omitempty"`
	Skipped SkipReason `json:"skipped,omitempty"`
}

func (p Placement) Placed() bool { return p.Slot != 0 }

type Result struct {
	MatchID string    `json:"matchId"`
	Winner  Placement `json:"winner"`
	Loser   Placement `json:"loser"`
}

// destination is a planned write into one slot. Planning happens before any
// mutation so that a failed operation leaves the graph untouched.
type destination struct {
	target Target
	slots  slotPair
	slot   int
	skip   SkipReason
}

func skipped(reason SkipReason) destination { return destination{skip: reason} }

func (d destination) place(name string) Placement {
	if d.slot == 0 {
		return Placement{Entrant: name, Skipped: d.skip}
	}
	d.slots.set(d.slot, name)
	return Placement{Entrant: name, Target: d.target, Slot: d.slot}
}

func (d destination) remove(name string) Placement {
	if d.slot == 0 {
		return Placement{Entrant: name, Skipped: d.skip}
	}
	d.slots.set(d.slot, "")
	return Placement{Entrant: name, Target: d.target, Slot: d.slot}
}

// SetWinnerAndAdvance records winner for a match found in rounds and moves the
// winner into the first empty slot of the next match, or of the grand final.
func SetWinnerAndAdvance(b *Bracket, rounds []Round, matchID, winner string) (Placement, error) {
	m, err := FindMatch(b, rounds, matchID)
	if err != nil {
		return Placement{}, err
	}
	if err := checkWinner(m, winner); err != nil {
		return Placement{}, err
	}
	d, err := b.firstEmpty(m.NextMatchID)
	if err != nil {
		return Placement{}, fmt.Errorf("advance %q from %s: %w", winner, m.ID, err)
	}
	m.Winner = winner
	return d.place(winner), nil
}

// SetLoserAndAdvance drops the loser of a decided winners-bracket match into
// its losers-bracket slot. Matches without a loser target and bye losers are
// skipped.
func SetLoserAndAdvance(b *Bracket, rounds []Round, matchID string) (Placement, error) {
	m, err := FindMatch(b, rounds, matchID)
	if err != nil {
		return Placement{}, err
	}
	if m.LoserNextMatchID != "" && !m.Decided() {
		return Placement{}, fmt.Errorf("%w: %s", ErrNoResult, m.ID)
	}
	loser := m.Loser()
	d, err := b.loserDestination(m, loser, false)
	if err != nil {
		return Placement{}, err
	}
	return d.place(loser), nil
}

// SetLoserBracketWinner records winner for a losers-bracket match. The losers
// final always feeds slot 2 of the grand final. Passing GrandFinalID decides
// the grand final itself.
func SetLoserBracketWinner(b *Bracket, loserRounds []Round, matchID, winner string) (Placement, error) {
	m, gf, err := FindLosersMatch(b, loserRounds, matchID)
	if err != nil {
		return Placement{}, err
	}
	if gf != nil {
		return decideGrandFinal(gf, winner)
	}
	if err := checkWinner(m, winner); err != nil {
		return Placement{}, err
	}
	d, err := b.losersWinnerDestination(m, winner)
	if err != nil {
		return Placement{}, fmt.Errorf("advance %q from %s: %w", winner, m.ID, err)
	}
	m.Winner = winner
	return d.place(winner), nil
}

// RecordResult records winner for any match of the bracket, including the
// grand final, and runs every propagation that result implies.
func (b *Bracket) RecordResult(matchID, winner string) (Result, error) {
	switch b.sideOf(matchID) {
	case sideWinners:
		// bye losers go into the losers bracket so their slot stays resolvable
		// after an undo, the same way AdvanceByes places them
		return b.recordWinners(b.Matches[matchID], winner, b.Format == FormatDoubleElimination)
	case sideLosers, sideGrandFinal:
		p, err := SetLoserBracketWinner(b, b.LoserRounds, matchID, winner)
		if err != nil {
			return Result{MatchID: matchID}, err
		}
		return Result{MatchID: matchID, Winner: p, Loser: Placement{Skipped: SkipNoLoserTarget}}, nil
	default:
		return Result{MatchID: matchID}, fmt.Errorf("%w: %q", ErrMatchNotFound, matchID)
	}
}

func (b *Bracket) recordWinners(m *Match, winner string, forwardBye bool) (Result, error) {
	res := Result{MatchID: m.ID}
	if err := checkWinner(m, winner); err != nil {
		return res, err
	}
	wd, err := b.firstEmpty(m.NextMatchID)
	if err != nil {
		return res, fmt.Errorf("advance %q from %s: %w", winner, m.ID, err)
	}
	loser := m.Slot1
	if loser == winner {
		loser = m.Slot2
	}
	ld, err := b.loserDestination(m, loser, forwardBye)
	if err != nil {
		return res, err
	}
	m.Winner = winner
	res.Winner = wd.place(winner)
	res.Loser = ld.place(loser)
	return res, nil
}

func (b *Bracket) recordLosers(m *Match, winner string) (Result, error) {
	res := Result{MatchID: m.ID, Loser: Placement{Skipped: SkipNoLoserTarget}}
	if err := checkWinner(m, winner); err != nil {
		return res, err
	}
	d, err := b.losersWinnerDestination(m, winner)
	if err != nil {
		return res, fmt.Errorf("advance %q from %s: %w", winner, m.ID, err)
	}
	m.Winner = winner
	res.Winner = d.place(winner)
	return res, nil
}

func checkWinner(m *Match, winner string) error {
	if m.Decided() {
		return fmt.Errorf("%w: %s won %s", ErrAlreadyDecided, m.Winner, m.ID)
	}
	if !m.Ready() {
		return fmt.Errorf("%w: %s", ErrMatchNotReady, m.ID)
	}
	if winner == "" || !m.slots().contains(winner) {
		return fmt.Errorf("%w: %q is not playing in %s", ErrInvalidWinner, winner, m.ID)
	}
	// Bye выигрывает только у другого Bye
	if winner == Bye && m.Slot1 != m.Slot2 {
		return fmt.Errorf("%w: %s cannot beat an entrant in %s", ErrInvalidWinner, Bye, m.ID)
	}
	return nil
}

func decideGrandFinal(gf *GrandFinal, winner string) (Placement, error) {
	if gf.Winner != "" {
		return Placement{}, fmt.Errorf("%w: %s won %s", ErrAlreadyDecided, gf.Winner, gf.ID)
	}
	if gf.Slot1 == "" || gf.Slot2 == "" {
		return Placement{}, fmt.Errorf("%w: %s", ErrMatchNotReady, gf.ID)
	}
	if winner == "" || !gf.slots().contains(winner) {
		return Placement{}, fmt.Errorf("%w: %q is not playing in %s", ErrInvalidWinner, winner, gf.ID)
	}
	if winner == Bye && gf.Slot1 != gf.Slot2 {
		return Placement{}, fmt.Errorf("%w: %s cannot beat an entrant in %s", ErrInvalidWinner, Bye, gf.ID)
	}
	gf.Winner = winner
	return Placement{Entrant: winner, Skipped: SkipNoNextMatch}, nil
}

// firstEmpty plans a write into the first empty slot of t.
func (b *Bracket) firstEmpty(t Target) (destination, error) {
	var slots slotPair
	switch t.Kind {
	case TargetNone:
		return skipped(SkipNoNextMatch), nil
	case TargetGrandFinal:
		if b.GrandFinal == nil {
			return destination{}, ErrNoGrandFinal
		}
		slots = b.GrandFinal.slots()
	default:
		next, ok := b.Matches[t.MatchID]
		if !ok {
			return destination{}, fmt.Errorf("%w: %q", ErrMatchNotFound, t.MatchID)
		}
		slots = next.slots()
	}
	slot, ok := slots.firstEmpty()
	if !ok {
		return destination{}, fmt.Errorf("%w: %s", ErrTargetFull, t)
	}
	return destination{target: t, slots: slots, slot: slot}, nil
}

// fixedSlot plans a write into a specific slot. Writing the entrant that is
// already there is allowed.
func fixedSlot(t Target, slots slotPair, slot int, name string) (destination, error) {
	if slot != 1 && slot != 2 {
		return destination{}, fmt.Errorf("%w: got %d", ErrInvalidSlot, slot)
	}
	if cur := slots.get(slot); cur != "" && cur != name {
		return destination{}, fmt.Errorf("%w: slot %d of %s holds %q", ErrSlotOccupied, slot, t, cur)
	}
	return destination{target: t, slots: slots, slot: slot}, nil
}

func (b *Bracket) loserDestination(m *Match, loser string, forwardBye bool) (destination, error) {
	switch {
	case m.LoserNextMatchID == "":
		return skipped(SkipNoLoserTarget), nil
	case loser == "":
		return skipped(SkipEmptyLoser), nil
	case loser == Bye && !forwardBye:
		return skipped(SkipByeLoser), nil
	}
	target, err := FindMatch(b, b.LoserRounds, m.LoserNextMatchID)
	if err != nil {
		return destination{}, fmt.Errorf("drop %q from %s: %w", loser, m.ID, err)
	}
	return fixedSlot(MatchTarget(target.ID), target.slots(), m.LoserSlot, loser)
}

func (b *Bracket) losersWinnerDestination(m *Match, winner string) (destination, error) {
	if m.NextMatchID.Kind != TargetGrandFinal {
		return b.firstEmpty(m.NextMatchID)
	}
	if b.GrandFinal == nil {
		return destination{}, ErrNoGrandFinal
	}
	return fixedSlot(GrandFinalTarget, b.GrandFinal.slots(), 2, winner)
}
