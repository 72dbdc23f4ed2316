package brackets

import "fmt"

// ClearResult undoes a recorded result: the winner is cleared and the entrants
// it placed downstream are removed again. It is refused with ErrTargetDecided
// once a match those entrants went to has been decided.
func (b *Bracket) ClearResult(matchID string) (Result, error) {
	res := Result{MatchID: matchID}
	s := b.sideOf(matchID)
	switch s {
	case sideGrandFinal:
		gf := b.GrandFinal
		if gf.Winner == "" {
			return res, fmt.Errorf("%w: %s", ErrNoResult, gf.ID)
		}
		res.Winner = Placement{Entrant: gf.Winner, Skipped: SkipNoNextMatch}
		gf.Winner = ""
		return res, nil
	case sideUnknown:
		return res, fmt.Errorf("%w: %q", ErrMatchNotFound, matchID)
	}

	m := b.Matches[matchID]
	if !m.Decided() {
		return res, fmt.Errorf("%w: %s", ErrNoResult, m.ID)
	}
	prefer := 1
	if s == sideLosers {
		prefer = 2
	}
	wd, err := b.occupiedSlot(m.NextMatchID, m.Winner, prefer)
	if err != nil {
		return res, fmt.Errorf("undo %s: %w", m.ID, err)
	}
	loser := m.Loser()
	ld := skipped(SkipNoLoserTarget)
	if m.LoserNextMatchID != "" {
		ld, err = b.occupiedSlot(MatchTarget(m.LoserNextMatchID), loser, m.LoserSlot)
		if err != nil {
			return res, fmt.Errorf("undo %s: %w", m.ID, err)
		}
	}

	res.Winner = wd.remove(m.Winner)
	res.Loser = ld.remove(loser)
	m.Winner = ""
	return res, nil
}

// occupiedSlot plans removing name from t. A name that is not there (a bye
// loser that was never forwarded, for example) plans nothing.
func (b *Bracket) occupiedSlot(t Target, name string, prefer int) (destination, error) {
	var (
		slots   slotPair
		decided bool
		id      string
	)
	switch t.Kind {
	case TargetNone:
		return skipped(SkipNoNextMatch), nil
	case TargetGrandFinal:
		if b.GrandFinal == nil {
			return destination{}, ErrNoGrandFinal
		}
		slots, decided, id = b.GrandFinal.slots(), b.GrandFinal.Winner != "", b.GrandFinal.ID
	default:
		next, ok := b.Matches[t.MatchID]
		if !ok {
			return destination{}, fmt.Errorf("%w: %q", ErrMatchNotFound, t.MatchID)
		}
		slots, decided, id = next.slots(), next.Decided(), next.ID
	}
	if name == "" {
		return skipped(SkipEmptyLoser), nil
	}
	slot := slots.holding(name, prefer)
	if slot == 0 {
		return skipped(SkipByeLoser), nil
	}
	if decided {
		return destination{}, fmt.Errorf("%w: %s", ErrTargetDecided, id)
	}
	return destination{target: t, slots: slots, slot: slot}, nil
}
