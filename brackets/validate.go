package brackets

import (
	"errors"
	"fmt"
)

type position struct {
	losers bool
	round  int
}

// Validate checks the structure of a bracket, typically one rehydrated from
// storage: round ids resolve, every match sits in exactly one round, targets
// point into the following round, and recorded winners are playing.
func (b *Bracket) Validate() error {
	var errs []error
	if !b.Format.Valid() {
		errs = append(errs, fmt.Errorf("unknown format %q", b.Format))
	}
	if len(b.Rounds) == 0 {
		errs = append(errs, errors.New("bracket has no rounds"))
	}
	double := b.Format == FormatDoubleElimination
	if double && b.GrandFinal == nil {
		errs = append(errs, ErrNoGrandFinal)
	}
	if !double && (b.GrandFinal != nil || len(b.LoserRounds) > 0) {
		errs = append(errs, errors.New("single elimination bracket carries a losers bracket"))
	}

	pos := make(map[string]position, len(b.Matches))
	index := func(rounds []Round, losers bool) {
		for ri, r := range rounds {
			for _, id := range r.MatchIDs {
				if _, ok := b.Matches[id]; !ok {
					errs = append(errs, fmt.Errorf("round %d lists unknown match %q", r.Index, id))
					continue
				}
				if _, dup := pos[id]; dup {
					errs = append(errs, fmt.Errorf("match %q appears in more than one round", id))
					continue
				}
				pos[id] = position{losers: losers, round: ri}
			}
		}
	}
	index(b.Rounds, false)
	index(b.LoserRounds, true)

	for id, m := range b.Matches {
		p, ok := pos[id]
		if !ok {
			errs = append(errs, fmt.Errorf("match %q is not in any round", id))
			continue
		}
		if m.ID != id {
			errs = append(errs, fmt.Errorf("match stored under %q has id %q", id, m.ID))
		}
		if m.Winner != "" && !m.slots().contains(m.Winner) {
			errs = append(errs, fmt.Errorf("match %q: %w", id, ErrInvalidWinner))
		}
		rounds := b.Rounds
		if p.losers {
			rounds = b.LoserRounds
		}
		last := p.round == len(rounds)-1
		switch t := m.NextMatchID; {
		case t.Kind == TargetMatch:
			np, ok := pos[t.MatchID]
			if !ok || np.losers != p.losers || np.round != p.round+1 {
				errs = append(errs, fmt.Errorf("match %q: next match %q is not in the following round", id, t.MatchID))
			}
		case t.Kind == TargetGrandFinal:
			if !double || !last {
				errs = append(errs, fmt.Errorf("match %q: only a bracket final may feed the grand final", id))
			}
		case !last:
			errs = append(errs, fmt.Errorf("match %q has no next match", id))
		case double:
			errs = append(errs, fmt.Errorf("match %q: final does not feed the grand final", id))
		}
		if m.LoserNextMatchID != "" {
			lp, ok := pos[m.LoserNextMatchID]
			if p.losers || !ok || !lp.losers {
				errs = append(errs, fmt.Errorf("match %q: loser target %q is not a losers match", id, m.LoserNextMatchID))
			}
			if m.LoserSlot != 1 && m.LoserSlot != 2 {
				errs = append(errs, fmt.Errorf("match %q: %w", id, ErrInvalidSlot))
			}
		}
	}
	if gf := b.GrandFinal; gf != nil && gf.Winner != "" && !gf.slots().contains(gf.Winner) {
		errs = append(errs, fmt.Errorf("grand final: %w", ErrInvalidWinner))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidBracket, errors.Join(errs...))
	}
	return nil
}
