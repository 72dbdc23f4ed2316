package brackets

import "fmt"

// FindMatch resolves id within the given rounds only, scanning rounds in order
// and then each round's matches.
func FindMatch(b *Bracket, rounds []Round, id string) (*Match, error) {
	for _, r := range rounds {
		for _, mid := range r.MatchIDs {
			if mid != id {
				continue
			}
			if m, ok := b.Matches[mid]; ok {
				return m, nil
			}
			return nil, fmt.Errorf("%w: %q is listed in round %d but missing from the arena", ErrMatchNotFound, id, r.Index)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrMatchNotFound, id)
}

// FindLosersMatch resolves id within the losers rounds. GrandFinalID resolves
// to the grand final without scanning; exactly one of the returned pointers is
// set on success.
func FindLosersMatch(b *Bracket, loserRounds []Round, id string) (*Match, *GrandFinal, error) {
	if id == GrandFinalID {
		if b.GrandFinal == nil {
			return nil, nil, ErrNoGrandFinal
		}
		return nil, b.GrandFinal, nil
	}
	m, err := FindMatch(b, loserRounds, id)
	if err != nil {
		return nil, nil, err
	}
	return m, nil, nil
}

// side reports which half of the bracket id belongs to.
type side uint8

const (
	sideUnknown side = iota
	sideWinners
	sideLosers
	sideGrandFinal
)

func (b *Bracket) sideOf(id string) side {
	if id == GrandFinalID && b.GrandFinal != nil {
		return sideGrandFinal
	}
	if _, err := FindMatch(b, b.Rounds, id); err == nil {
		return sideWinners
	}
	if _, err := FindMatch(b, b.LoserRounds, id); err == nil {
		return sideLosers
	}
	return sideUnknown
}
