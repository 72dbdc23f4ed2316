package brackets

// AdvanceByes decides every ready, undecided match that has a bye in it and
// repeats until nothing changes. A real entrant beats a bye; two byes produce a
// "Bye" winner so the slot it feeds resolves as well. In the winners bracket a
// bye loser is written into its losers slot, and losers slots that no match can
// ever feed are filled with byes, so the losers bracket resolves the same way.
//
// The builders never call this; callers opt in, and must call it again after
// each recorded result for byes further down the bracket to clear.
func (b *Bracket) AdvanceByes() ([]Result, error) {
	b.fillUnfedSlots()

	var results []Result
	for changed := true; changed; {
		changed = false
		for _, r := range b.Rounds {
			for _, id := range r.MatchIDs {
				m := b.Matches[id]
				winner, ok := byeWinner(m)
				if !ok {
					continue
				}
				res, err := b.recordWinners(m, winner, true)
				if err != nil {
					return results, err
				}
				results = append(results, res)
				changed = true
			}
		}
		for _, r := range b.LoserRounds {
			for _, id := range r.MatchIDs {
				m := b.Matches[id]
				winner, ok := byeWinner(m)
				if !ok {
					continue
				}
				res, err := b.recordLosers(m, winner)
				if err != nil {
					return results, err
				}
				results = append(results, res)
				changed = true
			}
		}
	}
	return results, nil
}

func byeWinner(m *Match) (string, bool) {
	if m.Decided() || !m.Ready() {
		return "", false
	}
	switch {
	case m.Slot1 == Bye:
		return m.Slot2, true
	case m.Slot2 == Bye:
		return m.Slot1, true
	}
	return "", false
}

// fillUnfedSlots writes a bye into losers slots that have no feeding match.
// This only happens in the smallest double-elimination brackets, where losers
// round 1 has a single feeder.
func (b *Bracket) fillUnfedSlots() {
	if len(b.LoserRounds) == 0 {
		return
	}
	type feed struct {
		fixed      [3]bool
		firstEmpty int
	}
	feeds := make(map[string]*feed)
	get := func(id string) *feed {
		f, ok := feeds[id]
		if !ok {
			f = &feed{}
			feeds[id] = f
		}
		return f
	}
	for _, m := range b.Matches {
		if m.NextMatchID.Kind == TargetMatch {
			get(m.NextMatchID.MatchID).firstEmpty++
		}
		if m.LoserNextMatchID != "" && (m.LoserSlot == 1 || m.LoserSlot == 2) {
			get(m.LoserNextMatchID).fixed[m.LoserSlot] = true
		}
	}

	for _, r := range b.LoserRounds {
		for _, id := range r.MatchIDs {
			m := b.Matches[id]
			f := get(id)
			fed := f.firstEmpty
			if f.fixed[1] {
				fed++
			}
			if f.fixed[2] {
				fed++
			}
			for _, slot := range []int{2, 1} {
				if fed >= 2 {
					break
				}
				if f.fixed[slot] {
					continue
				}
				s := m.slots()
				if s.get(slot) == "" {
					s.set(slot, Bye)
				}
				fed++
			}
		}
	}
}
