package services

import "sync"

// tournamentLocks serializes bracket mutations per tournament. Entries are
// dropped once nobody holds or waits for them.
type tournamentLocks struct {
	mu    sync.Mutex
	locks map[int]*tournamentLock
}

type tournamentLock struct {
	mu   sync.Mutex
	refs int
}

func newTournamentLocks() *tournamentLocks {
	return &tournamentLocks{locks: make(map[int]*tournamentLock)}
}

// lock blocks until id is free and returns the matching unlock.
func (l *tournamentLocks) lock(id int) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &tournamentLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

func (l *tournamentLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
