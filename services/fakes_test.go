package services

import (
	"context"
	"sync"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/Dosada05/tournament-brackets/storage"
)

type fakeTx struct{}

func (fakeTx) WithinTx(_ context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeTournamentRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{rows: make(map[int]models.Tournament)}
}

func (r *fakeTournamentRepo) Create(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.OrganizerID == t.OrganizerID && row.Name == t.Name {
			return repositories.ErrTournamentNameConflict
		}
	}
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	r.rows[t.ID] = *t
	return nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &row, nil
}

func (r *fakeTournamentRepo) List(_ context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Tournament{}
	for id := 1; id <= r.nextID && len(out) < filter.Limit; id++ {
		row, ok := r.rows[id]
		if !ok {
			continue
		}
		if filter.Status != nil && row.Status != *filter.Status {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakeTournamentRepo) UpdateOutcome(_ context.Context, _ repositories.SQLExecutor, id int, status models.TournamentStatus, champion *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	row.Status, row.Champion = status, champion
	r.rows[id] = row
	return nil
}

type fakeBracketRepo struct {
	mu   sync.Mutex
	rows map[int]models.StoredBracket
	// staleWrites makes the next Update fail as if another request won the race.
	staleWrites int
}

func newFakeBracketRepo() *fakeBracketRepo {
	return &fakeBracketRepo{rows: make(map[int]models.StoredBracket)}
}

func (r *fakeBracketRepo) Create(_ context.Context, _ repositories.SQLExecutor, tournamentID int, b *brackets.Bracket) (*models.StoredBracket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[tournamentID]; ok {
		return nil, repositories.ErrBracketExists
	}
	row := models.StoredBracket{TournamentID: tournamentID, Bracket: b.Clone(), Version: 1, UpdatedAt: time.Now()}
	r.rows[tournamentID] = row
	return &models.StoredBracket{TournamentID: tournamentID, Bracket: b, Version: 1, UpdatedAt: row.UpdatedAt}, nil
}

func (r *fakeBracketRepo) GetByTournamentID(_ context.Context, tournamentID int) (*models.StoredBracket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[tournamentID]
	if !ok {
		return nil, repositories.ErrBracketNotFound
	}
	row.Bracket = row.Bracket.Clone()
	return &row, nil
}

func (r *fakeBracketRepo) Update(_ context.Context, _ repositories.SQLExecutor, tournamentID int, b *brackets.Bracket, expectedVersion int) (*models.StoredBracket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[tournamentID]
	if !ok {
		return nil, repositories.ErrBracketNotFound
	}
	if r.staleWrites > 0 {
		r.staleWrites--
		return nil, repositories.ErrBracketVersionConflict
	}
	if row.Version != expectedVersion {
		return nil, repositories.ErrBracketVersionConflict
	}
	row = models.StoredBracket{TournamentID: tournamentID, Bracket: b.Clone(), Version: expectedVersion + 1, UpdatedAt: time.Now()}
	r.rows[tournamentID] = row
	return &models.StoredBracket{TournamentID: tournamentID, Bracket: b, Version: row.Version, UpdatedAt: row.UpdatedAt}, nil
}

func (r *fakeBracketRepo) version(tournamentID int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[tournamentID].Version
}

type fakeCache struct {
	mu          sync.Mutex
	rows        map[int]*models.StoredBracket
	hits        int
	invalidated []int
}

func newFakeCache() *fakeCache {
	return &fakeCache{rows: make(map[int]*models.StoredBracket)}
}

func (c *fakeCache) Get(_ context.Context, tournamentID int) (*models.StoredBracket, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	stored, ok := c.rows[tournamentID]
	if ok {
		c.hits++
	}
	return stored, ok, nil
}

func (c *fakeCache) Set(_ context.Context, stored *models.StoredBracket) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows[stored.TournamentID] = stored
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, tournamentID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rows, tournamentID)
	c.invalidated = append(c.invalidated, tournamentID)
	return nil
}

func (c *fakeCache) get(tournamentID int) *models.StoredBracket {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows[tournamentID]
}

type fakeArchive struct {
	mu        sync.Mutex
	versions  map[int][]int
	snapshots map[string]*brackets.Bracket
	err       error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{versions: make(map[int][]int), snapshots: make(map[string]*brackets.Bracket)}
}

func (a *fakeArchive) SaveSnapshot(_ context.Context, tournamentID, version int, b *brackets.Bracket) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.versions[tournamentID] = append(a.versions[tournamentID], version)
	a.snapshots[storage.SnapshotKey(tournamentID, version)] = b.Clone()
	return nil
}

func (a *fakeArchive) LoadSnapshot(_ context.Context, tournamentID, version int) (*brackets.Bracket, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	b, ok := a.snapshots[storage.SnapshotKey(tournamentID, version)]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return b.Clone(), nil
}

func (a *fakeArchive) saved(tournamentID int) []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]int(nil), a.versions[tournamentID]...)
}

type fakePublisher struct {
	mu        sync.Mutex
	published []int
}

func (p *fakePublisher) PublishBracket(_ context.Context, tournamentID int, _ *brackets.Bracket) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, tournamentID)
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.published)
}

type testEnv struct {
	tournaments *fakeTournamentRepo
	brackets    *fakeBracketRepo
	cache       *fakeCache
	archive     *fakeArchive
	publisher   *fakePublisher

	tournamentSvc TournamentService
	bracketSvc    BracketService
}

func newTestEnv(autoByes bool) *testEnv {
	env := &testEnv{
		tournaments: newFakeTournamentRepo(),
		brackets:    newFakeBracketRepo(),
		cache:       newFakeCache(),
		archive:     newFakeArchive(),
		publisher:   &fakePublisher{},
	}
	deps := BracketDeps{
		Tx:              fakeTx{},
		Tournaments:     env.tournaments,
		Brackets:        env.brackets,
		Cache:           env.cache,
		Archive:         env.archive,
		Publisher:       env.publisher,
		AutoAdvanceByes: autoByes,
	}
	env.tournamentSvc = NewTournamentService(deps)
	env.bracketSvc = NewBracketService(deps)
	return env
}

var (
	organizer = Actor{UserID: 1, Role: models.RoleOrganizer}
	stranger  = Actor{UserID: 2, Role: models.RoleOrganizer}
	admin     = Actor{UserID: 99, Role: models.RoleAdmin}
)
