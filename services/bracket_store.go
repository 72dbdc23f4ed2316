package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BracketPublisher pushes a new bracket state to live viewers.
type BracketPublisher interface {
	PublishBracket(ctx context.Context, tournamentID int, b *brackets.Bracket) error
}

// SnapshotArchiver keeps a copy of every bracket version outside the database.
type SnapshotArchiver interface {
	SaveSnapshot(ctx context.Context, tournamentID, version int, b *brackets.Bracket) error
	LoadSnapshot(ctx context.Context, tournamentID, version int) (*brackets.Bracket, error)
}

type BracketCache interface {
	Get(ctx context.Context, tournamentID int) (*models.StoredBracket, bool, error)
	Set(ctx context.Context, stored *models.StoredBracket) error
	Invalidate(ctx context.Context, tournamentID int) error
}

// BracketDeps wires the tournament and bracket services. Cache, Archive and
// Publisher are optional.
type BracketDeps struct {
	Tx          repositories.Transactor
	Tournaments repositories.TournamentRepository
	Brackets    repositories.BracketRepository

	Cache     BracketCache
	Archive   SnapshotArchiver
	Publisher BracketPublisher

	AutoAdvanceByes bool
	Logger          *slog.Logger
}

type bracketStore struct {
	BracketDeps
}

func newBracketStore(deps BracketDeps) *bracketStore {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &bracketStore{BracketDeps: deps}
}

// build generates a fresh bracket with a per-build id prefix so that match
// ids never repeat across resets of the same tournament.
func (s *bracketStore) build(ctx context.Context, format brackets.Format, entrants []string) (*brackets.Bracket, []brackets.Result, error) {
	gen, err := brackets.NewGenerator(format)
	if err != nil {
		return nil, nil, mapBracketError(err)
	}
	b, err := gen.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Entrants: entrants,
		IDPrefix: uuid.NewString()[:8] + "-m",
	})
	if err != nil {
		return nil, nil, mapBracketError(err)
	}
	if !s.AutoAdvanceByes {
		return b, nil, nil
	}
	byes, err := b.AdvanceByes()
	if err != nil {
		return nil, nil, mapBracketError(err)
	}
	return b, byes, nil
}

// commit stores next as the successor of current. The database write and the
// snapshot upload run concurrently; a failed snapshot is logged and does not
// fail the write.
func (s *bracketStore) commit(ctx context.Context, t *models.Tournament, current *models.StoredBracket, next *brackets.Bracket) (*models.StoredBracket, error) {
	status, champion := outcomeOf(next)
	version := current.Version + 1

	var stored *models.StoredBracket
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Tx.WithinTx(gctx, func(exec repositories.SQLExecutor) error {
			var err error
			stored, err = s.Brackets.Update(gctx, exec, t.ID, next, current.Version)
			if err != nil {
				return err
			}
			if sameOutcome(t, status, champion) {
				return nil
			}
			return s.Tournaments.UpdateOutcome(gctx, exec, t.ID, status, champion)
		})
	})
	if s.Archive != nil {
		g.Go(func() error {
			s.snapshot(gctx, t.ID, version, next)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.invalidate(ctx, t.ID)
		return nil, handleRepositoryError(err)
	}

	t.Status, t.Champion = status, champion
	s.published(ctx, stored)
	return stored, nil
}

// created runs the side effects of a freshly inserted bracket.
func (s *bracketStore) created(ctx context.Context, stored *models.StoredBracket) {
	g, gctx := errgroup.WithContext(ctx)
	if s.Archive != nil {
		g.Go(func() error {
			s.snapshot(gctx, stored.TournamentID, stored.Version, stored.Bracket)
			return nil
		})
	}
	g.Go(func() error {
		s.cacheSet(gctx, stored)
		return nil
	})
	_ = g.Wait()
}

func (s *bracketStore) published(ctx context.Context, stored *models.StoredBracket) {
	s.cacheSet(ctx, stored)
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.PublishBracket(ctx, stored.TournamentID, stored.Bracket); err != nil {
		s.Logger.Warn("failed to publish bracket update",
			slog.Int("tournament_id", stored.TournamentID), slog.Any("error", err))
	}
}

func (s *bracketStore) load(ctx context.Context, tournamentID int) (*models.StoredBracket, error) {
	if s.Cache != nil {
		stored, ok, err := s.Cache.Get(ctx, tournamentID)
		if err != nil {
			s.Logger.Warn("bracket cache read failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		} else if ok {
			return stored, nil
		}
	}
	stored, err := s.Brackets.GetByTournamentID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	s.cacheSet(ctx, stored)
	return stored, nil
}

func (s *bracketStore) snapshot(ctx context.Context, tournamentID, version int, b *brackets.Bracket) {
	if err := s.Archive.SaveSnapshot(ctx, tournamentID, version, b); err != nil {
		s.Logger.Warn("failed to archive bracket snapshot",
			slog.Int("tournament_id", tournamentID), slog.Int("version", version), slog.Any("error", err))
	}
}

func (s *bracketStore) cacheSet(ctx context.Context, stored *models.StoredBracket) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, stored); err != nil {
		s.Logger.Warn("bracket cache write failed", slog.Int("tournament_id", stored.TournamentID), slog.Any("error", err))
	}
}

func (s *bracketStore) invalidate(ctx context.Context, tournamentID int) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, tournamentID); err != nil {
		s.Logger.Warn("bracket cache invalidation failed", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
	}
}
