package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/storage"
)

type ResultOutcome struct {
	Result   brackets.Result       `json:"result"`
	Byes     []brackets.Result     `json:"byes,omitempty"`
	Champion *string               `json:"champion,omitempty"`
	Bracket  *models.StoredBracket `json:"bracket"`
}

type BracketService interface {
	Get(ctx context.Context, tournamentID int) (*models.StoredBracket, error)
	RecordResult(ctx context.Context, actor Actor, tournamentID int, matchID, winner string) (*ResultOutcome, error)
	ClearResult(ctx context.Context, actor Actor, tournamentID int, matchID string) (*ResultOutcome, error)
	// Reset rebuilds the bracket from the tournament's entrants, discarding
	// every recorded result.
	Reset(ctx context.Context, actor Actor, tournamentID int) (*models.StoredBracket, error)
	// GetVersion returns an archived bracket version.
	GetVersion(ctx context.Context, tournamentID, version int) (*models.StoredBracket, error)
}

type bracketService struct {
	store *bracketStore
	locks *tournamentLocks
}

func NewBracketService(deps BracketDeps) BracketService {
	return &bracketService{
		store: newBracketStore(deps),
		locks: newTournamentLocks(),
	}
}

func (s *bracketService) Get(ctx context.Context, tournamentID int) (*models.StoredBracket, error) {
	return s.store.load(ctx, tournamentID)
}

func (s *bracketService) GetVersion(ctx context.Context, tournamentID, version int) (*models.StoredBracket, error) {
	if version <= 0 {
		return nil, fmt.Errorf("%w: version must be positive", ErrValidationFailed)
	}
	if s.store.Archive == nil {
		return nil, fmt.Errorf("%w: archive is disabled", ErrSnapshotNotFound)
	}
	if _, err := s.store.Tournaments.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	b, err := s.store.Archive.LoadSnapshot(ctx, tournamentID, version)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("%w: version %d", ErrSnapshotNotFound, version)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load bracket snapshot: %w", err)
	}
	return &models.StoredBracket{TournamentID: tournamentID, Bracket: b, Version: version}, nil
}

func (s *bracketService) RecordResult(ctx context.Context, actor Actor, tournamentID int, matchID, winner string) (*ResultOutcome, error) {
	return s.mutate(ctx, actor, tournamentID, true, func(b *brackets.Bracket) (brackets.Result, error) {
		return b.RecordResult(matchID, winner)
	})
}

func (s *bracketService) ClearResult(ctx context.Context, actor Actor, tournamentID int, matchID string) (*ResultOutcome, error) {
	return s.mutate(ctx, actor, tournamentID, false, func(b *brackets.Bracket) (brackets.Result, error) {
		return b.ClearResult(matchID)
	})
}

func (s *bracketService) Reset(ctx context.Context, actor Actor, tournamentID int) (*models.StoredBracket, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	t, current, err := s.loadForWrite(ctx, actor, tournamentID)
	if err != nil {
		return nil, err
	}
	next, _, err := s.store.build(ctx, t.Format, t.Entrants)
	if err != nil {
		return nil, err
	}
	stored, err := s.store.commit(ctx, t, current, next)
	if err != nil {
		return nil, err
	}
	s.store.Logger.Info("bracket reset", slog.Int("tournament_id", tournamentID), slog.Int("version", stored.Version))
	return stored, nil
}

// mutate applies op to a copy of the stored bracket and commits the copy.
// The stored bracket is never modified, so a failed op or write leaves
// nothing to roll back in memory.
func (s *bracketService) mutate(ctx context.Context, actor Actor, tournamentID int, advanceByes bool, op func(b *brackets.Bracket) (brackets.Result, error)) (*ResultOutcome, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	t, current, err := s.loadForWrite(ctx, actor, tournamentID)
	if err != nil {
		return nil, err
	}

	next := current.Bracket.Clone()
	res, err := op(next)
	if err != nil {
		return nil, mapBracketError(err)
	}
	out := &ResultOutcome{Result: res}
	if advanceByes && s.store.AutoAdvanceByes {
		if out.Byes, err = next.AdvanceByes(); err != nil {
			return nil, mapBracketError(err)
		}
	}

	stored, err := s.store.commit(ctx, t, current, next)
	if err != nil {
		return nil, err
	}
	out.Bracket = stored
	out.Champion = t.Champion
	s.store.Logger.Info("bracket updated",
		slog.Int("tournament_id", tournamentID),
		slog.String("match_id", res.MatchID),
		slog.Int("version", stored.Version))
	return out, nil
}

// loadForWrite reads from the repository, never the cache, so the version
// used for the optimistic write is the current one.
func (s *bracketService) loadForWrite(ctx context.Context, actor Actor, tournamentID int) (*models.Tournament, *models.StoredBracket, error) {
	t, err := s.store.Tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, nil, handleRepositoryError(err)
	}
	if !actor.canManage(t) {
		return nil, nil, ErrForbiddenOperation
	}
	current, err := s.store.Brackets.GetByTournamentID(ctx, tournamentID)
	if err != nil {
		return nil, nil, handleRepositoryError(err)
	}
	return t, current, nil
}
