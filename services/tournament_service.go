package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type CreateTournamentInput struct {
	Name     string          `json:"name"`
	Format   brackets.Format `json:"format"`
	Entrants []string        `json:"entrants"`
}

type CreatedTournament struct {
	Tournament *models.Tournament    `json:"tournament"`
	Bracket    *models.StoredBracket `json:"bracket"`
	Byes       []brackets.Result     `json:"byes,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, actor Actor, input CreateTournamentInput) (*CreatedTournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
}

type tournamentService struct {
	store *bracketStore
}

func NewTournamentService(deps BracketDeps) TournamentService {
	return &tournamentService{store: newBracketStore(deps)}
}

func (s *tournamentService) Create(ctx context.Context, actor Actor, input CreateTournamentInput) (*CreatedTournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if !input.Format.Valid() {
		return nil, fmt.Errorf("%w: format must be %q or %q", ErrValidationFailed, brackets.FormatSingleElimination, brackets.FormatDoubleElimination)
	}
	entrants, err := normalizeEntrants(input.Entrants)
	if err != nil {
		return nil, err
	}

	b, byes, err := s.store.build(ctx, input.Format, entrants)
	if err != nil {
		return nil, err
	}

	t := &models.Tournament{
		Name:        name,
		OrganizerID: actor.UserID,
		Format:      input.Format,
		Status:      models.StatusActive,
		Entrants:    entrants,
	}
	var stored *models.StoredBracket
	err = s.store.Tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.store.Tournaments.Create(ctx, exec, t); err != nil {
			return err
		}
		stored, err = s.store.Brackets.Create(ctx, exec, t.ID, b)
		return err
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.store.created(ctx, stored)
	s.store.Logger.Info("tournament created",
		slog.Int("tournament_id", t.ID),
		slog.String("format", string(t.Format)),
		slog.Int("entrants", len(entrants)))
	return &CreatedTournament{Tournament: t, Bracket: stored, Byes: byes}, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.store.Tournaments.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, *filter.Status)
	}
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrValidationFailed)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}
	tournaments, err := s.store.Tournaments.List(ctx, filter)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return tournaments, nil
}
