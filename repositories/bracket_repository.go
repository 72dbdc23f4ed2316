package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/lib/pq"
)

var (
	ErrBracketNotFound        = errors.New("bracket not found")
	ErrBracketExists          = errors.New("bracket already exists for this tournament")
	ErrBracketVersionConflict = errors.New("bracket was modified concurrently")
)

type BracketRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournamentID int, b *brackets.Bracket) (*models.StoredBracket, error)
	GetByTournamentID(ctx context.Context, tournamentID int) (*models.StoredBracket, error)
	// Update writes b only if the stored version still equals expectedVersion
	// and returns the new version.
	Update(ctx context.Context, exec SQLExecutor, tournamentID int, b *brackets.Bracket, expectedVersion int) (*models.StoredBracket, error)
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) Create(ctx context.Context, exec SQLExecutor, tournamentID int, b *brackets.Bracket) (*models.StoredBracket, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket: %w", err)
	}
	query := `
		INSERT INTO brackets (tournament_id, data, version)
		VALUES ($1, $2, 1)
		RETURNING version, updated_at`

	stored := &models.StoredBracket{TournamentID: tournamentID, Bracket: b}
	err = executorOr(exec, r.db).QueryRowContext(ctx, query, tournamentID, data).Scan(&stored.Version, &stored.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				return nil, ErrBracketExists
			case "23503":
				return nil, ErrTournamentNotFound
			}
		}
		return nil, fmt.Errorf("failed to insert bracket for tournament %d: %w", tournamentID, err)
	}
	return stored, nil
}

func (r *postgresBracketRepository) GetByTournamentID(ctx context.Context, tournamentID int) (*models.StoredBracket, error) {
	query := `SELECT data, version, updated_at FROM brackets WHERE tournament_id = $1`

	var data []byte
	stored := &models.StoredBracket{TournamentID: tournamentID}
	err := r.db.QueryRowContext(ctx, query, tournamentID).Scan(&data, &stored.Version, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, fmt.Errorf("failed to load bracket for tournament %d: %w", tournamentID, err)
	}

	b, err := DecodeBracket(data)
	if err != nil {
		return nil, fmt.Errorf("bracket for tournament %d: %w", tournamentID, err)
	}
	stored.Bracket = b
	return stored, nil
}

func (r *postgresBracketRepository) Update(ctx context.Context, exec SQLExecutor, tournamentID int, b *brackets.Bracket, expectedVersion int) (*models.StoredBracket, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bracket: %w", err)
	}
	query := `
		UPDATE brackets SET data = $1, version = version + 1, updated_at = now()
		WHERE tournament_id = $2 AND version = $3
		RETURNING version, updated_at`

	stored := &models.StoredBracket{TournamentID: tournamentID, Bracket: b}
	err = executorOr(exec, r.db).QueryRowContext(ctx, query, data, tournamentID, expectedVersion).Scan(&stored.Version, &stored.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketVersionConflict
		}
		return nil, fmt.Errorf("failed to update bracket for tournament %d: %w", tournamentID, err)
	}
	return stored, nil
}

// DecodeBracket parses a persisted bracket, including the older nested
// layouts, and checks that the result is structurally sound.
func DecodeBracket(data []byte) (*brackets.Bracket, error) {
	var b brackets.Bracket
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("malformed bracket json: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}
