package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
)

// Actor is the authenticated user on whose behalf a service call runs.
type Actor struct {
	UserID int
	Role   models.UserRole
}

func (a Actor) canManage(t *models.Tournament) bool {
	return a.Role == models.RoleAdmin || (a.UserID > 0 && a.UserID == t.OrganizerID)
}

// mapBracketError translates engine errors into service sentinels while
// keeping the engine error in the chain.
func mapBracketError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, brackets.ErrMatchNotFound),
		errors.Is(err, brackets.ErrNoGrandFinal):
		return fmt.Errorf("%w: %w", ErrMatchNotFound, err)
	case errors.Is(err, brackets.ErrInvalidWinner):
		return fmt.Errorf("%w: %w", ErrInvalidResult, err)
	case errors.Is(err, brackets.ErrAlreadyDecided),
		errors.Is(err, brackets.ErrMatchNotReady),
		errors.Is(err, brackets.ErrNoResult),
		errors.Is(err, brackets.ErrTargetFull),
		errors.Is(err, brackets.ErrSlotOccupied),
		errors.Is(err, brackets.ErrTargetDecided):
		return fmt.Errorf("%w: %w", ErrResultConflict, err)
	case errors.Is(err, brackets.ErrNotEnoughEntrants),
		errors.Is(err, brackets.ErrUnsupportedFormat):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	default:
		return err
	}
}

// handleRepositoryError maps repository sentinels onto service sentinels.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrTournamentNameConflict):
		return ErrTournamentNameConflict
	case errors.Is(err, repositories.ErrTournamentInvalidOrg):
		return fmt.Errorf("%w: unknown organizer", ErrValidationFailed)
	case errors.Is(err, repositories.ErrBracketNotFound):
		return ErrBracketNotFound
	case errors.Is(err, repositories.ErrBracketVersionConflict):
		return ErrBracketVersionConflict
	default:
		return err
	}
}

// normalizeEntrants trims names and rejects blanks, duplicates and the
// reserved bye marker.
func normalizeEntrants(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, name := range in {
		name = strings.TrimSpace(name)
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: entrant %d has an empty name", ErrValidationFailed, i+1)
		case name == brackets.Bye:
			return nil, fmt.Errorf("%w: %q is reserved", ErrValidationFailed, brackets.Bye)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate entrant %q", ErrValidationFailed, name)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func outcomeOf(b *brackets.Bracket) (models.TournamentStatus, *string) {
	if champion, ok := b.Champion(); ok {
		return models.StatusCompleted, &champion
	}
	return models.StatusActive, nil
}

func sameOutcome(t *models.Tournament, status models.TournamentStatus, champion *string) bool {
	if t.Status != status {
		return false
	}
	if t.Champion == nil || champion == nil {
		return t.Champion == nil && champion == nil
	}
	return *t.Champion == *champion
}
