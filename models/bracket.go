package models

import (
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
)

// StoredBracket is a bracket row together with its optimistic-lock version.
type StoredBracket struct {
	TournamentID int               `json:"tournament_id"`
	Bracket      *brackets.Bracket `json:"bracket"`
	Version      int               `json:"version"`
	UpdatedAt    time.Time         `json:"updated_at"`
}
