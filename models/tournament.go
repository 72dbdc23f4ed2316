package models

import (
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
)

// TournamentStatus представляет статусы турнира.
type TournamentStatus string

const (
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
)

func (s TournamentStatus) Valid() bool {
	return s == StatusActive || s == StatusCompleted
}

// Tournament представляет турнир. Entrants хранятся в порядке посева и
// используются при пересборке сетки.
type Tournament struct {
	ID          int              `json:"id"`
	Name        string           `json:"name"`
	OrganizerID int              `json:"organizer_id"`
	Format      brackets.Format  `json:"format"`
	Status      TournamentStatus `json:"status"`
	Entrants    []string         `json:"entrants"`
	Champion    *string          `json:"champion,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}
