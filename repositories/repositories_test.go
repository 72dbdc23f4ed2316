package repositories

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleTournamentError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"name conflict", &pq.Error{Code: "23505", Constraint: "tournaments_organizer_id_name_key"}, ErrTournamentNameConflict},
		{"wrapped name conflict", fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "tournaments_organizer_id_name_key"}), ErrTournamentNameConflict},
		{"unknown organizer", &pq.Error{Code: "23503", Constraint: "tournaments_organizer_id_fkey"}, ErrTournamentInvalidOrg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handleTournamentError(tt.err)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}

	other := errors.New("connection reset")
	assert.Same(t, other, handleTournamentError(other))
}

func TestHandleUserError(t *testing.T) {
	assert.ErrorIs(t, handleUserError(&pq.Error{Code: "23505", Constraint: "users_email_key"}), ErrUserEmailConflict)

	check := &pq.Error{Code: "23514", Constraint: "users_role_check"}
	assert.Equal(t, error(check), handleUserError(check))
}

func TestDecodeBracket(t *testing.T) {
	b := brackets.BuildDoubleElimination([]string{"A", "B", "C"})
	data, err := json.Marshal(b)
	require.NoError(t, err)

	got, err := DecodeBracket(data)
	require.NoError(t, err)
	assert.Equal(t, b, got)

	_, err = DecodeBracket([]byte(`{"rounds": 5}`))
	require.Error(t, err)

	_, err = DecodeBracket([]byte(`{"format": "single_elimination", "rounds": [{"roundIndex": 1, "matchIds": ["ghost"]}]}`))
	require.ErrorIs(t, err, brackets.ErrInvalidBracket)
}
