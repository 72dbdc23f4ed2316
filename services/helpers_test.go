package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/Dosada05/tournament-brackets/repositories"
	"github.com/stretchr/testify/assert"
)

func TestActorCanManage(t *testing.T) {
	tr := &models.Tournament{OrganizerID: 1}
	assert.True(t, organizer.canManage(tr))
	assert.False(t, stranger.canManage(tr))
	assert.True(t, admin.canManage(tr))
	assert.False(t, Actor{}.canManage(&models.Tournament{}))
}

func TestMapBracketError(t *testing.T) {
	tests := []struct {
		in   error
		want error
	}{
		{brackets.ErrMatchNotFound, ErrMatchNotFound},
		{brackets.ErrNoGrandFinal, ErrMatchNotFound},
		{brackets.ErrInvalidWinner, ErrInvalidResult},
		{brackets.ErrAlreadyDecided, ErrResultConflict},
		{brackets.ErrMatchNotReady, ErrResultConflict},
		{brackets.ErrNoResult, ErrResultConflict},
		{brackets.ErrTargetDecided, ErrResultConflict},
		{brackets.ErrNotEnoughEntrants, ErrValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.in.Error(), func(t *testing.T) {
			err := mapBracketError(fmt.Errorf("wrapped: %w", tt.in))
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.in)
		})
	}
	assert.NoError(t, mapBracketError(nil))

	other := errors.New("boom")
	assert.Equal(t, other, mapBracketError(other))
}

func TestHandleRepositoryError(t *testing.T) {
	assert.ErrorIs(t, handleRepositoryError(repositories.ErrTournamentNotFound), ErrTournamentNotFound)
	assert.ErrorIs(t, handleRepositoryError(repositories.ErrBracketNotFound), ErrBracketNotFound)
	assert.ErrorIs(t, handleRepositoryError(repositories.ErrBracketVersionConflict), ErrBracketVersionConflict)
	assert.ErrorIs(t, handleRepositoryError(repositories.ErrTournamentInvalidOrg), ErrValidationFailed)
}

func TestSameOutcome(t *testing.T) {
	a, b := "A", "B"
	tr := &models.Tournament{Status: models.StatusActive}
	assert.True(t, sameOutcome(tr, models.StatusActive, nil))
	assert.False(t, sameOutcome(tr, models.StatusCompleted, &a))

	tr = &models.Tournament{Status: models.StatusCompleted, Champion: &a}
	assert.True(t, sameOutcome(tr, models.StatusCompleted, &a))
	assert.False(t, sameOutcome(tr, models.StatusCompleted, &b))
}

func TestTournamentLocks(t *testing.T) {
	locks := newTournamentLocks()

	unlock := locks.lock(1)
	assert.Equal(t, 1, locks.size())

	acquired := make(chan struct{})
	go func() {
		u := locks.lock(1)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first is held")
	case <-time.After(50 * time.Millisecond):
	}

	other := locks.lock(2)
	other()

	unlock()
	<-acquired
	assert.Eventually(t, func() bool { return locks.size() == 0 }, time.Second, 5*time.Millisecond)
}

func TestTournamentLocksSerialize(t *testing.T) {
	locks := newTournamentLocks()
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock(7)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, counter)
	assert.Zero(t, locks.size())
}
