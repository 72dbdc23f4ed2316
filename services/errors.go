package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrPasswordTooShort = errors.New("password is too short")

	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
	ErrBracketNotFound        = errors.New("bracket not found")
	ErrMatchNotFound          = errors.New("match not found")
	ErrSnapshotNotFound       = errors.New("bracket snapshot not found")

	// Ошибки записи результатов
	ErrInvalidResult          = errors.New("invalid match result")
	ErrResultConflict         = errors.New("result conflicts with the current bracket state")
	ErrBracketVersionConflict = errors.New("bracket was changed by another request, retry")
)
