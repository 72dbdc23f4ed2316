package brackets

import "errors"

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrNoGrandFinal   = errors.New("bracket has no grand final")
	ErrInvalidWinner  = errors.New("winner must be one of the match slots")
	ErrAlreadyDecided = errors.New("match already has a winner")
	ErrMatchNotReady  = errors.New("match is missing an entrant")
	ErrNoResult       = errors.New("match has no recorded winner")
	ErrTargetFull     = errors.New("both slots of the next match are taken")
	ErrSlotOccupied   = errors.New("target slot holds a different entrant")
	ErrInvalidSlot    = errors.New("loser slot must be 1 or 2")
	ErrTargetDecided  = errors.New("downstream match is already decided")

	ErrNotEnoughEntrants = errors.New("not enough entrants to generate a bracket (minimum 2)")
	ErrUnsupportedFormat = errors.New("unsupported bracket format")
	ErrInvalidBracket    = errors.New("invalid bracket structure")
)
