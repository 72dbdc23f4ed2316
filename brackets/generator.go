package brackets

import (
	"context"
	"fmt"
)

type GenerateBracketParams struct {
	Entrants []string
	// IDPrefix is passed to WithIDPrefix; empty keeps the default.
	IDPrefix string
}

func (p GenerateBracketParams) validate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(p.Entrants) < 2 {
		return fmt.Errorf("%w: got %d", ErrNotEnoughEntrants, len(p.Entrants))
	}
	return nil
}

type BracketGenerator interface {
	GenerateBracket(ctx context.Context, params GenerateBracketParams) (*Bracket, error)

	GetName() string
}

func NewGenerator(format Format) (BracketGenerator, error) {
	switch format {
	case FormatSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case FormatDoubleElimination:
		return NewDoubleEliminationGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
