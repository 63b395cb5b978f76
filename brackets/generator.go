package brackets

import "context"

// BracketGenerator builds the opening state of a tournament bracket.
type BracketGenerator interface {
	Build(ctx context.Context, participantIDs []int) (*Bracket, error)

	GetName() string
}
