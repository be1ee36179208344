package communication

import (
	"context"
	"wars/game"
	"wars/gamemaster"
)

// Communicator is an interface that abstracts how a remote controller talks
// to a battle session.
type Communicator interface {
	GetState(ctx context.Context) (game.Snapshot, error)
	SendIntent(ctx context.Context, intent game.Intent) (game.Snapshot, error)
	GetSave(ctx context.Context) (string, error)
	// Updates streams session updates until the game ends or ctx is done.
	Updates(ctx context.Context) (<-chan gamemaster.Update, error)
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
