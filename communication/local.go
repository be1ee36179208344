package communication

import (
	"context"
	"wars/game"
	"wars/gamemaster"
)

// Local talks to a session in the same process.
type Local struct {
	Session *gamemaster.Session
}

var _ Communicator = (*Local)(nil)

func NewLocal(session *gamemaster.Session) *Local {
	return &Local{Session: session}
}

func (l *Local) GetState(context.Context) (game.Snapshot, error) {
	return l.Session.Snapshot(), nil
}

func (l *Local) SendIntent(_ context.Context, intent game.Intent) (game.Snapshot, error) {
	if err := l.Session.Play(intent); err != nil {
		return game.Snapshot{}, err
	}
	return l.Session.Snapshot(), nil
}

func (l *Local) GetSave(context.Context) (string, error) {
	return l.Session.Save(), nil
}

func (l *Local) Updates(ctx context.Context) (<-chan gamemaster.Update, error) {
	updates, detach := l.Session.Subscribe()
	out := make(chan gamemaster.Update)
	go func() {
		defer close(out)
		defer detach()
		for {
			select {
			case <-ctx.Done():
				return
			case u, ok := <-updates:
				if !ok {
					return
				}
				select {
				case out <- u:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
