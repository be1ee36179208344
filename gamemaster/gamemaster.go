package gamemaster

import (
	"context"
	"fmt"
	"wars/agent"
	"wars/meta"
)

// GameMaster plays the computer-controlled teams of a session. Teams
// without an agent are left to remote or local players.
type GameMaster struct {
	Session *Session
	agents  map[int]agent.Agent
}

// NewGameMaster initializes a GameMaster with agents keyed by team.
func NewGameMaster(session *Session, agents map[int]agent.Agent) *GameMaster {
	return &GameMaster{
		Session: session,
		agents:  agents,
	}
}

// Step plays for computer teams until a player's team is active or the game
// ends, and returns the number of intents played.
func (gm *GameMaster) Step() (int, error) {
	played := 0
	for played < meta.MAX_MOVES {
		progressed := false
		for team, a := range gm.agents {
			ok, err := gm.Session.PlayFor(team, a.FindIntent)
			if err != nil {
				return played, fmt.Errorf("agent of team %d: %w", team, err)
			}
			if ok {
				played++
				progressed = true
				break
			}
		}
		if !progressed {
			return played, nil
		}
	}
	return played, fmt.Errorf("agents made %d moves without handing over", played)
}

// Run steps after every update until the game ends or ctx is done.
func (gm *GameMaster) Run(ctx context.Context) error {
	updates, detach := gm.Session.Subscribe()
	defer detach()

	if _, err := gm.Step(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-updates:
			if !ok {
				return nil
			}
			// drain so a burst of agent moves is handled by one step
			for len(updates) > 0 {
				<-updates
			}
			if _, err := gm.Step(); err != nil {
				return err
			}
		}
	}
}
