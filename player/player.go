package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"wars/communication"
	"wars/game"

	"github.com/rs/zerolog/log"
)

// ErrDisconnected is returned when the update stream ends before the game
// does.
var ErrDisconnected = errors.New("update stream closed before the game ended")

// Player is a console controller for one or more teams of a session.
type Player struct {
	// Teams lists the teams this console plays. Empty means every team.
	Teams        []int
	Communicator communication.Communicator

	in    *bufio.Scanner
	out   io.Writer
	state game.Snapshot
}

// NewPlayer creates a new Player reading commands from in.
func NewPlayer(comm communication.Communicator, in io.Reader, out io.Writer, teams ...int) *Player {
	return &Player{
		Teams:        teams,
		Communicator: comm,
		in:           bufio.NewScanner(in),
		out:          out,
	}
}

// Play runs the command loop until the game ends, the input runs dry or the
// player quits.
func (p *Player) Play(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates, err := p.Communicator.Updates(ctx)
	if err != nil {
		return err
	}

	drawn := false
	for {
		if err := p.SyncGameState(ctx); err != nil {
			return err
		}
		if p.state.GameOver {
			Render(p.out, p.state)
			fmt.Fprintf(p.out, "game over, %s wins\n", game.TeamColor(p.state.Winner))
			return nil
		}

		if !p.controls(p.state.ActiveTeam) {
			if !drawn {
				fmt.Fprintf(p.out, "waiting for %s\n", game.TeamColor(p.state.ActiveTeam))
				drawn = true
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case _, ok := <-updates:
				if !ok {
					if err := p.SyncGameState(ctx); err == nil && p.state.GameOver {
						continue
					}
					return ErrDisconnected
				}
			}
			continue
		}

		if !drawn {
			Render(p.out, p.state)
			drawn = true
		}
		fmt.Fprintf(p.out, "%s> ", game.TeamColor(p.state.ActiveTeam))
		if !p.in.Scan() {
			return p.in.Err()
		}
		quit, changed, err := p.handle(ctx, p.in.Text())
		if err != nil {
			fmt.Fprintln(p.out, err)
		}
		if quit {
			return nil
		}
		if changed {
			drawn = false
		}
	}
}

// SyncGameState refreshes the local copy of the session state.
func (p *Player) SyncGameState(ctx context.Context) error {
	state, err := p.Communicator.GetState(ctx)
	if err != nil {
		return err
	}
	p.state = state
	return nil
}

func (p *Player) controls(team int) bool {
	return len(p.Teams) == 0 || slices.Contains(p.Teams, team)
}

// handle executes one console line. It reports whether the console should
// stop and whether the board changed.
func (p *Player) handle(ctx context.Context, line string) (quit bool, changed bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, false, nil
	}
	switch strings.ToLower(fields[0]) {
	case "quit", "exit":
		return true, false, nil
	case "help", "?":
		fmt.Fprintln(p.out, help)
		return false, false, nil
	case "show":
		return false, true, nil
	case "legal":
		for _, i := range p.state.Legal {
			fmt.Fprintf(p.out, "  %s\n", i)
		}
		return false, false, nil
	case "save":
		if len(fields) != 2 {
			return false, false, fmt.Errorf("usage: save <file>")
		}
		save, err := p.Communicator.GetSave(ctx)
		if err != nil {
			return false, false, err
		}
		if err := os.WriteFile(fields[1], []byte(save), 0o644); err != nil {
			return false, false, err
		}
		fmt.Fprintf(p.out, "saved to %s\n", fields[1])
		return false, false, nil
	}

	intent, err := ParseCommand(line)
	if err != nil {
		return false, false, err
	}
	state, err := p.Communicator.SendIntent(ctx, intent)
	if err != nil {
		log.Debug().Err(err).Msgf("intent %s rejected", intent)
		return false, false, err
	}
	p.state = state
	return false, true, nil
}
