package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"wars/agent"
	"wars/communication"
	"wars/communication/client"
	"wars/communication/server"
	"wars/config"
	"wars/game"
	"wars/gamemaster"
	"wars/player"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const humanLabel = "human"

// computerTeams parses "team=agent" pairs into agents keyed by team and a
// controller label per team.
func computerTeams(pairs []string, numPlayers int, seed uint64) (map[int]agent.Agent, []string, error) {
	agents := make(map[int]agent.Agent)
	labels := slices.Repeat([]string{humanLabel}, numPlayers)
	for _, pair := range pairs {
		teamStr, name, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad --ai value %q, want team=agent", pair)
		}
		team, err := strconv.Atoi(teamStr)
		if err != nil || team < 0 || team >= numPlayers {
			return nil, nil, fmt.Errorf("bad team %q for a %d player map", teamStr, numPlayers)
		}
		a, err := agent.New(name, seed+uint64(team))
		if err != nil {
			return nil, nil, err
		}
		agents[team] = a
		labels[team] = name
	}
	return agents, labels, nil
}

// startSession builds the session for a map, with history when enabled, and
// starts the game master for the computer teams.
func startSession(ctx context.Context, path string, ai []string, opts ...gamemaster.Option) (*gamemaster.Session, []int, error) {
	s, err := loadScenario(path)
	if err != nil {
		return nil, nil, err
	}
	battleCfg := config.GetBattleConfig()
	battleOpts, err := battleOptions(battleCfg)
	if err != nil {
		return nil, nil, err
	}
	agents, labels, err := computerTeams(ai, s.NumPlayers, battleCfg.Seed)
	if err != nil {
		return nil, nil, err
	}

	opts = append(opts, gamemaster.WithBattleOptions(battleOpts...), gamemaster.WithAgents(labels...))
	store, err := openHistory()
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		opts = append(opts, gamemaster.WithHistory(store, filepath.Base(path)))
	}
	session, err := gamemaster.NewSession(s, opts...)
	if err != nil {
		return nil, nil, err
	}

	var humans []int
	for team, label := range labels {
		if label == humanLabel {
			humans = append(humans, team)
		}
	}

	if len(agents) > 0 {
		gm := gamemaster.NewGameMaster(session, agents)
		go func() {
			if err := gm.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("game master stopped")
			}
		}()
	}
	return session, humans, nil
}

func serveCmd() *cobra.Command {
	var (
		addr string
		ai   []string
		wait bool
	)
	cmd := &cobra.Command{
		Use:   "serve <map>",
		Short: "Host a battle over HTTP and websocket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			var opts []gamemaster.Option
			if wait {
				opts = append(opts, gamemaster.WithoutBeginTurn())
			}
			session, _, err := startSession(ctx, args[0], ai, opts...)
			if err != nil {
				return err
			}
			defer session.Close()

			srv, err := server.NewServer(session)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = config.GetServerConfig().Addr
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringSliceVar(&ai, "ai", nil, "computer teams as team=agent, e.g. 1=greedy")
	cmd.Flags().BoolVar(&wait, "wait", false, "leave the first turn for a client to begin")
	return cmd
}

func playCmd() *cobra.Command {
	var ai []string
	cmd := &cobra.Command{
		Use:   "play <map>",
		Short: "Play a battle hot-seat in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			session, humans, err := startSession(ctx, args[0], ai)
			if err != nil {
				return err
			}
			defer session.Close()
			if len(humans) == 0 {
				return fmt.Errorf("every team is a computer, use simulate instead")
			}

			color.New(color.FgCyan, color.Bold).Println("type help for commands")
			p := player.NewPlayer(communication.NewLocal(session), os.Stdin, os.Stdout, humans...)
			return p.Play(ctx)
		},
	}
	cmd.Flags().StringSliceVar(&ai, "ai", nil, "computer teams as team=agent, e.g. 1=greedy")
	return cmd
}

func joinCmd() *cobra.Command {
	var teams []int
	cmd := &cobra.Command{
		Use:   "join <url>",
		Short: "Play a served battle from the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			comm := client.NewClientCommunicator(args[0])
			snap, err := comm.GetState(ctx)
			if err != nil {
				return fmt.Errorf("cannot reach %s: %w", args[0], err)
			}
			for _, team := range teams {
				if team < 0 || team >= len(snap.Teams) {
					return fmt.Errorf("team %d is not in this battle", team)
				}
			}
			names := make([]string, len(teams))
			for i, team := range teams {
				names[i] = game.TeamColor(team)
			}
			if len(names) > 0 {
				color.Cyan("joined as %s", strings.Join(names, ", "))
			}
			p := player.NewPlayer(comm, os.Stdin, os.Stdout, teams...)
			return p.Play(ctx)
		},
	}
	cmd.Flags().IntSliceVarP(&teams, "team", "t", nil, "teams to play (default all)")
	return cmd
}
