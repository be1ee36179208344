package engine

import (
	"fmt"
	"time"
	"wars/agent"
	"wars/experiments/metrics"
	"wars/game"
	"wars/meta"

	"github.com/rs/zerolog/log"
)

type LocalEngine struct {
	Battle    *game.Battle
	Agents    []agent.Agent
	maxTurns  int
	collector metrics.Collector
}

type Option func(*LocalEngine)

// WithMaxTurns stops the battle once this many turns have begun.
func WithMaxTurns(n int) Option {
	return func(e *LocalEngine) {
		if n > 0 {
			e.maxTurns = n
		}
	}
}

func WithCollector(c metrics.Collector) Option {
	return func(e *LocalEngine) { e.collector = c }
}

// NewLocalEngine pairs a battle in SetupPhase with one agent per team.
func NewLocalEngine(b *game.Battle, agents []agent.Agent, opts ...Option) *LocalEngine {
	if len(agents) != b.NumPlayers() {
		panic(fmt.Sprintf("%d agents for %d teams", len(agents), b.NumPlayers()))
	}
	e := &LocalEngine{
		Battle:    b,
		Agents:    agents,
		maxTurns:  meta.MAX_TURNS,
		collector: metrics.NewDummyCollector(),
	}
	for _, opt := range opts {
		opt(e)
	}
	b.AddObserver(e.collector)
	return e
}

// Run executes the battle loop until a winner is found or a limit is hit.
func (e *LocalEngine) Run() (int, metrics.GameMetric, []metrics.TurnMetric) {
	b := e.Battle
	gameMetric := metrics.GameMetric{StartTime: time.Now(), Winner: -1}
	var turnMetrics []metrics.TurnMetric

	if b.Phase() == game.SetupPhase {
		if err := b.BeginTurn(); err != nil {
			panic(fmt.Sprintf("cannot begin battle: %v", err))
		}
	}
	gameMetric.StartingTeam = b.ActiveTeam()
	log.Info().Msgf("team %s is starting", game.TeamColor(b.ActiveTeam()))

	turn, team := b.Turn(), b.ActiveTeam()
	e.collector.Start()
	moves := 0
	for !b.GameOver() && moves < MaxMoves && b.Turn() <= e.maxTurns {
		intent := e.Agents[b.ActiveTeam()].FindIntent(b)
		if err := b.Apply(intent); err != nil {
			log.Warn().Err(err).Msgf("team %d agent chose %v, forcing a fallback", b.ActiveTeam(), intent)
			e.fallback()
		}
		moves++
		e.collector.AddIntent()

		if b.Turn() != turn || b.GameOver() {
			turnMetrics = append(turnMetrics, metrics.TurnMetric{Turn: turn, Team: team, TurnCounts: e.collector.Complete()})
			log.Debug().Msgf("turn %d of team %d done", turn, team)
			turn, team = b.Turn(), b.ActiveTeam()
			e.collector.Start()
		}
	}
	if counts := e.collector.Complete(); !b.GameOver() && counts.Intents > 0 {
		turnMetrics = append(turnMetrics, metrics.TurnMetric{Turn: turn, Team: team, TurnCounts: counts})
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalIntents = moves
	gameMetric.Turns = b.Turn()
	switch {
	case b.GameOver():
		gameMetric.Winner = b.Winner()
		gameMetric.Reason = ReasonVictory
		log.Info().Msgf("team %s won after %d turns", game.TeamColor(b.Winner()), b.Turn())
	case moves >= MaxMoves:
		gameMetric.Reason = ReasonMaxMoves
		log.Info().Msgf("stopped after %d moves (no winner yet)", moves)
	default:
		gameMetric.Reason = ReasonMaxTurns
		log.Info().Msgf("stopped after %d turns (no winner yet)", e.maxTurns)
	}
	return gameMetric.Winner, gameMetric, turnMetrics
}

// fallback ends the turn when possible, otherwise backs out of the current step.
func (e *LocalEngine) fallback() {
	b := e.Battle
	legal := b.LegalIntents()
	if len(legal) == 0 {
		panic("no legal intents at all")
	}
	choice := legal[0]
	for _, i := range legal {
		if i.Kind == game.EndTurnIntent || i.Kind == game.CancelIntent {
			choice = i
			break
		}
	}
	if err := b.Apply(choice); err != nil {
		panic(fmt.Sprintf("legal intent %v rejected: %v", choice, err))
	}
}
