package engine

import (
	"wars/experiments/metrics"
	"wars/meta"
)

const MaxMoves = meta.MAX_MOVES

// End reasons reported in metrics.GameMetric.Reason.
const (
	ReasonVictory  = "victory"
	ReasonMaxTurns = "max turns"
	ReasonMaxMoves = "max moves"
)

type Engine interface {
	// Run plays a battle till there's a winner or a max number of turns or moves is reached
	Run() (winner int, gameMetric metrics.GameMetric, turnMetrics []metrics.TurnMetric)
}
