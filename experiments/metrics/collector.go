package metrics

import (
	"sync/atomic"
	"time"
	"wars/game"
)

// AgentConfig identifies an agent taking part in an experiment.
type AgentConfig struct {
	ID   int
	Name string
	Seed uint64
}

// TurnCounts tallies what happened during one team's turn.
type TurnCounts struct {
	Duration  time.Duration
	Intents   int
	Moves     int
	Attacks   int
	Destroyed int
	Captures  int
	Purchases int
}

type TurnMetric struct {
	Turn int
	Team int
	TurnCounts
}

type GameMetric struct {
	StartingTeam int
	Winner       int // -1 without a winner
	Reason       string
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	TotalIntents int
	Turns        int
}

// Collector counts battle events between Start and Complete. It is
// registered on a battle as an observer.
type Collector interface {
	game.Observer
	Start()
	AddIntent()
	Complete() TurnCounts
}

type collector struct {
	startTime time.Time
	intents   atomic.Int32
	moves     atomic.Int32
	attacks   atomic.Int32
	destroyed atomic.Int32
	captures  atomic.Int32
	purchases atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start() {
	m.startTime = time.Now()
	m.intents.Store(0)
	m.moves.Store(0)
	m.attacks.Store(0)
	m.destroyed.Store(0)
	m.captures.Store(0)
	m.purchases.Store(0)
}

func (m *collector) AddIntent() {
	m.intents.Add(1)
}

func (m *collector) Observe(e game.Event) {
	switch e.Kind {
	case game.UnitMoved:
		m.moves.Add(1)
	case game.MoveReverted:
		m.moves.Add(-1)
	case game.AttackResolved:
		m.attacks.Add(1)
	case game.UnitDestroyed:
		m.destroyed.Add(1)
	case game.ObjectiveCaptured:
		m.captures.Add(1)
	case game.UnitPurchased:
		m.purchases.Add(1)
	}
}

func (m *collector) Complete() TurnCounts {
	return TurnCounts{
		Duration:  time.Since(m.startTime),
		Intents:   int(m.intents.Load()),
		Moves:     int(m.moves.Load()),
		Attacks:   int(m.attacks.Load()),
		Destroyed: int(m.destroyed.Load()),
		Captures:  int(m.captures.Load()),
		Purchases: int(m.purchases.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start()               {}
func (m *dummyCollector) AddIntent()           {}
func (m *dummyCollector) Observe(game.Event)   {}
func (m *dummyCollector) Complete() TurnCounts { return TurnCounts{} }
