package game

import "fmt"

type EventKind int

const (
	TurnBegan EventKind = iota
	UnitMoved
	MoveReverted
	AttackResolved
	UnitDestroyed
	CaptureProgressed
	ObjectiveCaptured
	UnitPurchased
	TeamEliminated
	GameOver
)

var eventNames = []string{
	"TurnBegan", "UnitMoved", "MoveReverted", "AttackResolved", "UnitDestroyed",
	"CaptureProgressed", "ObjectiveCaptured", "UnitPurchased", "TeamEliminated", "GameOver",
}

func (k EventKind) String() string {
	if k >= TurnBegan && k <= GameOver {
		return eventNames[k]
	}
	return fmt.Sprintf("Event(%d)", int(k))
}

func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Event describes something that happened in a battle. Field meaning by kind:
//
//	TurnBegan          Team, Amount = income
//	UnitMoved          Team, UnitID, From, To
//	MoveReverted       Team, UnitID, From, To
//	AttackResolved     Team, UnitID, TargetID, From, To, Amount = damage, Counter = retaliation
//	UnitDestroyed      Team, UnitID, From
//	CaptureProgressed  Team, UnitID, To, Amount = objective health removed
//	ObjectiveCaptured  Team, UnitID, To, TargetID = previous owner
//	UnitPurchased      Team, UnitID, To, Amount = cost
//	TeamEliminated     Team
//	GameOver           Team = winner
type Event struct {
	Kind     EventKind `json:"kind"`
	Turn     int       `json:"turn"`
	Team     int       `json:"team"`
	UnitID   int       `json:"unitId,omitempty"`
	UnitType UnitType  `json:"unitType,omitempty"`
	TargetID int       `json:"targetId,omitempty"`
	From     Position  `json:"from"`
	To       Position  `json:"to"`
	Amount   int       `json:"amount,omitempty"`
	Counter  int       `json:"counter,omitempty"`
}

// Observer receives battle events synchronously, in order, while the
// operation that caused them runs.
type Observer interface {
	Observe(Event)
}

type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) {
	f(e)
}

// AddObserver registers an observer after construction.
func (b *Battle) AddObserver(obs Observer) {
	b.observers = append(b.observers, obs)
}

func (b *Battle) emit(e Event) {
	e.Turn = b.turn
	for _, obs := range b.observers {
		obs.Observe(e)
	}
}
