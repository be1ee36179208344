package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// lowRand always rolls the bottom of the damage range
type lowRand struct{}

func (lowRand) Intn(int) int { return 0 }

// highRand always rolls the top of the damage range
type highRand struct{}

func (highRand) Intn(n int) int { return n - 1 }

// blankMapWithHQs returns a Plain map where team i owns an HQ at hqs[i].
func blankMapWithHQs(t *testing.T, rows, cols int, hqs ...Position) *Map {
	t.Helper()
	m := NewBlankMap(rows, cols)
	for team, pos := range hqs {
		require.NoError(t, m.SetObjective(pos, team, HQ))
	}
	return m
}

// startedBattle builds a battle with the low roll and team 0 moving first,
// then begins the first turn.
func startedBattle(t *testing.T, m *Map, numPlayers, funds int, units []UnitPlacement, opts ...Option) *Battle {
	t.Helper()
	defaults := []Option{WithRand(lowRand{}), WithFirstTeam(0)}
	b, err := NewBattle(m, numPlayers, funds, units, append(defaults, opts...)...)
	require.NoError(t, err)
	require.NoError(t, b.BeginTurn())
	return b
}

// act applies intents in order, failing the test on the first rejection.
func act(t *testing.T, b *Battle, intents ...Intent) {
	t.Helper()
	for _, i := range intents {
		require.NoError(t, b.Apply(i), "intent %v rejected in phase %s", i, b.Phase())
		b.CheckInvariants()
	}
}

func selectAt(r, c int) Intent { return Intent{Kind: SelectIntent, Pos: Position{r, c}} }
func moveTo(r, c int) Intent { return Intent{Kind: MoveToIntent, Pos: Position{r, c}} }
func choose(a Action) Intent { return Intent{Kind: ChooseActionIntent, Action: a} }
func endTurn() Intent { return Intent{Kind: EndTurnIntent} }
func confirm() Intent { return Intent{Kind: ConfirmAttackIntent} }

type eventLog struct {
	events []Event
}

func (l *eventLog) Observe(e Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) kinds() []EventKind {
	var kinds []EventKind
	for _, e := range l.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}
