package game

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"
)

type Phase int

const (
	SetupPhase Phase = iota
	IdlePhase
	SelectedPhase
	AwaitingActionPhase
	AttackTargetingPhase
	ShopPhase
	GameOverPhase
)

var phaseNames = []string{"Setup", "Idle", "Selected", "AwaitingAction", "AttackTargeting", "Shop", "GameOver"}

func (p Phase) String() string {
	if p >= SetupPhase && p <= GameOverPhase {
		return phaseNames[p]
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Battle is the aggregate root of a match: the map, the occupancy grid, the
// teams and the per-turn selection state. It is not safe for concurrent use.
type Battle struct {
	m            *Map
	rules        Rules
	rng          RandomSource
	observers    []Observer
	grid         [][]*Unit
	teams        []*Team
	numPlayers   int
	initialFunds int
	active       int
	firstTeam    int
	turn         int
	phase        Phase
	winner       int
	nextUnitID   int
	view         View

	// ephemeral, cleared whenever the battle returns to Idle
	selected   *Unit
	moveOrigin Position
	moveRange  map[Position]bool
	actions    []Action
	targets    []*Unit
	targetIdx  int
	shopPos    Position
}

type battleOptions struct {
	rules     Rules
	rng       RandomSource
	firstTeam int
	observers []Observer
}

// Option configures a battle at construction.
type Option func(*battleOptions)

func WithRules(r Rules) Option {
	return func(o *battleOptions) { o.rules = r }
}

// WithRand injects the combat random source.
func WithRand(rng RandomSource) Option {
	return func(o *battleOptions) { o.rng = rng }
}

// WithSeed seeds the default random source.
func WithSeed(seed uint64) Option {
	return func(o *battleOptions) { o.rng = rand.New(rand.NewSource(seed)) }
}

// WithFirstTeam fixes which team plays first instead of drawing it at random.
func WithFirstTeam(team int) Option {
	return func(o *battleOptions) { o.firstTeam = team }
}

func WithObserver(obs Observer) Option {
	return func(o *battleOptions) { o.observers = append(o.observers, obs) }
}

// NewBattle builds a battle in SetupPhase. The map is copied; units are
// placed in the given order and receive ascending ids.
func NewBattle(m *Map, numPlayers, initialFunds int, units []UnitPlacement, opts ...Option) (*Battle, error) {
	o := battleOptions{firstTeam: -1}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rules == nil {
		o.rules = NewStandardRules()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}

	if m == nil || m.Rows == 0 || m.Cols == 0 {
		return nil, fmt.Errorf("cannot create battle: empty map")
	}
	if numPlayers < MinPlayers || numPlayers > MaxPlayers {
		return nil, fmt.Errorf("cannot create battle: %d players, need %d to %d", numPlayers, MinPlayers, MaxPlayers)
	}
	if initialFunds < 0 {
		return nil, fmt.Errorf("cannot create battle: negative initial funds %d", initialFunds)
	}
	if o.firstTeam >= numPlayers {
		return nil, fmt.Errorf("cannot create battle: first team %d out of range", o.firstTeam)
	}
	if err := validateObjectives(m, numPlayers); err != nil {
		return nil, fmt.Errorf("cannot create battle: %w", err)
	}

	b := &Battle{
		m:            m.Clone(),
		rules:        o.rules,
		rng:          o.rng,
		observers:    o.observers,
		grid:         make([][]*Unit, m.Rows),
		numPlayers:   numPlayers,
		initialFunds: initialFunds,
		active:       -1,
		firstTeam:    o.firstTeam,
		phase:        SetupPhase,
		winner:       -1,
		nextUnitID:   1,
	}
	for r := range b.grid {
		b.grid[r] = make([]*Unit, m.Cols)
	}
	for i := 0; i < numPlayers; i++ {
		t := newTeam(i, initialFunds)
		center := Position{}
		if hq, ok := b.m.HQ(i); ok {
			center = hq
		}
		t.SavedView = b.viewCenteredOn(center)
		b.teams = append(b.teams, t)
	}
	for _, p := range units {
		if err := b.validatePlacement(p); err != nil {
			return nil, fmt.Errorf("cannot create battle: %w", err)
		}
		b.spawn(p.Team, p.Type, p.Pos, false)
	}
	return b, nil
}

// NewBattleFromScenario builds a battle from a loaded save.
func NewBattleFromScenario(s *Scenario, opts ...Option) (*Battle, error) {
	return NewBattle(s.Map, s.NumPlayers, s.Funds, s.Units, opts...)
}

func validateObjectives(m *Map, numPlayers int) error {
	hqs := make(map[int]bool)
	for _, pos := range m.Objectives() {
		obj, _ := m.ObjectiveAt(pos)
		if obj.Owner != Neutral && (obj.Owner < 0 || obj.Owner >= numPlayers) {
			return fmt.Errorf("objective at %v owned by team %d of %d", pos, obj.Owner, numPlayers)
		}
		if obj.Kind == HQ {
			if obj.Owner == Neutral {
				return fmt.Errorf("neutral HQ at %v", pos)
			}
			if hqs[obj.Owner] {
				return fmt.Errorf("team %d has more than one HQ", obj.Owner)
			}
			hqs[obj.Owner] = true
		}
	}
	return nil
}

func (b *Battle) validatePlacement(p UnitPlacement) error {
	if !p.Type.Valid() {
		return fmt.Errorf("unknown unit type %d", p.Type)
	}
	if p.Team < 0 || p.Team >= b.numPlayers {
		return fmt.Errorf("unit at %v belongs to team %d of %d", p.Pos, p.Team, b.numPlayers)
	}
	if !b.m.InBounds(p.Pos) {
		return fmt.Errorf("unit at %v is off the %dx%d map", p.Pos, b.m.Rows, b.m.Cols)
	}
	if b.grid[p.Pos.Row][p.Pos.Col] != nil {
		return fmt.Errorf("two units at %v", p.Pos)
	}
	return nil
}

func (b *Battle) spawn(team int, t UnitType, pos Position, hasMoved bool) *Unit {
	u := &Unit{
		ID:       b.nextUnitID,
		Type:     t,
		Team:     team,
		Health:   MaxUnitHealth,
		HasMoved: hasMoved,
		Pos:      pos,
	}
	b.nextUnitID++
	b.grid[pos.Row][pos.Col] = u
	b.teams[team].addUnit(u)
	return u
}

// Map returns the battle's map. Callers must not mutate it.
func (b *Battle) Map() *Map {
	return b.m
}

func (b *Battle) Rules() Rules {
	return b.rules
}

func (b *Battle) Phase() Phase {
	return b.phase
}

// ActiveTeam is -1 until the first turn begins.
func (b *Battle) ActiveTeam() int {
	return b.active
}

func (b *Battle) NumPlayers() int {
	return b.numPlayers
}

func (b *Battle) InitialFunds() int {
	return b.initialFunds
}

// Turn counts begun turns across all teams.
func (b *Battle) Turn() int {
	return b.turn
}

func (b *Battle) GameOver() bool {
	return b.phase == GameOverPhase
}

// Winner is -1 while the game is running.
func (b *Battle) Winner() int {
	return b.winner
}

func (b *Battle) Team(id int) *Team {
	if id < 0 || id >= len(b.teams) {
		return nil
	}
	return b.teams[id]
}

func (b *Battle) Teams() []*Team {
	return b.teams
}

func (b *Battle) Funds(team int) int {
	return b.teams[team].Funds
}

// HeldObjectives lists the objectives a team owns in row-major order.
func (b *Battle) HeldObjectives(team int) []Position {
	var held []Position
	for _, pos := range b.m.Objectives() {
		if obj, _ := b.m.ObjectiveAt(pos); obj.Owner == team {
			held = append(held, pos)
		}
	}
	return held
}

func (b *Battle) HeldObjectiveCount(team int) int {
	return len(b.HeldObjectives(team))
}

// UnitAt returns the unit occupying pos, or nil.
func (b *Battle) UnitAt(pos Position) *Unit {
	if !b.m.InBounds(pos) {
		return nil
	}
	return b.grid[pos.Row][pos.Col]
}

// Units returns every unit on the board in row-major order.
func (b *Battle) Units() []*Unit {
	var units []*Unit
	for r := range b.grid {
		for _, u := range b.grid[r] {
			if u != nil {
				units = append(units, u)
			}
		}
	}
	return units
}

// Selected returns the selected unit, or nil.
func (b *Battle) Selected() *Unit {
	return b.selected
}

// MovementRange returns the selected unit's reachable cells in row-major
// order.
func (b *Battle) MovementRange() []Position {
	return sortedPositions(b.moveRange)
}

func (b *Battle) AvailableActions() []Action {
	return append([]Action(nil), b.actions...)
}

func (b *Battle) Targets() []*Unit {
	return append([]*Unit(nil), b.targets...)
}

// CurrentTarget is the highlighted attack target, or nil outside
// AttackTargetingPhase.
func (b *Battle) CurrentTarget() *Unit {
	if b.phase != AttackTargetingPhase || len(b.targets) == 0 {
		return nil
	}
	return b.targets[b.targetIdx]
}

// ShopPosition is the factory the shop was opened on.
func (b *Battle) ShopPosition() (Position, bool) {
	return b.shopPos, b.phase == ShopPhase
}

func (b *Battle) View() View {
	return b.view
}

func (b *Battle) movementTerrain(pos Position) TerrainType {
	if _, ok := b.m.ObjectiveAt(pos); ok {
		return ObjectiveTerrain
	}
	return b.m.TerrainAt(pos)
}

func (b *Battle) remainingTeams() []int {
	var alive []int
	for _, t := range b.teams {
		if !t.Eliminated {
			alive = append(alive, t.ID)
		}
	}
	return alive
}
