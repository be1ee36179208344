package game

import "wars/utils"

// BeginTurn starts the first turn of the battle. The first team is fixed by
// WithFirstTeam or drawn from the battle's random source. Later turns begin
// through EndTurn.
func (b *Battle) BeginTurn() error {
	if err := b.checkPhase("begin turn", SetupPhase); err != nil {
		return err
	}
	first := b.firstTeam
	if first < 0 {
		alive := b.remainingTeams()
		first = alive[b.rng.Intn(len(alive))]
	} else if b.teams[first].Eliminated {
		first = b.nextTeam(first)
	}
	b.phase = IdlePhase
	b.beginTurn(first)
	return nil
}

// EndTurn hands play to the next team still in the game. It is rejected while
// a moved unit waits for its action or the shop is open.
func (b *Battle) EndTurn() error {
	if err := b.checkPhase("end turn", IdlePhase, SelectedPhase); err != nil {
		return err
	}
	b.advanceTurn()
	return nil
}

func (b *Battle) advanceTurn() {
	b.restoreObjectives()
	b.teams[b.active].SavedView = b.view
	b.clearSelection()
	b.beginTurn(b.nextTeam(b.active))
}

// nextTeam is the first non-eliminated team after from, wrapping around.
func (b *Battle) nextTeam(from int) int {
	n := len(b.teams)
	for step := 1; step <= n; step++ {
		next := utils.Wrap(from, step, n)
		if !b.teams[next].Eliminated {
			return next
		}
	}
	panic("no team left to take a turn")
}

// beginTurn credits income, readies the team's units, heals units standing
// on their own objectives and restores the team's view.
func (b *Battle) beginTurn(id int) {
	team := b.teams[id]
	b.active = id
	b.turn++

	income := IncomePerObjective * b.HeldObjectiveCount(id)
	team.Funds += income
	for _, u := range team.Units {
		u.HasMoved = false
		if obj, ok := b.m.ObjectiveAt(u.Pos); ok && obj.Owner == u.Team {
			u.Health = min(MaxUnitHealth, u.Health+RepairPerTurn)
		}
	}
	b.view = team.SavedView
	b.emit(Event{Kind: TurnBegan, Team: id, Amount: income})
}

// restoreObjectives resets the health of every objective that is empty or
// held by its owner's unit, undoing abandoned capture attempts.
func (b *Battle) restoreObjectives() {
	for _, pos := range b.m.Objectives() {
		obj, _ := b.m.ObjectiveAt(pos)
		if u := b.grid[pos.Row][pos.Col]; u == nil || u.Team == obj.Owner {
			obj.Health = ObjectiveBaseHealth
		}
	}
}

const (
	// IncomePerObjective is credited per held objective at the start of a turn.
	IncomePerObjective = 1000
	RepairPerTurn      = 50
)
