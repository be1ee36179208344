package game

import "wars/utils"

func (b *Battle) checkPhase(op string, allowed ...Phase) error {
	if b.phase == GameOverPhase {
		return ErrGameOver
	}
	for _, p := range allowed {
		if b.phase == p {
			return nil
		}
	}
	return illegalf("cannot %s during %s phase", op, b.phase)
}

// Select picks up a friendly unit that has not acted, or opens the shop on a
// friendly empty Factory.
func (b *Battle) Select(pos Position) error {
	if err := b.checkPhase("select", IdlePhase); err != nil {
		return err
	}
	if !b.m.InBounds(pos) {
		return illegalf("cannot select: %v is off the map", pos)
	}

	if u := b.grid[pos.Row][pos.Col]; u != nil {
		if u.Team != b.active {
			return illegalf("cannot select: %s at %v belongs to another team", u, pos)
		}
		if u.HasMoved {
			return illegalf("cannot select: %s at %v has already moved", u, pos)
		}
		b.selected = u
		b.moveOrigin = pos
		b.moveRange = b.ComputeMovementRange(u, pos)
		b.phase = SelectedPhase
		return nil
	}

	if err := b.canOpenShop(pos); err != nil {
		return err
	}
	b.shopPos = pos
	b.phase = ShopPhase
	return nil
}

func (b *Battle) canOpenShop(pos Position) error {
	obj, ok := b.m.ObjectiveAt(pos)
	if !ok || obj.Kind != Factory || obj.Owner != b.active {
		return illegalf("cannot select: no friendly unit or factory at %v", pos)
	}
	if b.grid[pos.Row][pos.Col] != nil {
		return illegalf("cannot open shop: factory at %v is occupied", pos)
	}
	return nil
}

func (b *Battle) cheapestUnit() int {
	cheapest := b.rules.Cost(UnitTypes[0])
	for _, t := range UnitTypes[1:] {
		cheapest = min(cheapest, b.rules.Cost(t))
	}
	return cheapest
}

// MoveTo moves the selected unit to a cell in its movement range and opens
// the action menu. Choosing the unit's own cell keeps it in place.
func (b *Battle) MoveTo(pos Position) error {
	if err := b.checkPhase("move", SelectedPhase); err != nil {
		return err
	}
	if err := b.canMoveTo(pos); err != nil {
		return err
	}

	u := b.selected
	b.moveUnit(b.moveOrigin, pos)
	b.moveRange = nil
	b.actions = b.availableActions(u)
	b.phase = AwaitingActionPhase
	if pos != b.moveOrigin {
		b.emit(Event{Kind: UnitMoved, Team: u.Team, UnitID: u.ID, UnitType: u.Type, From: b.moveOrigin, To: pos})
	}
	return nil
}

func (b *Battle) canMoveTo(pos Position) error {
	if !b.moveRange[pos] {
		return illegalf("cannot move: %v is out of range", pos)
	}
	if occupant := b.grid[pos.Row][pos.Col]; occupant != nil && occupant != b.selected {
		return illegalf("cannot move: %v is occupied by %s", pos, occupant)
	}
	return nil
}

func (b *Battle) availableActions(u *Unit) []Action {
	actions := []Action{WaitAction}
	if len(b.attackTargets(u)) > 0 {
		actions = append(actions, AttackAction)
	}
	if b.canCapture(u) {
		actions = append(actions, CaptureAction)
	}
	return append(actions, UndoAction)
}

// attackTargets lists enemies the unit can strike from where it stands. Melee
// targets come clockwise from up; artillery targets come row-major and only
// when the unit has not moved this action.
func (b *Battle) attackTargets(u *Unit) []*Unit {
	var targets []*Unit
	stats := b.rules.Stats(u.Type)
	if stats.Artillery {
		if u.Pos != b.moveOrigin {
			return nil
		}
		for _, other := range b.Units() {
			if other.Team != u.Team && stats.InRange(u.Pos.Distance(other.Pos)) {
				targets = append(targets, other)
			}
		}
		return targets
	}
	for _, d := range clockwise {
		if other := b.UnitAt(u.Pos.Add(d)); other != nil && other.Team != u.Team {
			targets = append(targets, other)
		}
	}
	return targets
}

func (b *Battle) canCapture(u *Unit) bool {
	if !b.rules.Stats(u.Type).CanCapture {
		return false
	}
	obj, ok := b.m.ObjectiveAt(u.Pos)
	return ok && obj.Owner != u.Team
}

// ChooseAction resolves an entry of the action menu.
func (b *Battle) ChooseAction(a Action) error {
	if err := b.checkPhase("choose action", AwaitingActionPhase); err != nil {
		return err
	}
	if utils.FindIndex(b.actions, a) < 0 {
		return illegalf("cannot %s: not available", a)
	}

	u := b.selected
	switch a {
	case WaitAction:
		b.finishAction(u)
	case AttackAction:
		targets := b.attackTargets(u)
		if len(targets) == 0 {
			return illegalf("cannot attack: no target in reach of %s", u)
		}
		b.targets = targets
		b.targetIdx = 0
		b.phase = AttackTargetingPhase
	case CaptureAction:
		b.capture(u)
		b.finishAction(u)
	case UndoAction:
		b.undo()
	}
	return nil
}

func (b *Battle) undo() {
	u := b.selected
	if u.Pos != b.moveOrigin {
		from := u.Pos
		b.moveUnit(from, b.moveOrigin)
		b.emit(Event{Kind: MoveReverted, Team: u.Team, UnitID: u.ID, UnitType: u.Type, From: from, To: b.moveOrigin})
	}
	b.clearSelection()
}

// CycleTarget moves the highlighted target by dir places, wrapping around.
func (b *Battle) CycleTarget(dir int) error {
	if err := b.checkPhase("cycle target", AttackTargetingPhase); err != nil {
		return err
	}
	if dir == 0 {
		return illegalf("cannot cycle target: no direction")
	}
	b.targetIdx = utils.Wrap(b.targetIdx, dir, len(b.targets))
	return nil
}

// ConfirmAttack fights the highlighted target.
func (b *Battle) ConfirmAttack() error {
	if err := b.checkPhase("attack", AttackTargetingPhase); err != nil {
		return err
	}
	if len(b.targets) == 0 {
		return illegalf("cannot attack: no target left")
	}
	attacker := b.selected
	b.resolveAttack(attacker, b.targets[b.targetIdx])
	b.finishAction(attacker)
	return nil
}

// resolveAttack applies the attacker's strike and, if the defender survives
// and neither side is artillery, the defender's counter.
func (b *Battle) resolveAttack(attacker, defender *Unit) {
	damage := ComputeDamage(b.rules, attacker, defender, b.m.DefenseAt(defender.Pos),
		b.rules.Stats(attacker.Type).Attack, b.rng)
	defender.Health -= damage

	ev := Event{
		Kind:     AttackResolved,
		Team:     attacker.Team,
		UnitID:   attacker.ID,
		UnitType: attacker.Type,
		TargetID: defender.ID,
		From:     attacker.Pos,
		To:       defender.Pos,
		Amount:   damage,
	}
	counter := defender.Health > 0 && CanRetaliate(b.rules, attacker.Type, defender.Type)
	if counter {
		ev.Counter = ComputeDamage(b.rules, defender, attacker, b.m.DefenseAt(attacker.Pos),
			RetaliationPower(b.rules.Stats(defender.Type).Attack), b.rng)
		attacker.Health -= ev.Counter
	}
	b.emit(ev)

	if defender.Health <= 0 {
		b.destroy(defender)
	}
	if attacker.Health <= 0 {
		b.destroy(attacker)
	}
}

// destroy removes a unit from the grid and its roster, eliminating the team
// when its last unit falls.
func (b *Battle) destroy(u *Unit) {
	if b.grid[u.Pos.Row][u.Pos.Col] != u {
		return
	}
	b.grid[u.Pos.Row][u.Pos.Col] = nil
	team := b.teams[u.Team]
	team.removeUnit(u)
	b.emit(Event{Kind: UnitDestroyed, Team: u.Team, UnitID: u.ID, UnitType: u.Type, From: u.Pos})
	if len(team.Units) == 0 && !team.Eliminated {
		b.eliminateTeam(team.ID)
	}
}

// capture wears down the objective under u. At zero health it changes hands;
// a captured HQ eliminates its owner and becomes a City.
func (b *Battle) capture(u *Unit) {
	obj, _ := b.m.ObjectiveAt(u.Pos)
	progress := u.Health / 10
	obj.Health -= progress
	b.emit(Event{Kind: CaptureProgressed, Team: u.Team, UnitID: u.ID, UnitType: u.Type, To: u.Pos, Amount: progress})
	if obj.Health > 0 {
		return
	}

	previous, kind := obj.Owner, obj.Kind
	if kind == HQ {
		kind = City
		b.eliminateTeam(previous)
	}
	b.m.TransferObjective(u.Pos, u.Team, kind)
	b.emit(Event{Kind: ObjectiveCaptured, Team: u.Team, UnitID: u.ID, UnitType: u.Type, TargetID: previous, To: u.Pos})
}

// EliminateTeam knocks a team out: its units leave the board and its
// objectives turn neutral, HQ becoming City. The last team standing wins.
func (b *Battle) EliminateTeam(team int) error {
	if b.phase == GameOverPhase {
		return ErrGameOver
	}
	if team < 0 || team >= len(b.teams) || b.teams[team].Eliminated {
		return illegalf("cannot eliminate team %d", team)
	}
	b.eliminateTeam(team)
	if b.phase == GameOverPhase {
		return nil
	}
	if team == b.active {
		b.advanceTurn()
		return nil
	}
	b.refreshSelection()
	return nil
}

// refreshSelection brings the open action menu or target list in line with
// the board after units left it outside the selected unit's own action.
func (b *Battle) refreshSelection() {
	switch b.phase {
	case SelectedPhase:
		b.moveRange = b.ComputeMovementRange(b.selected, b.moveOrigin)
	case AwaitingActionPhase:
		b.actions = b.availableActions(b.selected)
	case AttackTargetingPhase:
		highlighted := b.targets[b.targetIdx]
		var targets []*Unit
		for _, u := range b.targets {
			if b.UnitAt(u.Pos) == u {
				targets = append(targets, u)
			}
		}
		if len(targets) == 0 {
			b.targets = nil
			b.targetIdx = 0
			b.actions = b.availableActions(b.selected)
			b.phase = AwaitingActionPhase
			return
		}
		b.targets = targets
		b.targetIdx = max(utils.FindIndex(targets, highlighted), 0)
	}
}

func (b *Battle) eliminateTeam(id int) {
	team := b.teams[id]
	if team.Eliminated {
		return
	}
	team.Eliminated = true
	for _, u := range team.Units {
		if b.grid[u.Pos.Row][u.Pos.Col] == u {
			b.grid[u.Pos.Row][u.Pos.Col] = nil
		}
	}
	team.Units = nil
	for _, pos := range b.m.Objectives() {
		obj, _ := b.m.ObjectiveAt(pos)
		if obj.Owner != id {
			continue
		}
		kind := obj.Kind
		if kind == HQ {
			kind = City
		}
		b.m.TransferObjective(pos, Neutral, kind)
	}
	b.emit(Event{Kind: TeamEliminated, Team: id})

	if alive := b.remainingTeams(); len(alive) == 1 {
		b.winner = alive[0]
		b.clearSelection()
		b.phase = GameOverPhase
		b.emit(Event{Kind: GameOver, Team: b.winner})
	}
}

// finishAction marks u as done for the turn and returns to Idle. If the
// acting team was knocked out during the action, play passes on.
func (b *Battle) finishAction(u *Unit) {
	u.HasMoved = true
	if b.phase == GameOverPhase {
		return
	}
	b.clearSelection()
	if b.teams[b.active].Eliminated {
		b.advanceTurn()
	}
}

// PurchaseUnit buys a unit on the open shop's factory. The new unit cannot
// act until the team's next turn.
func (b *Battle) PurchaseUnit(t UnitType) error {
	if err := b.checkPhase("purchase", ShopPhase); err != nil {
		return err
	}
	if !t.Valid() {
		return illegalf("cannot purchase: unknown unit type %d", t)
	}
	team := b.teams[b.active]
	cost := b.rules.Cost(t)
	if team.Funds < cost {
		return illegalf("cannot purchase %s: costs %d, have %d", t, cost, team.Funds)
	}
	if _, ok := b.rules.MovementCost(t, ObjectiveTerrain); !ok {
		return illegalf("cannot purchase %s: cannot stand on a factory", t)
	}

	team.Funds -= cost
	u := b.spawn(team.ID, t, b.shopPos, true)
	b.emit(Event{Kind: UnitPurchased, Team: team.ID, UnitID: u.ID, UnitType: t, To: u.Pos, Amount: cost})
	b.clearSelection()
	return nil
}

// Cancel steps back one level: Selected and Shop return to Idle, target
// selection returns to the action menu and the action menu undoes the move.
func (b *Battle) Cancel() error {
	if err := b.checkPhase("cancel", SelectedPhase, ShopPhase, AttackTargetingPhase, AwaitingActionPhase); err != nil {
		return err
	}
	switch b.phase {
	case SelectedPhase, ShopPhase:
		b.clearSelection()
	case AttackTargetingPhase:
		b.targets = nil
		b.targetIdx = 0
		b.phase = AwaitingActionPhase
	case AwaitingActionPhase:
		b.undo()
	}
	return nil
}

func (b *Battle) clearSelection() {
	b.selected = nil
	b.moveRange = nil
	b.actions = nil
	b.targets = nil
	b.targetIdx = 0
	b.shopPos = Position{}
	if b.phase != GameOverPhase && b.phase != SetupPhase {
		b.phase = IdlePhase
	}
}
