package game

// Snapshot is a read-only, JSON-friendly copy of what a client needs to draw
// and drive a battle.
type Snapshot struct {
	Phase         string         `json:"phase"`
	Turn          int            `json:"turn"`
	ActiveTeam    int            `json:"activeTeam"`
	Rows          int            `json:"rows"`
	Cols          int            `json:"cols"`
	Tiles         [][]Tile       `json:"tiles"`
	Teams         []TeamSnapshot `json:"teams"`
	Units         []Unit         `json:"units"`
	Selected      *Unit          `json:"selected,omitempty"`
	MovementRange []Position     `json:"movementRange,omitempty"`
	Actions       []Action       `json:"actions,omitempty"`
	Targets       []Position     `json:"targets,omitempty"`
	CurrentTarget *Position      `json:"currentTarget,omitempty"`
	Shop          *ShopSnapshot  `json:"shop,omitempty"`
	View          View           `json:"view"`
	GameOver      bool           `json:"gameOver"`
	Winner        int            `json:"winner"`
	Hash          StateHash      `json:"hash"`
	Legal         []Intent       `json:"legal,omitempty"`
}

type TeamSnapshot struct {
	ID             int    `json:"id"`
	Color          string `json:"color"`
	Funds          int    `json:"funds"`
	HeldObjectives int    `json:"heldObjectives"`
	Units          int    `json:"units"`
	Eliminated     bool   `json:"eliminated"`
}

type ShopSnapshot struct {
	Factory Position       `json:"factory"`
	Prices  map[string]int `json:"prices"`
}

func (b *Battle) Snapshot() Snapshot {
	s := Snapshot{
		Phase:         b.phase.String(),
		Turn:          b.turn,
		ActiveTeam:    b.active,
		Rows:          b.m.Rows,
		Cols:          b.m.Cols,
		Tiles:         b.m.Clone().tiles,
		MovementRange: b.MovementRange(),
		Actions:       b.AvailableActions(),
		View:          b.view,
		GameOver:      b.GameOver(),
		Winner:        b.winner,
		Hash:          b.Hash(),
		Legal:         b.LegalIntents(),
	}
	for _, t := range b.teams {
		s.Teams = append(s.Teams, TeamSnapshot{
			ID:             t.ID,
			Color:          t.Color,
			Funds:          t.Funds,
			HeldObjectives: b.HeldObjectiveCount(t.ID),
			Units:          len(t.Units),
			Eliminated:     t.Eliminated,
		})
	}
	for _, u := range b.Units() {
		s.Units = append(s.Units, *u)
	}
	if b.selected != nil {
		sel := *b.selected
		s.Selected = &sel
	}
	for _, t := range b.targets {
		s.Targets = append(s.Targets, t.Pos)
	}
	if cur := b.CurrentTarget(); cur != nil {
		pos := cur.Pos
		s.CurrentTarget = &pos
	}
	if pos, ok := b.ShopPosition(); ok {
		shop := &ShopSnapshot{Factory: pos, Prices: make(map[string]int)}
		for _, t := range UnitTypes {
			shop.Prices[t.String()] = b.rules.Cost(t)
		}
		s.Shop = shop
	}
	return s
}
