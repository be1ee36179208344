package game

// Rules is the immutable rule data a battle is played under.
type Rules interface {
	Stats(t UnitType) UnitStats
	// MovementCost returns the cost of entering terrain, and false if the
	// terrain is impassable for the unit type.
	MovementCost(t UnitType, terrain TerrainType) (float64, bool)
	MovementBudget(t UnitType) float64
	AttackModifier(attacker, defender UnitType) int
	Cost(t UnitType) int
}

// Impassable marks terrain a unit type can never enter.
const Impassable = -1.0

// UnitStats is the per-type rule table entry.
type UnitStats struct {
	MovementPoints    float64
	MovementCost      map[TerrainType]float64
	Attack            int
	Defense           int
	Artillery         bool
	ArtilleryMinRange int
	ArtilleryMaxRange int
	CanCapture        bool
	Cost              int
	AttackModifiers   map[UnitType]int
}

// InRange reports whether an artillery unit can strike at the given taxicab
// distance.
func (s UnitStats) InRange(distance int) bool {
	return s.Artillery && distance >= s.ArtilleryMinRange && distance <= s.ArtilleryMaxRange
}
