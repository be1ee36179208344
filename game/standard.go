package game

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type StandardRules struct {
	units map[UnitType]UnitStats
}

var infantryCosts = map[TerrainType]float64{
	Sea:              Impassable,
	Plain:            1,
	Road:             0.8,
	Forest:           1.5,
	Mountain:         2,
	River:            1.5,
	Bridge:           0.8,
	ObjectiveTerrain: 1.5,
}

var vehicleCosts = map[TerrainType]float64{
	Sea:              Impassable,
	Plain:            1,
	Road:             0.8,
	Forest:           2,
	Mountain:         5,
	River:            Impassable,
	Bridge:           0.8,
	ObjectiveTerrain: 3,
}

func NewStandardRules() *StandardRules {
	return &StandardRules{units: map[UnitType]UnitStats{
		Infantry: {
			MovementPoints: 4,
			MovementCost:   infantryCosts,
			Attack:         50,
			Defense:        10,
			CanCapture:     true,
			Cost:           1000,
		},
		// Strong against vehicles, weak against infantry.
		RocketInf: {
			// The legacy table read 33 movement points and a 330 modifier
			// against APCs; both were digit slips for 3 and 30.
			MovementPoints: 3,
			MovementCost:   infantryCosts,
			Attack:         50,
			Defense:        5,
			CanCapture:     true,
			Cost:           3000,
			AttackModifiers: map[UnitType]int{
				Infantry:  -5,
				APC:       30,
				SmTank:    30,
				LgTank:    30,
				Artillery: 30,
			},
		},
		// Wheeled, effective against infantry.
		APC: {
			MovementPoints: 9,
			MovementCost:   vehicleCosts,
			Attack:         60,
			Defense:        20,
			Cost:           4000,
			AttackModifiers: map[UnitType]int{
				Infantry:  10,
				RocketInf: 10,
			},
		},
		SmTank: {
			MovementPoints: 5,
			MovementCost:   vehicleCosts,
			Attack:         80,
			Defense:        25,
			Cost:           7000,
		},
		LgTank: {
			MovementPoints: 4,
			MovementCost:   vehicleCosts,
			Attack:         95,
			Defense:        50,
			Cost:           16000,
		},
		Artillery: {
			MovementPoints:    4,
			MovementCost:      vehicleCosts,
			Attack:            85,
			Defense:           20,
			Artillery:         true,
			ArtilleryMinRange: 2,
			ArtilleryMaxRange: 3,
			Cost:              6000,
		},
	}}
}

func (sr *StandardRules) Stats(t UnitType) UnitStats {
	stats, ok := sr.units[t]
	if !ok {
		panic(fmt.Sprintf("no rules for unit type %d", t))
	}
	return stats
}

func (sr *StandardRules) MovementCost(t UnitType, terrain TerrainType) (float64, bool) {
	cost, ok := sr.Stats(t).MovementCost[terrain]
	if !ok || cost < 0 {
		return 0, false
	}
	return cost, true
}

func (sr *StandardRules) MovementBudget(t UnitType) float64 {
	return sr.Stats(t).MovementPoints
}

func (sr *StandardRules) AttackModifier(attacker, defender UnitType) int {
	// absent entries mean no modifier
	return sr.Stats(attacker).AttackModifiers[defender]
}

func (sr *StandardRules) Cost(t UnitType) int {
	return sr.Stats(t).Cost
}

type unitOverride struct {
	MovementPoints    *float64           `yaml:"movement_points"`
	MovementCost      map[string]float64 `yaml:"movement_cost"`
	Attack            *int               `yaml:"attack"`
	Defense           *int               `yaml:"defense"`
	ArtilleryMinRange *int               `yaml:"artillery_min_range"`
	ArtilleryMaxRange *int               `yaml:"artillery_max_range"`
	CanCapture        *bool              `yaml:"can_capture"`
	Cost              *int               `yaml:"cost"`
	AttackModifiers   map[string]int     `yaml:"attack_modifiers"`
}

type rulesFile struct {
	Units map[string]unitOverride `yaml:"units"`
}

// LoadRules reads a YAML rule file and overlays it on the standard table.
// Fields left out of the file keep their standard values.
func LoadRules(r io.Reader) (*StandardRules, error) {
	var file rulesFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	rules := NewStandardRules()
	for name, o := range file.Units {
		t, err := ParseUnitType(name)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rules: %w", err)
		}
		stats := rules.units[t]
		if o.MovementPoints != nil {
			stats.MovementPoints = *o.MovementPoints
		}
		if o.Attack != nil {
			stats.Attack = *o.Attack
		}
		if o.Defense != nil {
			stats.Defense = *o.Defense
		}
		if o.ArtilleryMinRange != nil {
			stats.ArtilleryMinRange = *o.ArtilleryMinRange
		}
		if o.ArtilleryMaxRange != nil {
			stats.ArtilleryMaxRange = *o.ArtilleryMaxRange
		}
		if o.CanCapture != nil {
			stats.CanCapture = *o.CanCapture
		}
		if o.Cost != nil {
			stats.Cost = *o.Cost
		}
		if len(o.MovementCost) > 0 {
			costs := make(map[TerrainType]float64, len(stats.MovementCost))
			for k, v := range stats.MovementCost {
				costs[k] = v
			}
			for terrainName, cost := range o.MovementCost {
				terrain, err := parseTerrainName(terrainName)
				if err != nil {
					return nil, fmt.Errorf("failed to parse rules for %s: %w", t, err)
				}
				costs[terrain] = cost
			}
			stats.MovementCost = costs
		}
		if len(o.AttackModifiers) > 0 {
			mods := make(map[UnitType]int, len(stats.AttackModifiers))
			for k, v := range stats.AttackModifiers {
				mods[k] = v
			}
			for defenderName, mod := range o.AttackModifiers {
				defender, err := ParseUnitType(defenderName)
				if err != nil {
					return nil, fmt.Errorf("failed to parse rules for %s: %w", t, err)
				}
				mods[defender] = mod
			}
			stats.AttackModifiers = mods
		}
		if stats.Artillery && stats.ArtilleryMinRange > stats.ArtilleryMaxRange {
			return nil, fmt.Errorf("failed to parse rules: %s has min range %d above max range %d",
				t, stats.ArtilleryMinRange, stats.ArtilleryMaxRange)
		}
		rules.units[t] = stats
	}
	return rules, nil
}

func parseTerrainName(name string) (TerrainType, error) {
	for t, n := range terrainNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown terrain %q", name)
}
