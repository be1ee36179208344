package game

import (
	"fmt"
	"strings"
)

// UnitType identifies a kind of unit. Values match the save-format codes and
// the shop keys.
type UnitType int

const (
	Infantry UnitType = iota + 1
	RocketInf
	APC
	SmTank
	LgTank
	Artillery
)

// UnitTypes lists every unit type in shop order.
var UnitTypes = []UnitType{Infantry, RocketInf, APC, SmTank, LgTank, Artillery}

var unitTypeNames = map[UnitType]string{
	Infantry:  "Infantry",
	RocketInf: "RocketInf",
	APC:       "APC",
	SmTank:    "SmTank",
	LgTank:    "LgTank",
	Artillery: "Artillery",
}

func (t UnitType) String() string {
	if name, ok := unitTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unit(%d)", int(t))
}

func (t UnitType) Valid() bool {
	return t >= Infantry && t <= Artillery
}

// ParseUnitType accepts a unit name (case-insensitive).
func ParseUnitType(name string) (UnitType, error) {
	for t, n := range unitTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown unit type %q", name)
}

// MaxUnitHealth is the health of a freshly placed unit.
const MaxUnitHealth = 100

// Unit is a single unit on the battlefield.
type Unit struct {
	ID       int      `json:"id"`
	Type     UnitType `json:"type"`
	Team     int      `json:"team"`
	Health   int      `json:"health"`
	HasMoved bool     `json:"hasMoved"`
	Pos      Position `json:"pos"`
}

// UnitPlacement describes a unit to place when a battle starts.
type UnitPlacement struct {
	Team int
	Type UnitType
	Pos  Position
}

func (u *Unit) String() string {
	return fmt.Sprintf("%s(%s)", u.Type, teamColor(u.Team))
}
