package player

import (
	"fmt"
	"strconv"
	"strings"
	"wars/game"
)

var directions = map[string]game.Position{
	"up":    {Row: -1, Col: 0},
	"down":  {Row: 1, Col: 0},
	"left":  {Row: 0, Col: -1},
	"right": {Row: 0, Col: 1},
}

var actionWords = map[string]game.Action{
	"wait":    game.WaitAction,
	"attack":  game.AttackAction,
	"capture": game.CaptureAction,
	"undo":    game.UndoAction,
}

// ParseCommand turns a console line such as "move 3 4" or "buy apc" into an
// intent.
func ParseCommand(line string) (game.Intent, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return game.Intent{}, fmt.Errorf("empty command")
	}
	word, args := fields[0], fields[1:]

	if a, ok := actionWords[word]; ok {
		return game.Intent{Kind: game.ChooseActionIntent, Action: a}, noArgs(word, args)
	}
	switch word {
	case "begin":
		return game.Intent{Kind: game.BeginTurnIntent}, noArgs(word, args)
	case "end":
		return game.Intent{Kind: game.EndTurnIntent}, noArgs(word, args)
	case "select", "s":
		pos, err := parsePosition(word, args)
		return game.Intent{Kind: game.SelectIntent, Pos: pos}, err
	case "move", "m":
		pos, err := parsePosition(word, args)
		return game.Intent{Kind: game.MoveToIntent, Pos: pos}, err
	case "next":
		return game.Intent{Kind: game.CycleTargetIntent, Dir: 1}, noArgs(word, args)
	case "prev":
		return game.Intent{Kind: game.CycleTargetIntent, Dir: -1}, noArgs(word, args)
	case "fire":
		return game.Intent{Kind: game.ConfirmAttackIntent}, noArgs(word, args)
	case "cancel", "c":
		return game.Intent{Kind: game.CancelIntent}, noArgs(word, args)
	case "buy":
		if len(args) != 1 {
			return game.Intent{}, fmt.Errorf("usage: buy <unit>")
		}
		t, err := game.ParseUnitType(args[0])
		return game.Intent{Kind: game.PurchaseIntent, UnitType: t}, err
	case "cursor":
		if len(args) != 1 {
			return game.Intent{}, fmt.Errorf("usage: cursor up|down|left|right")
		}
		d, ok := directions[args[0]]
		if !ok {
			return game.Intent{}, fmt.Errorf("unknown direction %q", args[0])
		}
		return game.Intent{Kind: game.MoveCursorIntent, Pos: d}, nil
	}
	return game.Intent{}, fmt.Errorf("unknown command %q, try help", word)
}

func noArgs(word string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%s takes no arguments", word)
	}
	return nil
}

func parsePosition(word string, args []string) (game.Position, error) {
	if len(args) != 2 {
		return game.Position{}, fmt.Errorf("usage: %s <row> <col>", word)
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return game.Position{}, fmt.Errorf("bad row %q", args[0])
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return game.Position{}, fmt.Errorf("bad column %q", args[1])
	}
	return game.Position{Row: row, Col: col}, nil
}

const help = `commands:
  select|s <row> <col>   pick up a unit or open a factory shop
  move|m <row> <col>     move the selected unit
  wait | attack | capture | undo
  next | prev | fire     cycle attack targets, confirm the attack
  buy <unit>             Infantry RocketInf APC SmTank LgTank Artillery
  cancel|c | end | begin
  cursor up|down|left|right
  show | legal | save <file> | help | quit`
