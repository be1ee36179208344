package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalIntent is wrapped by every rejected intent. A rejected intent
	// leaves the battle untouched.
	ErrIllegalIntent = errors.New("illegal intent")
	ErrGameOver      = fmt.Errorf("%w: game is over", ErrIllegalIntent)
)

func illegalf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalIntent, fmt.Sprintf(format, args...))
}

// Action is an entry of the post-move action menu.
type Action int

const (
	WaitAction Action = iota
	AttackAction
	CaptureAction
	UndoAction
)

var actionNames = []string{"Wait", "Attack", "Capture", "Undo"}

func (a Action) String() string {
	if a >= WaitAction && a <= UndoAction {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	for i, name := range actionNames {
		if name == string(text) {
			*a = Action(i)
			return nil
		}
	}
	return fmt.Errorf("unknown action %q", text)
}

// IntentKind is the type of a player intent.
type IntentKind int

const (
	BeginTurnIntent IntentKind = iota
	EndTurnIntent
	SelectIntent
	MoveToIntent
	ChooseActionIntent
	CycleTargetIntent
	ConfirmAttackIntent
	PurchaseIntent
	CancelIntent
	MoveCursorIntent
)

var intentNames = []string{
	"BeginTurn", "EndTurn", "Select", "MoveTo", "ChooseAction",
	"CycleTarget", "ConfirmAttack", "Purchase", "Cancel", "MoveCursor",
}

func (k IntentKind) String() string {
	if k >= BeginTurnIntent && k <= MoveCursorIntent {
		return intentNames[k]
	}
	return fmt.Sprintf("Intent(%d)", int(k))
}

func (k IntentKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *IntentKind) UnmarshalText(text []byte) error {
	for i, name := range intentNames {
		if name == string(text) {
			*k = IntentKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown intent %q", text)
}

// Intent is a single player command. Only the fields relevant to Kind are
// read: Pos for Select and MoveTo (and the cursor offset for MoveCursor),
// Action for ChooseAction, Dir for CycleTarget, UnitType for Purchase.
type Intent struct {
	Kind     IntentKind `json:"kind"`
	Pos      Position   `json:"pos"`
	Action   Action     `json:"action"`
	Dir      int        `json:"dir"`
	UnitType UnitType   `json:"unitType"`
}

func (i Intent) String() string {
	switch i.Kind {
	case SelectIntent, MoveToIntent, MoveCursorIntent:
		return fmt.Sprintf("%s(%v)", i.Kind, i.Pos)
	case ChooseActionIntent:
		return fmt.Sprintf("%s(%s)", i.Kind, i.Action)
	case CycleTargetIntent:
		return fmt.Sprintf("%s(%+d)", i.Kind, i.Dir)
	case PurchaseIntent:
		return fmt.Sprintf("%s(%s)", i.Kind, i.UnitType)
	}
	return i.Kind.String()
}

// Apply dispatches an intent to the matching battle operation.
func (b *Battle) Apply(i Intent) error {
	switch i.Kind {
	case BeginTurnIntent:
		return b.BeginTurn()
	case EndTurnIntent:
		return b.EndTurn()
	case SelectIntent:
		return b.Select(i.Pos)
	case MoveToIntent:
		return b.MoveTo(i.Pos)
	case ChooseActionIntent:
		return b.ChooseAction(i.Action)
	case CycleTargetIntent:
		return b.CycleTarget(i.Dir)
	case ConfirmAttackIntent:
		return b.ConfirmAttack()
	case PurchaseIntent:
		return b.PurchaseUnit(i.UnitType)
	case CancelIntent:
		return b.Cancel()
	case MoveCursorIntent:
		return b.MoveCursor(i.Pos)
	}
	return illegalf("unknown intent kind %d", i.Kind)
}

// LegalIntents enumerates the intents Apply would accept in the current
// phase. Cursor movement is left out since it never changes the outcome.
func (b *Battle) LegalIntents() []Intent {
	var intents []Intent
	switch b.phase {
	case SetupPhase:
		intents = append(intents, Intent{Kind: BeginTurnIntent})
	case IdlePhase:
		team := b.teams[b.active]
		for _, u := range team.Units {
			if !u.HasMoved {
				intents = append(intents, Intent{Kind: SelectIntent, Pos: u.Pos})
			}
		}
		// a shop the team cannot buy from is left to human players
		affordable := team.Funds >= b.cheapestUnit()
		for _, pos := range b.HeldObjectives(b.active) {
			if affordable && b.canOpenShop(pos) == nil {
				intents = append(intents, Intent{Kind: SelectIntent, Pos: pos})
			}
		}
		intents = append(intents, Intent{Kind: EndTurnIntent})
	case SelectedPhase:
		for _, pos := range b.MovementRange() {
			if b.canMoveTo(pos) == nil {
				intents = append(intents, Intent{Kind: MoveToIntent, Pos: pos})
			}
		}
		intents = append(intents, Intent{Kind: CancelIntent}, Intent{Kind: EndTurnIntent})
	case AwaitingActionPhase:
		for _, a := range b.actions {
			intents = append(intents, Intent{Kind: ChooseActionIntent, Action: a})
		}
	case AttackTargetingPhase:
		intents = append(intents, Intent{Kind: ConfirmAttackIntent})
		if len(b.targets) > 1 {
			intents = append(intents,
				Intent{Kind: CycleTargetIntent, Dir: 1},
				Intent{Kind: CycleTargetIntent, Dir: -1})
		}
		intents = append(intents, Intent{Kind: CancelIntent})
	case ShopPhase:
		for _, t := range UnitTypes {
			if b.rules.Cost(t) <= b.teams[b.active].Funds {
				intents = append(intents, Intent{Kind: PurchaseIntent, UnitType: t})
			}
		}
		intents = append(intents, Intent{Kind: CancelIntent})
	}
	return intents
}
