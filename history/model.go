package history

import (
	"time"
	"wars/game"
)

// MatchRecord is one finished (or abandoned) battle.
type MatchRecord struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	Name      string `gorm:"index"`
	Players   int
	Agents    string // comma separated, one per team; empty for human play
	Winner    int    // -1 without a winner
	Reason    string
	Turns     int
	Intents   int
	FinalSave string        // the last position in save-file format
	Events    []EventRecord `gorm:"foreignKey:MatchID;constraint:OnDelete:CASCADE"`
}

// EventRecord is a persisted game.Event.
type EventRecord struct {
	ID       uint `gorm:"primaryKey"`
	MatchID  uint `gorm:"index"`
	Seq      int
	Kind     string
	Turn     int
	Team     int
	UnitID   int
	UnitType string
	TargetID int
	FromRow  int
	FromCol  int
	ToRow    int
	ToCol    int
	Amount   int
	Counter  int
}

var models = []interface{}{
	&MatchRecord{},
	&EventRecord{},
}

func newEventRecord(seq int, e game.Event) EventRecord {
	r := EventRecord{
		Seq:      seq,
		Kind:     e.Kind.String(),
		Turn:     e.Turn,
		Team:     e.Team,
		UnitID:   e.UnitID,
		TargetID: e.TargetID,
		FromRow:  e.From.Row,
		FromCol:  e.From.Col,
		ToRow:    e.To.Row,
		ToCol:    e.To.Col,
		Amount:   e.Amount,
		Counter:  e.Counter,
	}
	if e.UnitType.Valid() {
		r.UnitType = e.UnitType.String()
	}
	return r
}
