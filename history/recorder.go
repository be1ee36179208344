package history

import (
	"strings"
	"sync"
	"wars/game"
)

// Recorder buffers a battle's events until the match is saved.
type Recorder struct {
	mu     sync.Mutex
	events []EventRecord
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Observe(e game.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, newEventRecord(len(r.events)+1, e))
}

func (r *Recorder) Events() []EventRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]EventRecord(nil), r.events...)
}

// Match builds a record of the battle in its current state with the events
// seen so far.
func (r *Recorder) Match(name string, b *game.Battle, agents []string) *MatchRecord {
	reason := "unfinished"
	if b.GameOver() {
		reason = "victory"
	}
	return &MatchRecord{
		Name:      name,
		Players:   b.NumPlayers(),
		Agents:    strings.Join(agents, ","),
		Winner:    b.Winner(),
		Reason:    reason,
		Turns:     b.Turn(),
		FinalSave: b.Scenario().Format(),
		Events:    r.Events(),
	}
}
