package gamemaster

import (
	"fmt"
	"sync"
	"wars/game"
	"wars/history"
	"wars/meta"

	"github.com/rs/zerolog/log"
)

// ErrSessionOver is returned by Play once the battle has a winner.
var ErrSessionOver = fmt.Errorf("game is over - no moves allowed")

// Update is published after every accepted intent.
type Update struct {
	Intent   game.Intent    `json:"intent"`
	Snapshot game.Snapshot  `json:"snapshot"`
	Hash     game.StateHash `json:"hash"`
}

// Session owns one battle and serialises everyone playing it.
type Session struct {
	mu          sync.Mutex
	name        string
	battle      *game.Battle
	subscribers []chan Update
	updateCh    chan Update
	gameOver    bool
	closed      bool
	intents     int
	agents      []string
	recorder    *history.Recorder
	store       *history.Store
}

type Option func(*sessionOptions)

type sessionOptions struct {
	name        string
	battleOpts  []game.Option
	store       *history.Store
	agents      []string
	startPaused bool
}

// WithBattleOptions passes options through to game.NewBattle.
func WithBattleOptions(opts ...game.Option) Option {
	return func(o *sessionOptions) { o.battleOpts = append(o.battleOpts, opts...) }
}

// WithHistory records the match in store under name when it ends.
func WithHistory(store *history.Store, name string) Option {
	return func(o *sessionOptions) {
		o.store = store
		o.name = name
	}
}

// WithAgents labels the controller of each team in the match history.
func WithAgents(agents ...string) Option {
	return func(o *sessionOptions) { o.agents = agents }
}

// WithoutBeginTurn leaves the battle in SetupPhase so a client sends BeginTurn.
func WithoutBeginTurn() Option {
	return func(o *sessionOptions) { o.startPaused = true }
}

// NewSession builds a battle from the scenario and begins its first turn.
func NewSession(s *game.Scenario, opts ...Option) (*Session, error) {
	o := sessionOptions{name: "session"}
	for _, opt := range opts {
		opt(&o)
	}

	session := &Session{
		name:   o.name,
		agents: o.agents,
		store:  o.store,
	}
	battleOpts := o.battleOpts
	if o.store != nil {
		session.recorder = history.NewRecorder()
		battleOpts = append(battleOpts, game.WithObserver(session.recorder))
	}
	b, err := game.NewBattleFromScenario(s, battleOpts...)
	if err != nil {
		return nil, err
	}
	session.battle = b
	if !o.startPaused {
		if err := b.BeginTurn(); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// Play applies an intent. Rejected intents leave the battle untouched and
// publish nothing.
func (s *Session) Play(i game.Intent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.play(i)
}

// PlayFor asks choose for an intent if team is the active team, and plays
// it. It reports whether it played.
func (s *Session) PlayFor(team int, choose func(*game.Battle) game.Intent) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameOver || s.battle.ActiveTeam() != team || s.battle.Phase() == game.SetupPhase {
		return false, nil
	}
	return true, s.play(choose(s.battle))
}

func (s *Session) play(i game.Intent) error {
	if s.gameOver {
		return ErrSessionOver
	}
	if err := s.battle.Apply(i); err != nil {
		return err
	}
	s.intents++

	u := Update{Intent: i, Snapshot: s.battle.Snapshot()}
	u.Hash = u.Snapshot.Hash
	s.publish(u)

	if s.battle.GameOver() {
		s.gameOver = true
		log.Info().Msgf("%s: team %s won on turn %d", s.name, game.TeamColor(s.battle.Winner()), s.battle.Turn())
		s.record()
		s.closeSubscribers()
	}
	return nil
}

// publish never blocks; a subscriber that stopped reading misses updates.
func (s *Session) publish(u Update) {
	for _, ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			log.Debug().Msgf("%s: dropping update %v for a slow subscriber", s.name, u.Intent)
		}
	}
}

// Updates returns the session's default update channel. It is closed when
// the game ends.
func (s *Session) Updates() <-chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateCh == nil {
		s.updateCh = s.subscribe()
	}
	return s.updateCh
}

// Subscribe returns a new update channel and a function that detaches it.
func (s *Session) Subscribe() (<-chan Update, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := s.subscribe()
	return ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub == ch {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				close(ch)
				return
			}
		}
	}
}

func (s *Session) subscribe() chan Update {
	ch := make(chan Update, meta.UPDATE_BUFFER)
	if s.gameOver || s.closed {
		close(ch)
		return ch
	}
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *Session) closeSubscribers() {
	for _, ch := range s.subscribers {
		close(ch)
	}
	s.subscribers = nil
}

func (s *Session) Snapshot() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle.Snapshot()
}

// Save returns the current position in save-file format.
func (s *Session) Save() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.battle.Scenario().Format()
}

func (s *Session) GameOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameOver
}

// Close ends the session, recording an unfinished match if the game is
// still running.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if !s.gameOver {
		s.record()
	}
	s.closeSubscribers()
}

func (s *Session) record() {
	if s.store == nil {
		return
	}
	match := s.recorder.Match(s.name, s.battle, s.agents)
	match.Intents = s.intents
	if err := s.store.SaveMatch(match); err != nil {
		log.Error().Err(err).Msgf("%s: failed to record match", s.name)
		return
	}
	log.Debug().Msgf("%s: recorded match %d", s.name, match.ID)
}
