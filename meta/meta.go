// meta/meta.go
package meta

// MAX_TURNS caps a headless battle, counted across all teams.
const MAX_TURNS = 300

// MAX_MOVES caps the intents applied in a headless battle.
const MAX_MOVES = 10000

// GAMES is the default number of games per experiment matchup.
const GAMES = 10

// UPDATE_BUFFER is the capacity of a session's update channel.
const UPDATE_BUFFER = 64

// SEARCH_EPISODES is the number of MCTS episodes per intent of the search agent.
const SEARCH_EPISODES = 200

// SEARCH_CUTOFF bounds the search agent's rollouts.
const SEARCH_CUTOFF = 40

// SEARCH_GOROUTINES is the number of tree-parallel search workers.
const SEARCH_GOROUTINES = 4
