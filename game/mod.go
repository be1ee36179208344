package game

// StateHash fingerprints a battle's observable state.
type StateHash uint64
