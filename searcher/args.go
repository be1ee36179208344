package searcher

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const WIN = 1.0   // Reward for winning outcome
const LOSS = -WIN // Reward for loss outcome

// MaxCutoff bounds a rollout before the evaluation function scores it.
const MaxCutoff = 200
