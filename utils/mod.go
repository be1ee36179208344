package utils

// FindIndex returns the index of the first occurrence of item, or -1.
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Wrap steps i by delta around a ring of n slots. Negative deltas walk
// backwards; n must be positive.
func Wrap(i, delta, n int) int {
	if n <= 0 {
		panic("cannot wrap around an empty ring")
	}
	return ((i+delta)%n + n) % n
}
