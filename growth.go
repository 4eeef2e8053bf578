package seq

import "math"

const minGrowCapacity = 4

// GrowthPolicy picks the next capacity when an insertion needs more room
// than capacity provides. Results below required are raised to required.
type GrowthPolicy func(capacity, required int) int

// DoublingGrowth doubles capacity, starting at four slots.
func DoublingGrowth(capacity, required int) int {
	next := minGrowCapacity
	if capacity > 0 {
		if capacity > math.MaxInt/2 {
			next = math.MaxInt
		} else {
			next = capacity * 2
		}
	}
	if next < required {
		next = required
	}
	return next
}

// ExactGrowth allocates exactly what is required.
func ExactGrowth(_, required int) int {
	return required
}
