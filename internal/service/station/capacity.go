package station

// Recompute returns the available slot count after capacity changes from
// currentTotal to newTotal, keeping the number of occupied slots when it fits.
// If fewer slots remain than are in use, availability drops to zero.
// Callers reject newTotal <= 0 before calling.
func Recompute(currentAvailable, currentTotal, newTotal int) int {
	used := currentTotal - currentAvailable
	if used < 0 {
		used = 0
	}
	if used > newTotal {
		used = newTotal
	}
	return clamp(newTotal-used, 0, newTotal)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
