package population

import "math"

// RoundHalfUp rounds to the nearest integer with ties away from zero.
// math.Round already breaks ties that way; math.RoundToEven would not.
func RoundHalfUp(v float64) int64 {
	return int64(math.Round(v))
}
