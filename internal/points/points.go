// Package points implements the workout point formula. Everything here is
// pure and deterministic; persistence and multiplier lookup happen in the
// service layer.
package points

import (
	"math"

	"fitquest/expedition-app/internal/domain"
)

// BasePointsFactor converts minutes x MET into points: Points = minutes x MET x 0.1.
const BasePointsFactor = 0.1

// Base returns the unscaled points for a workout of the given duration
// (minutes) and MET intensity.
func Base(durationMinutes int, metValue float64) float64 {
	return float64(durationMinutes) * metValue * BasePointsFactor
}

// Final scales base points by a character-class multiplier.
func Final(basePoints, multiplier float64) float64 {
	return basePoints * multiplier
}

// MultiplierFor selects the multiplier a character class applies to a
// workout. Solo workouts use SoloMultiplier, group workouts GroupMultiplier.
// Users without a class get a neutral 1.0.
func MultiplierFor(class *domain.CharacterClass, isSolo bool) float64 {
	if class == nil {
		return 1.0
	}
	if isSolo {
		return class.SoloMultiplier
	}
	return class.GroupMultiplier
}

// Round2 rounds to two decimal places. Stored points keep full precision;
// this is for presentation boundaries only.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
