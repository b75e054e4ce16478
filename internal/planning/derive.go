package planning

import "math"

// DifficultyHint maps qualitative goal motivation to a target difficulty.
func DifficultyHint(motivation GoalMotivation) float64 {
	switch motivation {
	case MotivationLow:
		return 0.35
	case MotivationHigh:
		return 0.65
	default:
		return 0.50
	}
}

// HeatMultiplier scales daily capacity by the user's heat level. Levels
// outside 1..5 fall back to the neutral multiplier.
func HeatMultiplier(level int) float64 {
	switch level {
	case 1:
		return 0.6
	case 2:
		return 0.8
	case 3:
		return 1.0
	case 4:
		return 1.2
	case 5:
		return 1.4
	default:
		return 1.0
	}
}

// DeriveDaily computes the day's planning envelope from a profile. Pure and
// deterministic; recomputed on every generation call.
func DeriveDaily(p Profile) Derived {
	capacity := int(math.Floor(float64(p.TimeBudgetMinPerDay) * 0.8 * HeatMultiplier(p.HeatLevel)))
	session := clampInt(p.PreferredSessionLengthMin, 10, 60)
	hint := clampInt(int(math.Round(float64(capacity)/float64(session))), 3, 6)
	return Derived{
		DailyCapacityMin: capacity,
		QuestCountHint:   hint,
		NoveltyRatio:     p.NoveltyPreference,
		DifficultyRating: p.DifficultyTolerance,
		DifficultyHint:   DifficultyHint(p.GoalMotivation),
	}
}

// DeriveConstraints builds the enforceable envelope for one quest list from
// the profile, its derived envelope, and the day's checkin.
func DeriveConstraints(p Profile, d Derived, c DailyCheckin) Constraints {
	totalMax := d.DailyCapacityMin + c.AvailableTimeDeltaMin
	if totalMax < 10 {
		totalMax = 10
	}
	return Constraints{
		TotalMinutesMax:             totalMax,
		PreferredSessionLengthMin:   clampInt(p.PreferredSessionLengthMin, 10, 60),
		NoveltyRatio:                d.NoveltyRatio,
		EnvConstraints:              append([]string(nil), p.EnvConstraints...),
		AvoidConsecutiveSamePattern: true,
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
