// Package repair applies the deterministic, local corrections allowed on a
// validated quest list. These are the only places a borderline value is
// corrected instead of rejected, and none of them call the backend.
package repair

import (
	"math"

	"questline/internal/planning"
)

const (
	snapWindow = 5
	minMinutes = 10
	maxMinutes = 90
)

// ClampSessions snaps each quest's minutes to the preferred session length
// when within the snap window, and clamps to [10, 90] otherwise. Idempotent.
func ClampSessions(ql planning.QuestList, preferredSession int) planning.QuestList {
	out := cloneList(ql)
	for i, q := range out.Quests {
		if abs(q.Minutes-preferredSession) <= snapWindow {
			out.Quests[i].Minutes = preferredSession
			continue
		}
		if q.Minutes < minMinutes {
			out.Quests[i].Minutes = minMinutes
		} else if q.Minutes > maxMinutes {
			out.Quests[i].Minutes = maxMinutes
		}
	}
	return out
}

// ScaleToBudget scales every quest's minutes down proportionally when the
// total exceeds maxTotal, rounding, with a floor of 10 minutes per quest.
// The floor can leave the scaled total above maxTotal; the returned total
// makes that visible to the caller rather than hiding it.
func ScaleToBudget(ql planning.QuestList, maxTotal int) (planning.QuestList, int) {
	out := cloneList(ql)
	total := out.TotalMinutes()
	if total <= maxTotal || total == 0 {
		return out, total
	}
	ratio := float64(maxTotal) / float64(total)
	for i, q := range out.Quests {
		scaled := int(math.Round(float64(q.Minutes) * ratio))
		if scaled < minMinutes {
			scaled = minMinutes
		}
		out.Quests[i].Minutes = scaled
	}
	return out, out.TotalMinutes()
}

// Decluster reorders quests so that no two consecutive quests share a
// pattern, where possible. When a quest repeats its predecessor's pattern,
// the nearest later quest with a different pattern is moved ahead of it.
// Best effort: a repeated pair survives when no alternative exists. The
// multiset of quests is never changed, only the order.
func Decluster(ql planning.QuestList) planning.QuestList {
	out := cloneList(ql)
	quests := out.Quests
	for i := 1; i < len(quests); i++ {
		if quests[i].Pattern != quests[i-1].Pattern {
			continue
		}
		j := i + 1
		for j < len(quests) && quests[j].Pattern == quests[i-1].Pattern {
			j++
		}
		if j == len(quests) {
			continue
		}
		// Move quests[j] to position i, shifting the run right by one.
		moved := quests[j]
		copy(quests[i+1:j+1], quests[i:j])
		quests[i] = moved
	}
	return out
}

func cloneList(ql planning.QuestList) planning.QuestList {
	out := planning.QuestList{
		Quests:    make([]planning.Quest, len(ql.Quests)),
		Rationale: append([]string(nil), ql.Rationale...),
	}
	copy(out.Quests, ql.Quests)
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
