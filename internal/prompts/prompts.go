// Package prompts builds the three instructions sent to the generation
// backend. Builders are pure: they serialize planning context into text and
// never talk to the backend themselves.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"questline/internal/patterns"
	"questline/internal/planning"
)

// maxAtomsInPrompt caps how much of the skill map the daily prompt carries.
const maxAtomsInPrompt = 24

// skillMapSystem instructs the backend to decompose a goal into skill atoms.
const skillMapSystem = `You are a learning-plan decomposer for a daily quest app called Questline.
Your task is to break a long-term goal into a skill map of small, independently practicable units.

You must output ONLY a JSON object with this exact shape:
- skill_atoms: array of 12 to 18 atoms, each with:
  - id: short unique kebab-case string
  - label: human-readable name (2-6 words)
  - type: one of [concept, procedure, habit]
  - level: one of [intro, basic, intermediate, advanced]
  - bloom: one of [remember, understand, apply, analyze, evaluate, create]
  - prereq: array of ids of atoms in THIS map that should come first (may be empty)
  - representative_tasks: 1 to 6 short concrete tasks that exercise the atom
  - suggested_patterns: optional array of activity pattern ids

CRITICAL RULES:
1. Produce between 12 and 18 atoms, no more, no fewer
2. Every prereq id must name an atom in this same map
3. Tasks are terse imperatives ("conjugate 10 verbs"), not tutorials
4. If the goal touches legal, regulatory, medical, or other fact-sensitive
   specifics, the relevant atoms MUST include a representative task of the
   form "verify X against a primary source"
5. Output ONLY the JSON object, no markdown, no explanation`

// dailyQuestSystem instructs the backend to draft a day's quest list.
const dailyQuestSystem = `You are a daily quest planner for a goal app called Questline.
Given a user profile, today's planning envelope, and a skill map, draft today's quests.

You must output ONLY a JSON object with this exact shape:
- quests: array of 3 to 5 quests, each with:
  - title: short imperative title
  - pattern: one activity pattern id from the provided catalog
  - minutes: integer 10 to 90
  - difficulty: float 0 to 1
  - deliverable: one concrete artifact the user can point at afterwards
  - steps: optional array of at most 3 short steps
  - done_definition: 1 or more objective completion criteria
  - knowledge_check: optional array of {question, answer} pairs
  - tags: 1 or more topic tags
- rationale: optional array of strings explaining adjustments

CRITICAL RULES:
1. Quests are terse task prompts, never full tutorials or lesson text
2. Respect every constraint in the planning envelope: total minutes, session
   length preference, novelty ratio, and hard constraints
3. No two consecutive quests may share the same pattern
4. When a constraint forbids audio or speaking, substitute a silent pattern
   (e.g. read_note_quiz or flashcards instead of shadowing)
5. Output ONLY the JSON object, no markdown, no explanation`

// policyCheckSystem instructs the backend to repair a drafted quest list.
const policyCheckSystem = `You are a policy checker for a daily quest planner called Questline.
You will receive a candidate quest list and the binding constraints it must satisfy.
Detect and correct constraint violations, duplicate or over-concentrated patterns, and modality imbalance.

Return the corrected quest list: output ONLY a JSON object with:
- quests: the corrected array (same shape as the input quests, 3 to 5 entries)
- rationale: array of strings, one per adjustment you made (empty if none)

CRITICAL RULES:
1. Keep every quest's intent; adjust minutes, patterns, and order, not goals
2. Total minutes must not exceed the stated maximum
3. No two consecutive quests may share the same pattern
4. Do not invent new quests unless one must be split to fit the budget
5. Output ONLY the JSON object, no markdown, no explanation`

// SkillMap builds the stage-1 instruction from a goal statement and optional
// level/priority tags.
func SkillMap(goal string, currentLevelTags, priorityAreas []string) (system, user string) {
	var b strings.Builder
	b.WriteString("Long-term goal: ")
	b.WriteString(strings.TrimSpace(goal))
	b.WriteString("\n")
	if len(currentLevelTags) > 0 {
		fmt.Fprintf(&b, "Current level: %s\n", strings.Join(currentLevelTags, ", "))
	}
	if len(priorityAreas) > 0 {
		fmt.Fprintf(&b, "Priority areas: %s\n", strings.Join(priorityAreas, ", "))
	}
	b.WriteString("\nReturn the skill_atoms JSON now.")
	return skillMapSystem, b.String()
}

// DailyQuest builds the stage-2 instruction from the profile, its derived
// envelope, the day's checkin, and the skill map (capped at 24 atoms).
func DailyQuest(p planning.Profile, d planning.Derived, c planning.DailyCheckin, atoms []planning.SkillAtom) (system, user string) {
	if len(atoms) > maxAtomsInPrompt {
		atoms = atoms[:maxAtomsInPrompt]
	}

	var b strings.Builder
	b.WriteString("Activity pattern catalog:\n")
	b.WriteString(patterns.RenderList())
	b.WriteString("\nPlanning envelope:\n")
	fmt.Fprintf(&b, "- total minutes today: at most %d (capacity %d, checkin delta %+d)\n",
		maxInt(10, d.DailyCapacityMin+c.AvailableTimeDeltaMin), d.DailyCapacityMin, c.AvailableTimeDeltaMin)
	fmt.Fprintf(&b, "- aim for %d quests of about %d minutes each\n", d.QuestCountHint, p.PreferredSessionLengthMin)
	fmt.Fprintf(&b, "- novelty ratio: about %.2f of quests should introduce something new\n", d.NoveltyRatio)
	fmt.Fprintf(&b, "- target difficulty: %.2f (tolerance %.2f)\n", d.DifficultyHint, d.DifficultyRating)
	fmt.Fprintf(&b, "- energy today: %d/5, noise level: %s\n", c.EnergyLevel, c.FocusNoise)
	b.WriteString("- no two consecutive quests may share a pattern\n")
	if len(p.EnvConstraints) > 0 {
		fmt.Fprintf(&b, "- environment constraints: %s\n", strings.Join(p.EnvConstraints, ", "))
	}
	if len(p.HardConstraints) > 0 {
		fmt.Fprintf(&b, "- hard constraints (never violate): %s\n", strings.Join(p.HardConstraints, ", "))
	}
	if len(p.ModalityPreference) > 0 {
		fmt.Fprintf(&b, "- preferred modalities: %s\n", joinEnum(p.ModalityPreference))
	}
	if len(p.DeliverablePreference) > 0 {
		fmt.Fprintf(&b, "- preferred deliverables: %s\n", joinEnum(p.DeliverablePreference))
	}

	b.WriteString("\nSkill map (work on the earliest unfinished atoms first):\n")
	b.WriteString(renderJSON(atoms))
	b.WriteString("\n\nReturn the quests JSON now.")
	return dailyQuestSystem, b.String()
}

// PolicyCheck builds the stage-3 instruction from a candidate quest list and
// its constraints.
func PolicyCheck(ql planning.QuestList, cons planning.Constraints) (system, user string) {
	var b strings.Builder
	b.WriteString("Binding constraints:\n")
	fmt.Fprintf(&b, "- total minutes: at most %d\n", cons.TotalMinutesMax)
	fmt.Fprintf(&b, "- preferred session length: %d minutes\n", cons.PreferredSessionLengthMin)
	fmt.Fprintf(&b, "- novelty ratio: %.2f\n", cons.NoveltyRatio)
	if cons.AvoidConsecutiveSamePattern {
		b.WriteString("- no two consecutive quests may share a pattern\n")
	}
	if len(cons.EnvConstraints) > 0 {
		fmt.Fprintf(&b, "- environment constraints: %s\n", strings.Join(cons.EnvConstraints, ", "))
	}

	b.WriteString("\nCandidate quest list:\n")
	b.WriteString(renderJSON(ql))
	b.WriteString("\n\nReturn the corrected quest list JSON now.")
	return policyCheckSystem, b.String()
}

func renderJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func joinEnum[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
