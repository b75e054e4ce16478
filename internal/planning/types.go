// Package planning defines the quest-planning entities and the contracts
// enforced on every boundary crossing. Values extracted from backend output
// are never trusted until they have passed through this package's decoders.
package planning

import "questline/internal/patterns"

// MotivationStyle is how the user prefers to be pushed toward a goal.
type MotivationStyle string

const (
	MotivationPush   MotivationStyle = "push"
	MotivationPull   MotivationStyle = "pull"
	MotivationSocial MotivationStyle = "social"
)

// PacingStyle is the user's preferred cadence of effort.
type PacingStyle string

const (
	PacingSprint  PacingStyle = "sprint"
	PacingCadence PacingStyle = "cadence"
)

// GoalMotivation is the qualitative strength of the user's commitment.
type GoalMotivation string

const (
	MotivationLow  GoalMotivation = "low"
	MotivationMid  GoalMotivation = "mid"
	MotivationHigh GoalMotivation = "high"
)

// Modality is a learning input channel preference.
type Modality string

const (
	ModalityRead    Modality = "read"
	ModalityVideo   Modality = "video"
	ModalityAudio   Modality = "audio"
	ModalityDialog  Modality = "dialog"
	ModalityHandsOn Modality = "hands_on"
)

// Deliverable is a preferred quest output artifact kind.
type Deliverable string

const (
	DeliverableNote       Deliverable = "note"
	DeliverableFlashcards Deliverable = "flashcards"
	DeliverableSnippet    Deliverable = "snippet"
	DeliverableMindmap    Deliverable = "mindmap"
	DeliverableChecklist  Deliverable = "checklist"
)

// Profile captures a user's planning preferences. It is created at
// onboarding, owned by the caller, and immutable within one generation call.
type Profile struct {
	TimeBudgetMinPerDay       int             `json:"time_budget_min_per_day" yaml:"time_budget_min_per_day"`
	PeakHours                 []int           `json:"peak_hours,omitempty" yaml:"peak_hours,omitempty"`
	EnvConstraints            []string        `json:"env_constraints,omitempty" yaml:"env_constraints,omitempty"`
	HardConstraints           []string        `json:"hard_constraints,omitempty" yaml:"hard_constraints,omitempty"`
	MotivationStyle           MotivationStyle `json:"motivation_style" yaml:"motivation_style"`
	DifficultyTolerance       float64         `json:"difficulty_tolerance" yaml:"difficulty_tolerance"`
	NoveltyPreference         float64         `json:"novelty_preference" yaml:"novelty_preference"`
	PacingStyle               PacingStyle     `json:"pacing_style" yaml:"pacing_style"`
	LongTermGoal              string          `json:"long_term_goal,omitempty" yaml:"long_term_goal,omitempty"`
	CurrentLevelTags          []string        `json:"current_level_tags,omitempty" yaml:"current_level_tags,omitempty"`
	PriorityAreas             []string        `json:"priority_areas,omitempty" yaml:"priority_areas,omitempty"`
	HeatLevel                 int             `json:"heat_level" yaml:"heat_level"`
	PreferredSessionLengthMin int             `json:"preferred_session_length_min" yaml:"preferred_session_length_min"`
	ModalityPreference        []Modality      `json:"modality_preference,omitempty" yaml:"modality_preference,omitempty"`
	DeliverablePreference     []Deliverable   `json:"deliverable_preference,omitempty" yaml:"deliverable_preference,omitempty"`
	WeeklyMinimumCommitMin    int             `json:"weekly_minimum_commit_min" yaml:"weekly_minimum_commit_min"`
	GoalMotivation            GoalMotivation  `json:"goal_motivation" yaml:"goal_motivation"`
}

// Derived is the computed planning envelope for one day. Always recomputed
// from a Profile, never persisted.
type Derived struct {
	DailyCapacityMin int     `json:"daily_capacity_min"`
	QuestCountHint   int     `json:"quest_count_hint"`
	NoveltyRatio     float64 `json:"novelty_ratio"`
	DifficultyRating float64 `json:"difficulty_rating"`
	DifficultyHint   float64 `json:"difficulty_hint"`
}

// DailyCheckin is the ephemeral same-day adjustment layered on the profile.
type DailyCheckin struct {
	EnergyLevel           int    `json:"energy_level" yaml:"energy_level"`
	AvailableTimeDeltaMin int    `json:"available_time_today_delta_min" yaml:"available_time_today_delta_min"`
	FocusNoise            string `json:"focus_noise" yaml:"focus_noise"`
}

// NeutralCheckin returns the defaults used when no checkin was supplied.
func NeutralCheckin() DailyCheckin {
	return DailyCheckin{EnergyLevel: 3, AvailableTimeDeltaMin: 0, FocusNoise: "mid"}
}

// AtomType classifies a skill atom.
type AtomType string

const (
	AtomConcept   AtomType = "concept"
	AtomProcedure AtomType = "procedure"
	AtomHabit     AtomType = "habit"
)

// AtomLevel is the proficiency band a skill atom targets.
type AtomLevel string

const (
	LevelIntro        AtomLevel = "intro"
	LevelBasic        AtomLevel = "basic"
	LevelIntermediate AtomLevel = "intermediate"
	LevelAdvanced     AtomLevel = "advanced"
)

// CognitiveLevel follows the remember..create ladder.
type CognitiveLevel string

const (
	CogRemember   CognitiveLevel = "remember"
	CogUnderstand CognitiveLevel = "understand"
	CogApply      CognitiveLevel = "apply"
	CogAnalyze    CognitiveLevel = "analyze"
	CogEvaluate   CognitiveLevel = "evaluate"
	CogCreate     CognitiveLevel = "create"
)

// SkillAtom is one unit of a decomposed skill map.
type SkillAtom struct {
	ID                  string             `json:"id"`
	Label               string             `json:"label"`
	Type                AtomType           `json:"type"`
	Level               AtomLevel          `json:"level"`
	Bloom               CognitiveLevel     `json:"bloom"`
	Prereqs             []string           `json:"prereq,omitempty"`
	RepresentativeTasks []string           `json:"representative_tasks"`
	SuggestedPatterns   []patterns.Pattern `json:"suggested_patterns,omitempty"`
}

// SkillMap is the validated output of the skill-mapping stage.
type SkillMap struct {
	SkillAtoms []SkillAtom `json:"skill_atoms"`
}

// QA is one knowledge-check question/answer pair attached to a quest.
type QA struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Quest is one concrete, time-boxed daily task.
type Quest struct {
	Title          string           `json:"title"`
	Pattern        patterns.Pattern `json:"pattern"`
	Minutes        int              `json:"minutes"`
	Difficulty     float64          `json:"difficulty"`
	Deliverable    string           `json:"deliverable"`
	Steps          []string         `json:"steps,omitempty"`
	DoneDefinition []string         `json:"done_definition"`
	KnowledgeCheck []QA             `json:"knowledge_check,omitempty"`
	Tags           []string         `json:"tags"`
}

// QuestList is a day's quests plus optional adjustment rationale.
type QuestList struct {
	Quests    []Quest  `json:"quests"`
	Rationale []string `json:"rationale,omitempty"`
}

// TotalMinutes sums quest minutes.
func (ql QuestList) TotalMinutes() int {
	total := 0
	for _, q := range ql.Quests {
		total += q.Minutes
	}
	return total
}

// Constraints is the enforceable envelope for one quest list.
type Constraints struct {
	TotalMinutesMax             int      `json:"total_minutes_max"`
	PreferredSessionLengthMin   int      `json:"preferred_session_length_min"`
	NoveltyRatio                float64  `json:"novelty_ratio"`
	EnvConstraints              []string `json:"env_constraints,omitempty"`
	AvoidConsecutiveSamePattern bool     `json:"avoid_consecutive_same_pattern"`
}
