package planning

import (
	"encoding/json"
	"fmt"

	"questline/internal/patterns"
	"questline/internal/xerrors"
)

// The decoders below are the final gate before extracted backend data is
// trusted. Violations are reported, never coerced; the only corrections
// allowed anywhere are the ones the repair pass defines explicitly.

const (
	minSkillAtoms = 10
	maxSkillAtoms = 24
	minQuests     = 3
	maxQuests     = 5
)

// DecodeSkillMap re-types a raw extracted payload as a SkillMap and checks
// every field contract. Accepts either {"skill_atoms": [...]} or a bare
// top-level atom array.
func DecodeSkillMap(raw []byte) (*SkillMap, error) {
	var sm SkillMap
	if err := json.Unmarshal(raw, &sm); err != nil {
		var atoms []SkillAtom
		if arrErr := json.Unmarshal(raw, &atoms); arrErr != nil {
			return nil, xerrors.NewSchemaViolation("skill_map", "", "object with skill_atoms or atom array", truncate(raw))
		}
		sm.SkillAtoms = atoms
	}
	if n := len(sm.SkillAtoms); n < minSkillAtoms || n > maxSkillAtoms {
		return nil, xerrors.NewSchemaViolation("skill_map", "skill_atoms",
			fmt.Sprintf("between %d and %d atoms", minSkillAtoms, maxSkillAtoms), n)
	}
	for i, atom := range sm.SkillAtoms {
		if err := validateSkillAtom(atom, fmt.Sprintf("skill_atoms[%d]", i)); err != nil {
			return nil, err
		}
	}
	return &sm, nil
}

func validateSkillAtom(atom SkillAtom, path string) error {
	if atom.ID == "" {
		return xerrors.NewSchemaViolation("skill_map", path+".id", "non-empty string", atom.ID)
	}
	if atom.Label == "" {
		return xerrors.NewSchemaViolation("skill_map", path+".label", "non-empty string", atom.Label)
	}
	switch atom.Type {
	case AtomConcept, AtomProcedure, AtomHabit:
	default:
		return xerrors.NewSchemaViolation("skill_map", path+".type", "one of concept|procedure|habit", atom.Type)
	}
	switch atom.Level {
	case LevelIntro, LevelBasic, LevelIntermediate, LevelAdvanced:
	default:
		return xerrors.NewSchemaViolation("skill_map", path+".level", "one of intro|basic|intermediate|advanced", atom.Level)
	}
	switch atom.Bloom {
	case CogRemember, CogUnderstand, CogApply, CogAnalyze, CogEvaluate, CogCreate:
	default:
		return xerrors.NewSchemaViolation("skill_map", path+".bloom", "one of remember|understand|apply|analyze|evaluate|create", atom.Bloom)
	}
	if n := len(atom.RepresentativeTasks); n < 1 || n > 6 {
		return xerrors.NewSchemaViolation("skill_map", path+".representative_tasks", "between 1 and 6 tasks", n)
	}
	for j, p := range atom.SuggestedPatterns {
		if !patterns.Valid(p) {
			return xerrors.NewSchemaViolation("skill_map", fmt.Sprintf("%s.suggested_patterns[%d]", path, j), "catalog pattern id", p)
		}
	}
	return nil
}

// FilterUnknownPrereqs drops prereq ids that do not name an atom in the same
// map and returns how many were removed. Existence is enforced; cycles are
// left advisory.
func FilterUnknownPrereqs(sm *SkillMap) int {
	known := make(map[string]bool, len(sm.SkillAtoms))
	for _, atom := range sm.SkillAtoms {
		known[atom.ID] = true
	}
	dropped := 0
	for i := range sm.SkillAtoms {
		kept := sm.SkillAtoms[i].Prereqs[:0]
		for _, id := range sm.SkillAtoms[i].Prereqs {
			if known[id] {
				kept = append(kept, id)
			} else {
				dropped++
			}
		}
		sm.SkillAtoms[i].Prereqs = kept
	}
	return dropped
}

// DecodeQuestList re-types a raw extracted payload as a QuestList and checks
// every field contract. Accepts either {"quests": [...]} or a bare quest
// array.
func DecodeQuestList(raw []byte) (*QuestList, error) {
	var ql QuestList
	if err := json.Unmarshal(raw, &ql); err != nil {
		var quests []Quest
		if arrErr := json.Unmarshal(raw, &quests); arrErr != nil {
			return nil, xerrors.NewSchemaViolation("quest_list", "", "object with quests or quest array", truncate(raw))
		}
		ql.Quests = quests
	}
	if n := len(ql.Quests); n < minQuests || n > maxQuests {
		return nil, xerrors.NewSchemaViolation("quest_list", "quests",
			fmt.Sprintf("between %d and %d quests", minQuests, maxQuests), n)
	}
	for i, q := range ql.Quests {
		if err := validateQuest(q, fmt.Sprintf("quests[%d]", i)); err != nil {
			return nil, err
		}
	}
	return &ql, nil
}

func validateQuest(q Quest, path string) error {
	if q.Title == "" {
		return xerrors.NewSchemaViolation("quest_list", path+".title", "non-empty string", q.Title)
	}
	if !patterns.Valid(q.Pattern) {
		return xerrors.NewSchemaViolation("quest_list", path+".pattern", "catalog pattern id", q.Pattern)
	}
	if q.Minutes < 10 || q.Minutes > 90 {
		return xerrors.NewSchemaViolation("quest_list", path+".minutes", "integer in [10, 90]", q.Minutes)
	}
	if q.Difficulty < 0 || q.Difficulty > 1 {
		return xerrors.NewSchemaViolation("quest_list", path+".difficulty", "float in [0, 1]", q.Difficulty)
	}
	if q.Deliverable == "" {
		return xerrors.NewSchemaViolation("quest_list", path+".deliverable", "non-empty string", q.Deliverable)
	}
	if len(q.Steps) > 3 {
		return xerrors.NewSchemaViolation("quest_list", path+".steps", "at most 3 steps", len(q.Steps))
	}
	if len(q.DoneDefinition) < 1 {
		return xerrors.NewSchemaViolation("quest_list", path+".done_definition", "at least 1 criterion", len(q.DoneDefinition))
	}
	if len(q.Tags) < 1 {
		return xerrors.NewSchemaViolation("quest_list", path+".tags", "at least 1 tag", len(q.Tags))
	}
	return nil
}

// ValidateProfile checks the caller-supplied profile before the pipeline
// uses it. Callers own collection; this is the defensive boundary check.
func ValidateProfile(p Profile) error {
	if p.TimeBudgetMinPerDay < 15 || p.TimeBudgetMinPerDay > 240 {
		return xerrors.NewSchemaViolation("profile", "time_budget_min_per_day", "integer in [15, 240]", p.TimeBudgetMinPerDay)
	}
	if len(p.PeakHours) > 8 {
		return xerrors.NewSchemaViolation("profile", "peak_hours", "at most 8 hours", len(p.PeakHours))
	}
	for i, h := range p.PeakHours {
		if h < 0 || h > 23 {
			return xerrors.NewSchemaViolation("profile", fmt.Sprintf("peak_hours[%d]", i), "hour of day in [0, 23]", h)
		}
	}
	if len(p.EnvConstraints) > 10 {
		return xerrors.NewSchemaViolation("profile", "env_constraints", "at most 10 tags", len(p.EnvConstraints))
	}
	if len(p.HardConstraints) > 10 {
		return xerrors.NewSchemaViolation("profile", "hard_constraints", "at most 10 tags", len(p.HardConstraints))
	}
	switch p.MotivationStyle {
	case MotivationPush, MotivationPull, MotivationSocial:
	default:
		return xerrors.NewSchemaViolation("profile", "motivation_style", "one of push|pull|social", p.MotivationStyle)
	}
	if p.DifficultyTolerance < 0 || p.DifficultyTolerance > 1 {
		return xerrors.NewSchemaViolation("profile", "difficulty_tolerance", "float in [0, 1]", p.DifficultyTolerance)
	}
	if p.NoveltyPreference < 0 || p.NoveltyPreference > 1 {
		return xerrors.NewSchemaViolation("profile", "novelty_preference", "float in [0, 1]", p.NoveltyPreference)
	}
	switch p.PacingStyle {
	case PacingSprint, PacingCadence:
	default:
		return xerrors.NewSchemaViolation("profile", "pacing_style", "one of sprint|cadence", p.PacingStyle)
	}
	if p.HeatLevel < 1 || p.HeatLevel > 5 {
		return xerrors.NewSchemaViolation("profile", "heat_level", "integer in [1, 5]", p.HeatLevel)
	}
	if p.PreferredSessionLengthMin < 10 || p.PreferredSessionLengthMin > 60 {
		return xerrors.NewSchemaViolation("profile", "preferred_session_length_min", "integer in [10, 60]", p.PreferredSessionLengthMin)
	}
	if len(p.ModalityPreference) > 5 {
		return xerrors.NewSchemaViolation("profile", "modality_preference", "at most 5 entries", len(p.ModalityPreference))
	}
	for i, m := range p.ModalityPreference {
		switch m {
		case ModalityRead, ModalityVideo, ModalityAudio, ModalityDialog, ModalityHandsOn:
		default:
			return xerrors.NewSchemaViolation("profile", fmt.Sprintf("modality_preference[%d]", i), "one of read|video|audio|dialog|hands_on", m)
		}
	}
	if len(p.DeliverablePreference) > 5 {
		return xerrors.NewSchemaViolation("profile", "deliverable_preference", "at most 5 entries", len(p.DeliverablePreference))
	}
	for i, d := range p.DeliverablePreference {
		switch d {
		case DeliverableNote, DeliverableFlashcards, DeliverableSnippet, DeliverableMindmap, DeliverableChecklist:
		default:
			return xerrors.NewSchemaViolation("profile", fmt.Sprintf("deliverable_preference[%d]", i), "one of note|flashcards|snippet|mindmap|checklist", d)
		}
	}
	if p.WeeklyMinimumCommitMin < 60 || p.WeeklyMinimumCommitMin > 600 {
		return xerrors.NewSchemaViolation("profile", "weekly_minimum_commit_min", "integer in [60, 600]", p.WeeklyMinimumCommitMin)
	}
	switch p.GoalMotivation {
	case MotivationLow, MotivationMid, MotivationHigh:
	default:
		return xerrors.NewSchemaViolation("profile", "goal_motivation", "one of low|mid|high", p.GoalMotivation)
	}
	return nil
}

// ApplyDefaults fills optional profile fields with their documented defaults.
func (p *Profile) ApplyDefaults() {
	if p.PreferredSessionLengthMin == 0 {
		p.PreferredSessionLengthMin = 20
	}
	if p.GoalMotivation == "" {
		p.GoalMotivation = MotivationMid
	}
}

// ValidateCheckin checks the day's adjustment signal.
func ValidateCheckin(c DailyCheckin) error {
	if c.EnergyLevel < 1 || c.EnergyLevel > 5 {
		return xerrors.NewSchemaViolation("checkin", "energy_level", "integer in [1, 5]", c.EnergyLevel)
	}
	if c.AvailableTimeDeltaMin < -60 || c.AvailableTimeDeltaMin > 60 {
		return xerrors.NewSchemaViolation("checkin", "available_time_today_delta_min", "integer in [-60, 60]", c.AvailableTimeDeltaMin)
	}
	switch c.FocusNoise {
	case "low", "mid", "high":
	default:
		return xerrors.NewSchemaViolation("checkin", "focus_noise", "one of low|mid|high", c.FocusNoise)
	}
	return nil
}

func truncate(raw []byte) string {
	const max = 80
	if len(raw) <= max {
		return string(raw)
	}
	return string(raw[:max]) + "..."
}
