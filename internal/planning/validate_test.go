package planning

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questline/internal/patterns"
	"questline/internal/xerrors"
)

func validAtom(i int) SkillAtom {
	return SkillAtom{
		ID:                  fmt.Sprintf("atom-%d", i),
		Label:               fmt.Sprintf("Atom %d", i),
		Type:                AtomConcept,
		Level:               LevelIntro,
		Bloom:               CogUnderstand,
		RepresentativeTasks: []string{"do the thing"},
	}
}

func validSkillMapJSON(t *testing.T, n int) []byte {
	t.Helper()
	sm := SkillMap{}
	for i := 0; i < n; i++ {
		sm.SkillAtoms = append(sm.SkillAtoms, validAtom(i))
	}
	raw, err := json.Marshal(sm)
	require.NoError(t, err)
	return raw
}

func TestDecodeSkillMap(t *testing.T) {
	sm, err := DecodeSkillMap(validSkillMapJSON(t, 12))
	require.NoError(t, err)
	assert.Len(t, sm.SkillAtoms, 12)
}

func TestDecodeSkillMapBareArray(t *testing.T) {
	var atoms []SkillAtom
	for i := 0; i < 10; i++ {
		atoms = append(atoms, validAtom(i))
	}
	raw, err := json.Marshal(atoms)
	require.NoError(t, err)

	sm, err := DecodeSkillMap(raw)
	require.NoError(t, err)
	assert.Len(t, sm.SkillAtoms, 10)
}

func TestDecodeSkillMapCardinality(t *testing.T) {
	_, err := DecodeSkillMap(validSkillMapJSON(t, 9))
	require.Error(t, err)
	assert.True(t, xerrors.IsSchemaViolation(err))

	_, err = DecodeSkillMap(validSkillMapJSON(t, 25))
	require.Error(t, err)
}

func TestDecodeSkillMapFieldViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*SkillAtom)
		field  string
	}{
		{"missing id", func(a *SkillAtom) { a.ID = "" }, ".id"},
		{"bad type", func(a *SkillAtom) { a.Type = "vibe" }, ".type"},
		{"bad level", func(a *SkillAtom) { a.Level = "expert" }, ".level"},
		{"bad bloom", func(a *SkillAtom) { a.Bloom = "memorize" }, ".bloom"},
		{"no tasks", func(a *SkillAtom) { a.RepresentativeTasks = nil }, ".representative_tasks"},
		{"too many tasks", func(a *SkillAtom) {
			a.RepresentativeTasks = []string{"1", "2", "3", "4", "5", "6", "7"}
		}, ".representative_tasks"},
		{"unknown pattern", func(a *SkillAtom) { a.SuggestedPatterns = []patterns.Pattern{"doomscroll"} }, ".suggested_patterns[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sm := SkillMap{}
			for i := 0; i < 12; i++ {
				sm.SkillAtoms = append(sm.SkillAtoms, validAtom(i))
			}
			tc.mutate(&sm.SkillAtoms[4])
			raw, err := json.Marshal(sm)
			require.NoError(t, err)

			_, err = DecodeSkillMap(raw)
			require.Error(t, err)
			var violation *xerrors.SchemaViolation
			require.ErrorAs(t, err, &violation)
			assert.Contains(t, violation.Field, "skill_atoms[4]"+tc.field)
		})
	}
}

func TestFilterUnknownPrereqs(t *testing.T) {
	sm := &SkillMap{}
	for i := 0; i < 10; i++ {
		sm.SkillAtoms = append(sm.SkillAtoms, validAtom(i))
	}
	sm.SkillAtoms[3].Prereqs = []string{"atom-0", "ghost-1", "atom-2", "ghost-2"}
	sm.SkillAtoms[5].Prereqs = []string{"atom-5"}

	dropped := FilterUnknownPrereqs(sm)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, []string{"atom-0", "atom-2"}, sm.SkillAtoms[3].Prereqs)
	assert.Equal(t, []string{"atom-5"}, sm.SkillAtoms[5].Prereqs)
}

func validQuest(i int) Quest {
	return Quest{
		Title:          fmt.Sprintf("Quest %d", i),
		Pattern:        "flashcards",
		Minutes:        20,
		Difficulty:     0.5,
		Deliverable:    "a reviewed deck",
		DoneDefinition: []string{"deck reviewed twice"},
		Tags:           []string{"vocab"},
	}
}

func validQuestListJSON(t *testing.T, n int) []byte {
	t.Helper()
	ql := QuestList{}
	for i := 0; i < n; i++ {
		ql.Quests = append(ql.Quests, validQuest(i))
	}
	raw, err := json.Marshal(ql)
	require.NoError(t, err)
	return raw
}

func TestDecodeQuestList(t *testing.T) {
	ql, err := DecodeQuestList(validQuestListJSON(t, 4))
	require.NoError(t, err)
	assert.Len(t, ql.Quests, 4)
	assert.Equal(t, 80, ql.TotalMinutes())
}

func TestDecodeQuestListCardinality(t *testing.T) {
	_, err := DecodeQuestList(validQuestListJSON(t, 2))
	require.Error(t, err)
	_, err = DecodeQuestList(validQuestListJSON(t, 6))
	require.Error(t, err)
}

func TestDecodeQuestListFieldViolations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Quest)
		field  string
	}{
		{"empty title", func(q *Quest) { q.Title = "" }, ".title"},
		{"unknown pattern", func(q *Quest) { q.Pattern = "binge" }, ".pattern"},
		{"minutes too low", func(q *Quest) { q.Minutes = 5 }, ".minutes"},
		{"minutes too high", func(q *Quest) { q.Minutes = 120 }, ".minutes"},
		{"difficulty out of range", func(q *Quest) { q.Difficulty = 1.5 }, ".difficulty"},
		{"no deliverable", func(q *Quest) { q.Deliverable = "" }, ".deliverable"},
		{"too many steps", func(q *Quest) { q.Steps = []string{"a", "b", "c", "d"} }, ".steps"},
		{"no done definition", func(q *Quest) { q.DoneDefinition = nil }, ".done_definition"},
		{"no tags", func(q *Quest) { q.Tags = nil }, ".tags"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ql := QuestList{}
			for i := 0; i < 3; i++ {
				ql.Quests = append(ql.Quests, validQuest(i))
			}
			tc.mutate(&ql.Quests[1])
			raw, err := json.Marshal(ql)
			require.NoError(t, err)

			_, err = DecodeQuestList(raw)
			require.Error(t, err)
			var violation *xerrors.SchemaViolation
			require.ErrorAs(t, err, &violation)
			assert.Contains(t, violation.Field, "quests[1]"+tc.field)
		})
	}
}

func TestDecodeQuestListGarbage(t *testing.T) {
	_, err := DecodeQuestList([]byte(`"just a string"`))
	require.Error(t, err)
	assert.True(t, xerrors.IsSchemaViolation(err))
}

func TestValidateProfile(t *testing.T) {
	p := baseProfile()
	assert.NoError(t, ValidateProfile(p))

	p.TimeBudgetMinPerDay = 10
	assert.Error(t, ValidateProfile(p))

	p = baseProfile()
	p.HeatLevel = 6
	assert.Error(t, ValidateProfile(p))

	p = baseProfile()
	p.PeakHours = []int{6, 7, 25}
	assert.Error(t, ValidateProfile(p))

	p = baseProfile()
	p.ModalityPreference = []Modality{"telepathy"}
	assert.Error(t, ValidateProfile(p))

	p = baseProfile()
	p.WeeklyMinimumCommitMin = 30
	assert.Error(t, ValidateProfile(p))
}

func TestApplyDefaults(t *testing.T) {
	p := Profile{}
	p.ApplyDefaults()
	assert.Equal(t, 20, p.PreferredSessionLengthMin)
	assert.Equal(t, MotivationMid, p.GoalMotivation)

	p = Profile{PreferredSessionLengthMin: 45, GoalMotivation: MotivationHigh}
	p.ApplyDefaults()
	assert.Equal(t, 45, p.PreferredSessionLengthMin)
	assert.Equal(t, MotivationHigh, p.GoalMotivation)
}

func TestValidateCheckin(t *testing.T) {
	assert.NoError(t, ValidateCheckin(DailyCheckin{EnergyLevel: 2, AvailableTimeDeltaMin: -30, FocusNoise: "low"}))
	assert.Error(t, ValidateCheckin(DailyCheckin{EnergyLevel: 0, AvailableTimeDeltaMin: 0, FocusNoise: "mid"}))
	assert.Error(t, ValidateCheckin(DailyCheckin{EnergyLevel: 3, AvailableTimeDeltaMin: 90, FocusNoise: "mid"}))
	assert.Error(t, ValidateCheckin(DailyCheckin{EnergyLevel: 3, AvailableTimeDeltaMin: 0, FocusNoise: "deafening"}))
}
