// Package patterns holds the fixed catalog of learning-activity shapes. The
// catalog is the single source of truth for valid quest pattern values: the
// schema layer validates against it and the prompt builders embed it.
package patterns

import "strings"

// Pattern identifies one activity shape.
type Pattern string

const (
	ReadNoteQuiz       Pattern = "read_note_quiz"
	Flashcards         Pattern = "flashcards"
	BuildMicroArtifact Pattern = "build_micro_artifact"
	ConfigAndVerify    Pattern = "config_and_verify"
	DebugAndExplain    Pattern = "debug_and_explain"
	FeynmanExplain     Pattern = "feynman_explain"
	PastPaperDrill     Pattern = "past_paper_drill"
	SocraticDialogue   Pattern = "socratic_dialogue"
	Shadowing          Pattern = "shadowing"
	Retrospective      Pattern = "retrospective"
)

type entry struct {
	id         Pattern
	definition string
}

// catalog order is stable so rendered prompts are deterministic.
var catalog = []entry{
	{ReadNoteQuiz, "read a short passage, take brief notes, then answer a self-quiz on it"},
	{Flashcards, "create or review a small flashcard deck with active recall"},
	{BuildMicroArtifact, "build one tiny concrete artifact (snippet, sketch, paragraph, config)"},
	{ConfigAndVerify, "set up or configure something, then verify it works end to end"},
	{DebugAndExplain, "find the cause of a broken example and explain the fix in your own words"},
	{FeynmanExplain, "explain the concept aloud in plain language as if teaching a beginner"},
	{PastPaperDrill, "work through past exam or interview questions under light time pressure"},
	{SocraticDialogue, "answer a chain of probing questions that test the edges of your understanding"},
	{Shadowing, "imitate a worked example or native sample in real time (speaking, typing, or tracing)"},
	{Retrospective, "review what you did recently, note what worked, and pick one adjustment"},
}

// All returns the pattern identifiers in catalog order.
func All() []Pattern {
	ids := make([]Pattern, len(catalog))
	for i, e := range catalog {
		ids[i] = e.id
	}
	return ids
}

// Valid reports whether id names a catalog pattern.
func Valid(id Pattern) bool {
	for _, e := range catalog {
		if e.id == id {
			return true
		}
	}
	return false
}

// Definition returns the one-line definition for id, or "" if unknown.
func Definition(id Pattern) string {
	for _, e := range catalog {
		if e.id == id {
			return e.definition
		}
	}
	return ""
}

// RenderList serializes the catalog as a bullet list for prompt embedding.
func RenderList() string {
	var b strings.Builder
	for _, e := range catalog {
		b.WriteString("- ")
		b.WriteString(string(e.id))
		b.WriteString(": ")
		b.WriteString(e.definition)
		b.WriteString("\n")
	}
	return b.String()
}
