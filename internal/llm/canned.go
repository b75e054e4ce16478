package llm

import (
	"context"
	"strings"
	"sync"
)

// CannedClient implements Client with fixed, schema-valid responses chosen by
// inspecting the prompt text. It exists so the whole pipeline can run
// deterministically offline; the payloads deliberately arrive wrapped in
// prose and code fences to exercise extraction.
type CannedClient struct {
	mu    sync.Mutex
	calls []CompletionRequest

	// Overrides let a test force a specific response or error per stage.
	SkillMapResponse string
	QuestResponse    string
	PolicyResponse   string
	Err              error
}

// NewCannedClient returns a canned backend for deterministic testing.
func NewCannedClient() *CannedClient {
	return &CannedClient{}
}

func (c *CannedClient) Model() string {
	return "canned-v1"
}

// Calls returns a copy of every request seen so far, in order.
func (c *CannedClient) Calls() []CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CompletionRequest(nil), c.calls...)
}

func (c *CannedClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.calls = append(c.calls, req)
	err := c.Err
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}

	prompt := strings.ToLower(req.System + "\n" + req.User)
	var content string
	switch {
	case strings.Contains(prompt, "corrected quest list"):
		content = c.PolicyResponse
		if content == "" {
			content = cannedPolicyResponse
		}
	case strings.Contains(prompt, "skill_atoms"):
		content = c.SkillMapResponse
		if content == "" {
			content = cannedSkillMapResponse
		}
	default:
		content = c.QuestResponse
		if content == "" {
			content = cannedQuestResponse
		}
	}

	return &CompletionResponse{
		Content:    content,
		StopReason: "stop",
		Usage:      TokenUsage{PromptTokens: 100, CompletionTokens: 200, TotalTokens: 300},
		RequestID:  "canned",
	}, nil
}

const cannedSkillMapResponse = "Here is the skill map you asked for:\n```json\n" + `{
  "skill_atoms": [
    {"id": "vocab-core", "label": "Core vocabulary", "type": "concept", "level": "intro", "bloom": "remember", "prereq": [], "representative_tasks": ["review 20 core words"], "suggested_patterns": ["flashcards"]},
    {"id": "greetings", "label": "Everyday greetings", "type": "procedure", "level": "intro", "bloom": "apply", "prereq": ["vocab-core"], "representative_tasks": ["greet someone in three registers"], "suggested_patterns": ["shadowing"]},
    {"id": "present-tense", "label": "Present tense forms", "type": "concept", "level": "basic", "bloom": "understand", "prereq": ["vocab-core"], "representative_tasks": ["conjugate 10 common verbs"]},
    {"id": "listening-gist", "label": "Listening for gist", "type": "procedure", "level": "basic", "bloom": "apply", "prereq": ["vocab-core", "ghost-atom"], "representative_tasks": ["summarize a 2-minute clip"]},
    {"id": "question-forms", "label": "Forming questions", "type": "concept", "level": "basic", "bloom": "apply", "prereq": ["present-tense"], "representative_tasks": ["write 5 questions about your day"]},
    {"id": "daily-journal", "label": "Daily journaling habit", "type": "habit", "level": "basic", "bloom": "create", "prereq": ["present-tense"], "representative_tasks": ["write three sentences about today"]},
    {"id": "numbers-time", "label": "Numbers and time", "type": "concept", "level": "intro", "bloom": "remember", "prereq": [], "representative_tasks": ["say the time every hour"]},
    {"id": "past-tense", "label": "Past tense forms", "type": "concept", "level": "intermediate", "bloom": "understand", "prereq": ["present-tense"], "representative_tasks": ["retell yesterday in 5 sentences"]},
    {"id": "small-talk", "label": "Small talk scripts", "type": "procedure", "level": "intermediate", "bloom": "apply", "prereq": ["greetings", "question-forms"], "representative_tasks": ["run a 3-minute mock chat"]},
    {"id": "pronunciation", "label": "Pronunciation drills", "type": "procedure", "level": "basic", "bloom": "apply", "prereq": ["vocab-core"], "representative_tasks": ["record and compare 10 words"], "suggested_patterns": ["shadowing"]},
    {"id": "reading-short", "label": "Short article reading", "type": "procedure", "level": "intermediate", "bloom": "analyze", "prereq": ["present-tense"], "representative_tasks": ["read and annotate one short article"], "suggested_patterns": ["read_note_quiz"]},
    {"id": "self-review", "label": "Weekly self review", "type": "habit", "level": "basic", "bloom": "evaluate", "prereq": [], "representative_tasks": ["list what stuck and what did not"], "suggested_patterns": ["retrospective"]}
  ]
}` + "\n```\nGood luck with the plan!"

const cannedQuestResponse = "Here is today's plan:\n```json\n" + `{
  "quests": [
    {"title": "Drill 20 core words", "pattern": "flashcards", "minutes": 18, "difficulty": 0.4, "deliverable": "a reviewed deck of 20 cards", "done_definition": ["every card answered twice"], "tags": ["vocab"]},
    {"title": "Shadow a greeting dialogue", "pattern": "shadowing", "minutes": 22, "difficulty": 0.5, "deliverable": "one recorded imitation take", "steps": ["listen once", "repeat line by line", "record a full pass"], "done_definition": ["recording completed"], "tags": ["speaking"]},
    {"title": "Write three journal sentences", "pattern": "build_micro_artifact", "minutes": 15, "difficulty": 0.5, "deliverable": "three sentences about today", "done_definition": ["three grammatical sentences written"], "knowledge_check": [{"question": "Which tense did you use?", "answer": "present"}], "tags": ["writing", "habit"]},
    {"title": "Explain present tense aloud", "pattern": "feynman_explain", "minutes": 20, "difficulty": 0.6, "deliverable": "a one-minute plain-language explanation", "done_definition": ["explanation given without notes"], "tags": ["grammar"]}
  ],
  "rationale": ["kept sessions near the preferred length"]
}` + "\n```"

const cannedPolicyResponse = "```json\n" + `{
  "quests": [
    {"title": "Drill 20 core words", "pattern": "flashcards", "minutes": 20, "difficulty": 0.4, "deliverable": "a reviewed deck of 20 cards", "done_definition": ["every card answered twice"], "tags": ["vocab"]},
    {"title": "Shadow a greeting dialogue", "pattern": "shadowing", "minutes": 20, "difficulty": 0.5, "deliverable": "one recorded imitation take", "done_definition": ["recording completed"], "tags": ["speaking"]},
    {"title": "Write three journal sentences", "pattern": "build_micro_artifact", "minutes": 15, "difficulty": 0.5, "deliverable": "three sentences about today", "done_definition": ["three grammatical sentences written"], "tags": ["writing", "habit"]},
    {"title": "Explain present tense aloud", "pattern": "feynman_explain", "minutes": 20, "difficulty": 0.6, "deliverable": "a one-minute plain-language explanation", "done_definition": ["explanation given without notes"], "tags": ["grammar"]}
  ],
  "rationale": ["snapped session lengths to the preferred 20 minutes", "no consecutive pattern repeats"]
}` + "\n```"
