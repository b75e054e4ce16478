// Package pipeline sequences the three-stage quest generation flow:
// skill map → daily quest draft → policy check. Stages run strictly
// sequentially; each consumes the previous stage's validated output, and a
// schema or extraction failure in any stage fails the whole invocation with
// no partial result.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"questline/internal/llm"
	"questline/internal/logging"
	"questline/internal/observability"
	"questline/internal/planning"
	"questline/internal/prompts"
	"questline/internal/repair"
	"questline/internal/xerrors"
)

// Stage names the pipeline stage an error originated from.
type Stage string

const (
	StageSkillMap    Stage = "skill_map"
	StageQuestDraft  Stage = "quest_draft"
	StagePolicyCheck Stage = "policy_check"
)

// State is the orchestrator's position in one invocation. States only move
// forward; Failed is terminal from any non-terminal state.
type State string

const (
	StateIdle         State = "idle"
	StateSkillMapping State = "skill_mapping"
	StateDrafting     State = "daily_quest_drafting"
	StatePolicyCheck  State = "policy_checking"
	StateDone         State = "done"
	StateFailed       State = "failed"
)

// StageError wraps a stage failure with the stage it happened in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Request is one end-to-end generation call. Profile is owned by the caller
// and treated as immutable; Checkin defaults to neutral mid values when nil.
type Request struct {
	Profile   planning.Profile
	Checkin   *planning.DailyCheckin
	Goal      string // overrides Profile.LongTermGoal when set
	SkipCache bool
}

// Result carries all three stage outputs for diagnostic transparency. It is
// only returned on full success.
type Result struct {
	SkillAtoms     []planning.SkillAtom `json:"skill_atoms"`
	DraftQuests    planning.QuestList   `json:"draft_quests"`
	Final          planning.QuestList   `json:"final"`
	Derived        planning.Derived     `json:"derived"`
	Constraints    planning.Constraints `json:"constraints"`
	SkillMapCached bool                 `json:"skill_map_cached"`
}

// Pipeline is the orchestrator. The backend adapter is injected at
// construction and read-only afterwards; concurrent Generate calls are
// independent.
type Pipeline struct {
	client      llm.Client
	logger      logging.Logger
	metrics     *observability.Metrics
	temperature float64
	cache       *skillMapCache
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// WithMetrics wires stage metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithTemperature sets the sampling temperature for all backend calls.
func WithTemperature(t float64) Option {
	return func(p *Pipeline) { p.temperature = t }
}

// WithSkillMapCache enables the skill-map cache. A regenerate for the same
// goal within ttl skips the skill-mapping stage.
func WithSkillMapCache(size int, ttl time.Duration) Option {
	return func(p *Pipeline) { p.cache = newSkillMapCache(size, ttl) }
}

// New builds a Pipeline around the given backend adapter.
func New(client llm.Client, opts ...Option) *Pipeline {
	p := &Pipeline{
		client:      client,
		logger:      logging.Nop(),
		temperature: 0.4,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNop(p.logger)
	return p
}

// Generate runs the full three-stage pipeline. Any stage failure aborts the
// invocation; a later retry restarts from the beginning since no stage state
// is checkpointed.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*Result, error) {
	if p == nil || p.client == nil {
		return nil, xerrors.ErrNotInitialized
	}

	profile := req.Profile
	profile.ApplyDefaults()
	if err := planning.ValidateProfile(profile); err != nil {
		return nil, err
	}
	checkin := planning.NeutralCheckin()
	if req.Checkin != nil {
		checkin = *req.Checkin
	}
	if err := planning.ValidateCheckin(checkin); err != nil {
		return nil, err
	}
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		goal = strings.TrimSpace(profile.LongTermGoal)
	}
	if goal == "" {
		return nil, xerrors.NewSchemaViolation("request", "goal", "non-empty goal statement", goal)
	}

	state := StateIdle
	advance := func(next State) {
		p.logger.Debug("state %s -> %s", state, next)
		state = next
	}

	// Stage 1: skill mapping.
	advance(StateSkillMapping)
	skillMap, cached, err := p.skillMapStage(ctx, goal, profile, req.SkipCache)
	if err != nil {
		advance(StateFailed)
		return nil, &StageError{Stage: StageSkillMap, Err: err}
	}

	// Stage 2: daily quest drafting.
	advance(StateDrafting)
	derived := planning.DeriveDaily(profile)
	draft, err := p.draftStage(ctx, profile, derived, checkin, skillMap.SkillAtoms)
	if err != nil {
		advance(StateFailed)
		return nil, &StageError{Stage: StageQuestDraft, Err: err}
	}

	// Stage 3: policy check and final repair.
	advance(StatePolicyCheck)
	constraints := planning.DeriveConstraints(profile, derived, checkin)
	final, err := p.policyStage(ctx, draft, constraints)
	if err != nil {
		advance(StateFailed)
		return nil, &StageError{Stage: StagePolicyCheck, Err: err}
	}

	advance(StateDone)
	return &Result{
		SkillAtoms:     skillMap.SkillAtoms,
		DraftQuests:    draft,
		Final:          final,
		Derived:        derived,
		Constraints:    constraints,
		SkillMapCached: cached,
	}, nil
}

func (p *Pipeline) skillMapStage(ctx context.Context, goal string, profile planning.Profile, skipCache bool) (sm *planning.SkillMap, cached bool, err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage(string(StageSkillMap), start, err) }()

	if !skipCache {
		if hit, ok := p.cache.get(goal); ok {
			p.logger.Debug("skill map cache hit for goal %q", goal)
			return hit, true, nil
		}
	}

	system, user := prompts.SkillMap(goal, profile.CurrentLevelTags, profile.PriorityAreas)
	p.metrics.ObserveBackendCall()
	sm, resp, err := llm.Structured(ctx, p.client, llm.CompletionRequest{
		System:      system,
		User:        user,
		Temperature: p.temperature,
	}, planning.DecodeSkillMap)
	if err != nil {
		p.logger.Error("skill mapping failed: %v", err)
		return nil, false, err
	}
	p.logger.Info("skill map: %d atoms (req %s)", len(sm.SkillAtoms), resp.RequestID)

	if dropped := planning.FilterUnknownPrereqs(sm); dropped > 0 {
		p.logger.Warn("dropped %d prereq ids that name no atom in the map", dropped)
	}
	p.cache.put(goal, sm)
	return sm, false, nil
}

func (p *Pipeline) draftStage(ctx context.Context, profile planning.Profile, derived planning.Derived, checkin planning.DailyCheckin, atoms []planning.SkillAtom) (draft planning.QuestList, err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage(string(StageQuestDraft), start, err) }()

	system, user := prompts.DailyQuest(profile, derived, checkin, atoms)
	p.metrics.ObserveBackendCall()
	ql, resp, err := llm.Structured(ctx, p.client, llm.CompletionRequest{
		System:      system,
		User:        user,
		Temperature: p.temperature,
	}, planning.DecodeQuestList)
	if err != nil {
		p.logger.Error("quest drafting failed: %v", err)
		return planning.QuestList{}, err
	}
	p.logger.Info("draft: %d quests, %d min total (req %s)", len(ql.Quests), ql.TotalMinutes(), resp.RequestID)

	// Only the session clamp applies here; scale-down and de-clustering
	// belong to the policy stage.
	return repair.ClampSessions(*ql, profile.PreferredSessionLengthMin), nil
}

func (p *Pipeline) policyStage(ctx context.Context, draft planning.QuestList, constraints planning.Constraints) (final planning.QuestList, err error) {
	start := time.Now()
	defer func() { p.metrics.ObserveStage(string(StagePolicyCheck), start, err) }()

	system, user := prompts.PolicyCheck(draft, constraints)
	p.metrics.ObserveBackendCall()
	checked, resp, err := llm.Structured(ctx, p.client, llm.CompletionRequest{
		System:      system,
		User:        user,
		Temperature: p.temperature,
	}, planning.DecodeQuestList)
	if err != nil {
		p.logger.Error("policy check failed: %v", err)
		return planning.QuestList{}, err
	}

	scaled, total := repair.ScaleToBudget(*checked, constraints.TotalMinutesMax)
	if total > constraints.TotalMinutesMax {
		p.logger.Warn("per-quest minute floor leaves total at %d min against a %d min budget", total, constraints.TotalMinutesMax)
	}
	final = repair.Decluster(scaled)
	p.logger.Info("final: %d quests, %d min total (req %s)", len(final.Quests), final.TotalMinutes(), resp.RequestID)
	return final, nil
}
