// Package server exposes the quest generation pipeline over HTTP.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"questline/internal/logging"
	"questline/internal/pipeline"
	"questline/internal/planning"
	"questline/internal/xerrors"
)

// Server wires the pipeline, metrics registry, and HTTP routes.
type Server struct {
	pipe     *pipeline.Pipeline
	model    string
	logger   logging.Logger
	registry *prometheus.Registry
	engine   *gin.Engine
}

// New builds the HTTP surface around an already-constructed pipeline. The
// registry should be the one the pipeline's metrics were registered on.
func New(pipe *pipeline.Pipeline, model string, registry *prometheus.Registry, logger logging.Logger) *Server {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	registry.MustRegister(collectors.NewGoCollector())

	s := &Server{
		pipe:     pipe,
		model:    model,
		logger:   logging.OrNop(logger),
		registry: registry,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())

	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	engine.POST("/v1/generate", s.handleGenerate)

	s.engine = engine
	return s
}

// Router returns the underlying handler for tests and embedding.
func (s *Server) Router() http.Handler {
	return s.engine
}

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("listening on %s", addr)
	return s.engine.Run(addr)
}

// generateRequest is the wire shape of one generation call.
type generateRequest struct {
	Profile   planning.Profile       `json:"profile"`
	Checkin   *planning.DailyCheckin `json:"checkin,omitempty"`
	Goal      string                 `json:"goal,omitempty"`
	SkipCache bool                   `json:"skip_cache,omitempty"`
}

// generateResponse hands back all three stage outputs for transparency.
type generateResponse struct {
	SkillAtoms     []planning.SkillAtom `json:"skill_atoms"`
	DraftQuests    planning.QuestList   `json:"draft_quests"`
	Final          planning.QuestList   `json:"final"`
	Derived        planning.Derived     `json:"derived"`
	Constraints    planning.Constraints `json:"constraints"`
	SkillMapCached bool                 `json:"skill_map_cached"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.model})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result, err := s.pipe.Generate(c.Request.Context(), pipeline.Request{
		Profile:   req.Profile,
		Checkin:   req.Checkin,
		Goal:      req.Goal,
		SkipCache: req.SkipCache,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		SkillAtoms:     result.SkillAtoms,
		DraftQuests:    result.DraftQuests,
		Final:          result.Final,
		Derived:        result.Derived,
		Constraints:    result.Constraints,
		SkillMapCached: result.SkillMapCached,
	})
}

// writeError maps pipeline failures onto HTTP statuses: caller input
// problems are 400, backend/extraction/schema failures during a stage are
// 502, and a missing adapter is 503. Every stage failure names its stage.
func (s *Server) writeError(c *gin.Context, err error) {
	if errors.Is(err, xerrors.ErrNotInitialized) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		s.logger.Error("generate failed at stage %s: %v", stageErr.Stage, stageErr.Err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error": stageErr.Err.Error(),
			"stage": string(stageErr.Stage),
		})
		return
	}

	// Pre-stage validation of the caller's profile, checkin, or goal.
	if xerrors.IsSchemaViolation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.logger.Error("generate failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
