package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"fieldprof/domain/core"
	"fieldprof/domain/dataset"
	"fieldprof/domain/profile"
	"fieldprof/internal"
	"fieldprof/internal/errors"
	"fieldprof/internal/profiler"
	"fieldprof/internal/report"
	"fieldprof/internal/script"
	"fieldprof/ports"
)

// Server exposes profiling and script generation over JSON. It adds no
// profiling semantics of its own.
type Server struct {
	router *gin.Engine
	engine *profiler.Engine
	reader ports.RowReader // optional, enables source-based profiling
	log    *internal.Logger
}

// Config holds API server settings.
type Config struct {
	Port    string
	GinMode string
}

// NewServer creates the API server. reader may be nil when no file or SQL
// source is configured; inline-row profiling still works.
func NewServer(cfg Config, engine *profiler.Engine, reader ports.RowReader) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	s := &Server{
		router: gin.New(),
		engine: engine,
		reader: reader,
		log:    internal.DefaultLogger,
	}
	s.router.Use(gin.Recovery())
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/profile", s.handleProfile)
	api.POST("/profile/source", s.handleProfileSource)
	api.POST("/script", s.handleScript)
	api.POST("/report", s.handleReport)
}

// Run blocks serving HTTP on the configured port.
func (s *Server) Run(port string) error {
	s.log.Info("profile API listening on :%s", port)
	return s.router.Run(":" + port)
}

// Router exposes the underlying handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type profileRequest struct {
	Fields []string      `json:"fields"`
	Schema []string      `json:"schema"`
	Rows   []dataset.Row `json:"rows"`
}

type profileResponse struct {
	RequestID   string                 `json:"request_id"`
	GeneratedAt core.Timestamp         `json:"generated_at"`
	Profiles    []profile.FieldProfile `json:"profiles"`
}

func (s *Server) handleProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, errors.InvalidInput("invalid profile request body: "+err.Error()))
		return
	}

	schema := req.Schema
	if len(schema) == 0 && len(req.Rows) > 0 {
		schema = fieldsOf(req.Rows[0])
	}
	table := dataset.NewTable(schema, req.Rows)

	fields := req.Fields
	if len(fields) == 0 {
		fields = schema
	}

	profiles, err := s.engine.Profile(c.Request.Context(), table, fields)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{
		RequestID:   core.NewRequestID().String(),
		GeneratedAt: core.Now(),
		Profiles:    profiles,
	})
}

type profileSourceRequest struct {
	Source  string   `json:"source"`
	MaxRows int      `json:"max_rows"`
	Fields  []string `json:"fields"`
}

func (s *Server) handleProfileSource(c *gin.Context) {
	if s.reader == nil {
		s.renderError(c, errors.InvalidInput("no dataset source is configured on this server"))
		return
	}
	var req profileSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, errors.InvalidInput("invalid profile request body: "+err.Error()))
		return
	}
	if req.Source == "" {
		s.renderError(c, errors.InvalidInput("source is required"))
		return
	}

	profiles, err := s.engine.ProfileSource(c.Request.Context(), s.reader, req.Source, req.MaxRows, req.Fields)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, profileResponse{
		RequestID:   core.NewRequestID().String(),
		GeneratedAt: core.Now(),
		Profiles:    profiles,
	})
}

type scriptRequest struct {
	Profiles        []profile.FieldProfile `json:"profiles"`
	SourceFileName  string                 `json:"source_file_name"`
	Delimiter       profile.Delimiter      `json:"delimiter"`
	MaxRowsPerField int                    `json:"max_rows_per_field"`
}

func (s *Server) handleScript(c *gin.Context) {
	var req scriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, errors.InvalidInput("invalid script request body: "+err.Error()))
		return
	}
	opts := profile.ScriptOptions{
		Delimiter:       req.Delimiter,
		MaxRowsPerField: req.MaxRowsPerField,
	}
	if opts.Delimiter == "" {
		opts.Delimiter = profile.DelimiterTab
	}

	text, err := script.Generate(req.Profiles, req.SourceFileName, opts)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.String(http.StatusOK, text)
}

type reportRequest struct {
	Profiles       []profile.FieldProfile `json:"profiles"`
	SourceFileName string                 `json:"source_file_name"`
}

func (s *Server) handleReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.renderError(c, errors.InvalidInput("invalid report request body: "+err.Error()))
		return
	}
	if len(req.Profiles) == 0 {
		s.renderError(c, errors.InvalidInput("no field profiles to report on"))
		return
	}
	c.String(http.StatusOK, report.Render(req.Profiles, req.SourceFileName))
}

func (s *Server) renderError(c *gin.Context, err error) {
	if !errors.IsAppError(err) {
		err = errors.InternalError(err.Error())
	}
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.CodeInvalidInput, errors.CodeEmptyDataset:
		status = http.StatusBadRequest
	case errors.CodeFieldNotFound:
		status = http.StatusNotFound
	case errors.CodeUpstreamRead:
		status = http.StatusBadGateway
	}
	s.log.Warn("request failed: %s (%s)", err.Error(), code)
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func fieldsOf(row dataset.Row) []string {
	fields := make([]string, 0, len(row))
	for k := range row {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
