// Package server exposes the packaging pipeline as a host-invoked HTTP
// plugin. It binds a loopback listener, announces itself with a single
// handshake line on stdout, and serves generation requests. Every request is
// wrapped in a recovery boundary so one faulting run can never take down the
// process or other in-flight requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spexgen/internal/audit"
	"spexgen/internal/config"
	"spexgen/internal/llm"
	"spexgen/internal/packager"
	"spexgen/internal/prompt"
	"spexgen/internal/spec"
	"spexgen/internal/template"
)

// Server hosts the packaging pipeline. Shared state (templates, packager,
// prompt builder) is immutable after construction; runs share nothing else.
type Server struct {
	cfg       *config.Config
	packager  *packager.Packager
	prompts   *prompt.Builder
	audit     *audit.Store
	logger    *zap.Logger
	newClient func(llm.Config) (llm.Client, error)
}

// New creates a Server. auditStore may be nil to disable run history.
func New(cfg *config.Config, templates *template.Store, auditStore *audit.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:       cfg,
		packager:  packager.New(templates, logger),
		prompts:   prompt.NewBuilder(templates),
		audit:     auditStore,
		logger:    logger,
		newClient: llm.New,
	}
}

// GenerateRequest is the wire shape of one generation call.
type GenerateRequest struct {
	SpecTOML    string      `json:"spec_toml" binding:"required"`
	ReviewPass  bool        `json:"review_pass"`
	InitialCode string      `json:"initial_code"`
	LLM         *LLMOptions `json:"llm"`
}

// LLMOptions are per-request overrides of the configured provider defaults.
type LLMOptions struct {
	Provider       string   `json:"provider"`
	Model          string   `json:"model"`
	APIKey         string   `json:"api_key"`
	BaseURL        string   `json:"base_url"`
	Temperature    *float64 `json:"temperature"`
	TimeoutSeconds int      `json:"timeout_s"`
}

// GenerateResponse carries the complete artifact. It is never combined with
// an error body: the caller gets files or an error, not both.
type GenerateResponse struct {
	Files []packager.OutputFile `json:"files"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Router builds the gin engine with the request-ID and recovery middleware.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(s.requestID(), s.recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/v1/generate", s.handleGenerate)
	return r
}

// requestID tags every request with a correlation ID.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// recovery converts a panic inside a handler into a 500 for that request
// only. This is the fault boundary required for a multi-request host.
func (s *Server) recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("request panicked",
					zap.Any("panic", r),
					zap.String("request_id", c.GetString("request_id")),
					zap.Stack("stack"))
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					errorResponse{Error: "internal error"})
			}
		}()
		c.Next()
	}
}

func (s *Server) handleGenerate(c *gin.Context) {
	started := time.Now()
	runID := c.GetString("request_id")

	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	sp, err := spec.Parse([]byte(req.SpecTOML))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	llmCfg := s.resolveLLMConfig(req.LLM)

	promptText, err := s.prompts.Build(sp, req.ReviewPass, req.InitialCode)
	if err != nil {
		s.logger.Error("failed to render prompt", zap.String("request_id", runID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	client, err := s.newClient(llmCfg)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	modelOutput, err := client.Generate(c.Request.Context(), promptText)
	if err != nil {
		s.logger.Error("LLM generation failed", zap.String("request_id", runID), zap.Error(err))
		s.recordRun(runID, llmCfg, req.ReviewPass, 0, started, err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: "generation failed: " + err.Error()})
		return
	}

	files, err := s.packager.Package(modelOutput, sp)
	if err != nil {
		s.logger.Error("packaging failed", zap.String("request_id", runID), zap.Error(err))
		s.recordRun(runID, llmCfg, req.ReviewPass, 0, started, err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "packaging failed: " + err.Error()})
		return
	}

	s.recordRun(runID, llmCfg, req.ReviewPass, len(files), started, nil)
	c.JSON(http.StatusOK, GenerateResponse{Files: files})
}

// resolveLLMConfig merges per-request overrides over the configured defaults.
func (s *Server) resolveLLMConfig(opts *LLMOptions) llm.Config {
	cfg := llm.Config{
		Provider:    s.cfg.LLM.Provider,
		APIKey:      s.cfg.LLM.APIKey,
		Model:       s.cfg.LLM.Model,
		BaseURL:     s.cfg.LLM.BaseURL,
		Temperature: s.cfg.LLM.Temperature,
		Timeout:     s.cfg.TimeoutDuration(),
	}
	if opts == nil {
		return cfg
	}
	if opts.Provider != "" {
		cfg.Provider = opts.Provider
	}
	if opts.Model != "" {
		cfg.Model = opts.Model
	}
	if opts.APIKey != "" {
		cfg.APIKey = opts.APIKey
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Temperature != nil {
		cfg.Temperature = *opts.Temperature
	}
	if opts.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(opts.TimeoutSeconds) * time.Second
	}
	return cfg
}

// recordRun writes the audit entry for one run. Audit failures are logged and
// never surfaced to the caller.
func (s *Server) recordRun(id string, llmCfg llm.Config, review bool, files int, started time.Time, runErr error) {
	if s.audit == nil {
		return
	}
	run := audit.Run{
		ID:         id,
		Provider:   llmCfg.Provider,
		Model:      llmCfg.Model,
		ReviewPass: review,
		FileCount:  files,
		DurationMs: time.Since(started).Milliseconds(),
		Success:    runErr == nil,
	}
	if runErr != nil {
		run.ErrorMessage = runErr.Error()
	}
	if err := s.audit.RecordRun(run); err != nil {
		s.logger.Warn("failed to record audit run", zap.Error(err))
	}
}

// Run binds the configured address, prints the handshake line to stdout (the
// only thing this process ever writes there), and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	// Handshake for the invoking host: core-version|plugin-version|network|address|protocol.
	fmt.Printf("1|1|tcp|%s|http\n", listener.Addr().String())
	s.logger.Info("plugin listening", zap.String("addr", listener.Addr().String()))

	srv := &http.Server{Handler: s.Router()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
