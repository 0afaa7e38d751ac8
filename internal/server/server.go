package server

import (
	"errors"
	"log/slog"
	"net/http"

	"captionfix/internal/api"
	"captionfix/internal/caption"
	"captionfix/internal/config"
	"captionfix/internal/history"
	"captionfix/internal/logging"
	"captionfix/internal/workspace"
)

// Server serves the caption API for one configuration.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	processor  *caption.Processor
	workspaces *workspace.Manager
	store      *history.Store
	historySvc *api.HistoryService

	handler http.Handler
}

// New builds a Server. store may be nil when history is disabled.
func New(cfg *config.Config, store *history.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	opts, err := caption.OptionsFromConfig(cfg.Rules)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "server"),
		processor:  caption.NewProcessor(opts, logger),
		workspaces: workspace.NewManager(cfg.Paths.WorkDir, cfg.Workspace.Keep, logger),
		store:      store,
	}
	if store != nil {
		s.historySvc = api.NewHistoryService(store)
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	token := s.cfg.Server.APIToken
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /process_captions", authMiddleware(token, s.handleProcessCaptions))
	mux.HandleFunc("GET /openapi.json", authMiddleware(token, s.handleOpenAPI))
	mux.HandleFunc("GET /api/batches", authMiddleware(token, s.handleListBatches))
	mux.HandleFunc("GET /api/batches/{id}", authMiddleware(token, s.handleGetBatch))

	return s.withRequestLogging(mux)
}
