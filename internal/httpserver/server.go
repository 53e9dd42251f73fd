package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/boshmah/HealthCommandCenter/internal/auth"
	"github.com/boshmah/HealthCommandCenter/internal/blob"
	"github.com/boshmah/HealthCommandCenter/internal/config"
	"github.com/boshmah/HealthCommandCenter/internal/exports"
	"github.com/boshmah/HealthCommandCenter/internal/foods"
	"github.com/boshmah/HealthCommandCenter/internal/storage"
	"github.com/boshmah/HealthCommandCenter/internal/storage/dynamo"
	"github.com/boshmah/HealthCommandCenter/internal/storage/memory"
	"github.com/boshmah/HealthCommandCenter/internal/storage/postgres"
)

// Server wires storage, services and handlers behind a single mux.
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.EntryStorage
	authMiddleware *auth.Middleware
}

// New creates the HTTP server and registers all routes.
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage selects the entry storage backend. A backend that fails to
// initialize falls back to in-memory so the server still comes up locally.
func (s *Server) initStorage() {
	ctx := context.Background()

	switch mode := s.config.EffectiveStorageMode(); mode {
	case config.StorageModeDynamo:
		log.Printf("INFO storage: connecting to DynamoDB (%s)", s.config.Dynamo.DiagnosticsSummary())
		dynamoStorage, err := dynamo.New(ctx, s.config.Dynamo)
		if err != nil {
			log.Printf("WARNING storage: DynamoDB connection failed: %v", err)
			log.Println("WARNING storage: falling back to in-memory storage")
			s.storage = memory.New()
			return
		}
		log.Println("INFO storage: DynamoDB connected")
		s.storage = dynamoStorage

	case config.StorageModePostgres:
		log.Println("INFO storage: connecting to PostgreSQL...")
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("WARNING storage: PostgreSQL connection failed: %v", err)
			log.Println("WARNING storage: falling back to in-memory storage")
			s.storage = memory.New()
			return
		}
		log.Println("INFO storage: PostgreSQL connected")
		s.storage = pgStorage

	default:
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
	}
}

// routes registers all HTTP routes.
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Foods API
	foodsService := foods.NewService(s.storage)
	foodsHandler := foods.NewHandlers(foodsService)

	// POST /v1/foods - create food entry
	s.mux.HandleFunc("POST /v1/foods", foodsHandler.HandleCreate)

	// GET /v1/foods - list food entries for a date
	s.mux.HandleFunc("GET /v1/foods", foodsHandler.HandleList)

	// GET /v1/foods/export - export a day as pdf or csv
	exportStore := s.initExportStore()
	exportsService := exports.NewService(foodsService, exportStore, s.config.ExportS3.PresignTTLSeconds)
	exportsHandler := exports.NewHandlers(exportsService)
	s.mux.HandleFunc("GET /v1/foods/export", exportsHandler.HandleExport)

	// GET /v1/foods/{foodId} - get one food entry
	s.mux.HandleFunc("GET /v1/foods/{foodId}", foodsHandler.HandleGet)

	// PUT /v1/foods/{foodId} - update food entry
	s.mux.HandleFunc("PUT /v1/foods/{foodId}", foodsHandler.HandleUpdate)

	// DELETE /v1/foods/{foodId} - delete food entry
	s.mux.HandleFunc("DELETE /v1/foods/{foodId}", foodsHandler.HandleDelete)
}

// initExportStore initializes the blob store for exports. A nil store means
// exports are streamed inline instead of uploaded.
func (s *Server) initExportStore() blob.Store {
	log.Printf("INFO blob: initializing export store (EXPORT_MODE=%s)", s.config.ExportMode)
	store, mode, err := blob.NewExportStore(s.config.ExportMode, s.config.ExportS3, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize export store: %v", err)
	}
	log.Printf("INFO blob: export mode: %s", mode)
	return store
}

// handleHealthz reports server status.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler builds the middleware chain (outermost first):
// CORS -> Rate Limit -> Auth -> Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil {
		if s.config.AuthMode == "none" {
			handler = s.authMiddleware.DefaultUser(handler)
		} else if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("Server listening on http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Foods API: http://localhost%s/v1/foods\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close releases the storage backend.
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
