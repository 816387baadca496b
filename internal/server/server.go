package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/forensint/celltrace/internal/config"
	"github.com/forensint/celltrace/internal/database"
	"github.com/forensint/celltrace/internal/pipeline"
	"github.com/forensint/celltrace/internal/storage"
)

// Server wires the HTTP API to the core packages.
type Server struct {
	cfg    *config.Config
	db     *database.CaseDB
	store  *storage.Store
	logger *slog.Logger
	batch  *pipeline.BatchProcessor
}

// New creates a Server over an open database and blob store.
func New(cfg *config.Config, db *database.CaseDB, store *storage.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	batch := pipeline.NewBatchProcessor(
		func() *pipeline.Pipeline { return pipeline.NewIngestPipeline(db, store, logger) },
		pipeline.WithBatchLogger(logger),
		pipeline.WithConcurrency(cfg.Concurrency),
	)
	return &Server{cfg: cfg, db: db, store: store, logger: logger, batch: batch}
}

// Router builds the API route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.corsMiddleware, s.logMiddleware)

	// Ingestion
	api.HandleFunc("/ingest", s.handleIngest).Methods(http.MethodPost, http.MethodOptions)

	// Record listings and views
	api.HandleFunc("/contacts", s.handleListContacts).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/contacts/deduplicated", s.handleDedupContacts).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/contacts/details", s.handleContactDetails).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/contacts/by-photo", s.handleContactsByPhoto).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/credentials", s.handleListCredentials).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/credentials/deduplicated", s.handleDedupCredentials).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/credentials/details", s.handleCredentialDetails).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/accounts", s.handleListAccounts).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/accounts/important", s.handleImportantAccounts).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/search", s.handleSearch).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/password-reuse", s.handlePasswordReuse).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/filters/{collection}", s.handleFilterValues).Methods(http.MethodGet, http.MethodOptions)

	// Aggregations
	api.HandleFunc("/whatsapp-groups", s.handleWhatsAppGroups).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/whatsapp-groups/members", s.handleWhatsAppGroupMembers).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/suspect-info", s.handleSuspectInfo).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/profiles", s.handleProfiles).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/cases", s.handleCases).Methods(http.MethodGet, http.MethodOptions)

	// Blobs and exports
	api.PathPrefix("/images/").HandlerFunc(s.handleImage).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/export/{format}", s.handleExport).Methods(http.MethodGet, http.MethodOptions)

	// Admin and maintenance
	api.HandleFunc("/admin/login", s.handleAdminLogin).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/maintenance/photo-cleanup", s.handlePhotoCleanup).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/maintenance/group-cleanup", s.handleGroupCleanup).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/sessions", s.handleDeleteSession).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/cases/{caseNumber}", s.handleDeleteCase).Methods(http.MethodDelete, http.MethodOptions)
	api.HandleFunc("/wipe", s.handleWipe).Methods(http.MethodPost, http.MethodOptions)

	return r
}

// ListenAndServe runs the HTTP server until it fails or ctx is
// cancelled, then drains in-flight requests. Timeouts are set
// generously because archive uploads are large.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Minute,
		WriteTimeout:      10 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// corsMiddleware answers preflight requests and stamps the allow headers
// for configured origins. With no configured origins the API is
// same-origin only.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Wipe-Key")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.cfg.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}
