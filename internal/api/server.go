package api

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hanifgol/invoice-keeper/internal/invoice"
)

// Server handles HTTP requests for the invoice workflow
type Server struct {
	service   *invoice.Service
	basicAuth BasicAuth
	mux       *http.ServeMux
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// NewServer creates a new Server with default mux
func NewServer(service *invoice.Service, basicAuth BasicAuth) *Server {
	return NewServerWithMux(service, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *invoice.Service, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		service:   service,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// corsMiddleware adds CORS headers to responses
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		// Handle preflight OPTIONS requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next(w, r)
	}
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			// Ensure CORS headers are set before error response
			setCORSHeaders(w)
			w.Header().Set("WWW-Authenticate", `Basic realm="Invoice Keeper"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux
// Routes must be registered from most specific to least specific to avoid conflicts
func (s *Server) registerRoutes() {
	// Draft and line items
	s.mux.HandleFunc("GET /api/draft/export/{format}", s.requireAuth(s.handleExportDraft))
	s.mux.HandleFunc("GET /api/draft", s.requireAuth(s.handleGetDraft))
	s.mux.HandleFunc("POST /api/draft/field", s.requireAuth(s.handleUpdateField))
	s.mux.HandleFunc("POST /api/draft/items/{index}/field", s.requireAuth(s.handleSetItemField))
	s.mux.HandleFunc("POST /api/draft/items", s.requireAuth(s.handleAddItem))
	s.mux.HandleFunc("DELETE /api/draft/items/{index}", s.requireAuth(s.handleRemoveItem))
	s.mux.HandleFunc("POST /api/draft/edit/cancel", s.requireAuth(s.handleCancelEdit))
	s.mux.HandleFunc("POST /api/draft/edit/commit", s.requireAuth(s.handleCommitEdit))
	s.mux.HandleFunc("POST /api/draft/edit", s.requireAuth(s.handleEnterEdit))
	s.mux.HandleFunc("POST /api/draft/regenerate-number", s.requireAuth(s.handleRegenerateNumber))
	s.mux.HandleFunc("POST /api/draft/save", s.requireAuth(s.handleSaveDraft))

	// Generation workflow
	s.mux.HandleFunc("POST /api/generate", s.requireAuth(s.handleGenerate))
	s.mux.HandleFunc("POST /api/invoices/new", s.requireAuth(s.handleNewInvoice))

	// Archive
	s.mux.HandleFunc("GET /api/archive/{id}/export/{format}", s.requireAuth(s.handleExportArchived))
	s.mux.HandleFunc("POST /api/archive/{id}/status", s.requireAuth(s.handleUpdateStatus))
	s.mux.HandleFunc("POST /api/archive/{id}/load", s.requireAuth(s.handleLoadArchived))
	s.mux.HandleFunc("DELETE /api/archive/{id}", s.requireAuth(s.handleDeleteArchived))
	s.mux.HandleFunc("GET /api/archive", s.requireAuth(s.handleListArchive))

	// Clients, profile, dashboard
	s.mux.HandleFunc("GET /api/clients", s.requireAuth(s.handleListClients))
	s.mux.HandleFunc("POST /api/profile/reset", s.requireAuth(s.handleResetProfile))
	s.mux.HandleFunc("GET /api/profile", s.requireAuth(s.handleGetProfile))
	s.mux.HandleFunc("POST /api/profile", s.requireAuth(s.handleSaveProfile))
	s.mux.HandleFunc("GET /api/dashboard", s.requireAuth(s.handleDashboard))

	// Backup
	s.mux.HandleFunc("GET /api/backup", s.requireAuth(s.handleExportBackup))
	s.mux.HandleFunc("POST /api/backup/restore", s.requireAuth(s.handleRestoreBackup))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	// Wrap the mux with CORS middleware to handle all requests including OPTIONS
	return http.ListenAndServe(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		})(w, r)
	}))
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
