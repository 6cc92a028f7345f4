// Package server exposes the authenticated content API over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/content-api/internal/auth"
	"github.com/sells-group/content-api/internal/enrich"
	"github.com/sells-group/content-api/internal/model"
	"github.com/sells-group/content-api/internal/store"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	store    store.Store
	tokens   *auth.TokenManager
	enricher *enrich.Enricher
}

// New creates a Server.
func New(st store.Store, tokens *auth.TokenManager, enricher *enrich.Enricher) *Server {
	return &Server{store: st, tokens: tokens, enricher: enricher}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/signup", s.handleSignup)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)
			r.Post("/contents", s.handleCreateContent)
			r.Get("/contents", s.handleListContents)
			r.Get("/contents/{id}", s.handleGetContent)
			r.Delete("/contents/{id}", s.handleDeleteContent)
		})
	})

	return r
}

type contextKey string

const userKey contextKey = "user"

// authenticate resolves the bearer token to a user and stores it on the
// request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(w)
			return
		}

		username, err := s.tokens.Verify(token)
		if err != nil {
			unauthorized(w)
			return
		}

		user, err := s.store.GetUserByUsername(r.Context(), username)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func currentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userKey).(*model.User)
	return user
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Content Insights API is running",
		"version": "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "content-api"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	if _, err := s.store.GetUserByUsername(r.Context(), req.Username); err == nil {
		badRequest(w, "username already registered")
		return
	}
	if _, err := s.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		badRequest(w, "email already registered")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(w, err)
		return
	}

	user, err := s.store.CreateUser(r.Context(), req.Username, req.Email, hashed)
	if err != nil {
		// Races between the existence checks and the insert land here.
		if eris.Is(err, store.ErrDuplicate) {
			badRequest(w, "user already exists")
			return
		}
		internalError(w, err)
		return
	}

	s.writeToken(w, http.StatusCreated, user.Username)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil || !auth.VerifyPassword(req.Password, user.HashedPassword) {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "incorrect username or password"})
		return
	}

	s.writeToken(w, http.StatusOK, user.Username)
}

func (s *Server) writeToken(w http.ResponseWriter, status int, username string) {
	token, err := s.tokens.Issue(username)
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, status, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		badRequest(w, msg)
		return
	}

	user := currentUser(r)
	content, err := s.store.CreateContent(r.Context(), user.ID, req.Text)
	if err != nil {
		internalError(w, err)
		return
	}

	// Enrichment runs out-of-band; the response does not wait for it.
	s.enricher.Dispatch(content.ID, content.Text)

	writeJSON(w, http.StatusCreated, content)
}

func (s *Server) handleListContents(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)

	contents, total, err := s.store.ListContents(r.Context(), user.ID, limit, skip)
	if err != nil {
		internalError(w, err)
		return
	}
	if contents == nil {
		contents = []model.Content{}
	}

	writeJSON(w, http.StatusOK, contentListResponse{Contents: contents, Total: total})
}

func (s *Server) handleGetContent(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	content, err := s.store.GetContent(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "content not found"})
			return
		}
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, content)
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	err := s.store.DeleteContent(r.Context(), chi.URLParam(r, "id"), user.ID)
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "content not found"})
			return
		}
		internalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "could not validate credentials"})
}

func internalError(w http.ResponseWriter, err error) {
	zap.L().Error("server: internal error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
