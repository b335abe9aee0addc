package devserver

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hyperengineering/steward/internal/types"
)

// Server exposes the agentic backend contract over HTTP plus a WebSocket
// event channel. It exists so the console and dashboards can be developed
// and tested without a production deployment.
type Server struct {
	store  *Store
	hub    *Hub
	logger *slog.Logger
	token  string
}

// NewServer wires a Server around an open store. An empty token disables
// authentication, which is acceptable only because this server never leaves
// localhost.
func NewServer(store *Store, token string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:  store,
		hub:    NewHub(logger),
		logger: logger,
		token:  token,
	}
}

// Hub returns the WebSocket hub so workers can push events through it.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/agentic/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/agentic/ws", s.hub.ServeWS)

		r.Route("/agentic/profiles/{agenticID}", func(r chi.Router) {
			r.Use(s.requireProfile)

			r.Get("/goals", s.handleListGoals)
			r.Post("/goals", s.handleCreateGoal)
			r.Put("/goals/{goalID}", s.handleUpdateGoal)
			r.Delete("/goals/{goalID}", s.handleDeleteGoal)

			r.Get("/audit-log", s.handleAuditLog)

			r.Get("/memory", s.handleListMemories)
			r.Get("/memory/search", s.handleSearchMemories)
			r.Post("/memory", s.handleCreateMemory)
			r.Delete("/memory/{memoryID}", s.handleDeleteMemory)

			r.Get("/knowledge", s.handleListKnowledge)
			r.Post("/knowledge", s.handleAddKnowledge)
			r.Delete("/knowledge/{itemID}", s.handleDeleteKnowledge)

			r.Get("/skills", s.handleListSkills)

			r.Get("/schedules", s.handleListSchedules)
			r.Post("/schedules", s.handleCreateSchedule)
			r.Put("/schedules/{scheduleID}", s.handleUpdateSchedule)
			r.Delete("/schedules/{scheduleID}", s.handleDeleteSchedule)
			r.Post("/schedules/presets/{preset}/apply", s.handleApplyPreset)

			r.Get("/tasks", s.handleListTasks)
			r.Post("/tasks", s.handleCreateTask)
			r.Put("/tasks/{taskID}", s.handleUpdateTask)
			r.Delete("/tasks/{taskID}", s.handleDeleteTask)

			r.Get("/self-prompts", s.handleListSelfPrompts)
			r.Post("/self-prompts/{promptID}/approve", s.handleApproveSelfPrompt)
			r.Post("/self-prompts/{promptID}/reject", s.handleRejectSelfPrompt)
			r.Delete("/self-prompts/{promptID}", s.handleDeleteSelfPrompt)

			r.Get("/messages", s.handleListMessages)
			r.Post("/messages", s.handleSendMessage)
			r.Get("/threads", s.handleListThreads)

			r.Get("/self-learning/config", s.handleGetLearningConfig)
			r.Put("/self-learning/config", s.handlePutLearningConfig)
			r.Get("/self-learning/stats", s.handleLearningStats)
			r.Get("/self-learning/pending-review", s.handleListReviews)
			r.Post("/self-learning/pending-review/{reviewID}/approve", s.handleApproveReview)
			r.Post("/self-learning/pending-review/{reviewID}/reject", s.handleRejectReview)

			r.Get("/personality", s.handleGetPersonality)
			r.Put("/personality", s.handlePutPersonality)
			r.Get("/contact-scope", s.handleGetContactScope)
			r.Put("/contact-scope", s.handlePutContactScope)
			r.Get("/master-contact", s.handleGetMasterContact)
			r.Put("/master-contact", s.handlePutMasterContact)
			r.Get("/routing", s.handleGetRouting)
			r.Put("/routing", s.handlePutRouting)

			r.Get("/hierarchy", s.handleHierarchy)
			r.Get("/children", s.handleChildren)
			r.Get("/team", s.handleTeam)

			r.Get("/monitoring", s.handleMonitoring)
			r.Get("/execution-history", s.handleExecutionHistory)
			r.Post("/control", s.handleControl)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"component", "devserver",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "invalid or missing bearer token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireProfile rejects requests for profiles the store has never seen.
func (s *Server) requireProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "agenticID")
		ok, err := s.store.ProfileExists(id)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if !ok {
			s.writeError(w, http.StatusNotFound, "unknown agentic profile")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- response and request helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed",
			"component", "devserver",
			"error", err,
		)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps store sentinels onto status codes.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.writeError(w, http.StatusInternalServerError, err.Error())
}

// collection writes the standard list envelope {<key>: items, "total": n}.
func (s *Server) collection(w http.ResponseWriter, key string, items any, total int) {
	s.writeJSON(w, http.StatusOK, map[string]any{key: items, "total": total})
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return false
	}
	return true
}

// pageQuery is the parsed limit/offset/search triple common to every list
// endpoint.
type pageQuery struct {
	limit  int
	offset int
	search string
}

func parsePage(r *http.Request) pageQuery {
	q := r.URL.Query()
	p := pageQuery{limit: 50, search: q.Get("search")}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil && v >= 0 {
		p.offset = v
	}
	return p
}

func profileID(r *http.Request) string {
	return chi.URLParam(r, "agenticID")
}

// audit records a mutation in the audit log and pushes it to connected
// WebSocket clients.
func (s *Server) audit(agenticID string, category types.AuditCategory, summary string, metadata types.AuditMetadata) {
	entry, err := s.store.InsertAudit(agenticID, category, summary, metadata)
	if err != nil {
		s.logger.Error("audit insert failed",
			"component", "devserver",
			"profile", agenticID,
			"error", err,
		)
		return
	}
	s.hub.Broadcast("audit:new", map[string]any{
		"agenticId": agenticID,
		"entry":     entry,
	})
}
