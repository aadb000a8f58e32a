package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sachins-devloper/work-tracking/internal/auth"
	"github.com/sachins-devloper/work-tracking/internal/obs"
	"github.com/sachins-devloper/work-tracking/internal/tracker"
)

// ReadyProbe checks whether the service can reach its database.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer over the tracker and token services.
type API struct {
	mux         *http.ServeMux
	svc         *tracker.Service
	tokens      *auth.Service
	readyProbe  ReadyProbe
	version     string
	environment string
	startedAt   time.Time
}

// New wires up all routes.
func New(svc *tracker.Service, tokens *auth.Service, rp ReadyProbe, version, environment string) *API {
	a := &API{
		mux:         http.NewServeMux(),
		svc:         svc,
		tokens:      tokens,
		readyProbe:  rp,
		version:     version,
		environment: environment,
		startedAt:   time.Now(),
	}

	// health/ready/status
	a.mux.HandleFunc("/health", a.Health)
	a.mux.HandleFunc("/api/status", a.Status)
	a.mux.HandleFunc("/readyz", a.Ready)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// authentication
	a.mux.HandleFunc("/auth/login", a.handleLogin)

	// user management (admin)
	a.mux.HandleFunc("/users", a.handleUsers)
	a.mux.HandleFunc("/admin/users", a.handleAdminUsers)
	a.mux.HandleFunc("/admin/users/", a.handleAdminUserScoped)

	// activities
	a.mux.HandleFunc("/activities", a.handleActivities)
	a.mux.HandleFunc("/admin/activities", a.handleAdminActivities)

	// profile self-service
	a.mux.HandleFunc("/profile", a.handleProfile)
	a.mux.HandleFunc("/profile/password", a.handleProfilePassword)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "resource not found")
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Logging(h)
	return obs.Instrument(h)
}

// --- service endpoints ---

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(a.startedAt).Seconds(),
		"environment": a.environment,
	})
}

func (a *API) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Team Activity Tracker API is running",
		"version":   a.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"message": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// decodeJSON decodes a request body into dst, rejecting unknown fields and
// trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// handleServiceError maps tracker errors to HTTP responses. Anything
// unexpected is logged and surfaced as a generic 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tracker.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, trimErrorPrefix(err))
	case errors.Is(err, tracker.ErrDuplicateUsername):
		writeError(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, tracker.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, tracker.ErrNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		obs.Error("request failed", map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
			"err":    err.Error(),
		})
		writeError(w, http.StatusInternalServerError, "Server error")
	}
}

func trimErrorPrefix(err error) string {
	return strings.TrimPrefix(err.Error(), "tracker: invalid input: ")
}
