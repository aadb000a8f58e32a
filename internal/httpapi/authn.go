package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sachins-devloper/work-tracking/internal/auth"
	"github.com/sachins-devloper/work-tracking/internal/tracker"
)

const (
	authHeader   = "Authorization"
	bearerScheme = "Bearer "
)

var publicPaths = []string{
	"/health",
	"/api/status",
	"/auth/login",
	"/metrics",
	"/readyz",
}

// withAuth guards every non-public route: it resolves the caller's claims
// from the bearer token and rejects the request before any handler runs when
// the token is absent or invalid. Paths that only match the mux's catch-all
// pattern skip the guard so they reach the 404 handler.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if _, pattern := a.mux.Handler(r); pattern == "/" {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := a.tokens.ParseAndValidate(token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			writeError(w, http.StatusInternalServerError, "Server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithClaims(r.Context(), claims)))
	})
}

// requireClaims returns the caller's claims or writes a 401. The middleware
// puts them in the context for every protected route, so a miss means the
// route was wired outside withAuth.
func (a *API) requireClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Access token required")
		return nil, false
	}
	return claims, true
}

// requireAdmin returns the caller's claims only when the embedded role is
// admin; otherwise it writes 403. The role embedded at issuance decides —
// it is not re-checked against the live account (tokens stay privileged
// until expiry).
func (a *API) requireAdmin(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := a.requireClaims(w, r)
	if !ok {
		return nil, false
	}
	if claims.Role != tracker.RoleAdmin {
		writeError(w, http.StatusForbidden, "Admin access required")
		return nil, false
	}
	return claims, true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(header, bearerScheme) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isPublicPath(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	return false
}
