package httpapi

import (
	"net/http"
	"strings"

	"github.com/sachins-devloper/work-tracking/internal/tracker"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type publicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string     `json:"token"`
	User  publicUser `json:"user"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		writeError(w, http.StatusBadRequest, "Username is required")
		return
	}
	if req.Password == "" {
		writeError(w, http.StatusBadRequest, "Password is required")
		return
	}

	result, err := a.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: result.Token,
		User:  toPublicUser(result.User),
	})
}

func toPublicUser(u *tracker.User) publicUser {
	return publicUser{ID: u.ID, Username: u.Username, Role: u.Role}
}
