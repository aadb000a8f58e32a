package httpapi

import (
	"net/http"
	"time"

	"github.com/sachins-devloper/work-tracking/internal/tracker"
)

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type createUserResponse struct {
	Message string     `json:"message"`
	User    publicUser `json:"user"`
}

// userSummary is the admin listing view of an account: never the secret,
// only the contact subset of the profile.
type userSummary struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Email     string    `json:"email,omitempty"`
	Mobile    string    `json:"mobile,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserSummary(u *tracker.User) userSummary {
	return userSummary{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Email:     u.Profile.Email,
		Mobile:    u.Profile.Mobile,
		CreatedAt: u.CreatedAt,
	}
}

// POST /users — admin creates an account.
func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if _, ok := a.requireAdmin(w, r); !ok {
		return
	}

	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.svc.CreateUser(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createUserResponse{
		Message: "User created successfully",
		User:    toPublicUser(user),
	})
}

// GET /admin/users — admin lists every account.
func (a *API) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if _, ok := a.requireAdmin(w, r); !ok {
		return
	}

	users, err := a.svc.ListUsers(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	summaries := make([]userSummary, 0, len(users))
	for _, u := range users {
		summaries = append(summaries, toUserSummary(u))
	}
	writeJSON(w, http.StatusOK, summaries)
}
