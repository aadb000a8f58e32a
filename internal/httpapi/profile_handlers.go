package httpapi

import (
	"errors"
	"net/http"

	"github.com/sachins-devloper/work-tracking/internal/tracker"
)

type updateProfileRequest struct {
	Profile     *tracker.Profile     `json:"profile"`
	Preferences *tracker.Preferences `json:"preferences"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// GET /profile — the caller's own account.
// PUT /profile — update profile and preference sections; omitted sections
// stay untouched.
func (a *API) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.getProfile(w, r)
	case http.MethodPut:
		a.updateProfile(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.requireClaims(w, r)
	if !ok {
		return
	}
	user, err := a.svc.GetUser(r.Context(), claims.UserID())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.requireClaims(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.svc.UpdateProfile(r.Context(), claims.UserID(), req.Profile, req.Preferences)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// PUT /profile/password — change the caller's password after verifying the
// current one.
func (a *API) handleProfilePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, http.MethodPut)
		return
	}
	claims, ok := a.requireClaims(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Current and new password are required")
		return
	}

	err := a.svc.ChangePassword(r.Context(), claims.UserID(), req.CurrentPassword, req.NewPassword)
	if err != nil {
		// A wrong current password is a validation failure on this route,
		// not a failed login.
		if errors.Is(err, tracker.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Current password is incorrect")
			return
		}
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
