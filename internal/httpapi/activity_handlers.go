package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/sachins-devloper/work-tracking/internal/ids"
	"github.com/sachins-devloper/work-tracking/internal/tracker"
)

type addActivityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
}

// userDetail is the admin per-user view: account fields plus the full
// profile, never the secret.
type userDetail struct {
	ID        string          `json:"id"`
	Username  string          `json:"username"`
	Role      string          `json:"role"`
	Profile   tracker.Profile `json:"profile"`
	CreatedAt time.Time       `json:"createdAt"`
}

type userActivitiesResponse struct {
	User       userDetail          `json:"user"`
	Activities []*tracker.Activity `json:"activities"`
}

// GET /activities — the caller's own activities.
// POST /activities — record a new activity owned by the caller.
func (a *API) handleActivities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listOwnActivities(w, r)
	case http.MethodPost:
		a.addActivity(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listOwnActivities(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.requireClaims(w, r)
	if !ok {
		return
	}
	activities, err := a.svc.ListOwnActivities(r.Context(), claims.UserID())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activitiesPayload(activities))
}

func (a *API) addActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := a.requireClaims(w, r)
	if !ok {
		return
	}

	var req addActivityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var date time.Time
	if strings.TrimSpace(req.Date) != "" {
		parsed, err := tracker.ParseActivityDate(req.Date)
		if err != nil {
			handleServiceError(w, r, err)
			return
		}
		date = parsed
	}

	activity, err := a.svc.AddActivity(r.Context(), claims.UserID(), req.Title, req.Description, date)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}

// GET /admin/activities?date=YYYY-MM-DD&userId=... — activities across all
// owners, admin only.
func (a *API) handleAdminActivities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if _, ok := a.requireAdmin(w, r); !ok {
		return
	}

	q := r.URL.Query()
	activities, err := a.svc.ListActivities(r.Context(), q.Get("userId"), q.Get("date"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, activitiesPayload(activities))
}

// GET /admin/users/{userId}/activities?date=YYYY-MM-DD — one account plus its
// activities, admin only.
func (a *API) handleAdminUserScoped(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/users/"), "/")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "activities" {
		writeError(w, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if _, ok := a.requireAdmin(w, r); !ok {
		return
	}
	if !ids.Valid(parts[0]) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	user, activities, err := a.svc.UserActivities(r.Context(), parts[0], r.URL.Query().Get("date"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, userActivitiesResponse{
		User: userDetail{
			ID:        user.ID,
			Username:  user.Username,
			Role:      user.Role,
			Profile:   user.Profile,
			CreatedAt: user.CreatedAt,
		},
		Activities: activitiesPayload(activities),
	})
}

// activitiesPayload keeps empty listings serializing as [] instead of null.
func activitiesPayload(activities []*tracker.Activity) []*tracker.Activity {
	if activities == nil {
		return []*tracker.Activity{}
	}
	return activities
}
