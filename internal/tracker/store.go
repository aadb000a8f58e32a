package tracker

import (
	"context"
	"time"
)

// Store describes the persistence operations required by the tracker.
type Store interface {
	Users(ctx context.Context) UserStore
	Activities(ctx context.Context) ActivityStore
}

// UserStore manages account records.
type UserStore interface {
	// Create inserts a new user. It returns ErrDuplicateUsername when the
	// username is already taken; the store's uniqueness constraint decides.
	Create(ctx context.Context, u *User) error
	Find(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	// UpdateProfile replaces the profile and/or preferences sections; a nil
	// section is left untouched. Returns the updated user.
	UpdateProfile(ctx context.Context, id string, profile *Profile, prefs *Preferences) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// ActivityFilter narrows admin activity listings. A zero value matches
// everything.
type ActivityFilter struct {
	OwnerID string
	Day     *DayRange
}

// DayRange is an inclusive-start, exclusive-end calendar-day window.
type DayRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (d DayRange) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// ActivityStore manages activity records. Listings order by date descending;
// the tie-break between equal dates is unspecified.
type ActivityStore interface {
	Create(ctx context.Context, a *Activity) error
	List(ctx context.Context, filter ActivityFilter) ([]*Activity, error)
}
