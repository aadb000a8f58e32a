package tracker

import "time"

// Account roles. Role is always exactly one of these.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidRole reports whether role is one of the enumerated values.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

// Preference themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// SocialLinks are optional profile URLs.
type SocialLinks struct {
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Profile holds the optional self-service account fields.
type Profile struct {
	Email       string      `json:"email,omitempty"`
	Mobile      string      `json:"mobile,omitempty"`
	Bio         string      `json:"bio,omitempty"`
	Avatar      string      `json:"avatar,omitempty"`
	SocialLinks SocialLinks `json:"socialLinks"`
}

// Notifications holds per-channel notification flags.
type Notifications struct {
	Email  bool `json:"email"`
	Mobile bool `json:"mobile"`
}

// Preferences holds per-account presentation settings.
type Preferences struct {
	Theme         string        `json:"theme"`
	Notifications Notifications `json:"notifications"`
}

// DefaultPreferences returns the preferences applied to new accounts.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:         ThemeLight,
		Notifications: Notifications{Email: true, Mobile: true},
	}
}

// User is a credentialed account. The password hash never serializes; it is
// excluded from every API response.
type User struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	Profile      Profile     `json:"profile"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// Activity is a dated record owned by exactly one user. The owner reference
// is immutable after creation; activities are append-only. Username carries
// the owner's username resolved by the store for listing responses.
type Activity struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}
