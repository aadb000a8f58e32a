package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sachins-devloper/work-tracking/internal/auth"
	"github.com/sachins-devloper/work-tracking/internal/ids"
)

// Service composes the stores and the token service into the tracker's
// business operations. All validation happens here, before any store
// mutation.
type Service struct {
	store  Store
	tokens *auth.Service
	now    func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the tracker service.
func NewService(store Store, tokens *auth.Service, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		tokens: tokens,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginResult carries a freshly issued session token and the account it
// belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Login authenticates a username/password pair and issues a session token.
// An unknown username and a wrong password both fail with
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}

	user, err := s.store.Users(ctx).FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// CreateUser registers a new account. The store's uniqueness constraint on
// username decides duplicate races.
func (s *Service) CreateUser(ctx context.Context, username, password, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if err := validateNewPassword(password); err != nil {
		return nil, err
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: role must be %q or %q", ErrInvalidInput, RoleAdmin, RoleMember)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	user := &User{
		ID:           ids.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Preferences:  DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.Users(ctx).Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the default admin account if the username is absent.
// Called once at startup; idempotent.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	_, err := s.store.Users(ctx).FindByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	_, err = s.CreateUser(ctx, username, password, RoleAdmin)
	if errors.Is(err, ErrDuplicateUsername) {
		// Lost a startup race to another instance; the account exists.
		return nil
	}
	return err
}

// GetUser loads an account by id.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.store.Users(ctx).Find(ctx, id)
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.store.Users(ctx).List(ctx)
}

// UpdateProfile replaces the caller's profile and/or preferences sections.
// Nil sections are left untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID string, profile *Profile, prefs *Preferences) (*User, error) {
	if profile == nil && prefs == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}
	if profile != nil {
		normalizeProfile(profile)
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}
	if err := validatePreferences(prefs); err != nil {
		return nil, err
	}
	return s.store.Users(ctx).UpdateProfile(ctx, userID, profile, prefs)
}

// ChangePassword rotates the caller's password after verifying the current
// one. A wrong current password fails with ErrInvalidCredentials and leaves
// the stored hash unchanged.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if currentPassword == "" {
		return fmt.Errorf("%w: current password is required", ErrInvalidInput)
	}
	if err := validateNewPassword(newPassword); err != nil {
		return err
	}

	user, err := s.store.Users(ctx).Find(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.VerifyPassword(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.store.Users(ctx).UpdatePassword(ctx, userID, hash)
}

// AddActivity records an activity owned by the caller. A zero date defaults
// to the current time.
func (s *Service) AddActivity(ctx context.Context, ownerID, title, description string, date time.Time) (*Activity, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	owner, err := s.store.Users(ctx).Find(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if date.IsZero() {
		date = now
	}
	activity := &Activity{
		ID:          ids.New(),
		UserID:      owner.ID,
		Username:    owner.Username,
		Title:       title,
		Description: description,
		Date:        date.UTC(),
		CreatedAt:   now,
	}
	if err := s.store.Activities(ctx).Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// ListOwnActivities returns the caller's activities, newest date first.
func (s *Service) ListOwnActivities(ctx context.Context, ownerID string) ([]*Activity, error) {
	return s.store.Activities(ctx).List(ctx, ActivityFilter{OwnerID: ownerID})
}

// ListActivities returns activities across all owners, optionally narrowed to
// one owner and/or one calendar day (YYYY-MM-DD). Admin-only at the API
// surface.
func (s *Service) ListActivities(ctx context.Context, ownerID, day string) ([]*Activity, error) {
	filter := ActivityFilter{OwnerID: strings.TrimSpace(ownerID)}
	if strings.TrimSpace(day) != "" {
		window, err := ParseDay(day)
		if err != nil {
			return nil, err
		}
		filter.Day = &window
	}
	return s.store.Activities(ctx).List(ctx, filter)
}

// UserActivities returns one account plus its activities, optionally narrowed
// to a calendar day. Fails with ErrNotFound when the account is absent.
func (s *Service) UserActivities(ctx context.Context, userID, day string) (*User, []*Activity, error) {
	user, err := s.store.Users(ctx).Find(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	activities, err := s.ListActivities(ctx, userID, day)
	if err != nil {
		return nil, nil, err
	}
	return user, activities, nil
}

func normalizeProfile(p *Profile) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Mobile = strings.TrimSpace(p.Mobile)
	p.Bio = strings.TrimSpace(p.Bio)
	p.Avatar = strings.TrimSpace(p.Avatar)
	p.SocialLinks.LinkedIn = strings.TrimSpace(p.SocialLinks.LinkedIn)
	p.SocialLinks.GitHub = strings.TrimSpace(p.SocialLinks.GitHub)
	p.SocialLinks.Twitter = strings.TrimSpace(p.SocialLinks.Twitter)
	p.SocialLinks.Website = strings.TrimSpace(p.SocialLinks.Website)
}
