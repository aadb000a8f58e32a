package tracker

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

const (
	minPasswordLength = 6
	maxBioLength      = 500
	minMobileLength   = 10
	maxMobileLength   = 15
)

// ParseDay parses a single calendar day (YYYY-MM-DD) into its half-open
// window [day 00:00, day+1 00:00) in UTC, the service's reference timezone.
func ParseDay(s string) (DayRange, error) {
	start, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC)
	if err != nil {
		return DayRange{}, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", ErrInvalidInput)
	}
	return DayRange{Start: start, End: start.Add(24 * time.Hour)}, nil
}

// ParseActivityDate parses an activity date supplied by a client. Both full
// RFC 3339 timestamps and bare YYYY-MM-DD dates are accepted.
func ParseActivityDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.UTC); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: invalid date format", ErrInvalidInput)
}

func validateNewPassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	return nil
}

func validateProfile(p *Profile) error {
	if p == nil {
		return nil
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return fmt.Errorf("%w: invalid email format", ErrInvalidInput)
		}
	}
	if p.Mobile != "" {
		if len(p.Mobile) < minMobileLength || len(p.Mobile) > maxMobileLength {
			return fmt.Errorf("%w: mobile number must be between %d-%d characters",
				ErrInvalidInput, minMobileLength, maxMobileLength)
		}
	}
	if len(p.Bio) > maxBioLength {
		return fmt.Errorf("%w: bio must be %d characters or less", ErrInvalidInput, maxBioLength)
	}
	return nil
}

func validatePreferences(p *Preferences) error {
	if p == nil {
		return nil
	}
	if p.Theme != ThemeLight && p.Theme != ThemeDark {
		return fmt.Errorf("%w: theme must be %q or %q", ErrInvalidInput, ThemeLight, ThemeDark)
	}
	return nil
}
