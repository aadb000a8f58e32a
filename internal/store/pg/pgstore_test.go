package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sachins-devloper/work-tracking/internal/tracker"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func userRows(t *testing.T, u *tracker.User) *sqlmock.Rows {
	t.Helper()
	profile, err := json.Marshal(u.Profile)
	if err != nil {
		t.Fatalf("marshal profile: %v", err)
	}
	prefs, err := json.Marshal(u.Preferences)
	if err != nil {
		t.Fatalf("marshal preferences: %v", err)
	}
	return sqlmock.NewRows([]string{
		"id", "username", "password_hash", "role", "profile", "preferences", "created_at", "updated_at",
	}).AddRow(u.ID, u.Username, u.PasswordHash, u.Role, profile, prefs, u.CreatedAt, u.UpdatedAt)
}

func TestUserCreateMapsUniqueViolation(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("insert into users").
		WithArgs("id-1", "alice", "hash", "member",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := store.Users(context.Background()).Create(context.Background(), &tracker.User{
		ID:           "id-1",
		Username:     "alice",
		PasswordHash: "hash",
		Role:         tracker.RoleMember,
	})
	if !errors.Is(err, tracker.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserCreateAssignsID(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("insert into users").
		WithArgs(sqlmock.AnyArg(), "alice", "hash", "member",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &tracker.User{Username: "alice", PasswordHash: "hash", Role: tracker.RoleMember}
	if err := store.Users(context.Background()).Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserCreateBindsTimestamps(t *testing.T) {
	store, mock := newMock(t)
	created := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec("insert into users").
		WithArgs("id-1", "alice", "hash", "member",
			sqlmock.AnyArg(), sqlmock.AnyArg(), created, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Users(context.Background()).Create(context.Background(), &tracker.User{
		ID:           "id-1",
		Username:     "alice",
		PasswordHash: "hash",
		Role:         tracker.RoleMember,
		CreatedAt:    created,
		UpdatedAt:    created,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActivityCreateBindsTimestamps(t *testing.T) {
	store, mock := newMock(t)
	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	mock.ExpectExec("insert into activities").
		WithArgs("a-1", "id-1", "Run", "5k", date, created).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Activities(context.Background()).Create(context.Background(), &tracker.Activity{
		ID:          "a-1",
		UserID:      "id-1",
		Title:       "Run",
		Description: "5k",
		Date:        date,
		CreatedAt:   created,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByUsername(t *testing.T) {
	store, mock := newMock(t)
	now := time.Now().UTC()

	want := &tracker.User{
		ID:           "id-1",
		Username:     "alice",
		PasswordHash: "hash",
		Role:         tracker.RoleMember,
		Profile:      tracker.Profile{Email: "alice@example.com"},
		Preferences:  tracker.DefaultPreferences(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	mock.ExpectQuery("select id, username, password_hash, role, profile, preferences, created_at, updated_at from users where username=").
		WithArgs("alice").
		WillReturnRows(userRows(t, want))

	got, err := store.Users(context.Background()).FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if got.ID != want.ID || got.Profile.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if got.Preferences.Theme != tracker.ThemeLight {
		t.Fatalf("preferences not decoded: %+v", got.Preferences)
	}
}

func TestFindMapsNoRows(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectQuery("select id, username, .* from users where id=").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Users(context.Background()).Find(context.Background(), "missing")
	if !errors.Is(err, tracker.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdatePasswordMissingUser(t *testing.T) {
	store, mock := newMock(t)

	mock.ExpectExec("update users set password_hash=").
		WithArgs("missing", "newhash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Users(context.Background()).UpdatePassword(context.Background(), "missing", "newhash")
	if !errors.Is(err, tracker.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProfileBuildsPartialSet(t *testing.T) {
	store, mock := newMock(t)
	now := time.Now().UTC()

	want := &tracker.User{
		ID: "id-1", Username: "alice", PasswordHash: "hash", Role: tracker.RoleMember,
		Preferences: tracker.DefaultPreferences(), CreatedAt: now, UpdatedAt: now,
	}
	mock.ExpectQuery(`update users set profile=\$2, updated_at=now\(\)`).
		WithArgs("id-1", sqlmock.AnyArg()).
		WillReturnRows(userRows(t, want))

	_, err := store.Users(context.Background()).UpdateProfile(context.Background(), "id-1",
		&tracker.Profile{Email: "alice@example.com"}, nil)
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActivityListFilters(t *testing.T) {
	store, mock := newMock(t)
	window, err := tracker.ParseDay("2024-03-10")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}

	rows := sqlmock.NewRows([]string{"id", "user_id", "username", "title", "description", "date", "created_at"}).
		AddRow("a-1", "id-1", "alice", "Run", "5k", window.Start.Add(9*time.Hour), time.Now().UTC())

	mock.ExpectQuery(`a\.user_id=\$1 and a\.date >= \$2 and a\.date < \$3 order by a\.date desc`).
		WithArgs("id-1", window.Start, window.End).
		WillReturnRows(rows)

	list, err := store.Activities(context.Background()).List(context.Background(), tracker.ActivityFilter{
		OwnerID: "id-1",
		Day:     &window,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Username != "alice" {
		t.Fatalf("unexpected result: %+v", list)
	}
}

func TestActivityListUnfiltered(t *testing.T) {
	store, mock := newMock(t)

	rows := sqlmock.NewRows([]string{"id", "user_id", "username", "title", "description", "date", "created_at"})
	mock.ExpectQuery(`from activities a\s+join users u on u\.id = a\.user_id order by a\.date desc`).
		WillReturnRows(rows)

	list, err := store.Activities(context.Background()).List(context.Background(), tracker.ActivityFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected empty result, got %+v", list)
	}
}
