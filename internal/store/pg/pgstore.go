package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sachins-devloper/work-tracking/internal/ids"
	"github.com/sachins-devloper/work-tracking/internal/tracker"
)

const uniqueViolation = "23505"

// Store implements tracker.Store using PostgreSQL.
type Store struct {
	db *sql.DB
}

var _ tracker.Store = (*Store)(nil)

// Open connects to PostgreSQL and tunes the connection pool.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle (used by tests with sqlmock).
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Users(ctx context.Context) tracker.UserStore {
	return &userStore{db: s.db}
}

func (s *Store) Activities(ctx context.Context) tracker.ActivityStore {
	return &activityStore{db: s.db}
}

// User store ---------------------------------------------------------------

type userStore struct{ db *sql.DB }

const userColumns = `id, username, password_hash, role, profile, preferences, created_at, updated_at`

func (s *userStore) Create(ctx context.Context, u *tracker.User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	profile, err := json.Marshal(u.Profile)
	if err != nil {
		return err
	}
	prefs, err := json.Marshal(u.Preferences)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`insert into users(id, username, password_hash, role, profile, preferences, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Username, u.PasswordHash, u.Role, profile, prefs, u.CreatedAt, u.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return tracker.ErrDuplicateUsername
	}
	return err
}

func (s *userStore) Find(ctx context.Context, id string) (*tracker.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where id=$1`, id)
	return scanUser(row)
}

func (s *userStore) FindByUsername(ctx context.Context, username string) (*tracker.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+userColumns+` from users where username=$1`, username)
	return scanUser(row)
}

func (s *userStore) List(ctx context.Context) ([]*tracker.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+userColumns+` from users order by created_at asc`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*tracker.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (s *userStore) UpdateProfile(ctx context.Context, id string, profile *tracker.Profile, prefs *tracker.Preferences) (*tracker.User, error) {
	set := make([]string, 0, 2)
	args := []any{id}
	if profile != nil {
		data, err := json.Marshal(profile)
		if err != nil {
			return nil, err
		}
		args = append(args, data)
		set = append(set, fmt.Sprintf("profile=$%d", len(args)))
	}
	if prefs != nil {
		data, err := json.Marshal(prefs)
		if err != nil {
			return nil, err
		}
		args = append(args, data)
		set = append(set, fmt.Sprintf("preferences=$%d", len(args)))
	}
	if len(set) == 0 {
		return s.Find(ctx, id)
	}

	row := s.db.QueryRowContext(ctx,
		`update users set `+strings.Join(set, ", ")+`, updated_at=now()
		 where id=$1 returning `+userColumns, args...)
	return scanUser(row)
}

func (s *userStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`update users set password_hash=$2, updated_at=now() where id=$1`,
		id, passwordHash)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return tracker.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*tracker.User, error) {
	var (
		u       tracker.User
		profile []byte
		prefs   []byte
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &profile, &prefs, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, tracker.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &u.Profile); err != nil {
			return nil, err
		}
	}
	if len(prefs) > 0 {
		if err := json.Unmarshal(prefs, &u.Preferences); err != nil {
			return nil, err
		}
	}
	return &u, nil
}

// Activity store -----------------------------------------------------------

type activityStore struct{ db *sql.DB }

func (s *activityStore) Create(ctx context.Context, a *tracker.Activity) error {
	if a.ID == "" {
		a.ID = ids.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`insert into activities(id, user_id, title, description, date, created_at)
		 values($1,$2,$3,$4,$5,$6)`,
		a.ID, a.UserID, a.Title, a.Description, a.Date, a.CreatedAt,
	)
	return err
}

func (s *activityStore) List(ctx context.Context, filter tracker.ActivityFilter) ([]*tracker.Activity, error) {
	query := `select a.id, a.user_id, u.username, a.title, a.description, a.date, a.created_at
		 from activities a
		 join users u on u.id = a.user_id`
	var (
		where []string
		args  []any
	)
	if filter.OwnerID != "" {
		args = append(args, filter.OwnerID)
		where = append(where, fmt.Sprintf("a.user_id=$%d", len(args)))
	}
	if filter.Day != nil {
		args = append(args, filter.Day.Start)
		where = append(where, fmt.Sprintf("a.date >= $%d", len(args)))
		args = append(args, filter.Day.End)
		where = append(where, fmt.Sprintf("a.date < $%d", len(args)))
	}
	if len(where) > 0 {
		query += " where " + strings.Join(where, " and ")
	}
	query += " order by a.date desc"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*tracker.Activity
	for rows.Next() {
		var a tracker.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Username, &a.Title, &a.Description, &a.Date, &a.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &a)
	}
	return res, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
