package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ashureev/nextgen-minds/internal/domain"
	"github.com/ashureev/nextgen-minds/internal/shared"
	_ "modernc.org/sqlite"
)

const (
	retryAttempts  = 3
	retryBaseDelay = 50 * time.Millisecond
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Repository = (*SQLiteStore)(nil)

// openDB opens a SQLite database at dbPath in WAL mode, creating the parent
// directory if needed.
func openDB(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL DEFAULT '',
		education TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		skills_json TEXT NOT NULL DEFAULT '[]',
		interests_json TEXT NOT NULL DEFAULT '[]',
		goals TEXT NOT NULL DEFAULT '',
		completed_at INTEGER,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS careers (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		data_json TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS scholarships (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		data_json TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS colleges (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		data_json TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

// CreateUser inserts a new account.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
	INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)`

	err := shared.RetryOnConflict(ctx, retryAttempts, retryBaseDelay, "create_user", func() error {
		_, err := s.db.ExecContext(ctx, query,
			user.ID, user.Name, normalizeEmail(user.Email), user.PasswordHash,
			user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
		)
		return err
	})
	if shared.IsSQLiteUniqueError(err) {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE id = ?`, userID))
}

// GetUserByEmail retrieves a user by email.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM users WHERE email = ?`, normalizeEmail(email)))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var createdAt, updatedAt int64

	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.CreatedAt = time.Unix(createdAt, 0)
	user.UpdatedAt = time.Unix(updatedAt, 0)
	return &user, nil
}

// GetProfile retrieves the career profile of a user.
func (s *SQLiteStore) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	query := `
		SELECT user_id, name, education, location, skills_json, interests_json,
		       goals, completed_at, created_at, updated_at
		FROM profiles WHERE user_id = ?`

	var p domain.Profile
	var skillsJSON, interestsJSON string
	var completedAt sql.NullInt64
	var createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.Name, &p.Education, &p.Location, &skillsJSON, &interestsJSON,
		&p.Goals, &completedAt, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile row: %w", err)
	}

	if err := json.Unmarshal([]byte(skillsJSON), &p.Skills); err != nil {
		return nil, fmt.Errorf("decode profile skills: %w", err)
	}
	if err := json.Unmarshal([]byte(interestsJSON), &p.Interests); err != nil {
		return nil, fmt.Errorf("decode profile interests: %w", err)
	}
	if completedAt.Valid {
		ts := time.Unix(completedAt.Int64, 0)
		p.CompletedAt = &ts
	}
	p.CreatedAt = time.Unix(createdAt, 0)
	p.UpdatedAt = time.Unix(updatedAt, 0)
	return &p, nil
}

// UpsertProfile creates or replaces the career profile of a user.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, p *domain.Profile) error {
	query := `
	INSERT INTO profiles (
		user_id, name, education, location, skills_json, interests_json,
		goals, completed_at, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id) DO UPDATE SET
		name = excluded.name,
		education = excluded.education,
		location = excluded.location,
		skills_json = excluded.skills_json,
		interests_json = excluded.interests_json,
		goals = excluded.goals,
		completed_at = COALESCE(excluded.completed_at, profiles.completed_at),
		updated_at = excluded.updated_at`

	skills, err := marshalList(p.Skills)
	if err != nil {
		return fmt.Errorf("encode profile skills: %w", err)
	}
	interests, err := marshalList(p.Interests)
	if err != nil {
		return fmt.Errorf("encode profile interests: %w", err)
	}
	var completedAt interface{}
	if p.CompletedAt != nil {
		completedAt = p.CompletedAt.Unix()
	}

	err = shared.RetryOnConflict(ctx, retryAttempts, retryBaseDelay, "upsert_profile", func() error {
		_, err := s.db.ExecContext(ctx, query,
			p.UserID, p.Name, p.Education, p.Location, skills, interests,
			p.Goals, completedAt, p.CreatedAt.Unix(), p.UpdatedAt.Unix(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// ListCareers returns every career in catalog order.
func (s *SQLiteStore) ListCareers(ctx context.Context) ([]domain.Career, error) {
	return listCatalog[domain.Career](ctx, s.db, "careers")
}

// GetCareer retrieves one career by ID.
func (s *SQLiteStore) GetCareer(ctx context.Context, id string) (*domain.Career, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data_json FROM careers WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan career row: %w", err)
	}
	var c domain.Career
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("decode career %s: %w", id, err)
	}
	return &c, nil
}

// ListScholarships returns every scholarship in catalog order.
func (s *SQLiteStore) ListScholarships(ctx context.Context) ([]domain.Scholarship, error) {
	return listCatalog[domain.Scholarship](ctx, s.db, "scholarships")
}

// ListColleges returns every college in catalog order.
func (s *SQLiteStore) ListColleges(ctx context.Context) ([]domain.College, error) {
	return listCatalog[domain.College](ctx, s.db, "colleges")
}

// CatalogSize returns the number of careers.
func (s *SQLiteStore) CatalogSize(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM careers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count careers: %w", err)
	}
	return n, nil
}

// ReplaceCatalog swaps the whole catalog in one transaction.
func (s *SQLiteStore) ReplaceCatalog(ctx context.Context, catalog domain.Catalog) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				slog.Warn("Failed to roll back catalog transaction", "error", rbErr)
			}
		}
	}()

	if err = replaceTable(ctx, tx, "careers", catalog.Careers, func(c domain.Career) string { return c.ID }); err != nil {
		return err
	}
	if err = replaceTable(ctx, tx, "scholarships", catalog.Scholarships, func(c domain.Scholarship) string { return c.ID }); err != nil {
		return err
	}
	if err = replaceTable(ctx, tx, "colleges", catalog.Colleges, func(c domain.College) string { return c.ID }); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog: %w", err)
	}
	return nil
}

func replaceTable[T any](ctx context.Context, tx *sql.Tx, table string, items []T, id func(T) string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO "+table+" (id, position, data_json) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			slog.Warn("Failed to close statement", "table", table, "error", closeErr)
		}
	}()

	for i, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("encode %s row %d: %w", table, i, err)
		}
		if _, err := stmt.ExecContext(ctx, id(item), i, string(data)); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}
	return nil
}

func listCatalog[T any](ctx context.Context, db *sql.DB, table string) ([]T, error) {
	rows, err := db.QueryContext(ctx, "SELECT data_json FROM "+table+" ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("Failed to close rows", "table", table, "error", closeErr)
		}
	}()

	out := []T{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		var item T
		if err := json.Unmarshal([]byte(data), &item); err != nil {
			return nil, fmt.Errorf("decode %s row: %w", table, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	return string(data), err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
