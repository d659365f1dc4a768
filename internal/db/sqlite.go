package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/hr-pulse/internal/types"
)

// SQLite is a single-file store for local runs and tests.
type SQLite struct {
	pool *sql.DB
}

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// sqlite wants a single writer
	pool.SetMaxOpenConns(1)
	pool.SetConnMaxLifetime(5 * time.Minute)

	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return &SQLite{pool: pool}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s == nil || s.pool == nil {
		return nil
	}
	return s.pool.Close()
}

// Ping verifies the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.pool.PingContext(ctx)
}

// InsertJob stores a job and returns it with its generated id.
func (s *SQLite) InsertJob(ctx context.Context, title string, skills []types.SkillEntity) (*types.Job, error) {
	raw, err := encodeSkills(skills)
	if err != nil {
		return nil, err
	}

	res, err := s.pool.ExecContext(ctx,
		`INSERT INTO jobs (job_title, skills_extracted) VALUES (?, ?)`,
		title, raw,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read job id: %w", err)
	}

	stored, err := decodeSkills(raw)
	if err != nil {
		return nil, err
	}
	return &types.Job{ID: id, JobTitle: title, SkillsExtracted: stored}, nil
}

// ListJobs returns a page of jobs ordered by id.
func (s *SQLite) ListJobs(ctx context.Context, offset, limit int) ([]types.Job, error) {
	rows, err := s.pool.QueryContext(ctx,
		`SELECT id, job_title, skills_extracted FROM jobs ORDER BY id ASC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return scanJobs(rows)
}

// GetJob retrieves a job by id.
func (s *SQLite) GetJob(ctx context.Context, id int64) (*types.Job, error) {
	var job types.Job
	var raw string
	err := s.pool.QueryRowContext(ctx,
		`SELECT id, job_title, skills_extracted FROM jobs WHERE id = ?`,
		id,
	).Scan(&job.ID, &job.JobTitle, &raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job %d: %w", id, err)
	}
	if job.SkillsExtracted, err = decodeSkills(raw); err != nil {
		return nil, err
	}
	return &job, nil
}

// SearchJobs finds jobs whose serialized skills contain keyword.
func (s *SQLite) SearchJobs(ctx context.Context, keyword string) ([]types.Job, error) {
	rows, err := s.pool.QueryContext(ctx,
		`SELECT id, job_title, skills_extracted FROM jobs WHERE LOWER(skills_extracted) LIKE ? ESCAPE '\' ORDER BY id ASC`,
		searchPattern(keyword),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	return scanJobs(rows)
}

// DeleteJob removes a job, reporting whether it existed.
func (s *SQLite) DeleteJob(ctx context.Context, id int64) (bool, error) {
	res, err := s.pool.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete job %d: %w", id, err)
	}
	return n > 0, nil
}

func scanJobs(rows *sql.Rows) ([]types.Job, error) {
	defer rows.Close()

	jobs := []types.Job{}
	for rows.Next() {
		var job types.Job
		var raw string
		if err := rows.Scan(&job.ID, &job.JobTitle, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		skills, err := decodeSkills(raw)
		if err != nil {
			return nil, err
		}
		job.SkillsExtracted = skills
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// CreateUser inserts an active account and returns it.
func (s *SQLite) CreateUser(ctx context.Context, email, username, passwordHash string) (*User, error) {
	u := User{
		ID:           uuid.New(),
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	_, err := s.pool.ExecContext(ctx,
		`INSERT INTO users (id, email, username, password_hash, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Email, u.Username, u.PasswordHash, u.IsActive, u.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// GetUserByID retrieves a user by id.
func (s *SQLite) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.getUser(ctx, "id", id.String())
}

// GetUserByEmail retrieves a user by email.
func (s *SQLite) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, nil
	}
	return s.getUser(ctx, "email", email)
}

// GetUserByUsername retrieves a user by username.
func (s *SQLite) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, nil
	}
	return s.getUser(ctx, "username", username)
}

func (s *SQLite) getUser(ctx context.Context, column, value string) (*User, error) {
	var u User
	var id, created string
	err := s.pool.QueryRowContext(ctx,
		`SELECT id, email, username, password_hash, is_active, created_at FROM users WHERE `+column+` = ?`,
		value,
	).Scan(&id, &u.Email, &u.Username, &u.PasswordHash, &u.IsActive, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	if u.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("failed to parse user id: %w", err)
	}
	if u.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("failed to parse user created_at: %w", err)
	}
	return &u, nil
}
