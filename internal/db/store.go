package db

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hr-pulse/internal/types"
)

// JobStore persists jobs with their extracted skills.
type JobStore interface {
	InsertJob(ctx context.Context, title string, skills []types.SkillEntity) (*types.Job, error)
	// ListJobs returns jobs ordered by id ascending.
	ListJobs(ctx context.Context, offset, limit int) ([]types.Job, error)
	// GetJob returns nil, nil when the job does not exist.
	GetJob(ctx context.Context, id int64) (*types.Job, error)
	// SearchJobs matches keyword case-insensitively anywhere in the serialized skills.
	SearchJobs(ctx context.Context, keyword string) ([]types.Job, error)
	DeleteJob(ctx context.Context, id int64) (bool, error)
}

// UserStore persists user accounts. Lookups return nil, nil when absent.
type UserStore interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (*User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// Store is the full storage surface used by the server and CLI.
type Store interface {
	JobStore
	UserStore
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*DB)(nil)
	_ Store = (*SQLite)(nil)
)

// User is a stored account, including the password hash.
type User struct {
	ID           uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// encodeSkills serializes skills as the stored JSON text. Non-ASCII and HTML
// characters are kept verbatim so that substring search sees the raw text.
func encodeSkills(skills []types.SkillEntity) (string, error) {
	if skills == nil {
		skills = []types.SkillEntity{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(skills); err != nil {
		return "", fmt.Errorf("failed to encode skills: %w", err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func decodeSkills(raw string) ([]types.SkillEntity, error) {
	skills := []types.SkillEntity{}
	if raw == "" {
		return skills, nil
	}
	if err := json.Unmarshal([]byte(raw), &skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	return skills, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern builds a LIKE pattern that matches keyword literally. Queries
// using it must declare ESCAPE '\'.
func searchPattern(keyword string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
}
