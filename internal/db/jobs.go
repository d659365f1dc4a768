package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hr-pulse/internal/types"
)

// InsertJob stores a job and returns it with its generated id.
func (db *DB) InsertJob(ctx context.Context, title string, skills []types.SkillEntity) (*types.Job, error) {
	raw, err := encodeSkills(skills)
	if err != nil {
		return nil, err
	}

	var id int64
	err = db.pool.QueryRow(ctx,
		`INSERT INTO jobs (job_title, skills_extracted) VALUES ($1, $2) RETURNING id`,
		title, raw,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}

	stored, err := decodeSkills(raw)
	if err != nil {
		return nil, err
	}
	return &types.Job{ID: id, JobTitle: title, SkillsExtracted: stored}, nil
}

// ListJobs returns a page of jobs ordered by id.
func (db *DB) ListJobs(ctx context.Context, offset, limit int) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_title, skills_extracted FROM jobs ORDER BY id ASC OFFSET $1 LIMIT $2`,
		offset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	return collectJobs(rows)
}

// GetJob retrieves a job by id.
func (db *DB) GetJob(ctx context.Context, id int64) (*types.Job, error) {
	var job types.Job
	var raw string
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_title, skills_extracted FROM jobs WHERE id = $1`,
		id,
	).Scan(&job.ID, &job.JobTitle, &raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
func (db *DB) SearchJobs(ctx context.Context, keyword string) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, job_title, skills_extracted FROM jobs WHERE skills_extracted ILIKE $1 ESCAPE '\' ORDER BY id ASC`,
		searchPattern(keyword),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}
	return collectJobs(rows)
}

// DeleteJob removes a job, reporting whether it existed.
func (db *DB) DeleteJob(ctx context.Context, id int64) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete job %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func collectJobs(rows pgx.Rows) ([]types.Job, error) {
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
