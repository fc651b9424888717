package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/repository"
)

const jobColumns = `id, title, description, location, created_by, created_at`

// CreateJob inserts a job, generating its ID and creation time.
func (db *DB) CreateJob(ctx context.Context, job *model.Job) error {
	job.ID = uuid.New()
	job.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Title,
		job.Description,
		job.Location,
		job.CreatedBy,
		job.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user", job.CreatedBy.String())
		}
		return fmt.Errorf("sqlite: creating job: %w", err)
	}
	return nil
}

// GetJob retrieves a single job by its ID.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var j model.Job
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id,
	).Scan(&j.ID, &j.Title, &j.Description, &j.Location, &j.CreatedBy, &j.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("job", id.String())
		}
		return nil, fmt.Errorf("sqlite: getting job %s: %w", id, err)
	}
	return &j, nil
}

// ListJobs returns one page of jobs and the total number matching filter.
//
// FILTERS:
// Title and location are case-insensitive substring matches, folded with
// strings.ToLower on both sides (see fold). The WHERE clause is built from
// fixed fragments only; user input always travels as a ? argument, with
// LIKE wildcards escaped.
//
// ORDERING:
// rowid order, i.e. insertion order. That is SQLite-specific; the gorm
// implementation orders by (created_at, id) instead.
func (db *DB) ListJobs(ctx context.Context, filter model.JobFilter, opts repository.ListOptions) ([]model.Job, int, error) {
	var (
		clauses []string
		args    []any
	)
	if t := strings.TrimSpace(filter.Title); t != "" {
		clauses = append(clauses, foldFunc+`(title) LIKE ? ESCAPE '\'`)
		args = append(args, likeArg(t))
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		clauses = append(clauses, foldFunc+`(location) LIKE ? ESCAPE '\'`)
		args = append(args, likeArg(l))
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting jobs: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs`+where+` ORDER BY rowid LIMIT ? OFFSET ?`,
		append(args, opts.Limit, opts.Offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]model.Job, 0, opts.Limit)
	for rows.Next() {
		var j model.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &j.Location, &j.CreatedBy, &j.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating jobs: %w", err)
	}

	return jobs, total, nil
}
