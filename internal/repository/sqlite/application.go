package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/repository"
)

const applicationColumns = `id, applicant_id, job_id, resume_url, cover_letter, status, applied_at`

// CreateApplication inserts an application, generating its ID. AppliedAt
// and Status are set by the caller; an empty status defaults to "applied".
func (db *DB) CreateApplication(ctx context.Context, app *model.Application) error {
	app.ID = uuid.New()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now().UTC()
	}
	if app.Status == "" {
		app.Status = model.StatusApplied
	}

	var cover sql.NullString
	if app.CoverLetter != nil {
		cover = sql.NullString{String: *app.CoverLetter, Valid: true}
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO applications (`+applicationColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		app.ApplicantID,
		app.JobID,
		app.ResumeURL,
		cover,
		string(app.Status),
		app.AppliedAt,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return apperror.Conflict("application", app.ApplicantID.String()+"/"+app.JobID.String())
		case isForeignKeyViolation(err):
			return apperror.NotFound("job", app.JobID.String())
		}
		return fmt.Errorf("sqlite: creating application: %w", err)
	}
	return nil
}

// ApplicationExists reports whether applicantID already applied to jobID.
func (db *DB) ApplicationExists(ctx context.Context, applicantID, jobID uuid.UUID) (bool, error) {
	var n int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE applicant_id = ? AND job_id = ?`,
		applicantID, jobID,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("sqlite: checking application: %w", err)
	}
	return n > 0, nil
}

// ListApplicationsByApplicant returns one page of the applicant's own applications.
func (db *DB) ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID, opts repository.ListOptions) ([]model.Application, int, error) {
	return db.listApplications(ctx, "applicant_id", applicantID, opts)
}

// ListApplicationsByJob returns one page of the applications to a job.
func (db *DB) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID, opts repository.ListOptions) ([]model.Application, int, error) {
	return db.listApplications(ctx, "job_id", jobID, opts)
}

// listApplications is shared by the two scoped listings. column is always
// one of the two literals above, never user input.
func (db *DB) listApplications(ctx context.Context, column string, id uuid.UUID, opts repository.ListOptions) ([]model.Application, int, error) {
	var total int
	if err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM applications WHERE `+column+` = ?`, id,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: counting applications: %w", err)
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications
		 WHERE `+column+` = ?
		 ORDER BY rowid LIMIT ? OFFSET ?`,
		id, opts.Limit, opts.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: listing applications: %w", err)
	}
	defer rows.Close()

	apps := make([]model.Application, 0, opts.Limit)
	for rows.Next() {
		var (
			a      model.Application
			cover  sql.NullString
			status string
		)
		if err := rows.Scan(&a.ID, &a.ApplicantID, &a.JobID, &a.ResumeURL, &cover, &status, &a.AppliedAt); err != nil {
			return nil, 0, fmt.Errorf("sqlite: scanning application row: %w", err)
		}
		if cover.Valid {
			c := cover.String
			a.CoverLetter = &c
		}
		a.Status = model.ApplicationStatus(status)
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite: iterating applications: %w", err)
	}

	return apps, total, nil
}
