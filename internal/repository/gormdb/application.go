package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/repository"
)

func (r *Repository) CreateApplication(ctx context.Context, a *model.Application) error {
	a.ID = uuid.New()
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now().UTC()
	}
	if a.Status == "" {
		a.Status = model.StatusApplied
	}

	rec := applicationRecord{
		ID:          a.ID,
		ApplicantID: a.ApplicantID,
		JobID:       a.JobID,
		ResumeURL:   a.ResumeURL,
		CoverLetter: a.CoverLetter,
		Status:      string(a.Status),
		AppliedAt:   a.AppliedAt,
	}
	err := r.db.WithContext(ctx).Omit("Applicant", "Job").Create(&rec).Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperror.Conflict("application", a.ApplicantID.String()+"/"+a.JobID.String())
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperror.NotFound("job", a.JobID.String())
	default:
		return fmt.Errorf("gormdb: creating application: %w", err)
	}
}

func (r *Repository) ApplicationExists(ctx context.Context, applicantID, jobID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&applicationRecord{}).
		Where("applicant_id = ? AND job_id = ?", applicantID, jobID).
		Limit(1).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("gormdb: checking application: %w", err)
	}
	return n > 0, nil
}

func (r *Repository) ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID, opts repository.ListOptions) ([]model.Application, int, error) {
	return r.listApplications(ctx, "applicant_id = ?", applicantID, opts)
}

func (r *Repository) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID, opts repository.ListOptions) ([]model.Application, int, error) {
	return r.listApplications(ctx, "job_id = ?", jobID, opts)
}

func (r *Repository) listApplications(ctx context.Context, cond string, id uuid.UUID, opts repository.ListOptions) ([]model.Application, int, error) {
	q := r.db.WithContext(ctx).Model(&applicationRecord{}).Where(cond, id).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("gormdb: counting applications: %w", err)
	}

	var recs []applicationRecord
	if err := q.Order("applied_at, id").Limit(opts.Limit).Offset(opts.Offset).Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("gormdb: listing applications: %w", err)
	}

	apps := make([]model.Application, 0, len(recs))
	for _, rec := range recs {
		apps = append(apps, rec.toModel())
	}
	return apps, int(total), nil
}
