package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/repository"
)

// CreateJob inserts j. A zero CreatedAt is set to now.
func (r *Repository) CreateJob(ctx context.Context, j *model.Job) error {
	j.ID = uuid.New()
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}

	rec := jobRecord{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		CreatedBy:   j.CreatedBy,
		CreatedAt:   j.CreatedAt,
	}
	// Omit the association so gorm does not try to upsert the creator.
	if err := r.db.WithContext(ctx).Omit("Creator").Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperror.NotFound("user", j.CreatedBy.String())
		}
		return fmt.Errorf("gormdb: creating job: %w", err)
	}
	return nil
}

func (r *Repository) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var rec jobRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("job", id.String())
		}
		return nil, fmt.Errorf("gormdb: getting job %s: %w", id, err)
	}
	j := rec.toModel()
	return &j, nil
}

// ListJobs orders by (created_at, id); ties on created_at still page stably.
//
// Both the column and the pattern go through the database's LOWER, so they
// are folded the same way. PostgreSQL folds non-ASCII letters under a UTF-8
// locale; SQLite's LOWER is ASCII-only but still agrees with itself.
func (r *Repository) ListJobs(ctx context.Context, filter model.JobFilter, opts repository.ListOptions) ([]model.Job, int, error) {
	q := r.db.WithContext(ctx).Model(&jobRecord{})
	if t := strings.TrimSpace(filter.Title); t != "" {
		q = q.Where(`LOWER(title) LIKE LOWER(?) ESCAPE '\'`, likeArg(t))
	}
	if l := strings.TrimSpace(filter.Location); l != "" {
		q = q.Where(`LOWER(location) LIKE LOWER(?) ESCAPE '\'`, likeArg(l))
	}
	// New session so Count and Find each start from the filtered statement.
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("gormdb: counting jobs: %w", err)
	}

	var recs []jobRecord
	if err := q.Order("created_at, id").Limit(opts.Limit).Offset(opts.Offset).Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("gormdb: listing jobs: %w", err)
	}

	jobs := make([]model.Job, 0, len(recs))
	for _, rec := range recs {
		jobs = append(jobs, rec.toModel())
	}
	return jobs, int(total), nil
}

func likeArg(s string) string {
	return "%" + repository.EscapeLike(s) + "%"
}
