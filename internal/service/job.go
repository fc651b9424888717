package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/guard"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/repository"
)

// JobService posts and lists jobs.
type JobService struct {
	jobs        repository.JobRepository
	maxPageSize int
	logger      *slog.Logger
}

func NewJobService(jobs repository.JobRepository, maxPageSize int, logger *slog.Logger) *JobService {
	return &JobService{jobs: jobs, maxPageSize: maxPageSize, logger: logger}
}

// CreateJobInput carries the declared owner separately from the caller; the
// two must match.
type CreateJobInput struct {
	Title       string
	Description string
	Location    string
	CreatedBy   uuid.UUID
}

// Create posts a job. Only a company may post, and only as itself. Both
// checks run before validation so a rejected caller learns nothing about
// the payload and nothing is written.
func (s *JobService) Create(ctx context.Context, caller *model.User, in CreateJobInput) (*model.Job, error) {
	if err := guard.Require(caller, model.RoleCompany, in.CreatedBy, "Cannot create job for another user"); err != nil {
		return nil, err
	}

	job := &model.Job{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Location:    strings.TrimSpace(in.Location),
		CreatedBy:   caller.ID,
	}
	switch {
	case job.Title == "":
		return nil, apperror.ValidationFailed("title", "title is required")
	case job.Description == "":
		return nil, apperror.ValidationFailed("description", "description is required")
	case job.Location == "":
		return nil, apperror.ValidationFailed("location", "location is required")
	}

	if err := s.jobs.CreateJob(ctx, job); err != nil {
		s.logger.Error("failed to create job",
			slog.String("owner", caller.ID.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating job: %w", err)
	}

	s.logger.Info("job created",
		slog.String("job_id", job.ID.String()),
		slog.String("owner", caller.ID.String()),
	)
	return job, nil
}

// Browse lists jobs for any authenticated user, optionally filtered by
// title and location.
func (s *JobService) Browse(ctx context.Context, caller *model.User, filter model.JobFilter, page Page) (*PageResult[model.Job], error) {
	if caller == nil {
		return nil, apperror.Unauthenticated("Could not validate credentials", "authentication required")
	}
	page, err := page.Normalize(s.maxPageSize)
	if err != nil {
		return nil, err
	}

	jobs, total, err := s.jobs.ListJobs(ctx, filter, page.Options())
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	return newPageResult(jobs, page, total), nil
}
