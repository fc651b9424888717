// Package repository declares the storage interfaces the service layer
// depends on. Implementations live in sub-packages:
//
//	repository/sqlite  database/sql on modernc.org/sqlite (default, single file)
//	repository/gormdb  gorm, used with PostgreSQL in production
//
// Both translate storage errors into apperror kinds: a missing row becomes
// apperror.ErrNotFound, a UNIQUE violation becomes apperror.ErrConflict.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/model"
)

// ListOptions is a LIMIT/OFFSET window. The service computes it from the
// page number and size; repositories apply it as-is.
type ListOptions struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	// CreateUser inserts u, filling ID and CreatedAt. A taken email returns
	// an error wrapping apperror.ErrConflict.
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

type JobRepository interface {
	CreateJob(ctx context.Context, j *model.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error)
	// ListJobs returns one window of jobs matching filter plus the total
	// number of matching rows.
	ListJobs(ctx context.Context, filter model.JobFilter, opts ListOptions) ([]model.Job, int, error)
}

type ApplicationRepository interface {
	// CreateApplication inserts a. A second application for the same
	// (applicant, job) pair returns an error wrapping apperror.ErrConflict.
	CreateApplication(ctx context.Context, a *model.Application) error
	ApplicationExists(ctx context.Context, applicantID, jobID uuid.UUID) (bool, error)
	ListApplicationsByApplicant(ctx context.Context, applicantID uuid.UUID, opts ListOptions) ([]model.Application, int, error)
	ListApplicationsByJob(ctx context.Context, jobID uuid.UUID, opts ListOptions) ([]model.Application, int, error)
}

// Store bundles every repository plus lifecycle; it is what server.New opens.
type Store interface {
	UserRepository
	JobRepository
	ApplicationRepository
	Ping(ctx context.Context) error
	Close() error
}

// EscapeLike escapes the LIKE wildcards in s so user input is matched
// literally. Queries pair it with ESCAPE '\'.
func EscapeLike(s string) string {
	var b []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '%', '_':
			b = append(b, '\\')
		}
		b = append(b, s[i])
	}
	return string(b)
}
