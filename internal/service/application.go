package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/guard"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/repository"
	"github.com/sakif/job-board/internal/upload"
)

const (
	MaxCoverLetterLength = 200
	ResumeContentType    = "application/pdf"
	DefaultResumeFolder  = "resumes"
	DefaultResumePrefix  = "https://res.cloudinary.com/"
)

// ApplicationSettings are the upload knobs taken from config.
type ApplicationSettings struct {
	ResumeFolder    string
	ResumeURLPrefix string
	MaxPageSize     int
}

// ApplicationService runs the application submission pipeline and the two
// scoped application listings.
type ApplicationService struct {
	apps     repository.ApplicationRepository
	jobs     repository.JobRepository
	uploader upload.Uploader
	settings ApplicationSettings
	logger   *slog.Logger
}

func NewApplicationService(
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	uploader upload.Uploader,
	settings ApplicationSettings,
	logger *slog.Logger,
) *ApplicationService {
	if settings.ResumeFolder == "" {
		settings.ResumeFolder = DefaultResumeFolder
	}
	if settings.ResumeURLPrefix == "" {
		settings.ResumeURLPrefix = DefaultResumePrefix
	}
	return &ApplicationService{
		apps:     apps,
		jobs:     jobs,
		uploader: uploader,
		settings: settings,
		logger:   logger,
	}
}

// ApplyInput is one submission. CoverLetter is nil when the field was not
// sent at all, which is different from an empty letter.
type ApplyInput struct {
	ApplicantID       uuid.UUID
	JobID             uuid.UUID
	CoverLetter       *string
	Resume            io.Reader
	ResumeContentType string
}

// Apply submits an application.
//
// THE PIPELINE (first failure wins):
//  1. caller is an applicant
//  2. caller applies as itself
//  3. no earlier application to the same job
//  4. the job exists
//  5. cover letter is at most 200 characters
//  6. résumé is declared as a PDF
//  7. upload the résumé and check the returned URL
//  8. persist with status "applied"
//
// Steps 1-6 never touch the file host, so a rejected submission uploads
// nothing. Step 3 is only a fast path: the UNIQUE constraint decides a race
// between two submissions and the loser gets the same duplicate error.
func (s *ApplicationService) Apply(ctx context.Context, caller *model.User, in ApplyInput) (*model.Application, error) {
	if err := guard.Require(caller, model.RoleApplicant, in.ApplicantID, "Cannot apply for another user"); err != nil {
		return nil, err
	}

	exists, err := s.apps.ApplicationExists(ctx, in.ApplicantID, in.JobID)
	if err != nil {
		return nil, fmt.Errorf("checking for duplicate application: %w", err)
	}
	if exists {
		return nil, duplicateApplication()
	}

	if _, err := s.jobs.GetJob(ctx, in.JobID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.NotFoundMessage("Job not found")
		}
		return nil, fmt.Errorf("looking up job: %w", err)
	}

	if in.CoverLetter != nil && utf8.RuneCountInString(*in.CoverLetter) > MaxCoverLetterLength {
		return nil, apperror.Invalid("coverletter", "Invalid cover letter",
			fmt.Sprintf("Cover letter must be under %d characters", MaxCoverLetterLength))
	}

	if !isPDF(in.ResumeContentType) || in.Resume == nil {
		return nil, apperror.Invalid("resume", "Invalid file format", "Resume must be a PDF file")
	}

	dst := upload.ResumeDestination(s.settings.ResumeFolder, in.ApplicantID, in.JobID)
	url, err := s.uploader.Upload(ctx, in.Resume, dst)
	if err != nil {
		s.logger.Error("resume upload failed",
			slog.String("applicant_id", in.ApplicantID.String()),
			slog.String("job_id", in.JobID.String()),
			slog.String("error", err.Error()),
		)
		return nil, apperror.Upload("Failed to upload resume", err)
	}
	if !upload.HasPrefix(url, s.settings.ResumeURLPrefix) {
		s.logger.Warn("upload returned unexpected url", slog.String("url", url))
		return nil, apperror.Invalid("resume", "Invalid Cloudinary URL", "Failed to generate a valid resume URL")
	}

	app := &model.Application{
		ApplicantID: in.ApplicantID,
		JobID:       in.JobID,
		ResumeURL:   url,
		CoverLetter: in.CoverLetter,
		Status:      model.StatusApplied,
		AppliedAt:   time.Now().UTC(),
	}
	if err := s.apps.CreateApplication(ctx, app); err != nil {
		if apperror.IsConflict(err) {
			return nil, duplicateApplication()
		}
		s.logger.Error("failed to store application",
			slog.String("applicant_id", in.ApplicantID.String()),
			slog.String("job_id", in.JobID.String()),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating application: %w", err)
	}

	s.logger.Info("application submitted",
		slog.String("application_id", app.ID.String()),
		slog.String("applicant_id", app.ApplicantID.String()),
		slog.String("job_id", app.JobID.String()),
	)
	return app, nil
}

// ListMine returns the caller's own applications.
func (s *ApplicationService) ListMine(ctx context.Context, caller *model.User, page Page) (*PageResult[model.Application], error) {
	if err := guard.RequireRole(caller, model.RoleApplicant); err != nil {
		return nil, err
	}
	page, err := page.Normalize(s.settings.MaxPageSize)
	if err != nil {
		return nil, err
	}

	apps, total, err := s.apps.ListApplicationsByApplicant(ctx, caller.ID, page.Options())
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return newPageResult(apps, page, total), nil
}

// ListForJob returns the applications to a job the caller owns. A job that
// does not exist and a job owned by another company give the same error, so
// companies cannot probe each other's job ids.
func (s *ApplicationService) ListForJob(ctx context.Context, caller *model.User, jobID uuid.UUID, page Page) (*PageResult[model.Application], error) {
	if err := guard.RequireRole(caller, model.RoleCompany); err != nil {
		return nil, err
	}
	page, err := page.Normalize(s.settings.MaxPageSize)
	if err != nil {
		return nil, err
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, jobNotOwned()
		}
		return nil, fmt.Errorf("looking up job: %w", err)
	}
	if job.CreatedBy != caller.ID {
		return nil, jobNotOwned()
	}

	apps, total, err := s.apps.ListApplicationsByJob(ctx, jobID, page.Options())
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	return newPageResult(apps, page, total), nil
}

// isPDF compares the declared media type, ignoring parameters and case.
func isPDF(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == ResumeContentType
}

func duplicateApplication() error {
	return apperror.Duplicate("Duplicate application", "You have already applied to this job")
}

func jobNotOwned() error {
	return apperror.NotFoundMessage("Job not found or not owned by user")
}
