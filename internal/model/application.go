package model

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the review state of an application.
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "applied"
	StatusReviewed    ApplicationStatus = "reviewed"
	StatusInterviewed ApplicationStatus = "interviewed"
	StatusRejected    ApplicationStatus = "rejected"
	StatusHired       ApplicationStatus = "hired"
)

// Valid reports whether s is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusApplied, StatusReviewed, StatusInterviewed, StatusRejected, StatusHired:
		return true
	}
	return false
}

// Application links an applicant to a job.
//
// There is at most one Application per (ApplicantID, JobID) pair; the
// repositories back this with a UNIQUE constraint.
//
// CoverLetter is a pointer because "no cover letter" (nil) and an empty
// string are stored differently (NULL vs ”), matching what the client sent.
type Application struct {
	ID          uuid.UUID         `json:"id"`
	ApplicantID uuid.UUID         `json:"applicantId"`
	JobID       uuid.UUID         `json:"jobId"`
	ResumeURL   string            `json:"resumeUrl"`
	CoverLetter *string           `json:"coverLetter,omitempty"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"appliedAt"`
}
