package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/model"
)

// View types are what clients see. They are separate from the model
// structs so storage fields (like the password hash) can never leak and the
// wire names can differ from the Go names.

type UserView struct {
	ID    uuid.UUID  `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type JobView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	CreatedBy   uuid.UUID `json:"createdby"`
	CreatedAt   time.Time `json:"created_at"`
}

type ApplicationView struct {
	ID          uuid.UUID               `json:"id"`
	ApplicantID uuid.UUID               `json:"applicantid"`
	JobID       uuid.UUID               `json:"jobid"`
	ResumeLink  string                  `json:"resumelink"`
	CoverLetter *string                 `json:"coverletter"`
	Status      model.ApplicationStatus `json:"status"`
	AppliedAt   time.Time               `json:"applied_at"`
}

func toUserView(u model.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toJobView(j model.Job) JobView {
	return JobView{
		ID:          j.ID,
		Title:       j.Title,
		Description: j.Description,
		Location:    j.Location,
		CreatedBy:   j.CreatedBy,
		CreatedAt:   j.CreatedAt,
	}
}

func toApplicationView(a model.Application) ApplicationView {
	return ApplicationView{
		ID:          a.ID,
		ApplicantID: a.ApplicantID,
		JobID:       a.JobID,
		ResumeLink:  a.ResumeURL,
		CoverLetter: a.CoverLetter,
		Status:      a.Status,
		AppliedAt:   a.AppliedAt,
	}
}
