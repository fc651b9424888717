package gormdb

import (
	"time"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/model"
)

// The record types are the gorm view of the schema. They stay unexported so
// gorm tags never leak into the model package.

type userRecord struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"not null"`
	Email        string    `gorm:"not null;uniqueIndex"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;check:role IN ('applicant','company')"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userRecord) TableName() string { return "users" }

type jobRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title       string     `gorm:"not null"`
	Description string     `gorm:"not null"`
	Location    string     `gorm:"not null"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Creator     userRecord `gorm:"foreignKey:CreatedBy;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time  `gorm:"not null;index"`
}

func (jobRecord) TableName() string { return "jobs" }

type applicationRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ApplicantID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_applications_applicant_job"`
	Applicant   userRecord `gorm:"foreignKey:ApplicantID;constraint:OnDelete:RESTRICT"`
	JobID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_applications_applicant_job;index"`
	Job         jobRecord  `gorm:"foreignKey:JobID;constraint:OnDelete:RESTRICT"`
	ResumeURL   string     `gorm:"not null"`
	CoverLetter *string
	Status      string    `gorm:"not null;default:applied"`
	AppliedAt   time.Time `gorm:"not null"`
}

func (applicationRecord) TableName() string { return "applications" }

func userFromModel(u *model.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		CreatedAt:    u.CreatedAt,
	}
}

func (r userRecord) toModel() *model.User {
	return &model.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         model.Role(r.Role),
		CreatedAt:    r.CreatedAt,
	}
}

func (r jobRecord) toModel() model.Job {
	return model.Job{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

func (r applicationRecord) toModel() model.Application {
	return model.Application{
		ID:          r.ID,
		ApplicantID: r.ApplicantID,
		JobID:       r.JobID,
		ResumeURL:   r.ResumeURL,
		CoverLetter: r.CoverLetter,
		Status:      model.ApplicationStatus(r.Status),
		AppliedAt:   r.AppliedAt,
	}
}
