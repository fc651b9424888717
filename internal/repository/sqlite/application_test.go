package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/repository"
)

func TestCreateApplication_Defaults(t *testing.T) {
	db := newTestDB(t)
	company := createTestUser(t, db, "acme@example.com", model.RoleCompany)
	applicant := createTestUser(t, db, "ada@example.com", model.RoleApplicant)
	job := createTestJob(t, db, company.ID, "Engineer", "Remote")

	app := &model.Application{ApplicantID: applicant.ID, JobID: job.ID, ResumeURL: "https://res.cloudinary.com/x.pdf"}
	require.NoError(t, db.CreateApplication(context.Background(), app))

	assert.NotEqual(t, uuid.Nil, app.ID)
	assert.Equal(t, model.StatusApplied, app.Status)
	assert.False(t, app.AppliedAt.IsZero())
}

func TestCreateApplication_UniquePerApplicantAndJob(t *testing.T) {
	db := newTestDB(t)
	company := createTestUser(t, db, "acme@example.com", model.RoleCompany)
	applicant := createTestUser(t, db, "ada@example.com", model.RoleApplicant)
	job := createTestJob(t, db, company.ID, "Engineer", "Remote")

	createTestApplication(t, db, applicant.ID, job.ID)

	// Different résumé and cover letter, same pair: the constraint still fires.
	cover := "second try"
	err := db.CreateApplication(context.Background(), &model.Application{
		ApplicantID: applicant.ID,
		JobID:       job.ID,
		ResumeURL:   "https://res.cloudinary.com/other.pdf",
		CoverLetter: &cover,
	})
	assert.True(t, errors.Is(err, apperror.ErrConflict), "got %v", err)

	_, total, err := db.ListApplicationsByJob(context.Background(), job.ID, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total, "no duplicate row may be stored")
}

func TestCreateApplication_UnknownJob(t *testing.T) {
	db := newTestDB(t)
	applicant := createTestUser(t, db, "ada@example.com", model.RoleApplicant)

	err := db.CreateApplication(context.Background(), &model.Application{
		ApplicantID: applicant.ID, JobID: uuid.New(), ResumeURL: "https://res.cloudinary.com/x.pdf",
	})
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "got %v", err)
}

func TestApplicationExists(t *testing.T) {
	db := newTestDB(t)
	company := createTestUser(t, db, "acme@example.com", model.RoleCompany)
	applicant := createTestUser(t, db, "ada@example.com", model.RoleApplicant)
	job := createTestJob(t, db, company.ID, "Engineer", "Remote")

	exists, err := db.ApplicationExists(context.Background(), applicant.ID, job.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	createTestApplication(t, db, applicant.ID, job.ID)

	exists, err = db.ApplicationExists(context.Background(), applicant.ID, job.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCoverLetter_NullVersusEmpty(t *testing.T) {
	db := newTestDB(t)
	company := createTestUser(t, db, "acme@example.com", model.RoleCompany)
	ada := createTestUser(t, db, "ada@example.com", model.RoleApplicant)
	bob := createTestUser(t, db, "bob@example.com", model.RoleApplicant)
	job := createTestJob(t, db, company.ID, "Engineer", "Remote")

	empty := ""
	require.NoError(t, db.CreateApplication(context.Background(), &model.Application{
		ApplicantID: ada.ID, JobID: job.ID, ResumeURL: "https://res.cloudinary.com/a.pdf", CoverLetter: &empty,
	}))
	require.NoError(t, db.CreateApplication(context.Background(), &model.Application{
		ApplicantID: bob.ID, JobID: job.ID, ResumeURL: "https://res.cloudinary.com/b.pdf",
	}))

	apps, _, err := db.ListApplicationsByJob(context.Background(), job.ID, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	require.Len(t, apps, 2)
	require.NotNil(t, apps[0].CoverLetter)
	assert.Equal(t, "", *apps[0].CoverLetter)
	assert.Nil(t, apps[1].CoverLetter)
}

func TestListApplications_Scoped(t *testing.T) {
	db := newTestDB(t)
	company := createTestUser(t, db, "acme@example.com", model.RoleCompany)
	ada := createTestUser(t, db, "ada@example.com", model.RoleApplicant)
	bob := createTestUser(t, db, "bob@example.com", model.RoleApplicant)
	jobA := createTestJob(t, db, company.ID, "A", "Remote")
	jobB := createTestJob(t, db, company.ID, "B", "Remote")

	createTestApplication(t, db, ada.ID, jobA.ID)
	createTestApplication(t, db, ada.ID, jobB.ID)
	createTestApplication(t, db, bob.ID, jobA.ID)

	mine, total, err := db.ListApplicationsByApplicant(context.Background(), ada.ID, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	for _, a := range mine {
		assert.Equal(t, ada.ID, a.ApplicantID)
	}

	forB, total, err := db.ListApplicationsByJob(context.Background(), jobB.ID, repository.ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, forB, 1)
	assert.Equal(t, jobB.ID, forB[0].JobID)

	page, total, err := db.ListApplicationsByJob(context.Background(), jobA.ID, repository.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, bob.ID, page[0].ApplicantID, "insertion order")
}
