package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/model"
)

func newTestJobService() (*JobService, *fakeStore) {
	store := newFakeStore()
	return NewJobService(store, 100, discardLogger()), store
}

func jobInput(owner uuid.UUID) CreateJobInput {
	return CreateJobInput{
		Title:       "Backend Engineer",
		Description: "Build APIs",
		Location:    "Berlin",
		CreatedBy:   owner,
	}
}

func TestCreateJob_Success(t *testing.T) {
	svc, store := newTestJobService()
	company := store.seedUser(model.RoleCompany, "acme@example.com")

	job, err := svc.Create(context.Background(), company, jobInput(company.ID))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, company.ID, job.CreatedBy)
	assert.False(t, job.CreatedAt.IsZero())
}

func TestCreateJob_ApplicantRejectedBeforeWrite(t *testing.T) {
	svc, store := newTestJobService()
	applicant := store.seedUser(model.RoleApplicant, "ada@example.com")
	before := store.writeCount()

	_, err := svc.Create(context.Background(), applicant, jobInput(applicant.ID))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, "User must be company", appErr.Message)
	assert.Equal(t, before, store.writeCount(), "no row may be written")
}

func TestCreateJob_ForAnotherCompany(t *testing.T) {
	svc, store := newTestJobService()
	acme := store.seedUser(model.RoleCompany, "acme@example.com")
	globex := store.seedUser(model.RoleCompany, "globex@example.com")
	before := store.writeCount()

	_, err := svc.Create(context.Background(), acme, jobInput(globex.ID))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	assert.Equal(t, "Unauthorized", appErr.Message)
	assert.Equal(t, []string{"Cannot create job for another user"}, appErr.Errors())
	assert.Equal(t, before, store.writeCount())
}

func TestCreateJob_RequiredFields(t *testing.T) {
	svc, store := newTestJobService()
	company := store.seedUser(model.RoleCompany, "acme@example.com")

	for _, field := range []string{"title", "description", "location"} {
		in := jobInput(company.ID)
		switch field {
		case "title":
			in.Title = " "
		case "description":
			in.Description = ""
		case "location":
			in.Location = "\t"
		}
		_, err := svc.Create(context.Background(), company, in)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr), field)
		assert.Equal(t, field, appErr.Field)
	}
}

func TestBrowse_SecondPage(t *testing.T) {
	svc, store := newTestJobService()
	company := store.seedUser(model.RoleCompany, "acme@example.com")
	for i := 1; i <= 25; i++ {
		store.seedJob(company, fmt.Sprintf("Job %02d", i), "Remote")
	}

	res, err := svc.Browse(context.Background(), company, model.JobFilter{}, Page{Number: 2, Size: 10})
	require.NoError(t, err)

	assert.Equal(t, 25, res.Total)
	assert.Equal(t, 2, res.Number)
	assert.Equal(t, 10, res.Size)
	require.Len(t, res.Items, 10)
	assert.Equal(t, "Job 11", res.Items[0].Title)
	assert.Equal(t, "Job 20", res.Items[9].Title)
}

func TestBrowse_EmptyPageIsNotNil(t *testing.T) {
	svc, store := newTestJobService()
	user := store.seedUser(model.RoleApplicant, "ada@example.com")

	res, err := svc.Browse(context.Background(), user, model.JobFilter{Title: "nothing"}, Page{Number: 5, Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
	assert.Zero(t, res.Total)
}

func TestBrowse_InvalidPage(t *testing.T) {
	svc, store := newTestJobService()
	user := store.seedUser(model.RoleApplicant, "ada@example.com")

	_, err := svc.Browse(context.Background(), user, model.JobFilter{}, Page{Number: 0, Size: 10})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Browse(context.Background(), nil, model.JobFilter{}, Page{Number: 1, Size: 10})
	assert.ErrorIs(t, err, apperror.ErrUnauthenticated)
}
