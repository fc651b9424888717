package sqlite

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
	"github.com/sakif/job-board/internal/repository"
)

func TestCreateAndGetJob(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "acme@example.com", model.RoleCompany)

	job := createTestJob(t, db, owner.ID, "Backend Engineer", "Berlin")
	require.NotEqual(t, uuid.Nil, job.ID)
	require.False(t, job.CreatedAt.IsZero())

	got, err := db.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, "Berlin", got.Location)
	assert.Equal(t, owner.ID, got.CreatedBy)
}

func TestCreateJob_UnknownOwner(t *testing.T) {
	db := newTestDB(t)

	err := db.CreateJob(context.Background(), &model.Job{
		Title: "Orphan", Description: "d", Location: "l", CreatedBy: uuid.New(),
	})
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "foreign key must reject a missing owner, got %v", err)
}

func TestGetJob_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetJob(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

// =========================================================================
// LIST / PAGINATION TESTS
// =========================================================================

func TestListJobs_SecondPageOfTwentyFive(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "acme@example.com", model.RoleCompany)
	for i := 1; i <= 25; i++ {
		createTestJob(t, db, owner.ID, fmt.Sprintf("Job %02d", i), "Remote")
	}

	// page=2, size=10 → offset 10
	jobs, total, err := db.ListJobs(context.Background(), model.JobFilter{}, repository.ListOptions{Limit: 10, Offset: 10})
	require.NoError(t, err)

	assert.Equal(t, 25, total)
	require.Len(t, jobs, 10)
	assert.Equal(t, "Job 11", jobs[0].Title)
	assert.Equal(t, "Job 20", jobs[9].Title)
}

func TestListJobs_LastPartialPage(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "acme@example.com", model.RoleCompany)
	for i := 1; i <= 25; i++ {
		createTestJob(t, db, owner.ID, fmt.Sprintf("Job %02d", i), "Remote")
	}

	jobs, total, err := db.ListJobs(context.Background(), model.JobFilter{}, repository.ListOptions{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	assert.Len(t, jobs, 5)

	jobs, _, err = db.ListJobs(context.Background(), model.JobFilter{}, repository.ListOptions{Limit: 10, Offset: 30})
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestListJobs_Filters(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "acme@example.com", model.RoleCompany)
	createTestJob(t, db, owner.ID, "Senior Go Engineer", "Berlin")
	createTestJob(t, db, owner.ID, "Go Developer", "Remote")
	createTestJob(t, db, owner.ID, "Product Manager", "Berlin")
	createTestJob(t, db, owner.ID, "100% Remote Designer", "Lisbon")
	createTestJob(t, db, owner.ID, "Ingénieur ÉTUDES", "ZÜRICH")

	tests := []struct {
		name      string
		filter    model.JobFilter
		wantTotal int
	}{
		{"no filter", model.JobFilter{}, 5},
		{"title case-insensitive", model.JobFilter{Title: "go"}, 2},
		{"location only", model.JobFilter{Location: "BERLIN"}, 2},
		{"title AND location", model.JobFilter{Title: "GO", Location: "berlin"}, 1},
		{"no match", model.JobFilter{Title: "rust"}, 0},
		{"percent is literal", model.JobFilter{Title: "100%"}, 1},
		{"underscore is literal", model.JobFilter{Title: "_"}, 0},
		{"whitespace filter ignored", model.JobFilter{Title: "  "}, 5},
		{"non-ASCII exact case", model.JobFilter{Title: "ÉTUDES"}, 1},
		{"non-ASCII lower case", model.JobFilter{Title: "études"}, 1},
		{"non-ASCII mixed case", model.JobFilter{Title: "Études"}, 1},
		{"non-ASCII location", model.JobFilter{Location: "zürich"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, total, err := db.ListJobs(context.Background(), tt.filter, repository.ListOptions{Limit: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			assert.Len(t, jobs, tt.wantTotal)
		})
	}
}
