package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/model"
)

// newTestDB opens a fresh in-memory database per test.
// t.Cleanup closes it when the test (or subtest) finishes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user with the given role and fails the test on error.
func createTestUser(t *testing.T, db *DB, email string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{
		Name:         "Test " + email,
		Email:        email,
		PasswordHash: "$2a$04$fakehashfakehashfakehashfakehashfakehashfakehashfake",
		Role:         role,
	}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// createTestJob inserts a job owned by owner.
func createTestJob(t *testing.T, db *DB, owner uuid.UUID, title, location string) *model.Job {
	t.Helper()
	j := &model.Job{
		Title:       title,
		Description: "Description of " + title,
		Location:    location,
		CreatedBy:   owner,
	}
	if err := db.CreateJob(context.Background(), j); err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return j
}

// createTestApplication inserts an application for (applicant, job).
func createTestApplication(t *testing.T, db *DB, applicant, job uuid.UUID) *model.Application {
	t.Helper()
	a := &model.Application{
		ApplicantID: applicant,
		JobID:       job,
		ResumeURL:   fmt.Sprintf("https://res.cloudinary.com/demo/raw/upload/resumes/resume_%s_%s", applicant, job),
		Status:      model.StatusApplied,
	}
	if err := db.CreateApplication(context.Background(), a); err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return a
}
