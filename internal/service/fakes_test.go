package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/repository"
	"github.com/sakif/job-board/internal/upload"
)

// =========================================================================
// FAKE STORE
// =========================================================================
//
// fakeStore implements every repository interface in memory, keeping
// insertion order so pagination assertions are deterministic. It enforces
// the same uniqueness rules the real schemas do.

type fakeStore struct {
	mu    sync.Mutex
	users []model.User
	jobs  []model.Job
	apps  []model.Application

	// writes counts successful inserts; tests use it to prove a rejected
	// operation wrote nothing.
	writes int

	// existsErr/createAppErr inject failures.
	existsErr    error
	createAppErr error
	// skipExists makes ApplicationExists report false regardless, to model
	// two submissions racing past the check.
	skipExists bool
}

var _ repository.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore { return &fakeStore{} }

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperror.Conflict("user", u.Email)
		}
	}
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()
	f.users = append(f.users, *u)
	f.writes++
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("user", id.String())
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeStore) CreateJob(_ context.Context, j *model.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j.ID = uuid.New()
	j.CreatedAt = time.Now().UTC()
	f.jobs = append(f.jobs, *j)
	f.writes++
	return nil
}

func (f *fakeStore) GetJob(_ context.Context, id uuid.UUID) (*model.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, j := range f.jobs {
		if j.ID == id {
			cp := j
			return &cp, nil
		}
	}
	return nil, apperror.NotFound("job", id.String())
}

func (f *fakeStore) ListJobs(_ context.Context, filter model.JobFilter, opts repository.ListOptions) ([]model.Job, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.Job
	for _, j := range f.jobs {
		if !containsFold(j.Title, filter.Title) || !containsFold(j.Location, filter.Location) {
			continue
		}
		matched = append(matched, j)
	}
	return window(matched, opts), len(matched), nil
}

func (f *fakeStore) CreateApplication(_ context.Context, a *model.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createAppErr != nil {
		return f.createAppErr
	}
	for _, existing := range f.apps {
		if existing.ApplicantID == a.ApplicantID && existing.JobID == a.JobID {
			return apperror.Conflict("application", a.ApplicantID.String())
		}
	}
	a.ID = uuid.New()
	f.apps = append(f.apps, *a)
	f.writes++
	return nil
}

func (f *fakeStore) ApplicationExists(_ context.Context, applicantID, jobID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.skipExists {
		return false, nil
	}
	for _, a := range f.apps {
		if a.ApplicantID == applicantID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) ListApplicationsByApplicant(_ context.Context, applicantID uuid.UUID, opts repository.ListOptions) ([]model.Application, int, error) {
	return f.listApps(func(a model.Application) bool { return a.ApplicantID == applicantID }, opts)
}

func (f *fakeStore) ListApplicationsByJob(_ context.Context, jobID uuid.UUID, opts repository.ListOptions) ([]model.Application, int, error) {
	return f.listApps(func(a model.Application) bool { return a.JobID == jobID }, opts)
}

func (f *fakeStore) listApps(keep func(model.Application) bool, opts repository.ListOptions) ([]model.Application, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []model.Application
	for _, a := range f.apps {
		if keep(a) {
			matched = append(matched, a)
		}
	}
	return window(matched, opts), len(matched), nil
}

func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close() error               { return nil }

func (f *fakeStore) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func window[T any](items []T, opts repository.ListOptions) []T {
	if opts.Offset >= len(items) {
		return []T{}
	}
	items = items[opts.Offset:]
	if opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return items
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(sub)))
}

// =========================================================================
// FAKE UPLOADER
// =========================================================================

type fakeUploader struct {
	mu    sync.Mutex
	calls []upload.Destination
	url   string
	err   error
}

func (u *fakeUploader) Upload(_ context.Context, file io.Reader, dst upload.Destination) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls = append(u.calls, dst)
	if u.err != nil {
		return "", u.err
	}
	if _, err := io.Copy(io.Discard, file); err != nil {
		return "", err
	}
	if u.url != "" {
		return u.url, nil
	}
	return "https://res.cloudinary.com/demo/raw/upload/" + dst.Folder + "/" + dst.PublicID, nil
}

func (u *fakeUploader) callCount() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.calls)
}

var errProvider = errors.New("provider said no")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seed helpers write straight into the fake, bypassing services.

func (f *fakeStore) seedUser(role model.Role, email string) *model.User {
	u := &model.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	if err := f.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (f *fakeStore) seedJob(owner *model.User, title, location string) *model.Job {
	j := &model.Job{Title: title, Description: "d", Location: location, CreatedBy: owner.ID}
	if err := f.CreateJob(context.Background(), j); err != nil {
		panic(err)
	}
	return j
}
