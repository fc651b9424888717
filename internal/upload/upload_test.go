package upload

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeDestination(t *testing.T) {
	applicant := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	job := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	dst := ResumeDestination("resumes", applicant, job)

	assert.Equal(t, "resumes", dst.Folder)
	assert.Equal(t, "resume_11111111-1111-1111-1111-111111111111_22222222-2222-2222-2222-222222222222", dst.PublicID)
}

func TestHasPrefix(t *testing.T) {
	const prefix = "https://res.cloudinary.com/"

	assert.True(t, HasPrefix("https://res.cloudinary.com/demo/raw/upload/resume.pdf", prefix))
	assert.False(t, HasPrefix("http://res.cloudinary.com/demo/raw/upload/resume.pdf", prefix))
	assert.False(t, HasPrefix("https://evil.example.com/https://res.cloudinary.com/", prefix))
	assert.False(t, HasPrefix("", prefix))
}

func TestDisabled(t *testing.T) {
	url, err := Disabled{}.Upload(context.Background(), strings.NewReader("%PDF"), Destination{})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.Empty(t, url)
}

func TestNewCloudinary_RequiresCredentials(t *testing.T) {
	_, err := NewCloudinary("demo", "", "secret", slog.Default())
	require.Error(t, err)

	c, err := NewCloudinary("demo", "key", "secret", slog.Default())
	require.NoError(t, err)
	assert.NotNil(t, c)
}
