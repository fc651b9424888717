// Package upload stores résumé files with an external file host and returns
// their public URL.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// ErrDisabled is returned by Disabled when no file host is configured.
var ErrDisabled = errors.New("upload: no file host configured")

// Destination names where a file lands on the host.
type Destination struct {
	Folder   string
	PublicID string
}

// Uploader stores a file and returns its public (https) URL.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, dst Destination) (string, error)
}

// ResumeDestination is the location of an applicant's résumé for a job. An
// applicant has at most one application per job, so the pair is unique.
func ResumeDestination(folder string, applicantID, jobID uuid.UUID) Destination {
	return Destination{
		Folder:   folder,
		PublicID: fmt.Sprintf("resume_%s_%s", applicantID, jobID),
	}
}

// HasPrefix reports whether url was issued under prefix. An empty url never
// matches.
func HasPrefix(url, prefix string) bool {
	return url != "" && strings.HasPrefix(url, prefix)
}

// Disabled rejects every upload. The server uses it when credentials are
// missing so the rest of the API keeps working.
type Disabled struct{}

func (Disabled) Upload(context.Context, io.Reader, Destination) (string, error) {
	return "", ErrDisabled
}
