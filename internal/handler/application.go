package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/guard"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/service"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

type ApplicationService interface {
	Apply(ctx context.Context, caller *model.User, in service.ApplyInput) (*model.Application, error)
	ListMine(ctx context.Context, caller *model.User, page service.Page) (*service.PageResult[model.Application], error)
	ListForJob(ctx context.Context, caller *model.User, jobID uuid.UUID, page service.Page) (*service.PageResult[model.Application], error)
}

// ApplicationHandler serves submission and the two application listings.
type ApplicationHandler struct {
	svc            ApplicationService
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewApplicationHandler(svc ApplicationService, maxUploadBytes int64, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, maxUploadBytes: maxUploadBytes, logger: logger}
}

// HandleApply submits an application.
//
// HTTP: POST /applications
// REQUEST BODY: multipart/form-data with fields applicantid, jobid,
// coverletter (optional) and the file part resume.
//
// Only the role is checked here, ahead of form parsing, so a company caller
// is denied before its ids are validated. A missing résumé is not rejected
// here: the service checks ownership before it looks at the file, and
// reports the file problem itself.
func (h *ApplicationHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	if err := guard.RequireRole(caller(r), model.RoleApplicant); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, h.logger, apperror.Invalid("resume", "Invalid file format", "Resume is too large"))
			return
		}
		writeError(w, r, h.logger, apperror.ValidationFailed("", "expected a multipart/form-data body"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	applicantID, err := parseUUID("applicantid", r.FormValue("applicantid"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	jobID, err := parseUUID("jobid", r.FormValue("jobid"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	in := service.ApplyInput{ApplicantID: applicantID, JobID: jobID}
	if v, ok := r.MultipartForm.Value["coverletter"]; ok && len(v) > 0 {
		in.CoverLetter = &v[0]
	}

	file, header, err := r.FormFile("resume")
	if err == nil {
		defer file.Close()
		in.Resume = file
		in.ResumeContentType = header.Header.Get("Content-Type")
	}

	app, err := h.svc.Apply(r.Context(), caller(r), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeOK(w, http.StatusCreated, "Application submitted successfully", toApplicationView(*app))
}

// HandleListMine lists the caller's own applications.
//
// HTTP: GET /applications?page=1&page_size=10
func (h *ApplicationHandler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.ListMine(r.Context(), caller(r), page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writePage(w, "Applications retrieved successfully", res, toApplicationView)
}

// HandleListForJob lists applications to one of the caller's jobs.
//
// HTTP: GET /applications/jobs/{jobID}?page=1&page_size=10
func (h *ApplicationHandler) HandleListForJob(w http.ResponseWriter, r *http.Request) {
	if err := guard.RequireRole(caller(r), model.RoleCompany); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	jobID, err := parseUUID("jobID", chi.URLParam(r, "jobID"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	res, err := h.svc.ListForJob(r.Context(), caller(r), jobID, page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writePage(w, "Applications retrieved successfully", res, toApplicationView)
}
