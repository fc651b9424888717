package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/service"
)

type JobService interface {
	Create(ctx context.Context, caller *model.User, in service.CreateJobInput) (*model.Job, error)
	Browse(ctx context.Context, caller *model.User, filter model.JobFilter, page service.Page) (*service.PageResult[model.Job], error)
}

// JobHandler serves job posting and browsing.
type JobHandler struct {
	svc    JobService
	logger *slog.Logger
}

func NewJobHandler(svc JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{svc: svc, logger: logger}
}

type createJobRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Location    string `json:"location" validate:"required"`
	CreatedBy   string `json:"createdby" validate:"required,uuid"`
}

// HandleCreate posts a job.
//
// HTTP: POST /jobs
// REQUEST BODY: {"title": "...", "description": "...", "location": "...", "createdby": "<uuid>"}
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, h.logger, validationError(err))
		return
	}
	owner, err := parseUUID("createdby", req.CreatedBy)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	job, err := h.svc.Create(r.Context(), caller(r), service.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CreatedBy:   owner,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeOK(w, http.StatusCreated, "Job created successfully", toJobView(*job))
}

// HandleBrowse lists jobs.
//
// HTTP: GET /jobs?page=1&page_size=10&title=go&location=berlin
func (h *JobHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	filter := model.JobFilter{
		Title:    r.URL.Query().Get("title"),
		Location: r.URL.Query().Get("location"),
	}

	res, err := h.svc.Browse(r.Context(), caller(r), filter, page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writePage(w, "Jobs retrieved successfully", res, toJobView)
}
