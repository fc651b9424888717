package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/service"
)

// validate is safe for concurrent use and caches struct metadata, so one
// instance serves every handler.
var validate = validator.New(validator.WithRequiredStructEnabled())

// validationError turns validator output into one AppError whose error list
// has an entry per failed field.
func validationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.ValidationFailed("", err.Error())
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldMessage(fe))
	}
	return apperror.Invalid(verrs[0].Field(), "Validation Error", details...)
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "uuid":
		return field + " must be a UUID"
	default:
		return field + " is invalid"
	}
}

// pageFromQuery reads ?page and ?page_size, defaulting to 1 and 10.
// Range checks are left to service.Page.Normalize.
func pageFromQuery(r *http.Request) (service.Page, error) {
	page := service.Page{Number: 1, Size: service.DefaultPageSize}
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, apperror.ValidationFailed("page", "page must be an integer")
		}
		page.Number = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, apperror.ValidationFailed("page_size", "page_size must be an integer")
		}
		page.Size = n
	}
	return page, nil
}

func parseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperror.Invalid(field, "Validation Error", field+" must be a UUID")
	}
	return id, nil
}
