package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/auth"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/service"
)

// maxJSONBody caps JSON request bodies; none of ours come close.
const maxJSONBody = 1 << 20

// AuthService is the part of service.AuthService the handlers use.
type AuthService interface {
	Signup(ctx context.Context, in service.SignupInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*service.Token, error)
}

// AuthHandler serves signup, login and the current-user lookup.
type AuthHandler struct {
	svc    AuthService
	logger *slog.Logger
}

func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

type signupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=applicant company"`
}

// HandleSignup creates an account.
//
// HTTP: POST /auth/signup
// REQUEST BODY: {"name": "...", "email": "...", "password": "...", "role": "applicant"}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, h.logger, validationError(err))
		return
	}

	user, err := h.svc.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeOK(w, http.StatusCreated, "User created successfully", toUserView(*user))
}

type loginRequest struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// HandleLogin exchanges credentials for a bearer token.
//
// HTTP: POST /auth/login
// REQUEST BODY: application/x-www-form-urlencoded, username=<email>&password=...
//
// The form shape (username, not email) is the OAuth2 password grant, so
// standard OAuth2 clients can log in without special-casing.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := r.ParseForm(); err != nil {
		writeError(w, r, h.logger, apperror.ValidationFailed("", "invalid form body"))
		return
	}
	req := loginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, r, h.logger, validationError(err))
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeOK(w, http.StatusOK, "Login successful", token)
}

// HandleMe returns the authenticated user.
//
// HTTP: GET /auth/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, h.logger, apperror.Unauthenticated("Could not validate credentials", "authentication required"))
		return
	}
	writeOK(w, http.StatusOK, "User retrieved successfully", toUserView(*user))
}

// decodeJSON reads exactly one JSON object from the body. Unknown fields
// are rejected so typos in field names fail loudly.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperror.Invalid("", "Invalid JSON body", err.Error())
	}
	return nil
}

// caller returns the authenticated user or nil. Services treat nil as
// "not allowed", so handlers need no check of their own.
func caller(r *http.Request) *model.User {
	u, _ := auth.UserFromContext(r.Context())
	return u
}
