package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/auth"
	"github.com/sakif/job-board/internal/model"
	"github.com/sakif/job-board/internal/repository"
)

// compile-time check: the Bearer middleware resolves tokens through us
var _ auth.Resolver = (*AuthService)(nil)

// AuthService handles signup, login and token resolution.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - tokens     *auth.TokenService         → issue/validate JWTs
//   - passwords  *auth.PasswordService      → bcrypt hashing
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	validate  *validator.Validate
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		validate:  validator.New(),
		logger:    logger,
	}
}

// SignupInput is what a new account is created from.
type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// Token is the login response: an OAuth2-style bearer token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Signup creates a user with a bcrypt-hashed password.
//
// The email check happens twice: a lookup first, for the friendly error on
// the common path, and the UNIQUE constraint on insert for the race where two
// signups with the same email arrive together. Both give the same error.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, apperror.ValidationFailed("email", "a valid email is required")
	}
	if !in.Role.Valid() {
		return nil, apperror.ValidationFailed("role", "role must be applicant or company")
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, emailTaken()
	case !errors.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("checking email: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", "password must be at most 72 bytes")
		}
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if apperror.IsConflict(err) {
			return nil, emailTaken()
		}
		s.logger.Error("failed to create user",
			slog.String("email", email),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user signed up",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)),
	)
	return user, nil
}

// Login checks the password and issues an access token. An unknown email
// and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Token, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}

	token, err := s.tokens.Generate(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &Token{AccessToken: token, TokenType: "bearer"}, nil
}

// Authenticate resolves a bearer token to its user. Every failure is
// Unauthenticated: a bad signature, an expired token and a deleted user all
// look the same to the client.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	email, err := s.tokens.Validate(token)
	if err != nil {
		return nil, apperror.Unauthenticated("Could not validate credentials", err.Error())
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthenticated("Could not validate credentials", "user not found")
		}
		return nil, fmt.Errorf("resolving token subject: %w", err)
	}
	return user, nil
}

func emailTaken() error {
	return apperror.Duplicate("Email already registered", "Email exists")
}

func invalidCredentials() error {
	return apperror.Unauthenticated("Invalid credentials", "Invalid email or password")
}
