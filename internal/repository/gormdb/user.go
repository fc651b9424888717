package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sakif/job-board/internal/apperror"
	"github.com/sakif/job-board/internal/model"
)

func (r *Repository) CreateUser(ctx context.Context, u *model.User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now().UTC()

	rec := userFromModel(u)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperror.Conflict("user", u.Email)
		}
		return fmt.Errorf("gormdb: creating user %s: %w", u.Email, err)
	}
	return nil
}

func (r *Repository) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", id.String())
		}
		return nil, fmt.Errorf("gormdb: getting user %s: %w", id, err)
	}
	return rec.toModel(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var rec userRecord
	if err := r.db.WithContext(ctx).First(&rec, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("gormdb: getting user %s: %w", email, err)
	}
	return rec.toModel(), nil
}
