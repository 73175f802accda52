package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *entity.User) error
	Update(ctx context.Context, db *gorm.DB, user *entity.User) error
	FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error)
	FindByLogin(ctx context.Context, db *gorm.DB, login string) (*entity.User, error)
	FindAll(ctx context.Context, db *gorm.DB, search string, page entity.Pagination) ([]entity.User, int64, error)
	Deactivate(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error)
	UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string, mustChange bool) error
	CountByRole(ctx context.Context, db *gorm.DB, roleID int) (int64, error)
}
