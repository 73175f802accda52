package repository

import (
	"context"

	"clinic-management-api/internal/domain/entity"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]entity.Role, error)
	FindByID(ctx context.Context, db *gorm.DB, id int) (*entity.Role, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*entity.Role, error)
}
