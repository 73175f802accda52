package repository

import (
	"context"
	"errors"
	"strings"

	"clinic-management-api/internal/domain/entity"
	domainRepo "clinic-management-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) Update(ctx context.Context, db *gorm.DB, user *entity.User) error {
	return db.WithContext(ctx).Omit("Role").Save(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return r.first(ctx, db, "users.id = ?", id)
}

func (r *userRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*entity.User, error) {
	return r.first(ctx, db, "LOWER(users.email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

// FindByLogin matches either the username or the e-mail address.
func (r *userRepository) FindByLogin(ctx context.Context, db *gorm.DB, login string) (*entity.User, error) {
	login = strings.TrimSpace(login)
	return r.first(ctx, db, "users.username = ? OR LOWER(users.email) = ?", login, strings.ToLower(login))
}

func (r *userRepository) first(ctx context.Context, db *gorm.DB, query string, args ...interface{}) (*entity.User, error) {
	var user entity.User
	err := db.WithContext(ctx).Preload("Role").Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindAll(ctx context.Context, db *gorm.DB, search string, page entity.Pagination) ([]entity.User, int64, error) {
	var users []entity.User
	var total int64

	query := db.WithContext(ctx).Model(&entity.User{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR username ILIKE ? OR email ILIKE ?", like, like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Role").
		Order("created_at DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Deactivate only flips accounts that are still active; 0 rows means the
// user is missing or already inactive.
func (r *userRepository) Deactivate(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, db *gorm.DB, id uuid.UUID, hash string, mustChange bool) error {
	return db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password":             hash,
			"must_change_password": mustChange,
		}).Error
}

func (r *userRepository) CountByRole(ctx context.Context, db *gorm.DB, roleID int) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&entity.User{}).
		Where("role_id = ? AND is_active = ?", roleID, true).
		Count(&total).Error
	return total, err
}
