package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-management-api/internal/converter"
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/delivery/http/middleware"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/infrastructure/database"
	"clinic-management-api/internal/service"
	"clinic-management-api/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrRoleNotFound          = errors.New("role not found")
	ErrCannotDeleteSelf      = errors.New("you cannot deactivate your own account")
	ErrUserAlreadyInactive   = errors.New("user is already inactive")
)

type UserUsecase interface {
	GetAllUsers(ctx context.Context, search string, page entity.Pagination) (*dto.UserListResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	GetRoles(ctx context.Context) ([]dto.RoleResponse, error)
}

type userUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	transactor   database.Transactor
	userRepo     repository.UserRepository
	roleRepo     repository.RoleRepository
	auditService service.AuditService
	tokenStore   service.TokenStore
}

func NewUserUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor database.Transactor,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
) UserUsecase {
	return &userUsecase{
		db:           db,
		log:          log,
		transactor:   transactor,
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		auditService: auditService,
		tokenStore:   tokenStore,
	}
}

func (u *userUsecase) GetAllUsers(ctx context.Context, search string, page entity.Pagination) (*dto.UserListResponse, error) {
	users, total, err := u.userRepo.FindAll(ctx, u.db, search, page)
	if err != nil {
		u.log.Warnf("Failed to find all users: %+v", err)
		return nil, err
	}

	return &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: total,
	}, nil
}

func (u *userUsecase) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *userUsecase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, err := u.roleRepo.FindByID(ctx, u.db, req.RoleID)
	if err != nil {
		u.log.Warnf("Failed to find role: %+v", err)
		return nil, err
	}
	if role == nil {
		return nil, ErrRoleNotFound
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	actorID, actor := middleware.Actor(ctx)
	active := true
	user := &entity.User{
		RoleID:             role.ID,
		Username:           strings.TrimSpace(req.Username),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Password:           string(hashedPassword),
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Position:           req.Position,
		Profession:         req.Profession,
		Phone:              validator.NormalizePhone(req.Phone),
		IsActive:           &active,
		MustChangePassword: true,
		CreatedBy:          actor,
	}

	err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.Create(ctx, tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			if isDuplicateKeyError(err, "username") {
				return ErrUsernameAlreadyExists
			}
			if isForeignKeyError(err, "role") {
				return ErrRoleNotFound
			}
			u.log.Warnf("Failed to create user: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, tx, actorID, entity.AuditActionUserCreate, "user", user.ID.String(), converter.UserToResponse(user))
	})
	if err != nil {
		return nil, err
	}

	user.Role = *role
	return converter.UserToResponse(user), nil
}

func (u *userUsecase) UpdateUser(ctx context.Context, id uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	actorID, actor := middleware.Actor(ctx)
	var updated *entity.User
	revoke := false

	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		user, err := u.userRepo.FindByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to find user: %+v", err)
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}
		oldValue := converter.UserToResponse(user)

		if req.RoleID != nil && *req.RoleID != user.RoleID {
			role, err := u.roleRepo.FindByID(ctx, tx, *req.RoleID)
			if err != nil {
				u.log.Warnf("Failed to find role: %+v", err)
				return err
			}
			if role == nil {
				return ErrRoleNotFound
			}
			user.RoleID = role.ID
			user.Role = *role
			revoke = true
		}
		if req.Email != nil {
			user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.FirstName != nil {
			user.FirstName = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			user.LastName = strings.TrimSpace(*req.LastName)
		}
		if req.Position != nil {
			user.Position = *req.Position
		}
		if req.Profession != nil {
			user.Profession = *req.Profession
		}
		if req.Phone != nil {
			user.Phone = validator.NormalizePhone(*req.Phone)
		}
		if req.IsActive != nil {
			if !*req.IsActive && actorID != nil && *actorID == id {
				return ErrCannotDeleteSelf
			}
			user.IsActive = req.IsActive
			revoke = revoke || !*req.IsActive
		}
		if req.Password != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				u.log.Warnf("Failed to hash password: %+v", err)
				return err
			}
			user.Password = string(hashedPassword)
			user.MustChangePassword = true
			revoke = true
		}
		user.UpdatedBy = actor

		if err := u.userRepo.Update(ctx, tx, user); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrEmailAlreadyExists
			}
			u.log.Warnf("Failed to update user: %+v", err)
			return err
		}

		updated = user
		return u.auditService.LogUpdate(ctx, tx, actorID, entity.AuditActionUserUpdate, "user", id.String(), oldValue, converter.UserToResponse(user))
	})
	if err != nil {
		return nil, err
	}

	if revoke {
		if err := u.tokenStore.RevokeAll(ctx, id); err != nil {
			u.log.Warnf("Failed to revoke user tokens: %+v", err)
		}
	}

	return converter.UserToResponse(updated), nil
}

func (u *userUsecase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	actorID, _ := middleware.Actor(ctx)
	if actorID != nil && *actorID == id {
		return ErrCannotDeleteSelf
	}

	err := u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		user, err := u.userRepo.FindByID(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to find user: %+v", err)
			return err
		}
		if user == nil {
			return ErrUserNotFound
		}

		rows, err := u.userRepo.Deactivate(ctx, tx, id)
		if err != nil {
			u.log.Warnf("Failed to deactivate user: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrUserAlreadyInactive
		}

		return u.auditService.LogDelete(ctx, tx, actorID, entity.AuditActionUserDelete, "user", id.String(), converter.UserToResponse(user))
	})
	if err != nil {
		return err
	}

	if err := u.tokenStore.RevokeAll(ctx, id); err != nil {
		u.log.Warnf("Failed to revoke user tokens: %+v", err)
	}
	return nil
}

func (u *userUsecase) GetRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := u.roleRepo.FindAll(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to find roles: %+v", err)
		return nil, err
	}
	return converter.RolesToResponses(roles), nil
}
