package usecase

import (
	"context"
	"testing"

	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository/mocks"
	"clinic-management-api/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// revokeRecorder records RevokeAll calls. Other TokenStore methods are unused.
type revokeRecorder struct {
	service.TokenStore
	revoked []uuid.UUID
}

func (r *revokeRecorder) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

type userFixture struct {
	usecase    UserUsecase
	userRepo   *mocks.UserRepository
	roleRepo   *mocks.RoleRepository
	auditRepo  *mocks.AuditLogRepository
	tokenStore *revokeRecorder
}

func newUserFixture() *userFixture {
	f := &userFixture{
		userRepo:   &mocks.UserRepository{},
		roleRepo:   &mocks.RoleRepository{},
		tokenStore: &revokeRecorder{},
	}
	audit, auditRepo := newAudit()
	f.auditRepo = auditRepo
	f.roleRepo.FindByIDFunc = func(ctx context.Context, db *gorm.DB, id int) (*entity.Role, error) {
		if id > entity.RoleIDReceptionist {
			return nil, nil
		}
		return &entity.Role{ID: id}, nil
	}
	f.usecase = NewUserUsecase(nil, quietLogger(), &mocks.Transactor{}, f.userRepo, f.roleRepo, audit, f.tokenStore)
	return f
}

func newUserRequest() *dto.CreateUserRequest {
	return &dto.CreateUserRequest{
		Username:  "mlopez",
		Email:     " MLopez@Example.com ",
		Password:  "s3cret-pass",
		FirstName: "María",
		LastName:  "López",
		Phone:     "5512 3456",
		RoleID:    entity.RoleIDTherapist,
	}
}

func TestCreateUser(t *testing.T) {
	f := newUserFixture()
	var created *entity.User
	f.userRepo.CreateFunc = func(ctx context.Context, db *gorm.DB, user *entity.User) error {
		user.ID = uuid.New()
		created = user
		return nil
	}

	resp, err := f.usecase.CreateUser(actorCtx(entity.RoleIDAdmin), newUserRequest())

	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "mlopez@example.com", created.Email)
	assert.Equal(t, "+50255123456", created.Phone)
	assert.True(t, created.MustChangePassword)
	assert.True(t, created.Active())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
	require.Len(t, f.auditRepo.Created, 1)
	assert.Equal(t, entity.AuditActionUserCreate, f.auditRepo.Created[0].Action)
}

func TestCreateUser_Errors(t *testing.T) {
	tests := []struct {
		name     string
		roleID   int
		createEr error
		wantErr  error
	}{
		{"unknown role", 9, nil, ErrRoleNotFound},
		{"duplicate email", entity.RoleIDTherapist, uniqueViolation("idx_users_email"), ErrEmailAlreadyExists},
		{"duplicate username", entity.RoleIDTherapist, uniqueViolation("idx_users_username"), ErrUsernameAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture()
			f.userRepo.CreateFunc = func(ctx context.Context, db *gorm.DB, user *entity.User) error {
				return tt.createEr
			}
			req := newUserRequest()
			req.RoleID = tt.roleID

			_, err := f.usecase.CreateUser(actorCtx(entity.RoleIDAdmin), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	f := newUserFixture()
	target := uuid.New()
	f.userRepo.FindByIDFunc = func(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
		return &entity.User{ID: id, IsActive: boolPtr(true)}, nil
	}
	f.userRepo.DeactivateFunc = func(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
		return 1, nil
	}

	require.NoError(t, f.usecase.DeleteUser(actorCtx(entity.RoleIDAdmin), target))
	assert.Equal(t, []uuid.UUID{target}, f.tokenStore.revoked)
}

func TestDeleteUser_Refusals(t *testing.T) {
	f := newUserFixture()
	f.userRepo.FindByIDFunc = func(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.User, error) {
		return &entity.User{ID: id, IsActive: boolPtr(false)}, nil
	}
	f.userRepo.DeactivateFunc = func(ctx context.Context, db *gorm.DB, id uuid.UUID) (int64, error) {
		return 0, nil
	}

	assert.ErrorIs(t, f.usecase.DeleteUser(actorCtx(entity.RoleIDAdmin), testActorID), ErrCannotDeleteSelf)
	assert.ErrorIs(t, f.usecase.DeleteUser(actorCtx(entity.RoleIDAdmin), uuid.New()), ErrUserAlreadyInactive)
	assert.Empty(t, f.tokenStore.revoked)
}
