package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"clinic-management-api/internal/converter"
	"clinic-management-api/internal/delivery/dto"
	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository"
	"clinic-management-api/internal/infrastructure/database"
	"clinic-management-api/internal/infrastructure/mail"
	"clinic-management-api/internal/service"
	"clinic-management-api/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username/email or password")
	ErrUserInactive         = errors.New("user account is inactive")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenRevoked         = errors.New("token has been revoked")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidOldPassword   = errors.New("current password is incorrect")
	ErrPasswordResetUnavail = errors.New("password reset e-mail could not be sent")
)

const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz23456789"

type AuthUsecase interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
}

type authUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	transactor   database.Transactor
	userRepo     repository.UserRepository
	auditService service.AuditService
	jwtService   *jwt.JWTService
	tokenStore   service.TokenStore
	resetLimiter service.RateLimiter
	mailer       mail.Sender
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	transactor database.Transactor,
	userRepo repository.UserRepository,
	auditService service.AuditService,
	jwtService *jwt.JWTService,
	tokenStore service.TokenStore,
	resetLimiter service.RateLimiter,
	mailer mail.Sender,
) AuthUsecase {
	return &authUsecase{
		db:           db,
		log:          log,
		transactor:   transactor,
		userRepo:     userRepo,
		auditService: auditService,
		jwtService:   jwtService,
		tokenStore:   tokenStore,
		resetLimiter: resetLimiter,
		mailer:       mailer,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := u.userRepo.FindByLogin(ctx, u.db, req.Login)
	if err != nil {
		u.log.Warnf("Failed to find user by login: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Checked after the password so the response does not reveal which
	// accounts exist.
	if !user.Active() {
		return nil, ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogEvent(ctx, u.db, &user.ID, entity.AuditActionUserLogin, map[string]interface{}{
		"username": user.Username,
	}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return tokens, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, user *entity.User) (*dto.TokenResponse, error) {
	sub := jwt.Subject{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		RoleID:   user.RoleID,
	}

	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(sub)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, jwt.AccessToken, user.ID, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		u.log.Warnf("Failed to store access token in Redis: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Save(ctx, jwt.RefreshToken, user.ID, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		u.log.Warnf("Failed to store refresh token in Redis: %+v", err)
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:        accessToken,
		RefreshToken:       refreshToken,
		ExpiresIn:          int64(u.jwtService.GetAccessExpiry().Seconds()),
		MustChangePassword: user.MustChangePassword,
		User:               converter.UserToResponse(user),
	}, nil
}

// Logout revokes the access token in use and, when given, the refresh token
// of the same user.
func (u *authUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID, refreshToken string) error {
	if err := u.tokenStore.Revoke(ctx, jwt.AccessToken, userID, accessTokenID); err != nil {
		u.log.Warnf("Failed to delete access token: %+v", err)
		return err
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, userID, claims.TokenID); err != nil {
				u.log.Warnf("Failed to delete refresh token: %+v", err)
				return err
			}
		}
	}

	if err := u.auditService.LogEvent(ctx, u.db, &userID, entity.AuditActionUserLogout, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	exists, err := u.tokenStore.Exists(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID)
	if err != nil {
		u.log.Warnf("Failed to check refresh token in Redis: %+v", err)
		return nil, err
	}
	if !exists {
		return nil, ErrTokenRevoked
	}

	// Refresh tokens are single use.
	if err := u.tokenStore.Revoke(ctx, jwt.RefreshToken, claims.UserID, claims.TokenID); err != nil {
		u.log.Warnf("Failed to delete old refresh token: %+v", err)
		return nil, err
	}

	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// ChangePassword verifies the current password, stores the new one, clears
// the must-change flag and revokes every other session of the user.
func (u *authUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.CurrentPassword)); err != nil {
		return ErrInvalidOldPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.UpdatePassword(ctx, tx, userID, string(hashedPassword), false); err != nil {
			u.log.Warnf("Failed to update password: %+v", err)
			return err
		}
		return u.auditService.LogEvent(ctx, tx, &userID, entity.AuditActionPasswordChange, map[string]interface{}{
			"username": user.Username,
		})
	})
	if err != nil {
		return err
	}

	if err := u.tokenStore.RevokeAll(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke tokens after password change: %+v", err)
	}
	return nil
}

// ResetPassword replaces the password of the account owning the e-mail with a
// temporary one and mails it. Unknown or inactive addresses succeed silently.
func (u *authUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := u.resetLimiter.Allow(ctx, email); err != nil {
		if errors.Is(err, service.ErrRateLimited) {
			return ErrRateLimited
		}
		u.log.Warnf("Failed to check reset rate limit: %+v", err)
		return err
	}

	user, err := u.userRepo.FindByEmail(ctx, u.db, email)
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if user == nil || !user.Active() {
		u.log.WithField("email", email).Info("Password reset requested for unknown or inactive account")
		return nil
	}

	tempPassword, err := generateTempPassword(12)
	if err != nil {
		u.log.Warnf("Failed to generate temporary password: %+v", err)
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	// The e-mail is sent inside the transaction so the password only changes
	// when the user can learn the new one.
	err = u.transactor.Transaction(ctx, func(tx *gorm.DB) error {
		if err := u.userRepo.UpdatePassword(ctx, tx, user.ID, string(hashedPassword), true); err != nil {
			u.log.Warnf("Failed to update password: %+v", err)
			return err
		}
		if err := u.auditService.LogEvent(ctx, tx, &user.ID, entity.AuditActionPasswordReset, map[string]interface{}{
			"username": user.Username,
		}); err != nil {
			return err
		}
		if err := u.mailer.Send(ctx, mail.PasswordResetMessage(user.Email, user.FullName(), tempPassword)); err != nil {
			u.log.Errorf("Failed to send password reset e-mail: %+v", err)
			return ErrPasswordResetUnavail
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := u.tokenStore.RevokeAll(ctx, user.ID); err != nil {
		u.log.Warnf("Failed to revoke tokens after password reset: %+v", err)
	}
	return nil
}

func generateTempPassword(n int) (string, error) {
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = tempPasswordAlphabet[idx.Int64()]
	}
	return string(b), nil
}
