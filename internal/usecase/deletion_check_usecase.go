package usecase

import (
	"context"

	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DeletionCheckUsecase answers "may this record be deleted?" without
// deleting it, so clients can warn before asking for confirmation.
type DeletionCheckUsecase interface {
	Check(ctx context.Context, kind string, id int) (*entity.DeletionCheck, error)
}

type deletionCheckUsecase struct {
	db    *gorm.DB
	log   *logrus.Logger
	guard service.ReferentialGuard
}

func NewDeletionCheckUsecase(db *gorm.DB, log *logrus.Logger, guard service.ReferentialGuard) DeletionCheckUsecase {
	return &deletionCheckUsecase{
		db:    db,
		log:   log,
		guard: guard,
	}
}

// Check is advisory; the delete operations re-run the guard under a row lock.
func (u *deletionCheckUsecase) Check(ctx context.Context, kind string, id int) (*entity.DeletionCheck, error) {
	check, err := u.guard.Check(ctx, u.db, entity.EntityKind(kind), id)
	if err != nil {
		return nil, err
	}
	return check, nil
}
