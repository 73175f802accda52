package service

import (
	"context"
	"errors"
	"testing"

	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/domain/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAuditService_LogUpdate(t *testing.T) {
	repo := &mocks.AuditLogRepository{}
	svc := NewAuditService(quietLogger(), repo)
	uid := uuid.New()

	err := svc.LogUpdate(context.Background(), nil, &uid, entity.AuditActionPatientUpdate, "patient", "7",
		map[string]string{"cui": "old"}, map[string]string{"cui": "new"})
	require.NoError(t, err)

	require.Len(t, repo.Created, 1)
	entry := repo.Created[0]
	assert.Equal(t, &uid, entry.UserID)
	assert.Equal(t, entity.AuditActionPatientUpdate, entry.Action)
	assert.Equal(t, "patient", entry.Metadata["entity"])
	assert.Equal(t, "7", entry.Metadata["entity_id"])
	assert.Equal(t, map[string]string{"cui": "new"}, entry.Metadata["new_value"])
}

func TestAuditService_LogDeleteClearsNewValue(t *testing.T) {
	repo := &mocks.AuditLogRepository{}
	svc := NewAuditService(quietLogger(), repo)

	require.NoError(t, svc.LogDelete(context.Background(), nil, nil, entity.AuditActionExpedienteDelete, "expediente", "3", "snapshot"))
	assert.Nil(t, repo.Created[0].Metadata["new_value"])
	assert.Equal(t, "snapshot", repo.Created[0].Metadata["old_value"])
}

func TestAuditService_PropagatesError(t *testing.T) {
	boom := errors.New("insert failed")
	repo := &mocks.AuditLogRepository{
		CreateFunc: func(context.Context, *gorm.DB, *entity.AuditLog) error { return boom },
	}
	svc := NewAuditService(quietLogger(), repo)

	err := svc.LogEvent(context.Background(), nil, nil, entity.AuditActionUserLogin, map[string]interface{}{"ip": "127.0.0.1"})
	assert.ErrorIs(t, err, boom)
}
