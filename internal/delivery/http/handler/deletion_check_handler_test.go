package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"clinic-management-api/internal/domain/entity"
	"clinic-management-api/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeletionCheckUsecase struct {
	checkFunc func(ctx context.Context, kind string, id int) (*entity.DeletionCheck, error)
}

func (f *fakeDeletionCheckUsecase) Check(ctx context.Context, kind string, id int) (*entity.DeletionCheck, error) {
	return f.checkFunc(ctx, kind, id)
}

func TestDeletionCheck(t *testing.T) {
	allowed := &entity.DeletionCheck{
		Kind:    entity.EntityKindPatient,
		ID:      4,
		Allowed: true,
		Reason:  "Patient can be deleted; 2 archived expedientes will remain attached",
		Counts:  entity.DependentCounts{InactiveExpedientes: 2},
	}

	tests := []struct {
		name       string
		target     string
		check      *entity.DeletionCheck
		err        error
		wantStatus int
	}{
		{"allowed", "/deletion-checks/patient/4", allowed, nil, http.StatusOK},
		{"unknown kind", "/deletion-checks/user/4", nil, fmt.Errorf("%w: %q", usecase.ErrUnknownEntityKind, "user"), http.StatusBadRequest},
		{"patient missing", "/deletion-checks/patient/4", nil, usecase.ErrPatientNotFound, http.StatusNotFound},
		{"expediente missing", "/deletion-checks/expediente/4", nil, usecase.ErrExpedienteNotFound, http.StatusNotFound},
		{"bad id", "/deletion-checks/patient/abc", nil, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewDeletionCheckHandler(&fakeDeletionCheckUsecase{
				checkFunc: func(ctx context.Context, kind string, id int) (*entity.DeletionCheck, error) {
					assert.Equal(t, 4, id)
					return tt.check, tt.err
				},
			})

			rec := serve(t, http.MethodGet, "/deletion-checks/{kind}/{id}", tt.target, nil, h.Check)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDeletionCheck_Body(t *testing.T) {
	var gotKind string
	h := NewDeletionCheckHandler(&fakeDeletionCheckUsecase{
		checkFunc: func(ctx context.Context, kind string, id int) (*entity.DeletionCheck, error) {
			gotKind = kind
			return &entity.DeletionCheck{
				Kind:   entity.EntityKindExpediente,
				ID:     id,
				Reason: "Expediente cannot be deleted: it has 1 active referral",
				Counts: entity.DependentCounts{ActiveReferrals: 1},
			}, nil
		},
	})

	rec := serve(t, http.MethodGet, "/deletion-checks/{kind}/{id}", "/deletion-checks/expediente/12", nil, h.Check)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "expediente", gotKind)

	data, ok := decode(t, rec).Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, data["allowed"])
	assert.Equal(t, "Expediente cannot be deleted: it has 1 active referral", data["reason"])
	counts, ok := data["counts"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), counts["active_referrals"])
}
