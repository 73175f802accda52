package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Response DTOs

type AuditLogResponse struct {
	ID        int64             `json:"id"`
	UserID    *uuid.UUID        `json:"user_id,omitempty"`
	Username  string            `json:"username,omitempty"`
	Action    string            `json:"action"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse `json:"logs"`
	Total int64              `json:"total"`
}
