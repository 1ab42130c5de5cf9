package dto

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLogResponse lifts the audited entity out of the metadata so clients can link to it.
type AuditLogResponse struct {
	ID        int64             `json:"id"`
	Action    string            `json:"action"`
	Entity    string            `json:"entity,omitempty"`
	EntityID  string            `json:"entity_id,omitempty"`
	Actor     *UserResponse     `json:"actor,omitempty"`
	Changes   datatypes.JSONMap `json:"changes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs  []AuditLogResponse
	Total int64
	Page  int
	Limit int
}
