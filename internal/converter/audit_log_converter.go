package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"gorm.io/datatypes"
)

// AuditLogToResponse splits the stored metadata into the entity reference and the before/after
// values. Unknown metadata keys are kept under changes.
func AuditLogToResponse(entry *entity.AuditLog) *dto.AuditLogResponse {
	if entry == nil {
		return nil
	}

	resp := &dto.AuditLogResponse{
		ID:        entry.ID,
		Action:    entry.Action,
		Actor:     UserToResponse(entry.User),
		CreatedAt: entry.CreatedAt,
	}

	changes := datatypes.JSONMap{}
	for k, v := range entry.Metadata {
		switch k {
		case "entity":
			resp.Entity, _ = v.(string)
		case "entity_id":
			resp.EntityID, _ = v.(string)
		default:
			if v != nil {
				changes[k] = v
			}
		}
	}
	if len(changes) > 0 {
		resp.Changes = changes
	}

	return resp
}

func AuditLogsToResponses(entries []entity.AuditLog) []dto.AuditLogResponse {
	responses := make([]dto.AuditLogResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, *AuditLogToResponse(&entries[i]))
	}
	return responses
}
