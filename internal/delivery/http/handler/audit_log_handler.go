package handler

import (
	"errors"
	"net/http"
	"strconv"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{auditLogUsecase: auditLogUsecase}
}

// GetAllAuditLogs godoc
// @Summary List audit logs, newest first
// @Tags Admin
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param action query string false "Action prefix, e.g. appointment or doctor.update"
// @Param user_id query string false "Acting user ID"
// @Success 200 {object} response.Response
// @Router /admin/audit-logs [get]
func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	filter := entity.AuditLogFilter{
		Page:   entity.Page{Page: page, Limit: limit},
		Action: q.Get("action"),
	}
	if raw := q.Get("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid user ID")
			return
		}
		filter.UserID = &userID
	}

	result, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", result.Logs, response.NewMeta(result.Page, result.Limit, result.Total))
}

func (h *AuditLogHandler) GetAuditLog(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid audit log ID")
		return
	}

	auditLog, err := h.auditLogUsecase.GetAuditLog(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrAuditLogNotFound) {
			response.NotFound(w, "Audit log not found")
			return
		}
		response.InternalServerError(w, "Failed to get audit log")
		return
	}

	response.Success(w, http.StatusOK, "Audit log retrieved successfully", auditLog)
}
