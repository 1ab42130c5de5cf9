package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

// GetAllAppointments godoc
// @Summary List appointments
// @Tags Admin
// @Produce json
// @Param status query string false "pending, confirmed or cancelled"
// @Param date query string false "Appointment date (YYYY-MM-DD)"
// @Param doctor query int false "Doctor ID"
// @Param search query string false "Patient or doctor name contains"
// @Success 200 {object} response.Response
// @Router /admin/appointments [get]
func (h *AppointmentHandler) GetAllAppointments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entity.AppointmentFilter{Search: q.Get("search")}

	if raw := q.Get("status"); raw != "" {
		status := entity.AppointmentStatus(raw)
		if !status.Valid() {
			response.BadRequest(w, "Invalid status filter")
			return
		}
		filter.Status = status
	}
	if raw := q.Get("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "Invalid date filter")
			return
		}
		filter.Date = &date
	}
	if raw := q.Get("doctor"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid doctor filter")
			return
		}
		filter.DoctorID = uint(id)
	}

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrAppointmentNotFound) {
			response.NotFound(w, "Appointment not found")
			return
		}
		response.InternalServerError(w, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// UpdateAppointment answers 409 when the new slot is already held.
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointment(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			response.NotFound(w, "Appointment not found")
		case respondValidation(w, err):
		default:
			response.InternalServerError(w, "Failed to update appointment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) DeleteAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	if err := h.appointmentUsecase.DeleteAppointment(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrAppointmentNotFound) {
			response.NotFound(w, "Appointment not found")
			return
		}
		response.InternalServerError(w, "Failed to delete appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment deleted successfully", nil)
}
