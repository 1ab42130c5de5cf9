package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/view"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"
)

type TreatmentHandler struct {
	web
	treatmentUsecase usecase.TreatmentUsecase
	validator        *validator.CustomValidator
}

func NewTreatmentHandler(
	treatmentUsecase usecase.TreatmentUsecase,
	validator *validator.CustomValidator,
	renderer *view.Renderer,
	flashService service.FlashService,
) *TreatmentHandler {
	return &TreatmentHandler{
		web:              web{renderer: renderer, flashService: flashService},
		treatmentUsecase: treatmentUsecase,
		validator:        validator,
	}
}

// TreatmentsPage renders the public treatment list, active and inactive alike.
func (h *TreatmentHandler) TreatmentsPage(w http.ResponseWriter, r *http.Request) {
	treatments, err := h.treatmentUsecase.ListTreatments(r.Context(), entity.TreatmentFilter{})
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := h.page(r, "Treatments")
	page.Data = treatments
	h.renderer.Render(w, http.StatusOK, view.PageTreatments, page)
}

// GetAllTreatments godoc
// @Summary List treatments
// @Tags Admin
// @Produce json
// @Param department query int false "Department ID"
// @Param is_active query bool false "Active flag"
// @Param search query string false "Name or description contains"
// @Success 200 {object} response.Response
// @Router /admin/treatments [get]
func (h *TreatmentHandler) GetAllTreatments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entity.TreatmentFilter{Search: q.Get("search")}
	if raw := q.Get("department"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid department filter")
			return
		}
		filter.DepartmentID = uint(id)
	}
	if raw := q.Get("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(w, "Invalid is_active filter")
			return
		}
		filter.IsActive = &active
	}

	treatments, err := h.treatmentUsecase.ListTreatments(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to get treatments")
		return
	}

	response.Success(w, http.StatusOK, "Treatments retrieved successfully", treatments)
}

func (h *TreatmentHandler) GetTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid treatment ID")
		return
	}

	treatment, err := h.treatmentUsecase.GetTreatment(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrTreatmentNotFound) {
			response.NotFound(w, "Treatment not found")
			return
		}
		response.InternalServerError(w, "Failed to get treatment")
		return
	}

	response.Success(w, http.StatusOK, "Treatment retrieved successfully", treatment)
}

func (h *TreatmentHandler) CreateTreatment(w http.ResponseWriter, r *http.Request) {
	var req dto.TreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatment, err := h.treatmentUsecase.CreateTreatment(r.Context(), &req)
	if err != nil {
		if respondValidation(w, err) {
			return
		}
		response.InternalServerError(w, "Failed to create treatment")
		return
	}

	response.Success(w, http.StatusCreated, "Treatment created successfully", treatment)
}

func (h *TreatmentHandler) UpdateTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid treatment ID")
		return
	}

	var req dto.TreatmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	treatment, err := h.treatmentUsecase.UpdateTreatment(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTreatmentNotFound):
			response.NotFound(w, "Treatment not found")
		case respondValidation(w, err):
		default:
			response.InternalServerError(w, "Failed to update treatment")
		}
		return
	}

	response.Success(w, http.StatusOK, "Treatment updated successfully", treatment)
}

func (h *TreatmentHandler) DeleteTreatment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid treatment ID")
		return
	}

	if err := h.treatmentUsecase.DeleteTreatment(r.Context(), id); err != nil {
		if errors.Is(err, usecase.ErrTreatmentNotFound) {
			response.NotFound(w, "Treatment not found")
			return
		}
		response.InternalServerError(w, "Failed to delete treatment")
		return
	}

	response.Success(w, http.StatusOK, "Treatment deleted successfully", nil)
}
