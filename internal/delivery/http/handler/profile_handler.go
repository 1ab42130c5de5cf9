package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
)

type ProfileHandler struct {
	profileUsecase usecase.ProfileUsecase
}

func NewProfileHandler(profileUsecase usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profileUsecase: profileUsecase}
}

func (h *ProfileHandler) GetAllProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileUsecase.ListProfiles(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.InternalServerError(w, "Failed to get profiles")
		return
	}

	response.Success(w, http.StatusOK, "Profiles retrieved successfully", profiles)
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid profile ID")
		return
	}

	profile, err := h.profileUsecase.GetProfile(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrProfileNotFound) {
			response.NotFound(w, "Profile not found")
			return
		}
		response.InternalServerError(w, "Failed to get profile")
		return
	}

	response.Success(w, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.BadRequest(w, "Invalid profile ID")
		return
	}

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	profile, err := h.profileUsecase.UpdateProfile(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrProfileNotFound):
			response.NotFound(w, "Profile not found")
		case respondValidation(w, err):
		default:
			response.InternalServerError(w, "Failed to update profile")
		}
		return
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", profile)
}
