package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

func ProfileToResponse(profile *entity.UserProfile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}

	response := &dto.ProfileResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		Phone:     profile.Phone,
		Address:   profile.Address,
		UpdatedAt: profile.UpdatedAt,
	}
	if profile.User != nil {
		response.Username = profile.User.Username
	}

	return response
}

func ProfilesToResponses(profiles []entity.UserProfile) []dto.ProfileResponse {
	responses := make([]dto.ProfileResponse, len(profiles))
	for i := range profiles {
		responses[i] = *ProfileToResponse(&profiles[i])
	}
	return responses
}
