package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

func TreatmentToResponse(treatment *entity.Treatment) *dto.TreatmentResponse {
	if treatment == nil {
		return nil
	}

	return &dto.TreatmentResponse{
		ID:          treatment.ID,
		Name:        treatment.Name,
		Description: treatment.Description,
		Price:       treatment.Price,
		Duration:    treatment.Duration.String(),
		IsActive:    treatment.Active(),
		Department:  DepartmentToResponse(treatment.Department),
	}
}

func TreatmentsToResponses(treatments []entity.Treatment) []dto.TreatmentResponse {
	responses := make([]dto.TreatmentResponse, len(treatments))
	for i := range treatments {
		responses[i] = *TreatmentToResponse(&treatments[i])
	}
	return responses
}
