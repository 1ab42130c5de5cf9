package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

func DepartmentToResponse(department *entity.Department) *dto.DepartmentResponse {
	if department == nil {
		return nil
	}

	return &dto.DepartmentResponse{
		ID:          department.ID,
		Name:        department.Name,
		Description: department.Description,
	}
}

func DepartmentsToResponses(departments []entity.Department) []dto.DepartmentResponse {
	responses := make([]dto.DepartmentResponse, len(departments))
	for i := range departments {
		responses[i] = *DepartmentToResponse(&departments[i])
	}
	return responses
}
