package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO.
// Department is included only when it was preloaded.
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	return &dto.DoctorResponse{
		ID:              doctor.ID,
		Name:            doctor.Name,
		Label:           doctor.Label(),
		Specialization:  doctor.Specialization,
		Experience:      doctor.Experience,
		Email:           doctor.Email,
		Phone:           doctor.Phone,
		AvailableDays:   doctor.AvailableDays,
		ConsultationFee: doctor.ConsultationFee,
		Department:      DepartmentToResponse(doctor.Department),
		CreatedAt:       doctor.CreatedAt,
		UpdatedAt:       doctor.UpdatedAt,
	}
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}
	return responses
}
