package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO.
// Doctor and owner details are filled from whatever relations were preloaded.
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              appointment.ID,
		UniqueID:        appointment.BusinessID,
		UserID:          appointment.UserID,
		PatientName:     appointment.PatientName,
		PhoneNumber:     appointment.PhoneNumber,
		AppointmentDate: appointment.DateString(),
		AppointmentTime: appointment.TimeString(),
		Status:          string(appointment.Status),
		Notes:           appointment.Notes,
		Doctor:          DoctorToResponse(appointment.Doctor),
		CreatedAt:       appointment.CreatedAt,
	}
	if appointment.User != nil {
		response.Username = appointment.User.Username
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
