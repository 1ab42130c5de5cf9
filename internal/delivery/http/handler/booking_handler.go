package handler

import (
	"errors"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/view"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/validation"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"

	"github.com/sirupsen/logrus"
)

const (
	msgNoRecentAppointment = "No recent appointment to show."
	msgAppointmentNotFound = "Appointment not found."
	msgSaveFailed          = "Could not save appointment."
)

var bookingFields = []string{"patient_name", "phone_number", "appointment_date", "appointment_time", "doctor", "notes"}

type BookingHandler struct {
	web
	log            *logrus.Logger
	bookingUsecase usecase.BookingUsecase
}

func NewBookingHandler(
	bookingUsecase usecase.BookingUsecase,
	renderer *view.Renderer,
	flashService service.FlashService,
	log *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		web:            web{renderer: renderer, flashService: flashService},
		log:            log,
		bookingUsecase: bookingUsecase,
	}
}

// Index renders the doctor list and an empty booking form
func (h *BookingHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.renderIndex(w, r, h.page(r, "Home"))
}

// Book handles the booking form. Rejected submissions re-render the form with every error.
func (h *BookingHandler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	req := dto.BookingRequest{
		PatientName:     r.PostFormValue("patient_name"),
		PhoneNumber:     r.PostFormValue("phone_number"),
		AppointmentDate: r.PostFormValue("appointment_date"),
		AppointmentTime: r.PostFormValue("appointment_time"),
		DoctorID:        r.PostFormValue("doctor"),
		Notes:           r.PostFormValue("notes"),
	}
	form := formValues(r, bookingFields...)

	appointment, err := h.bookingUsecase.Book(r.Context(), &req)
	if err != nil {
		page := h.page(r, "Home")
		page.Form = form

		var errs validation.Errors
		if errors.As(err, &errs) {
			page.Errors = errs.ByField()
			for _, fe := range errs {
				page.Flashes = append(page.Flashes, entity.Flash{Level: entity.FlashError, Message: fieldMessage(fe)})
			}
		} else {
			page.Flashes = append(page.Flashes, entity.Flash{Level: entity.FlashError, Message: msgSaveFailed})
		}

		h.renderIndex(w, r, page)
		return
	}

	doctorName := ""
	if appointment.Doctor != nil {
		doctorName = appointment.Doctor.Name
	}
	h.flash(r, entity.FlashSuccess, "Appointment with Dr. "+doctorName+" booked successfully!")
	http.Redirect(w, r, "/success/", http.StatusFound)
}

// Success shows the appointment booked last in this session, once.
func (h *BookingHandler) Success(w http.ResponseWriter, r *http.Request) {
	appointment, err := h.bookingUsecase.RecentAppointment(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNoRecentAppointment):
			h.flash(r, entity.FlashWarning, msgNoRecentAppointment)
		case errors.Is(err, usecase.ErrAppointmentNotFound):
			h.flash(r, entity.FlashError, msgAppointmentNotFound)
		default:
			h.log.Warnf("Failed to load recent appointment: %+v", err)
			h.flash(r, entity.FlashError, msgAppointmentNotFound)
		}
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	page := h.page(r, "Appointment booked")
	page.Data = appointment
	h.renderer.Render(w, http.StatusOK, view.PageSuccess, page)
}

// Search lists the current user's appointments
func (h *BookingHandler) Search(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.bookingUsecase.MyAppointments(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := h.page(r, "My appointments")
	page.Data = appointments
	h.renderer.Render(w, http.StatusOK, view.PageSearch, page)
}

func (h *BookingHandler) renderIndex(w http.ResponseWriter, r *http.Request, page view.Page) {
	data, err := h.bookingUsecase.BookingPage(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	page.Data = data
	h.renderer.Render(w, http.StatusOK, view.PageIndex, page)
}
