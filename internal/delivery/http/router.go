package http

import (
	"net/http"

	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Handlers groups every handler the router mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Booking     *handler.BookingHandler
	Treatment   *handler.TreatmentHandler
	Department  *handler.DepartmentHandler
	Doctor      *handler.DoctorHandler
	Appointment *handler.AppointmentHandler
	Profile     *handler.ProfileHandler
	AuditLog    *handler.AuditLogHandler
	Health      *handler.HealthHandler
}

type Router struct {
	router         *mux.Router
	handlers       Handlers
	authMiddleware *middleware.AuthMiddleware
	corsMiddleware *middleware.CORSMiddleware
	log            *logrus.Logger
}

func NewRouter(
	handlers Handlers,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	log *logrus.Logger,
) *Router {
	return &Router{
		router:         mux.NewRouter(),
		handlers:       handlers,
		authMiddleware: authMiddleware,
		corsMiddleware: corsMiddleware,
		log:            log,
	}
}

func (r *Router) Setup() *mux.Router {
	h := r.handlers
	login := r.authMiddleware.RequireLogin

	r.router.Use(middleware.RequestID)
	r.router.Use(middleware.Logging(r.log))

	r.router.HandleFunc("/healthz", h.Health.Health).Methods(http.MethodGet)

	// Browser pages share the session cookie
	web := r.router.NewRoute().Subrouter()
	web.Use(r.authMiddleware.Session)

	web.HandleFunc("/", h.Booking.Index).Methods(http.MethodGet)
	web.Handle("/", login(http.HandlerFunc(h.Booking.Book))).Methods(http.MethodPost)
	web.HandleFunc("/login/", h.Auth.Login).Methods(http.MethodGet, http.MethodPost)
	web.HandleFunc("/signup/", h.Auth.Signup).Methods(http.MethodGet, http.MethodPost)
	web.HandleFunc("/logout/", h.Auth.Logout).Methods(http.MethodGet, http.MethodPost)
	web.Handle("/appointment/", login(http.HandlerFunc(h.Booking.Book))).Methods(http.MethodGet, http.MethodPost)
	web.Handle("/success/", login(http.HandlerFunc(h.Booking.Success))).Methods(http.MethodGet)
	web.Handle("/search/", login(http.HandlerFunc(h.Booking.Search))).Methods(http.MethodGet)
	web.HandleFunc("/treatments/", h.Treatment.TreatmentsPage).Methods(http.MethodGet)

	// Admin routes (protected - staff only)
	admin := r.router.PathPrefix("/admin").Subrouter()
	admin.Use(r.corsMiddleware.Handle)
	admin.Use(r.authMiddleware.Session)
	admin.Use(middleware.RequireStaff)

	// Preflight requests are answered by the CORS middleware
	admin.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	admin.HandleFunc("/departments", h.Department.ListDepartments).Methods(http.MethodGet)
	admin.HandleFunc("/departments", h.Department.CreateDepartment).Methods(http.MethodPost)
	admin.HandleFunc("/departments/{id}", h.Department.GetDepartment).Methods(http.MethodGet)
	admin.HandleFunc("/departments/{id}", h.Department.UpdateDepartment).Methods(http.MethodPut)
	admin.HandleFunc("/departments/{id}", h.Department.DeleteDepartment).Methods(http.MethodDelete)

	admin.HandleFunc("/doctors", h.Doctor.GetAllDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors", h.Doctor.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors/{id}", h.Doctor.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", h.Doctor.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", h.Doctor.DeleteDoctor).Methods(http.MethodDelete)

	admin.HandleFunc("/treatments", h.Treatment.GetAllTreatments).Methods(http.MethodGet)
	admin.HandleFunc("/treatments", h.Treatment.CreateTreatment).Methods(http.MethodPost)
	admin.HandleFunc("/treatments/{id}", h.Treatment.GetTreatment).Methods(http.MethodGet)
	admin.HandleFunc("/treatments/{id}", h.Treatment.UpdateTreatment).Methods(http.MethodPut)
	admin.HandleFunc("/treatments/{id}", h.Treatment.DeleteTreatment).Methods(http.MethodDelete)

	admin.HandleFunc("/appointments", h.Appointment.GetAllAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", h.Appointment.GetAppointment).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}", h.Appointment.UpdateAppointment).Methods(http.MethodPut)
	admin.HandleFunc("/appointments/{id}", h.Appointment.DeleteAppointment).Methods(http.MethodDelete)

	admin.HandleFunc("/profiles", h.Profile.GetAllProfiles).Methods(http.MethodGet)
	admin.HandleFunc("/profiles/{id}", h.Profile.GetProfile).Methods(http.MethodGet)
	admin.HandleFunc("/profiles/{id}", h.Profile.UpdateProfile).Methods(http.MethodPut)

	admin.HandleFunc("/audit-logs", h.AuditLog.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", h.AuditLog.GetAuditLog).Methods(http.MethodGet)

	return r.router
}
