package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/delivery/http/view"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/validation"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/response"

	"github.com/gorilla/mux"
)

// web bundles what the HTML handlers share: the renderer and the per-session flash queue.
type web struct {
	renderer     *view.Renderer
	flashService service.FlashService
}

// page starts a view.Page for the current request, consuming any queued flashes.
func (h web) page(r *http.Request, title string) view.Page {
	p := view.Page{Title: title}
	if identity, ok := middleware.GetIdentityFromContext(r.Context()); ok {
		p.User = &identity
	}
	if sessionID, ok := middleware.GetSessionIDFromContext(r.Context()); ok {
		p.Flashes = h.flashService.Pop(r.Context(), sessionID)
	}
	return p
}

// flash queues a message for the next page this browser renders.
func (h web) flash(r *http.Request, level entity.FlashLevel, message string) {
	sessionID, _ := middleware.GetSessionIDFromContext(r.Context())
	h.flashService.Add(r.Context(), sessionID, level, message)
}

func formValues(r *http.Request, keys ...string) map[string]string {
	values := make(map[string]string, len(keys))
	for _, k := range keys {
		values[k] = r.PostFormValue(k)
	}
	return values
}

// safeRedirect keeps post-login redirects on this site.
func safeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

var fieldLabels = map[string]string{
	"patient_name":     "Patient name",
	"phone_number":     "Phone number",
	"appointment_date": "Appointment date",
	"appointment_time": "Appointment time",
	"doctor":           "Doctor",
	"notes":            "Notes",
}

// fieldMessage renders a field error as a flash line, prefixed by the field's label.
func fieldMessage(fe *validation.FieldError) string {
	if fe.Field == validation.NonField {
		return fe.Message
	}
	label, ok := fieldLabels[fe.Field]
	if !ok {
		label = strings.ReplaceAll(fe.Field, "_", " ")
		label = strings.ToUpper(label[:1]) + label[1:]
	}
	return label + ": " + fe.Message
}

// parseID reads the {id} route variable.
func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// respondValidation writes field errors from a usecase as a JSON error and reports whether err
// was one. A taken slot is a conflict rather than bad input.
func respondValidation(w http.ResponseWriter, err error) bool {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return false
	}
	if errors.Is(err, validation.ErrSlotTaken) {
		response.Conflict(w, "Appointment slot already taken", errs.ByField())
		return true
	}
	response.ValidationError(w, errs.ByField())
	return true
}
