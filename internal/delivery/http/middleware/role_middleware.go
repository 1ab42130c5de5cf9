package middleware

import (
	"net/http"

	"clinic-booking/pkg/response"
)

// RequireStaff guards the admin API. Anonymous callers get 401 and logged-in non-staff users 403.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := GetIdentityFromContext(r.Context())
		if !ok {
			response.Unauthorized(w, "Authentication credentials were not provided")
			return
		}

		if !identity.IsStaff {
			response.Forbidden(w, "You don't have permission to access this resource")
			return
		}

		next.ServeHTTP(w, r)
	})
}
