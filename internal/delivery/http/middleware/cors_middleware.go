package middleware

import "net/http"

type CORSMiddleware struct {
	allowedOrigins []string
}

// NewCORSMiddleware controls which browser origins may call the admin API.
//
//   - no origins: same-origin only, no CORS headers are sent
//   - "*": any origin, without credentials, so the session cookie is never sent cross-origin
//   - listed origins: echoed back with credentials allowed
func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	return &CORSMiddleware{allowedOrigins: allowedOrigins}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if origin := req.Header.Get("Origin"); origin != "" {
			w.Header().Add("Vary", "Origin")
			switch {
			case m.listed(origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				m.setAllowHeaders(w)
			case m.wildcard():
				w.Header().Set("Access-Control-Allow-Origin", "*")
				m.setAllowHeaders(w)
			}
		}

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}

func (m *CORSMiddleware) setAllowHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
	w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
}

func (m *CORSMiddleware) listed(origin string) bool {
	for _, a := range m.allowedOrigins {
		if a == origin {
			return true
		}
	}
	return false
}

func (m *CORSMiddleware) wildcard() bool {
	for _, a := range m.allowedOrigins {
		if a == "*" {
			return true
		}
	}
	return false
}
