package handler

import (
	"context"
	"net/http"
	"time"

	"clinic-booking/pkg/response"
)

// Pinger is satisfied by the database and cache health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	deps map[string]Pinger
	env  string
}

func NewHealthHandler(deps map[string]Pinger, env string) *HealthHandler {
	return &HealthHandler{deps: deps, env: env}
}

type HealthResponse struct {
	Status       string            `json:"status"`
	Env          string            `json:"env,omitempty"`
	Dependencies map[string]string `json:"dependencies"`
}

// Health reports 503 when any dependency is down; every dependency is needed to serve a page.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Env: h.env, Dependencies: make(map[string]string, len(h.deps))}
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			resp.Dependencies[name] = "down"
			resp.Status = "error"
			continue
		}
		resp.Dependencies[name] = "ok"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	response.JSON(w, status, resp)
}
