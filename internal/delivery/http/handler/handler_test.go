package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-booking/internal/domain/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"postgres": up, "redis": up}, "test").
		Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(map[string]Pinger{"postgres": up, "redis": down}, "test").
		Health(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, map[string]string{"postgres": "ok", "redis": "down"}, body.Dependencies)
}

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"":                     "/",
		"/search/":             "/search/",
		"/appointment/?a=1":    "/appointment/?a=1",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"https://evil.example": "/",
		"search/":              "/",
	}
	for next, want := range cases {
		assert.Equal(t, want, safeRedirect(next), next)
	}
}

func TestFieldMessage(t *testing.T) {
	assert.Equal(t, "Phone number: "+validation.MsgPhoneNumber, fieldMessage(validation.NewFieldError("phone_number", validation.ErrInvalidFormat, validation.MsgPhoneNumber)))
	assert.Equal(t, validation.MsgSlotTaken, fieldMessage(validation.SlotTaken()))
	assert.Equal(t, "Consultation fee: x", fieldMessage(validation.NewFieldError("consultation_fee", validation.ErrInvalidFormat, "x")))
}

func TestRespondValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.False(t, respondValidation(rec, errors.New("boom")))

	rec = httptest.NewRecorder()
	assert.True(t, respondValidation(rec, validation.Errors{validation.Required("doctor")}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	assert.True(t, respondValidation(rec, validation.Errors{validation.SlotTaken()}))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
