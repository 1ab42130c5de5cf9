package bootstrap

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	server *httptest.Server
	db     *gorm.DB
	doctor *entity.Doctor
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewTestDB(t)
	department := testutil.CreateDepartment(t, db, "General Practice")
	doctor := testutil.CreateDoctor(t, db, department, "D", "Family Medicine")

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		Session: config.SessionConfig{Secret: "test-secret", TTL: time.Hour, PointerTTL: time.Minute},
	}
	handler, err := NewHandler(cfg, db, testutil.NewFakeSessionRepository(), testutil.NewLogger(), time.UTC, nil)
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &testApp{server: server, db: db, doctor: doctor}
}

// browser returns a client that keeps cookies and follows redirects.
func (a *testApp) browser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func (a *testApp) post(t *testing.T, client *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) get(t *testing.T, client *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(a.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (a *testApp) signup(t *testing.T, client *http.Client, username string) {
	t.Helper()
	resp, body := a.post(t, client, "/signup/", url.Values{
		"username": {username},
		"email":    {username + "@example.com"},
		"password": {"secret"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "/", resp.Request.URL.Path)
	require.Contains(t, body, "Account created successfully!")
}

func (a *testApp) bookingForm(date, at string) url.Values {
	return url.Values{
		"patient_name":     {"Jane Doe"},
		"phone_number":     {"123456789012"},
		"appointment_date": {date},
		"appointment_time": {at},
		"doctor":           {strconv.FormatUint(uint64(a.doctor.ID), 10)},
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func noRedirects(client *http.Client) *http.Client {
	c := *client
	c.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	return &c
}

func TestBookingFlow(t *testing.T) {
	app := newTestApp(t)
	alice := app.browser(t)
	app.signup(t, alice, "alice")

	resp, body := app.get(t, alice, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "D (Family Medicine)")
	assert.Contains(t, body, "Signed in as alice")

	resp, body = app.post(t, alice, "/appointment/", app.bookingForm("2030-01-01", "09:00"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/success/", resp.Request.URL.Path)
	assert.Contains(t, body, "Appointment with Dr. D on 2030-01-01")
	assert.Contains(t, body, "Appointment with Dr. D booked successfully!")

	var stored entity.Appointment
	require.NoError(t, app.db.First(&stored).Error)
	assert.Contains(t, body, stored.BusinessID)

	// The confirmation is shown once
	resp, body = app.get(t, alice, "/success/")
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "No recent appointment to show.")

	resp, body = app.get(t, alice, "/search/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, stored.BusinessID)

	// Someone else cannot take the same slot
	bob := app.browser(t)
	app.signup(t, bob, "bob")
	resp, body = app.post(t, bob, "/appointment/", app.bookingForm("2030-01-01", "09:00"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/appointment/", resp.Request.URL.Path)
	assert.Contains(t, body, "Appointment with this Doctor, Appointment date and Appointment time already exists.")

	var count int64
	require.NoError(t, app.db.Model(&entity.Appointment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestBookingKeepsNotes(t *testing.T) {
	app := newTestApp(t)
	alice := app.browser(t)
	app.signup(t, alice, "alice")

	form := app.bookingForm("2030-01-01", "09:00")
	form.Set("notes", "Allergic to penicillin")
	resp, body := app.post(t, alice, "/appointment/", form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/success/", resp.Request.URL.Path)
	assert.Contains(t, body, "Allergic to penicillin")

	var stored entity.Appointment
	require.NoError(t, app.db.First(&stored).Error)
	assert.Equal(t, "Allergic to penicillin", stored.Notes)

	// A rejected form keeps what was typed
	form = app.bookingForm("2030-01-01", "09:00")
	form.Set("notes", "Second visit")
	_, body = app.post(t, alice, "/appointment/", form)
	assert.Contains(t, body, ">Second visit</textarea>")
}

func TestBookingFormErrors(t *testing.T) {
	app := newTestApp(t)
	alice := app.browser(t)
	app.signup(t, alice, "alice")

	form := app.bookingForm("2000-01-01", "09:00")
	form.Set("patient_name", "R2D2")
	resp, body := app.post(t, alice, "/", form)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Patient name: Enter a valid name (letters and spaces only).")
	assert.Contains(t, body, "Appointment date: Appointment date cannot be in the past.")
	assert.Contains(t, body, `value="R2D2"`)
}

func TestAnonymousBookingRedirectsToLogin(t *testing.T) {
	app := newTestApp(t)
	anonymous := noRedirects(app.browser(t))

	resp, _ := app.post(t, anonymous, "/appointment/", app.bookingForm("2030-01-01", "09:00"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login/?next=%2Fappointment%2F", resp.Header.Get("Location"))

	var count int64
	require.NoError(t, app.db.Model(&entity.Appointment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLoginFollowsNext(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "carol", "secret", false)
	carol := app.browser(t)

	resp, _ := app.get(t, carol, "/search/")
	require.Equal(t, "/login/", resp.Request.URL.Path)

	resp, body := app.post(t, carol, "/login/?next=%2Fsearch%2F", url.Values{"username": {"carol"}, "password": {"wrong"}})
	assert.Contains(t, body, "Invalid credentials. Please try again.")

	resp, body = app.post(t, carol, "/login/?next=%2Fsearch%2F", url.Values{"username": {"carol"}, "password": {"secret"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/search/", resp.Request.URL.Path)
	assert.Contains(t, body, "Welcome back!")
	assert.Contains(t, body, "You have no appointments yet.")

	resp, body = app.get(t, carol, "/logout/")
	assert.Equal(t, "/", resp.Request.URL.Path)
	assert.Contains(t, body, "You have been logged out.")

	resp, _ = app.get(t, carol, "/search/")
	assert.Equal(t, "/login/", resp.Request.URL.Path)
}

func TestLoginRejectsOffsiteNext(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.db, "carol", "secret", false)
	carol := noRedirects(app.browser(t))

	resp, _ := app.post(t, carol, "/login/?next=%2F%2Fevil.example", url.Values{"username": {"carol"}, "password": {"secret"}})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestAdminRequiresStaff(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get(t, app.browser(t), "/admin/doctors")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	alice := app.browser(t)
	app.signup(t, alice, "alice")
	resp, _ = app.get(t, alice, "/admin/doctors")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	testutil.CreateUser(t, app.db, "admin", "secret", true)
	staff := app.browser(t)
	app.post(t, staff, "/login/", url.Values{"username": {"admin"}, "password": {"secret"}})

	resp, body := app.get(t, staff, "/admin/doctors?search=family")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool `json:"success"`
		Data    []struct {
			Name  string `json:"name"`
			Label string `json:"label"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	assert.True(t, envelope.Success)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "D (Family Medicine)", envelope.Data[0].Label)
}

func TestAdminAppointmentConflict(t *testing.T) {
	app := newTestApp(t)
	alice := app.browser(t)
	app.signup(t, alice, "alice")
	app.post(t, alice, "/appointment/", app.bookingForm("2030-01-01", "09:00"))
	app.post(t, alice, "/appointment/", app.bookingForm("2030-01-01", "10:00"))

	var later entity.Appointment
	require.NoError(t, app.db.Order("id DESC").First(&later).Error)

	testutil.CreateUser(t, app.db, "admin", "secret", true)
	staff := app.browser(t)
	app.post(t, staff, "/login/", url.Values{"username": {"admin"}, "password": {"secret"}})

	req, err := http.NewRequest(http.MethodPut, app.server.URL+"/admin/appointments/"+strconv.FormatUint(uint64(later.ID), 10), strings.NewReader(`{"appointment_time":"09:00"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := staff.Do(req)
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var logged int64
	require.NoError(t, app.db.Model(&entity.AuditLog{}).Count(&logged).Error)

	resp, body := app.get(t, staff, "/admin/audit-logs?limit=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"total":`+strconv.FormatInt(logged, 10))
	assert.Contains(t, body, `"limit":2`)
}

func TestTreatmentsAndHealth(t *testing.T) {
	app := newTestApp(t)
	inactive := false
	require.NoError(t, app.db.Create(&entity.Treatment{
		Name: "Vaccination", Description: "Seasonal flu shot", Duration: 15 * time.Minute,
		DepartmentID: app.doctor.DepartmentID, IsActive: &inactive,
	}).Error)

	resp, body := app.get(t, app.browser(t), "/treatments/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Vaccination")
	assert.Contains(t, body, "General Practice")

	resp, body = app.get(t, http.DefaultClient, "/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"status":"ok"`)
}
