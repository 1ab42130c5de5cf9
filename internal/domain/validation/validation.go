// Package validation holds the pure field checks applied to a booking before it is persisted.
//
// Every check returns nil or a *FieldError wrapping one of the sentinel errors below, so callers
// can collect all failures of a form into Errors and still match them with errors.Is.
package validation

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	ErrRequired      = errors.New("required")
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidChoice = errors.New("invalid choice")
	ErrPastDate      = errors.New("date is in the past")
	ErrSlotTaken     = errors.New("slot already taken")
)

// NonField is the key used for errors that belong to the form as a whole.
const NonField = "__all__"

const (
	MsgRequired      = "This field is required."
	MsgPatientName   = "Enter a valid name (letters and spaces only)."
	MsgPhoneNumber   = "Phone number must be exactly 12 digits."
	MsgContactPhone  = "Phone number must be 10 to 15 digits."
	MsgPastDate      = "Appointment date cannot be in the past."
	MsgInvalidDate   = "Enter a valid date."
	MsgInvalidTime   = "Enter a valid time."
	MsgNegative      = "Ensure this value is greater than or equal to 0."
	MsgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	MsgSlotTaken     = "Appointment with this Doctor, Appointment date and Appointment time already exists."
)

// AppointmentPhoneLength is the exact number of digits a booking phone number must have.
const AppointmentPhoneLength = 12

// Stored contact numbers (doctors, profiles, edited appointments) allow a wider range.
const (
	ContactPhoneMin = 10
	ContactPhoneMax = 15
)

// FieldError is a single user-correctable problem with one form field.
type FieldError struct {
	Field   string
	Err     error
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// NewFieldError builds a FieldError for field wrapping err.
func NewFieldError(field string, err error, message string) *FieldError {
	return &FieldError{Field: field, Err: err, Message: message}
}

// Errors is the collected set of field errors of one submission.
type Errors []*FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (e Errors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, fe := range e {
		errs = append(errs, fe)
	}
	return errs
}

// Add appends err when it is a *FieldError and ignores nil.
func (e *Errors) Add(err error) {
	if err == nil {
		return
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		*e = append(*e, fe)
	}
}

// Has reports whether field already carries an error.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// ByField groups messages by field, preserving order of insertion.
func (e Errors) ByField() map[string][]string {
	out := make(map[string][]string, len(e))
	for _, fe := range e {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return out
}

// Err returns nil for an empty set so callers can `return errs.Err()`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// PatientName accepts names made only of letters once spaces are removed.
func PatientName(name string) error {
	stripped := strings.ReplaceAll(name, " ", "")
	if stripped == "" {
		return NewFieldError("patient_name", ErrInvalidFormat, MsgPatientName)
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) {
			return NewFieldError("patient_name", ErrInvalidFormat, MsgPatientName)
		}
	}
	return nil
}

// PhoneNumber accepts exactly AppointmentPhoneLength ASCII digits.
func PhoneNumber(phone string) error {
	if len(phone) != AppointmentPhoneLength || !IsDigits(phone) {
		return NewFieldError("phone_number", ErrInvalidFormat, MsgPhoneNumber)
	}
	return nil
}

// ContactPhone accepts the 10 to 15 digit numbers the database stores.
func ContactPhone(field, phone string) error {
	if len(phone) < ContactPhoneMin || len(phone) > ContactPhoneMax || !IsDigits(phone) {
		return NewFieldError(field, ErrInvalidFormat, MsgContactPhone)
	}
	return nil
}

// AppointmentDate rejects dates strictly before today. Both values are compared as calendar
// dates in today's location.
func AppointmentDate(date, today time.Time) error {
	if civil(date, today.Location()).Before(civil(today, today.Location())) {
		return NewFieldError("appointment_date", ErrPastDate, MsgPastDate)
	}
	return nil
}

// NonNegative rejects amounts below zero.
func NonNegative(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewFieldError(field, ErrInvalidFormat, MsgNegative)
	}
	return nil
}

// SlotTaken is the form-level error reported when the (doctor, date, time) slot is already booked.
func SlotTaken() *FieldError {
	return NewFieldError(NonField, ErrSlotTaken, MsgSlotTaken)
}

// Required is the error reported for a blank mandatory field.
func Required(field string) *FieldError {
	return NewFieldError(field, ErrRequired, MsgRequired)
}

// IsDigits reports whether s is non-empty and made only of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func civil(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
