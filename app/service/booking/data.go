package booking

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate   = validator.New(validator.WithRequiredStructEnabled())
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
)

// ValidationError reports a single field that failed domain validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// MalformedPayloadError means the booking input could not be parsed at all.
type MalformedPayloadError struct {
	Err error
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed booking payload: %v", e.Err)
}

func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

type UserInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// NewUserInfo is the only way to obtain a UserInfo: all three fields must
// pass validation, there is no partial construction.
func NewUserInfo(name, email, phone string) (UserInfo, error) {
	if strings.TrimSpace(name) == "" {
		return UserInfo{}, &ValidationError{Field: "name", Reason: "Name cannot be empty."}
	}

	if err := validate.Var(email, "required,email"); err != nil {
		return UserInfo{}, &ValidationError{Field: "email", Reason: "Invalid email address."}
	}

	if !phoneRegex.MatchString(phone) {
		return UserInfo{}, &ValidationError{Field: "phone", Reason: "Invalid phone number. Must be exactly 10 digits."}
	}

	return UserInfo{Name: name, Email: email, Phone: phone}, nil
}

type AppointmentInfo struct {
	Date     string   `json:"date"`
	Time     string   `json:"time"`
	Purpose  string   `json:"purpose"`
	UserInfo UserInfo `json:"user_info"`
}

// NewAppointmentInfo requires an already-validated UserInfo. Date and time are
// checked for presence only, not calendar feasibility.
func NewAppointmentInfo(date, timeStr, purpose string, user UserInfo) (AppointmentInfo, error) {
	fields := []struct {
		name  string
		value string
	}{
		{"date", date},
		{"time", timeStr},
		{"purpose", purpose},
	}

	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return AppointmentInfo{}, &ValidationError{
				Field:  f.name,
				Reason: capitalize(f.name) + " cannot be empty.",
			}
		}
	}

	return AppointmentInfo{Date: date, Time: timeStr, Purpose: purpose, UserInfo: user}, nil
}

// Payload is the wire shape of a booking request as produced by the agent.
type Payload struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

// Record is a booking confirmation. It is not persisted anywhere.
type Record struct {
	AppointmentID string `json:"appointment_id"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Email         string `json:"email"`
}

func (r Record) Confirmation() string {
	return fmt.Sprintf(
		"Appointment confirmed! Your appointment ID is %s. You are scheduled for %s at %s. We'll send a confirmation to %s.",
		r.AppointmentID, r.Date, r.Time, r.Email,
	)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
