package booking

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/google/uuid"
	"github.com/samber/do"
)

const AllFieldsPresent = "All fields present"

// requiredFields is the fixed reporting order of the completeness checker.
var requiredFields = []string{"date", "time", "name", "email", "phone", "purpose"}

type Service struct{}

func New(_ *do.Injector) (*Service, error) {
	return &Service{}, nil
}

// FieldSet holds the appointment fields collected so far. Empty means
// not collected yet.
type FieldSet struct {
	Date    string `json:"date"`
	Time    string `json:"time"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Purpose string `json:"purpose"`
}

// MissingFields reports which required fields are still blank, comma-joined
// in fixed order. Presence only, no format validation.
func (s *Service) MissingFields(fs FieldSet) string {
	values := map[string]string{
		"date":    fs.Date,
		"time":    fs.Time,
		"name":    fs.Name,
		"email":   fs.Email,
		"phone":   fs.Phone,
		"purpose": fs.Purpose,
	}

	missing := pie.Filter(requiredFields, func(name string) bool {
		return strings.TrimSpace(values[name]) == ""
	})

	if len(missing) == 0 {
		return AllFieldsPresent
	}

	return strings.Join(missing, ", ")
}

// Book validates the JSON payload and produces a confirmation record.
// Nothing is persisted.
func (s *Service) Book(input string) (Record, error) {
	var payload Payload
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return Record{}, &MalformedPayloadError{Err: err}
	}

	user, err := NewUserInfo(payload.Name, payload.Email, payload.Phone)
	if err != nil {
		return Record{}, err
	}

	appointment, err := NewAppointmentInfo(payload.Date, payload.Time, payload.Purpose, user)
	if err != nil {
		return Record{}, err
	}

	// TODO: call the booking backend and persist once one exists.
	record := Record{
		AppointmentID: uuid.NewString()[:8],
		Date:          appointment.Date,
		Time:          appointment.Time,
		Email:         appointment.UserInfo.Email,
	}

	slog.Info("Appointment booked",
		"appointment_id", record.AppointmentID,
		"date", record.Date,
		"time", record.Time,
	)

	return record, nil
}
