package agent

import (
	"askdoc/app/service/booking"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/tools"
)

type agentTool struct {
	name        string
	description string
	call        func(ctx context.Context, input string) (string, error)
}

func (t *agentTool) Name() string {
	return t.name
}

func (t *agentTool) Description() string {
	return t.description
}

func (t *agentTool) Call(ctx context.Context, input string) (string, error) {
	return t.call(ctx, input)
}

// createTools builds the fixed tool set the executor may dispatch to.
// Recoverable domain failures are returned as observation text, not as
// errors, so the model can react within the same turn.
func (s *Service) createTools() []tools.Tool {
	return []tools.Tool{
		&agentTool{
			name:        "search_documents",
			description: "Search through documents to find information relevant to the query. Input is the search query text.",
			call: func(ctx context.Context, input string) (string, error) {
				return s.docsSvc.Search(ctx, input)
			},
		},
		&agentTool{
			name:        "parse_date",
			description: "Parse various date formats including natural language like 'next Monday' and return the date in YYYY-MM-DD format. Input is the text containing the date.",
			call: func(_ context.Context, input string) (string, error) {
				return s.dateSvc.Normalize(input), nil
			},
		},
		&agentTool{
			name:        "check_missing_appointment_fields",
			description: "Check which required fields for booking an appointment are missing. Input must be a JSON object with optional string keys: date, time, name, email, phone, purpose. Returns a comma-separated list of missing fields.",
			call: func(_ context.Context, input string) (string, error) {
				var fields booking.FieldSet

				if strings.TrimSpace(input) != "" {
					if err := json.Unmarshal([]byte(input), &fields); err != nil {
						return "Invalid fields JSON: " + err.Error(), nil
					}
				}

				return s.bookingSvc.MissingFields(fields), nil
			},
		},
		&agentTool{
			name:        "book_appointment",
			description: `Book an appointment with the provided information. Input must be a JSON object with keys: date, time, name, email, phone, purpose. Example: {"date": "2025-04-08", "time": "14:00", "name": "John Doe", "email": "john@example.com", "phone": "1234567890", "purpose": "refund status"}`,
			call: func(_ context.Context, input string) (string, error) {
				record, err := s.bookingSvc.Book(input)
				if err != nil {
					var validationErr *booking.ValidationError
					var payloadErr *booking.MalformedPayloadError

					if errors.As(err, &validationErr) || errors.As(err, &payloadErr) {
						return fmt.Sprintf("Error booking appointment: %s", err), nil
					}

					return "", err
				}

				return record.Confirmation(), nil
			},
		},
	}
}
