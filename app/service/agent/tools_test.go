package agent

import (
	"askdoc/app/config"
	"askdoc/app/service/booking"
	"askdoc/app/service/dateparse"
	"askdoc/app/service/docstore"
	"context"
	"testing"
	"time"

	"github.com/samber/do"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/tools"
	"github.com/tmc/langchaingo/vectorstores"
)

type fakeStore struct {
	docs []schema.Document
}

func (f *fakeStore) AddDocuments(_ context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	return make([]string, len(docs)), nil
}

func (f *fakeStore) SimilaritySearch(_ context.Context, _ string, _ int, _ ...vectorstores.Option) ([]schema.Document, error) {
	return f.docs, nil
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()

	cfg := &config.Config{
		Documents: config.Documents{TopK: 3},
		Agent:     config.Agent{MaxIterations: 10, MaxTurnSeconds: 300},
	}

	bookingSvc, err := booking.New(do.New())
	require.NoError(t, err)

	return &Service{
		cfg:        cfg,
		docsSvc:    docstore.NewWithStore(cfg, store),
		dateSvc:    dateparse.NewWithClock(func() time.Time { return time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC) }),
		bookingSvc: bookingSvc,
		sessions:   make(map[string]*Session),
	}
}

func findTool(t *testing.T, toolSet []tools.Tool, name string) tools.Tool {
	t.Helper()

	for _, tool := range toolSet {
		if tool.Name() == name {
			return tool
		}
	}

	t.Fatalf("tool %s not found", name)

	return nil
}

func TestToolSet(t *testing.T) {
	svc := newTestService(t, &fakeStore{})
	toolSet := svc.createTools()

	require.Len(t, toolSet, 4)

	names := make([]string, len(toolSet))
	for i, tool := range toolSet {
		names[i] = tool.Name()
		assert.NotEmpty(t, tool.Description())
	}

	assert.Equal(t, []string{
		"search_documents",
		"parse_date",
		"check_missing_appointment_fields",
		"book_appointment",
	}, names)
}

func TestSearchDocumentsTool(t *testing.T) {
	svc := newTestService(t, &fakeStore{docs: []schema.Document{
		{PageContent: "Refunds take 5 business days."},
	}})

	tool := findTool(t, svc.createTools(), "search_documents")

	output, err := tool.Call(context.Background(), "refund policy")
	require.NoError(t, err)
	assert.Contains(t, output, "Document 1:")
	assert.Contains(t, output, "Refunds take 5 business days.")
}

func TestSearchDocumentsToolNoMatches(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	tool := findTool(t, svc.createTools(), "search_documents")

	output, err := tool.Call(context.Background(), "refund policy")
	require.NoError(t, err)
	assert.Equal(t, docstore.NoResultsMessage, output)
}

func TestParseDateTool(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	tool := findTool(t, svc.createTools(), "parse_date")

	output, err := tool.Call(context.Background(), "tomorrow")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-11", output)

	output, err = tool.Call(context.Background(), "gibberish")
	require.NoError(t, err)
	assert.Equal(t, dateparse.FailureMessage, output)
}

func TestCheckMissingFieldsTool(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	tool := findTool(t, svc.createTools(), "check_missing_appointment_fields")

	output, err := tool.Call(context.Background(), `{"date": "2025-04-08", "email": "john@example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, "time, name, phone, purpose", output)

	output, err = tool.Call(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "date, time, name, email, phone, purpose", output)

	// Unparsable input is an observation, not an error: the loop continues.
	output, err = tool.Call(context.Background(), "{broken")
	require.NoError(t, err)
	assert.Contains(t, output, "Invalid fields JSON")
}

func TestBookAppointmentTool(t *testing.T) {
	svc := newTestService(t, &fakeStore{})

	tool := findTool(t, svc.createTools(), "book_appointment")

	t.Run("success", func(t *testing.T) {
		output, err := tool.Call(context.Background(), `{"date":"2025-04-08","time":"14:00","name":"John Doe","email":"john@example.com","phone":"1234567890","purpose":"refund status"}`)
		require.NoError(t, err)
		assert.Contains(t, output, "Appointment confirmed!")
		assert.Contains(t, output, "2025-04-08")
		assert.Contains(t, output, "14:00")
		assert.Contains(t, output, "john@example.com")
	})

	t.Run("validation failure surfaces as text", func(t *testing.T) {
		output, err := tool.Call(context.Background(), `{"date":"2025-04-08","time":"14:00","name":"John Doe","email":"john@example.com","phone":"12345","purpose":"refund status"}`)
		require.NoError(t, err)
		assert.Contains(t, output, "Error booking appointment:")
		assert.Contains(t, output, "phone")
	})

	t.Run("malformed payload surfaces as text", func(t *testing.T) {
		output, err := tool.Call(context.Background(), "not json")
		require.NoError(t, err)
		assert.Contains(t, output, "Error booking appointment:")
	})
}

func TestTranscript(t *testing.T) {
	var transcript Transcript
	transcript.add(RoleUser, "hello")
	transcript.add(RoleAssistant, "hi, how can I help?")

	messages := transcript.Messages()
	require.Len(t, messages, 2)
	assert.Equal(t, RoleUser, messages[0].Role)
	assert.Equal(t, RoleAssistant, messages[1].Role)

	// Copies do not alias the internal slice.
	messages[0].Text = "mutated"
	assert.Equal(t, "hello", transcript.Messages()[0].Text)
}
