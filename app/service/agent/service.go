package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"askdoc/app/client/llm"
	"askdoc/app/config"
	"askdoc/app/service/booking"
	"askdoc/app/service/dateparse"
	"askdoc/app/service/docstore"

	_ "embed"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/memory"
)

//go:embed prompt_prefix.txt
var promptPrefix string

// FailureReply is what the user sees when a turn dies on a loop bound,
// timeout or model failure. The session survives for the next turn.
const FailureReply = "Something went wrong. Please try again."

type Service struct {
	cfg        *config.Config
	llmClient  *llm.Client
	docsSvc    *docstore.Service
	dateSvc    *dateparse.Service
	bookingSvc *booking.Service

	mu       sync.Mutex
	sessions map[string]*Session
}

// Session owns one conversation: its executor, its chat memory and its
// transcript. The mutex serializes turns, sessions themselves are independent.
type Session struct {
	mu         sync.Mutex
	executor   *agents.Executor
	transcript Transcript
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:        do.MustInvoke[*config.Config](di),
		llmClient:  do.MustInvoke[*llm.Client](di),
		docsSvc:    do.MustInvoke[*docstore.Service](di),
		dateSvc:    do.MustInvoke[*dateparse.Service](di),
		bookingSvc: do.MustInvoke[*booking.Service](di),
		sessions:   make(map[string]*Session),
	}, nil
}

func (s *Service) session(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = &Session{executor: s.newExecutor()}
		s.sessions[id] = sess
	}

	return sess
}

func (s *Service) newExecutor() *agents.Executor {
	conversational := agents.NewConversationalAgent(
		s.llmClient.Model(),
		s.createTools(),
		agents.WithPromptPrefix(promptPrefix),
		agents.WithCallbacksHandler(LogCallbackHandler{}),
	)

	return agents.NewExecutor(
		conversational,
		agents.WithMaxIterations(s.cfg.Agent.MaxIterations),
		agents.WithMemory(memory.NewConversationBuffer()),
		agents.WithParserErrorHandler(agents.NewParserErrorHandler(nil)),
		agents.WithCallbacksHandler(LogCallbackHandler{}),
	)
}

// Chat runs one turn: the executor reasons, dispatches tools and produces a
// final answer. At most one turn runs per session at a time.
func (s *Service) Chat(ctx context.Context, sessionID, text string) (string, error) {
	sess := s.session(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.Agent.MaxTurnSeconds)*time.Second)
	defer cancel()

	start := time.Now()

	answer, err := chains.Run(ctx, sess.executor, text)
	if err != nil {
		// The user still saw this exchange: the prompt went in and the
		// failure reply came back, so the transcript keeps both.
		sess.transcript.add(RoleUser, text)
		sess.transcript.add(RoleAssistant, FailureReply)

		return "", fmt.Errorf("agent run failed: %w", err)
	}

	sess.transcript.add(RoleUser, text)
	sess.transcript.add(RoleAssistant, answer)

	slog.Info("Processed turn",
		"session", sessionID,
		"duration", time.Since(start),
	)

	return answer, nil
}

// History returns a copy of the session transcript, oldest first.
func (s *Service) History(sessionID string) []Message {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok {
		return nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	return sess.transcript.Messages()
}

// IsTurnLimit reports whether the turn ended because the iteration bound or
// the wall-clock deadline was hit, as opposed to a hard failure.
func IsTurnLimit(err error) bool {
	return errors.Is(err, agents.ErrNotFinished) || errors.Is(err, context.DeadlineExceeded)
}
