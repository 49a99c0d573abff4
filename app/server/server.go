package server

import (
	"askdoc/app/config"
	"askdoc/app/service/agent"
	"askdoc/app/service/docstore"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/samber/do"
)

var _ do.Shutdownable = (*Service)(nil)

type Service struct {
	cfg      *config.Config
	agentSvc *agent.Service
	docsSvc  *docstore.Service
	app      *fiber.App
}

func New(di *do.Injector) (*Service, error) {
	s := &Service{
		cfg:      do.MustInvoke[*config.Config](di),
		agentSvc: do.MustInvoke[*agent.Service](di),
		docsSvc:  do.MustInvoke[*docstore.Service](di),
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	api := app.Group("/api")
	api.Post("/chat", s.handleChat)
	api.Get("/chat/:session/history", s.handleHistory)
	api.Post("/documents", s.handleAddDocument)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	s.app = app

	return s, nil
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Service) handleChat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Message) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "message is required")
	}

	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	reply, err := s.agentSvc.Chat(c.UserContext(), req.SessionID, req.Message)
	if err != nil {
		slog.Error("Turn failed",
			"session", req.SessionID,
			"turn_limit", agent.IsTurnLimit(err),
			"error", err,
		)

		reply = agent.FailureReply
	}

	return c.JSON(chatResponse{
		SessionID: req.SessionID,
		Reply:     reply,
	})
}

func (s *Service) handleHistory(c *fiber.Ctx) error {
	messages := s.agentSvc.History(c.Params("session"))
	if messages == nil {
		messages = []agent.Message{}
	}

	return c.JSON(messages)
}

type addDocumentRequest struct {
	Path string `json:"path"`
}

func (s *Service) handleAddDocument(c *fiber.Ctx) error {
	var req addDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if strings.TrimSpace(req.Path) == "" {
		return fiber.NewError(fiber.StatusBadRequest, "path is required")
	}

	chunks, err := s.docsSvc.AddDocument(c.UserContext(), req.Path)
	if err != nil {
		slog.Error("Failed to index document", "path", req.Path, "error", err)

		return fiber.NewError(fiber.StatusInternalServerError, "failed to index document")
	}

	return c.JSON(fiber.Map{"chunks": chunks})
}

func (s *Service) Run() error {
	slog.Info("HTTP server listening", "addr", s.cfg.Server.Addr)

	return s.app.Listen(s.cfg.Server.Addr)
}

func (s *Service) Shutdown() error {
	return s.app.Shutdown()
}
