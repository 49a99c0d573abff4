package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       Log       `yaml:"log"`
	LLM       LLM       `yaml:"llm"`
	Documents Documents `yaml:"documents"`
	Agent     Agent     `yaml:"agent"`
	Server    Server    `yaml:"server"`
}

type LLM struct {
	// LLM provider, either gemini or openai
	Provider string `yaml:"provider" example:"gemini" validate:"required,oneof=gemini openai"`
	// API token, falls back to GEMINI_API_KEY / OPENAI_API_KEY env vars
	Token string `yaml:"token" example:"AIzaSyAbc123456789DEFghi012JKLmno345PQRstu" validate:"required"`
	// Optional base url override (openai-compatible gateways)
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1"`
	// Chat model
	Model string `yaml:"model" example:"gemini-2.0-flash" validate:"required"`
	// Embedding model
	EmbeddingModel string `yaml:"embedding_model" example:"embedding-001" validate:"required"`
}

type Documents struct {
	// Directory with source documents (pdf, txt, md)
	Dir string `yaml:"dir" example:"./content" validate:"required"`
	// Chroma server url
	ChromaURL string `yaml:"chroma_url" example:"http://localhost:8000" validate:"required"`
	// Chroma collection name
	Collection string `yaml:"collection" example:"askdoc" validate:"required"`
	// Chunk size in characters
	ChunkSize int `yaml:"chunk_size" example:"1000"`
	// Chunk overlap in characters
	ChunkOverlap int `yaml:"chunk_overlap" example:"200"`
	// Number of chunks returned per search
	TopK int `yaml:"top_k" example:"3"`
	// Index the documents directory on startup
	IngestOnStart bool `yaml:"ingest_on_start" example:"true"`
	// Watch the documents directory and index new files
	Watch bool `yaml:"watch" example:"false"`
}

type Agent struct {
	// Maximum reasoning/tool cycles per turn
	MaxIterations int `yaml:"max_iterations" example:"10"`
	// Maximum wall-clock seconds per turn
	MaxTurnSeconds int `yaml:"max_turn_seconds" example:"300"`
}

type Server struct {
	// HTTP listen address
	Addr string `yaml:"addr" example:":8080"`
}

type Log struct {
	// Minimum level for console output
	Level string `yaml:"level" example:"info" validate:"omitempty,oneof=debug info warn error"`
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.LLM.Provider == "" {
		result.LLM.Provider = "gemini"
	}
	if result.LLM.Token == "" {
		switch result.LLM.Provider {
		case "openai":
			result.LLM.Token = os.Getenv("OPENAI_API_KEY")
		default:
			result.LLM.Token = os.Getenv("GEMINI_API_KEY")
		}
	}
	if result.LLM.Model == "" {
		result.LLM.Model = "gemini-2.0-flash"
	}
	if result.LLM.EmbeddingModel == "" {
		result.LLM.EmbeddingModel = "embedding-001"
	}
	if result.Documents.Dir == "" {
		result.Documents.Dir = "./content"
	}
	if result.Documents.ChromaURL == "" {
		result.Documents.ChromaURL = "http://localhost:8000"
	}
	if result.Documents.Collection == "" {
		result.Documents.Collection = "askdoc"
	}
	if result.Documents.ChunkSize <= 0 {
		result.Documents.ChunkSize = 1000
	}
	if result.Documents.ChunkOverlap <= 0 {
		result.Documents.ChunkOverlap = 200
	}
	if result.Documents.TopK <= 0 {
		result.Documents.TopK = 3
	}
	if result.Agent.MaxIterations <= 0 {
		result.Agent.MaxIterations = 10
	}
	if result.Agent.MaxTurnSeconds <= 0 {
		result.Agent.MaxTurnSeconds = 300
	}
	if result.Server.Addr == "" {
		result.Server.Addr = ":8080"
	}
	if result.Log.Level == "" {
		result.Log.Level = "debug"
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
