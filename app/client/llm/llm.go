package llm

import (
	"askdoc/app/config"
	"context"

	"github.com/samber/do"
	"github.com/samber/oops"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
)

// Client bundles the chat model and the embedder built from one provider
// config, so the agent and the document store share a single backend.
type Client struct {
	model    llms.Model
	embedder embeddings.Embedder
}

// NewClientWith wires an already-built model and embedder, bypassing provider
// construction.
func NewClientWith(model llms.Model, embedder embeddings.Embedder) *Client {
	return &Client{
		model:    model,
		embedder: embedder,
	}
}

func NewClient(di *do.Injector) (*Client, error) {
	ctx := do.MustInvoke[context.Context](di)
	cfg := do.MustInvoke[*config.Config](di)

	var (
		model          llms.Model
		embedderClient embeddings.EmbedderClient
	)

	switch cfg.LLM.Provider {
	case "openai":
		opts := []openai.Option{
			openai.WithToken(cfg.LLM.Token),
			openai.WithModel(cfg.LLM.Model),
			openai.WithEmbeddingModel(cfg.LLM.EmbeddingModel),
		}
		if cfg.LLM.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.LLM.BaseURL))
		}

		client, err := openai.New(opts...)
		if err != nil {
			return nil, oops.Errorf("failed to create openai client: %w", err)
		}

		model, embedderClient = client, client
	default:
		client, err := googleai.New(ctx,
			googleai.WithAPIKey(cfg.LLM.Token),
			googleai.WithDefaultModel(cfg.LLM.Model),
			googleai.WithDefaultEmbeddingModel(cfg.LLM.EmbeddingModel),
		)
		if err != nil {
			return nil, oops.Errorf("failed to create gemini client: %w", err)
		}

		model, embedderClient = client, client
	}

	embedder, err := embeddings.NewEmbedder(embedderClient)
	if err != nil {
		return nil, oops.Errorf("failed to create embedder: %w", err)
	}

	return NewClientWith(model, embedder), nil
}

func (c *Client) Model() llms.Model {
	return c.model
}

func (c *Client) Embedder() embeddings.Embedder {
	return c.embedder
}
