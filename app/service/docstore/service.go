package docstore

import (
	"askdoc/app/client/llm"
	"askdoc/app/config"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/do"
	"github.com/tmc/langchaingo/vectorstores"
	"github.com/tmc/langchaingo/vectorstores/chroma"
	"golang.org/x/sync/errgroup"
)

const NoResultsMessage = "I couldn't find any relevant information in the documents."

const ingestConcurrency = 4

// Service owns the document index. The underlying vector store is created
// lazily on first use and shared by all sessions; it is read-mostly after
// startup ingestion.
type Service struct {
	cfg       *config.Config
	llmClient *llm.Client

	mu    sync.Mutex
	store vectorstores.VectorStore
}

func New(di *do.Injector) (*Service, error) {
	return &Service{
		cfg:       do.MustInvoke[*config.Config](di),
		llmClient: do.MustInvoke[*llm.Client](di),
	}, nil
}

// NewWithStore wires an already-built vector store, bypassing lazy init.
func NewWithStore(cfg *config.Config, store vectorstores.VectorStore) *Service {
	return &Service{cfg: cfg, store: store}
}

func (s *Service) ensureStore() (vectorstores.VectorStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		return s.store, nil
	}

	store, err := chroma.New(
		chroma.WithChromaURL(s.cfg.Documents.ChromaURL),
		chroma.WithEmbedder(s.llmClient.Embedder()),
		chroma.WithNameSpace(s.cfg.Documents.Collection),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chroma store: %w", err)
	}

	s.store = store

	return store, nil
}

// Search runs a top-k similarity search and formats the matches as numbered
// text blocks. Ordering and relevance are the store's, not re-ranked here.
func (s *Service) Search(ctx context.Context, query string) (string, error) {
	store, err := s.ensureStore()
	if err != nil {
		return "", err
	}

	docs, err := store.SimilaritySearch(ctx, query, s.cfg.Documents.TopK)
	if err != nil {
		return "", fmt.Errorf("similarity search failed: %w", err)
	}

	if len(docs) == 0 {
		return NoResultsMessage, nil
	}

	blocks := make([]string, len(docs))
	for i, doc := range docs {
		blocks[i] = fmt.Sprintf("Document %d:\n%s\n", i+1, doc.PageContent)
	}

	return strings.Join(blocks, "\n"), nil
}

// AddDocument loads a single file, splits it into chunks and appends them
// to the index. Returns the number of chunks added.
func (s *Service) AddDocument(ctx context.Context, path string) (int, error) {
	store, err := s.ensureStore()
	if err != nil {
		return 0, err
	}

	docs, err := loadAndSplit(ctx, path, s.cfg.Documents.ChunkSize, s.cfg.Documents.ChunkOverlap)
	if err != nil {
		return 0, err
	}

	if len(docs) == 0 {
		return 0, nil
	}

	if _, err = store.AddDocuments(ctx, docs); err != nil {
		return 0, fmt.Errorf("failed to add documents: %w", err)
	}

	slog.Info("Indexed document", "path", path, "chunks", len(docs))

	return len(docs), nil
}

// Bootstrap indexes the configured documents directory if ingest_on_start
// is set.
func (s *Service) Bootstrap(ctx context.Context) error {
	if !s.cfg.Documents.IngestOnStart {
		return nil
	}

	paths, err := listDocuments(s.cfg.Documents.Dir)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(ingestConcurrency)

	for _, path := range paths {
		g.Go(func() error {
			if _, err := s.AddDocument(ctx, path); err != nil {
				return fmt.Errorf("failed to index %s: %w", path, err)
			}

			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return err
	}

	slog.Info("Document directory indexed", "dir", s.cfg.Documents.Dir, "files", len(paths))

	return nil
}
