package watcher

import (
	"askdoc/app/config"
	"askdoc/app/service/docstore"
	"context"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/do"
)

var _ do.Shutdownable = (*Service)(nil)

// Service feeds files dropped into the documents directory to the index.
type Service struct {
	cfg     *config.Config
	docsSvc *docstore.Service
	watcher *fsnotify.Watcher
}

func New(di *do.Injector) (*Service, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Service{
		cfg:     do.MustInvoke[*config.Config](di),
		docsSvc: do.MustInvoke[*docstore.Service](di),
		watcher: fsWatcher,
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.watcher.Add(s.cfg.Documents.Dir); err != nil {
		return fmt.Errorf("failed to watch documents dir: %w", err)
	}

	slog.Info("Watching documents directory", "dir", s.cfg.Documents.Dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}

			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}

			if !docstore.IsIndexable(event.Name) {
				continue
			}

			if _, err := s.docsSvc.AddDocument(ctx, event.Name); err != nil {
				slog.Error("Failed to index document", "path", event.Name, "error", err)
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return nil
			}

			slog.Warn("Watcher error", "error", err)
		}
	}
}

func (s *Service) Shutdown() error {
	return s.watcher.Close()
}
