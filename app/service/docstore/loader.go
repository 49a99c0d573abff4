package docstore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/elliotchance/pie/v2"
	"github.com/tmc/langchaingo/documentloaders"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

var indexableExtensions = []string{".pdf", ".txt", ".md"}

// IsIndexable reports whether the file is a supported document type.
func IsIndexable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return pie.Contains(indexableExtensions, ext)
}

// listDocuments collects indexable files under dir, creating the directory
// if it does not exist yet.
func listDocuments(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create documents dir: %w", err)
	}

	var paths []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && IsIndexable(path) {
			paths = append(paths, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk documents dir: %w", err)
	}

	return paths, nil
}

// loadAndSplit reads one file and splits it into overlapping chunks with
// source metadata attached.
func loadAndSplit(ctx context.Context, path string, chunkSize, chunkOverlap int) ([]schema.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer file.Close()

	var loader documentloaders.Loader

	if strings.ToLower(filepath.Ext(path)) == ".pdf" {
		info, err := file.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat document: %w", err)
		}

		loader = documentloaders.NewPDF(file, info.Size())
	} else {
		loader = documentloaders.NewText(file)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	docs, err := loader.LoadAndSplit(ctx, splitter)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	for i := range docs {
		if docs[i].Metadata == nil {
			docs[i].Metadata = make(map[string]any)
		}

		docs[i].Metadata["source"] = filepath.Base(path)
	}

	return docs, nil
}
