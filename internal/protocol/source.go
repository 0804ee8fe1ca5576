package protocol

import (
	"context"
	"os"
)

// Source supplies raw content pack bytes. Guideline updates arrive by
// deploying a new pack through one of these; there is no live fetch.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileSource reads a pack from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Load(_ context.Context) ([]byte, error) {
	return os.ReadFile(s.Path)
}

// EmbeddedSource serves the built-in pediatric pack.
type EmbeddedSource struct{}

func (EmbeddedSource) Load(_ context.Context) ([]byte, error) {
	return pediatricJSON, nil
}

// FromSource loads and parses a pack from src.
func FromSource(ctx context.Context, src Source) (*Pack, error) {
	data, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
