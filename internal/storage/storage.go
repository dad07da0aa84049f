package storage

import "context"

// Store persists run artifacts (reports, raw engine output) under
// relative paths.
type Store interface {
	Save(ctx context.Context, path string, data []byte) error
	Load(ctx context.Context, path string) ([]byte, error)
	List(ctx context.Context, pattern string) ([]string, error)
}
