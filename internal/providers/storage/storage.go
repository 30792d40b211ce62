package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores a file's bytes and returns a publicly reachable URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// LocalDisk writes uploads under a directory served as static files. Each
// file gets a uuid prefix so client filenames cannot collide.
type LocalDisk struct {
	dir     string
	baseURL string
}

func NewLocalDisk(dir, baseURL string) (*LocalDisk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &LocalDisk{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (l *LocalDisk) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	name := uuid.NewString() + "-" + sanitize(filename)
	path := filepath.Join(l.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return l.baseURL + "/" + name, nil
}

// Dir is the on-disk root, exposed so the HTTP layer can serve it.
func (l *LocalDisk) Dir() string {
	return l.dir
}

func sanitize(filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "upload"
	}
	return base
}
