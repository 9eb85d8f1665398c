// Package transcript writes completed conversation snapshots to disk.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"lead-agent/model"
)

// FileStore persists session snapshots as JSON files under a directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Persist writes the session snapshot and returns the path it was written
// to. Each snapshot gets a unique file so repeated completions never clobber
// each other.
func (s *FileStore) Persist(ctx context.Context, sessionID string, session *model.Session) (string, error) {
	if session == nil {
		return "", fmt.Errorf("transcript: nil session")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create transcript dir: %w", err)
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal session snapshot: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("%s-%s.json", sessionID, uuid.New().String()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}
