package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	errx "github.com/Chative-core-poc-v1/wa-assistant/internal/core/error"
	logx "github.com/Chative-core-poc-v1/wa-assistant/pkg/logger"
)

const DefaultFile = "threads_db.json"

// FileStore keeps every mapping in one flat JSON object, read and rewritten
// on each access. The mutex serialises writers inside this process only.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFile
	}
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context, userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return "", false, err
	}
	handle, ok := db[userID]
	return handle, ok, nil
}

func (s *FileStore) Put(_ context.Context, userID, handle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.load()
	if err != nil {
		return err
	}
	db[userID] = handle
	return s.save(db)
}

func (s *FileStore) load() (map[string]string, error) {
	db := map[string]string{}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return db, nil
	}
	if err != nil {
		logx.Error().Err(err).Str("path", s.path).Msg("failed to read session file")
		return nil, errx.Storage(fmt.Errorf("read %s: %w", s.path, err))
	}
	if len(b) == 0 {
		return db, nil
	}
	if err := json.Unmarshal(b, &db); err != nil {
		logx.Error().Err(err).Str("path", s.path).Msg("failed to decode session file")
		return nil, errx.Storage(fmt.Errorf("decode %s: %w", s.path, err))
	}
	return db, nil
}

func (s *FileStore) save(db map[string]string) error {
	b, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return errx.Storage(fmt.Errorf("encode sessions: %w", err))
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return errx.Storage(fmt.Errorf("create temp file: %w", err))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return errx.Storage(fmt.Errorf("write temp file: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return errx.Storage(fmt.Errorf("close temp file: %w", err))
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		logx.Error().Err(err).Str("path", s.path).Msg("failed to replace session file")
		return errx.Storage(fmt.Errorf("replace %s: %w", s.path, err))
	}
	return nil
}

var _ Store = (*FileStore)(nil)
