package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

const (
	StateFile  = "state.json"
	OffsetFile = "debug_offset.json"
)

// FileStore keeps state.json and debug_offset.json under one data dir.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dataDir}, nil
}

func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) Load(ctx context.Context) (*model.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(f.dir, StateFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return decodeState(b)
}

func (f *FileStore) Save(ctx context.Context, s *model.State) error {
	b, err := encodeState(s)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return writeAtomic(filepath.Join(f.dir, StateFile), b)
}

func (f *FileStore) LoadOffset(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(f.dir, OffsetFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return decodeOffset(b)
}

func (f *FileStore) SaveOffset(ctx context.Context, offset int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return writeAtomic(filepath.Join(f.dir, OffsetFile), []byte(strconv.Itoa(offset)))
}

func (f *FileStore) Close() error { return nil }

// writeAtomic replaces path via a sibling temp file so readers never see a
// half-written document.
func writeAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
