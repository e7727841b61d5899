// Package storage persists the progression snapshot and the debug date
// offset. Every backend stores the whole state as a single JSON document.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Vader773/daily-grimoire-sub000/internal/config"
	"github.com/Vader773/daily-grimoire-sub000/internal/model"
)

var (
	// ErrNotFound means nothing has been saved yet.
	ErrNotFound = errors.New("storage: not found")
	// ErrCorrupt means a stored document exists but cannot be decoded.
	ErrCorrupt = errors.New("storage: corrupt document")
)

type Store interface {
	Load(ctx context.Context) (*model.State, error)
	Save(ctx context.Context, s *model.State) error
	LoadOffset(ctx context.Context) (int, error)
	SaveOffset(ctx context.Context, offset int) error
	Close() error
}

// Open builds the backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreFile, "":
		return NewFileStore(cfg.Storage.DataDir)
	case config.StoreSQLite:
		return OpenSQLiteStore(ctx, cfg.Storage.SQLitePath)
	case config.StoreRedis:
		return OpenRedisStore(ctx, cfg.Storage.Redis)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Storage.Driver)
	}
}

func encodeState(s *model.State) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func decodeState(b []byte) (*model.State, error) {
	var st model.State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	st.Normalize()
	return &st, nil
}

func decodeOffset(b []byte) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, fmt.Errorf("%w: offset: %v", ErrCorrupt, err)
	}
	return n, nil
}
