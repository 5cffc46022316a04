package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/inkwell-labs/inkwell/pkg/lifecycle"
)

const docExt = ".json"

// fileStore keeps one JSON document per key in a directory per partition.
type fileStore struct {
	root   string
	logger *slog.Logger
}

func newFileStore(cfg *Config, logger *slog.Logger) System {
	return &fileStore{
		root:   cfg.Root,
		logger: logger.With("system", "kvstore", "backend", BackendFile),
	}
}

func (s *fileStore) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting file store", "root", s.root)

	lc.OnStartup(func() {
		if err := os.MkdirAll(s.root, 0o755); err != nil {
			s.logger.Error("store root initialization failed", "error", err)
			return
		}
		s.logger.Info("store root ready", "root", s.root)
	})

	return nil
}

func (s *fileStore) List(_ context.Context, partition string) ([]Record, error) {
	if err := validatePartition(partition); err != nil {
		return nil, err
	}

	dir := filepath.Join(s.root, partition)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("list partition %s: %w", partition, err)
	}

	records := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), docExt) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s/%s: %w", partition, entry.Name(), err)
		}

		records = append(records, Record{
			Key:  strings.TrimSuffix(entry.Name(), docExt),
			Data: data,
		})
	}

	slices.SortFunc(records, func(a, b Record) int {
		return strings.Compare(a.Key, b.Key)
	})

	return records, nil
}

func (s *fileStore) Get(_ context.Context, partition, key string) ([]byte, error) {
	path, err := s.path(partition, key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s/%s: %w", partition, key, err)
	}

	return data, nil
}

func (s *fileStore) Put(_ context.Context, partition, key string, data []byte) error {
	path, err := s.path(partition, key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create partition %s: %w", partition, err)
	}

	// write-then-rename so a crashed write never leaves a torn document
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s/%s: %w", partition, key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit %s/%s: %w", partition, key, err)
	}

	return nil
}

func (s *fileStore) Delete(_ context.Context, partition, key string) error {
	path, err := s.path(partition, key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s/%s: %w", partition, key, err)
	}

	return nil
}

func (s *fileStore) Exists(_ context.Context, partition, key string) (bool, error) {
	path, err := s.path(partition, key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat %s/%s: %w", partition, key, err)
	}

	return true, nil
}

func (s *fileStore) path(partition, key string) (string, error) {
	if err := validatePartition(partition); err != nil {
		return "", err
	}
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.root, partition, key+docExt), nil
}
