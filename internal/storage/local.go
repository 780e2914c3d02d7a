//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/pgEdge/pgedge-lakeetl/internal/logging"
)

// LocalStore is a Store on the local filesystem.
type LocalStore struct {
	root string
	uri  string
}

// NewLocalStore returns a Store rooted at dir.
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{root: filepath.Clean(dir), uri: dir}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Glob implements Store.
func (s *LocalStore) Glob(ctx context.Context, pattern string) ([]string, error) {
	matches, err := filepath.Glob(s.path(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(s.root, m)
		if err != nil {
			return nil, err
		}
		names = append(names, filepath.ToSlash(rel))
	}
	sort.Strings(names)
	return names, nil
}

// List implements Store.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	base := s.path(prefix)
	var names []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", base, err)
	}
	sort.Strings(names)
	return names, nil
}

// Open implements Store.
func (s *LocalStore) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// Create implements Store.
func (s *LocalStore) Create(ctx context.Context, name string) (io.WriteCloser, error) {
	p := s.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	f, err := os.Create(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", name, err)
	}
	return f, nil
}

// RemoveAll implements Store.
func (s *LocalStore) RemoveAll(ctx context.Context, prefix string) error {
	p := s.path(prefix)
	if p == s.root {
		return fmt.Errorf("refusing to remove store root %s", s.root)
	}
	logging.Debug().Str("path", p).Msg("Removing local data")
	if err := os.RemoveAll(p); err != nil {
		return fmt.Errorf("failed to remove %s: %w", prefix, err)
	}
	return nil
}

// String implements Store.
func (s *LocalStore) String() string {
	return s.uri
}

func init() {
	Register("file", func(ctx context.Context, loc Location, opts Options) (Store, error) {
		return NewLocalStore(loc.Path), nil
	})
}
