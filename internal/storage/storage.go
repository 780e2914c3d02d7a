//-------------------------------------------------------------------------
//
// pgEdge Lake ETL
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package storage abstracts the locations the ETL reads input from and
// writes datasets to. A Store is rooted at a location URI; object names
// passed to it are slash-separated and relative to that root.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
)

// Store is a rooted object namespace.
type Store interface {
	// Glob returns the names matching pattern, sorted. Pattern syntax is
	// that of path.Match; '*' does not cross '/'.
	Glob(ctx context.Context, pattern string) ([]string, error)

	// List returns every object name under prefix, recursively, sorted.
	// A missing prefix yields no names and no error.
	List(ctx context.Context, prefix string) ([]string, error)

	// Open opens an object for reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)

	// Create opens an object for writing, replacing any existing object.
	// The object becomes visible when the writer is closed.
	Create(ctx context.Context, name string) (io.WriteCloser, error)

	// RemoveAll deletes every object under prefix.
	RemoveAll(ctx context.Context, prefix string) error

	// String returns the root location URI.
	String() string
}

// Options carries backend settings. Credentials are passed explicitly and
// never exported to the process environment.
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Endpoint        string
	PathStyle       bool
}

// Location is a parsed storage URI.
type Location struct {
	// Scheme is the backend scheme, "file" for plain paths.
	Scheme string

	// Host is the bucket for object stores, empty for files.
	Host string

	// Path is the root path (or key prefix) without surrounding slashes
	// for object stores.
	Path string

	raw string
}

// String returns the URI the location was parsed from.
func (l Location) String() string {
	return l.raw
}

// ParseLocation parses a storage URI. Strings without a scheme are local
// filesystem paths.
func ParseLocation(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("empty storage location")
	}
	if !strings.Contains(uri, "://") {
		return Location{Scheme: "file", Path: uri, raw: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("invalid storage location %q: %w", uri, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme == "file" {
		p := u.Path
		if u.Host != "" {
			p = u.Host + p
		}
		return Location{Scheme: "file", Path: p, raw: uri}, nil
	}

	if u.Host == "" {
		return Location{}, fmt.Errorf("storage location %q has no bucket", uri)
	}
	return Location{
		Scheme: scheme,
		Host:   u.Host,
		Path:   strings.Trim(u.Path, "/"),
		raw:    uri,
	}, nil
}

// Opener constructs a Store for a location.
type Opener func(ctx context.Context, loc Location, opts Options) (Store, error)

var (
	registry = make(map[string]Opener)
	mu       sync.RWMutex
)

// Register adds a backend for a URI scheme.
func Register(scheme string, opener Opener) {
	mu.Lock()
	defer mu.Unlock()
	registry[scheme] = opener
}

// Schemes returns the registered URI schemes, sorted.
func Schemes() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open returns a Store rooted at uri.
func Open(ctx context.Context, uri string, opts Options) (Store, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}

	mu.RLock()
	opener, ok := registry[loc.Scheme]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage scheme: %s", loc.Scheme)
	}
	return opener(ctx, loc, opts)
}

// ReadAll reads a whole object.
func ReadAll(ctx context.Context, s Store, name string) ([]byte, error) {
	rc, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// staticPrefix returns the leading directory of pattern that contains no
// glob metacharacters, e.g. "song_data" for "song_data/*/*.json".
func staticPrefix(pattern string) string {
	segs := strings.Split(pattern, "/")
	var out []string
	for _, s := range segs[:len(segs)-1] {
		if strings.ContainsAny(s, `*?[\`) {
			break
		}
		out = append(out, s)
	}
	return strings.Join(out, "/")
}

// matchAll filters names against pattern.
func matchAll(pattern string, names []string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	var out []string
	for _, n := range names {
		if ok, _ := path.Match(pattern, n); ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out, nil
}
