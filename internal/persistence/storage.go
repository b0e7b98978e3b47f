package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/riteshk28/Lighthouse/internal/contracts"
)

// ObjectStore abstracts blob storage for the state object and exports.
// Get returns ErrNotFound for a missing key.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

var _ contracts.ExportSink = ObjectStore(nil)

func joinKey(prefix, key string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return key
	}
	return path.Join(prefix, key)
}

type prefixedStore struct {
	store  ObjectStore
	prefix string
}

// WithPrefix scopes every key of store under prefix.
func WithPrefix(store ObjectStore, prefix string) ObjectStore {
	return &prefixedStore{store: store, prefix: prefix}
}

func (p *prefixedStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	return p.store.Put(ctx, joinKey(p.prefix, key), data, contentType)
}

func (p *prefixedStore) Get(ctx context.Context, key string) ([]byte, error) {
	return p.store.Get(ctx, joinKey(p.prefix, key))
}

// LocalStorage implements ObjectStore using the local filesystem.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(key string) (string, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.BaseDir, rel), nil
}

// Put writes through a temp file and rename.
func (s *LocalStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), "."+filepath.Base(p)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Get reads an object.
func (s *LocalStorage) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// BlobGateway keeps the state as a single object of an ObjectStore.
type BlobGateway struct {
	store ObjectStore
	key   string
}

// NewBlobGateway stores the state at <prefix>/scorecard-state.json.
func NewBlobGateway(store ObjectStore, prefix string) *BlobGateway {
	return &BlobGateway{store: store, key: joinKey(prefix, StateObject)}
}

// Key returns the object key of the state blob.
func (g *BlobGateway) Key() string {
	return g.key
}

// Load reads the state object.
func (g *BlobGateway) Load(ctx context.Context) ([]byte, error) {
	return g.store.Get(ctx, g.key)
}

// Save overwrites the state object.
func (g *BlobGateway) Save(ctx context.Context, blob []byte) error {
	return g.store.Put(ctx, g.key, blob, "application/json")
}

// Close releases nothing; object store clients are shared.
func (g *BlobGateway) Close() error {
	return nil
}
