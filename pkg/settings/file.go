package settings

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

// FileStore keeps each document's settings in <dir>/<doc>.toml.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// FilePath returns the path of doc's settings file.
func (s *FileStore) FilePath(doc string) string {
	return filepath.Join(s.dir, doc+".toml")
}

// Get reads one setting.
func (s *FileStore) Get(ctx context.Context, doc, name string) (float64, bool, error) {
	if err := validateKey(doc, name); err != nil {
		return 0, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load(doc)
	if err != nil {
		return 0, false, err
	}
	v, ok := values[name]
	return v, ok, nil
}

// Set writes one setting, keeping the document's other settings.
func (s *FileStore) Set(ctx context.Context, doc, name string, value float64) error {
	if err := validateKey(doc, name); err != nil {
		return err
	}
	if err := validateValue(name, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load(doc)
	if err != nil {
		return err
	}
	values[name] = value
	return s.save(doc, values)
}

// All reads every setting of doc.
func (s *FileStore) All(ctx context.Context, doc string) (map[string]float64, error) {
	if err := errors.ValidateDocumentID(doc); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(doc)
}

// Close does nothing for file stores.
func (s *FileStore) Close(context.Context) error {
	return nil
}

func (s *FileStore) load(doc string) (map[string]float64, error) {
	values := map[string]float64{}
	data, err := os.ReadFile(s.FilePath(doc))
	if os.IsNotExist(err) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, err
	}
	return values, nil
}

func (s *FileStore) save(doc string, values map[string]float64) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(values); err != nil {
		return err
	}
	return os.WriteFile(s.FilePath(doc), buf.Bytes(), 0644)
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
