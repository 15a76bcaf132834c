package prompts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store holds named call script templates.
// Templates use ${var} placeholders; see Render.
type Store interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Put(ctx context.Context, name, text string) error
	List(ctx context.Context) ([]string, error)
}

var ErrInvalidName = errors.New("prompts: invalid prompt name")

// validName rejects anything that could escape the prompt directory.
func validName(name string) bool {
	if name == "" {
		return false
	}
	return !strings.ContainsAny(name, `/\.`)
}

// FSStore keeps one <name>.txt file per prompt in a flat directory.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) *FSStore {
	return &FSStore{dir: dir}
}

func (s *FSStore) Get(ctx context.Context, name string) (string, bool, error) {
	_ = ctx
	if !validName(name) {
		return "", false, ErrInvalidName
	}
	b, err := os.ReadFile(filepath.Join(s.dir, name+".txt"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return string(b), true, nil
}

func (s *FSStore) Put(ctx context.Context, name, text string) error {
	_ = ctx
	if !validName(name) {
		return ErrInvalidName
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, name+".txt"), []byte(text), 0o644)
}

func (s *FSStore) List(ctx context.Context) ([]string, error) {
	_ = ctx
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".txt"); ok {
			out = append(out, name)
		}
	}
	return out, nil
}

// MemoryStore is an in-memory prompt store used by tests.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: map[string]string{}}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (string, bool, error) {
	_ = ctx
	if !validName(name) {
		return "", false, ErrInvalidName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.rows[name]
	return text, ok, nil
}

func (s *MemoryStore) Put(ctx context.Context, name, text string) error {
	_ = ctx
	if !validName(name) {
		return ErrInvalidName
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[name] = text
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.rows))
	for name := range s.rows {
		out = append(out, name)
	}
	return out, nil
}
