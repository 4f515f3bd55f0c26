package storage

import (
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// Memory keeps artifacts in a map. The preview server can serve from it and
// tests inspect it.
type Memory struct {
	mu    sync.RWMutex
	base  string
	files map[string][]byte
}

// NewMemory returns an empty in-memory provider. base is trimmed from
// incoming paths like Filesystem does.
func NewMemory(base string) *Memory {
	base = strings.Trim(path.Clean("/"+strings.TrimSpace(base)), "/")
	if base == "." {
		base = ""
	}
	return &Memory{base: base, files: map[string][]byte{}}
}

func (m *Memory) Query(_ context.Context, query string, args ...any) (interfaces.Rows, error) {
	if query != OpRead || len(args) == 0 {
		return emptyRows{}, nil
	}
	target, err := cleanPath(args[0], m.base)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[target]
	if !ok {
		return emptyRows{}, nil
	}
	return &fileRows{data: append([]byte(nil), data...)}, nil
}

func (m *Memory) Exec(_ context.Context, query string, args ...any) (interfaces.Result, error) {
	if len(args) == 0 {
		return emptyResult{}, ErrPathRequired
	}
	switch query {
	case OpWrite:
		target, err := cleanPath(args[0], m.base)
		if err != nil {
			return emptyResult{}, err
		}
		if len(args) < 2 {
			return emptyResult{}, ErrReaderRequired
		}
		reader, ok := args[1].(io.Reader)
		if !ok || reader == nil {
			return emptyResult{}, ErrReaderRequired
		}
		data, err := io.ReadAll(reader)
		if err != nil {
			return emptyResult{}, err
		}
		m.mu.Lock()
		m.files[target] = data
		m.mu.Unlock()
	case OpRemove:
		target, err := removeTarget(args[0], m.base)
		if err != nil {
			return emptyResult{}, err
		}
		m.mu.Lock()
		for name := range m.files {
			if target == "" || name == target || strings.HasPrefix(name, target+"/") {
				delete(m.files, name)
			}
		}
		m.mu.Unlock()
	}
	return emptyResult{}, nil
}

func (m *Memory) Transaction(_ context.Context, fn func(tx interfaces.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&tx{provider: m})
}

// File returns the content stored at name.
func (m *Memory) File(name string) ([]byte, bool) {
	target, err := cleanPath(name, m.base)
	if err != nil {
		return nil, false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[target]
	return data, ok
}

// Files lists stored paths in lexical order.
func (m *Memory) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for name := range m.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
