package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// Filesystem writes artifacts below root. Paths handed to it may carry the
// output directory prefix base, which is trimmed so that "dist/index.html"
// and "index.html" address the same file.
type Filesystem struct {
	root string
	base string
}

// NewFilesystem returns a provider writing below root.
func NewFilesystem(root, base string) *Filesystem {
	base = filepath.ToSlash(filepath.Clean(base))
	if base == "." {
		base = ""
	}
	return &Filesystem{root: root, base: base}
}

// Root returns the directory artifacts are written to.
func (s *Filesystem) Root() string {
	return s.root
}

func (s *Filesystem) Query(_ context.Context, query string, args ...any) (interfaces.Rows, error) {
	if query != OpRead || len(args) == 0 {
		return emptyRows{}, nil
	}
	target, err := cleanPath(args[0], s.base)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.abs(target))
	if errors.Is(err, os.ErrNotExist) {
		return emptyRows{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &fileRows{data: data}, nil
}

func (s *Filesystem) Exec(_ context.Context, query string, args ...any) (interfaces.Result, error) {
	if len(args) == 0 {
		return emptyResult{}, ErrPathRequired
	}
	switch query {
	case OpEnsureDir:
		target, err := cleanPath(args[0], s.base)
		if err != nil {
			return emptyResult{}, err
		}
		return emptyResult{}, os.MkdirAll(s.abs(target), 0o755)
	case OpWrite:
		target, err := cleanPath(args[0], s.base)
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
		return emptyResult{}, s.write(target, reader)
	case OpRemove:
		target, err := removeTarget(args[0], s.base)
		if err != nil {
			return emptyResult{}, err
		}
		err = os.RemoveAll(s.abs(target))
		if errors.Is(err, os.ErrNotExist) {
			return emptyResult{}, nil
		}
		return emptyResult{}, err
	default:
		return emptyResult{}, nil
	}
}

// write stages content in a temporary file and renames it into place so a
// preview server never serves a half written page.
func (s *Filesystem) write(target string, reader io.Reader) error {
	full := s.abs(target)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".tmp-"+filepath.Base(full)+"-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), full)
}

func (s *Filesystem) Transaction(_ context.Context, fn func(tx interfaces.Transaction) error) error {
	if fn == nil {
		return nil
	}
	return fn(&tx{provider: s})
}

func (s *Filesystem) abs(rel string) string {
	if rel == "" {
		return s.root
	}
	return filepath.Join(s.root, filepath.FromSlash(rel))
}
