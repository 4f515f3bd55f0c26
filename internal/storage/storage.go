// Package storage provides interfaces.StorageProvider implementations for
// generator artifacts: one writing to disk and one keeping files in memory.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

// Operation names understood by the providers.
const (
	OpEnsureDir = "generator.ensure_dir"
	OpWrite     = "generator.write"
	OpRead      = "generator.read"
	OpRemove    = "generator.remove"
)

var (
	ErrPathRequired    = errors.New("storage: path is required")
	ErrReaderRequired  = errors.New("storage: write expects io.Reader content")
	ErrNestedTx        = errors.New("storage: nested transactions not supported")
	ErrUnsupportedScan = errors.New("storage: unsupported scan destination")
	ErrRemoveRoot      = errors.New("storage: refusing to remove the storage root")
	ErrRemoveOutside   = errors.New("storage: remove target is outside the output directory")
)

// cleanPath normalises a slash separated artifact path. Paths are cleaned
// against a virtual root so ".." segments never leave it.
func cleanPath(arg any, base string) (string, error) {
	raw, _ := arg.(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrPathRequired
	}
	cleaned := path.Clean("/" + strings.ReplaceAll(raw, `\`, "/"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if base != "" && (cleaned == base || strings.HasPrefix(cleaned, base+"/")) {
		cleaned = strings.TrimPrefix(strings.TrimPrefix(cleaned, base), "/")
	}
	return cleaned, nil
}

// removeTarget resolves the path of a remove request. Without a base the
// root itself can never be removed; with a base only the base or paths below
// it are accepted, and the base maps to the root.
func removeTarget(arg any, base string) (string, error) {
	raw, _ := arg.(string)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrPathRequired
	}
	cleaned := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(raw, `\`, "/")), "/")
	switch {
	case base == "" && cleaned == "":
		return "", ErrRemoveRoot
	case base == "":
		return cleaned, nil
	case cleaned == base:
		return "", nil
	case strings.HasPrefix(cleaned, base+"/"):
		return strings.TrimPrefix(cleaned, base+"/"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrRemoveOutside, raw)
	}
}

type emptyResult struct{}

func (emptyResult) RowsAffected() (int64, error) { return 0, nil }
func (emptyResult) LastInsertId() (int64, error) { return 0, nil }

type fileRows struct {
	data []byte
	read bool
}

func (r *fileRows) Next() bool {
	if r.read {
		return false
	}
	r.read = true
	return true
}

func (r *fileRows) Scan(dest ...any) error {
	if len(dest) == 0 {
		return fmt.Errorf("storage: scan requires destination")
	}
	switch target := dest[0].(type) {
	case *[]byte:
		*target = append((*target)[:0], r.data...)
	case *string:
		*target = string(r.data)
	default:
		return fmt.Errorf("%w %T", ErrUnsupportedScan, dest[0])
	}
	return nil
}

func (r *fileRows) Close() error {
	return nil
}

type emptyRows struct{}

func (emptyRows) Next() bool        { return false }
func (emptyRows) Scan(...any) error { return fmt.Errorf("storage: scan without rows") }
func (emptyRows) Close() error      { return nil }

// tx runs statements directly against the provider; writes are not staged.
type tx struct {
	provider interfaces.StorageProvider
}

func (t *tx) Query(ctx context.Context, query string, args ...any) (interfaces.Rows, error) {
	return t.provider.Query(ctx, query, args...)
}

func (t *tx) Exec(ctx context.Context, query string, args ...any) (interfaces.Result, error) {
	return t.provider.Exec(ctx, query, args...)
}

func (t *tx) Transaction(context.Context, func(interfaces.Transaction) error) error {
	return ErrNestedTx
}

func (t *tx) Commit() error   { return nil }
func (t *tx) Rollback() error { return nil }
