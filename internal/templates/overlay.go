package templates

import (
	"io/fs"
	"slices"
	"strings"
)

// overlay serves files from upper when present and from lower otherwise.
// Directory listings merge both layers.
type overlay struct {
	upper fs.FS
	lower fs.FS
}

func (o overlay) Open(name string) (fs.File, error) {
	if o.upper != nil {
		if info, err := fs.Stat(o.upper, name); err == nil && !info.IsDir() {
			return o.upper.Open(name)
		}
	}
	return o.lower.Open(name)
}

func (o overlay) ReadDir(name string) ([]fs.DirEntry, error) {
	lower, lowerErr := fs.ReadDir(o.lower, name)
	if o.upper == nil {
		return lower, lowerErr
	}
	upper, upperErr := fs.ReadDir(o.upper, name)
	if lowerErr != nil && upperErr != nil {
		return nil, lowerErr
	}

	seen := map[string]struct{}{}
	merged := make([]fs.DirEntry, 0, len(lower)+len(upper))
	for _, entry := range append(upper, lower...) {
		if _, ok := seen[entry.Name()]; ok {
			continue
		}
		seen[entry.Name()] = struct{}{}
		merged = append(merged, entry)
	}
	slices.SortFunc(merged, func(a, b fs.DirEntry) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return merged, nil
}

func (o overlay) Stat(name string) (fs.FileInfo, error) {
	if o.upper != nil {
		if info, err := fs.Stat(o.upper, name); err == nil {
			return info, nil
		}
	}
	return fs.Stat(o.lower, name)
}

type emptyFS struct{}

func (emptyFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
}
