package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// AssetSource lists theme assets and reads them by listed name. Names are
// relative to the output root ("assets/css/site.css").
type AssetSource interface {
	AssetFiles() ([]string, error)
	ReadAsset(name string) ([]byte, error)
}

type assetCopySummary struct {
	Built   int
	Skipped int
}

// copyAssets copies theme assets and then the public directory, so public
// files win when both provide the same path.
func (s *service) copyAssets(ctx context.Context, writer artifactWriter, manifest *buildManifest) (assetCopySummary, error) {
	summary := assetCopySummary{}
	dirCache := map[string]struct{}{}

	if s.deps.Assets != nil {
		names, err := s.deps.Assets.AssetFiles()
		if err != nil {
			return summary, fmt.Errorf("generator: list theme assets: %w", err)
		}
		for _, name := range names {
			data, err := s.deps.Assets.ReadAsset(name)
			if err != nil {
				return summary, fmt.Errorf("generator: read asset %s: %w", name, err)
			}
			if err := s.writeAsset(ctx, writer, manifest, dirCache, &summary, name, data); err != nil {
				return summary, err
			}
		}
	}

	if s.deps.Public != nil {
		err := fs.WalkDir(s.deps.Public, ".", func(name string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				return nil
			}
			data, err := fs.ReadFile(s.deps.Public, name)
			if err != nil {
				return err
			}
			return s.writeAsset(ctx, writer, manifest, dirCache, &summary, name, data)
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return summary, fmt.Errorf("generator: copy public files: %w", err)
		}
	}
	return summary, nil
}

func (s *service) writeAsset(
	ctx context.Context,
	writer artifactWriter,
	manifest *buildManifest,
	dirCache map[string]struct{},
	summary *assetCopySummary,
	name string,
	data []byte,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rel := strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
	if rel == "" {
		return nil
	}
	fullPath := joinOutputPath(s.outputDir(), rel)
	checksum := computeHash(data)
	if s.cfg.Incremental && manifest.shouldSkipAsset(fullPath, checksum) {
		summary.Skipped++
		return nil
	}
	if err := ensureDir(ctx, writer, dirCache, path.Dir(fullPath)); err != nil {
		return err
	}
	err := writer.WriteFile(ctx, writeFileRequest{
		Path:        fullPath,
		Content:     bytes.NewReader(data),
		Size:        int64(len(data)),
		Category:    categoryAsset,
		ContentType: detectAssetContentType(rel),
		Checksum:    checksum,
		Metadata:    map[string]string{"asset": rel},
	})
	if err != nil {
		return err
	}
	summary.Built++
	manifest.setAsset(manifestAsset{
		Source:   name,
		Output:   fullPath,
		Checksum: checksum,
		Size:     int64(len(data)),
		CopiedAt: s.now(),
	})
	return nil
}

func detectAssetContentType(asset string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(asset), "."))
	switch ext {
	case "css":
		return "text/css"
	case "js":
		return "application/javascript"
	case "json":
		return "application/json"
	case "svg":
		return "image/svg+xml"
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "ico":
		return "image/x-icon"
	case "txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
