package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-newsroom/pkg/interfaces"
)

func newTestFS() fstest.MapFS {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"posts/a.md":        {Data: []byte("---\ntitle: A\n---\n# Heading\n\nbody a\n"), ModTime: now},
		"posts/b.md":        {Data: []byte("---\ntitle: B\n---\nbody b\n"), ModTime: now},
		"posts/broken.md":   {Data: []byte("---\ntitle: [unterminated\n---\nbody\n"), ModTime: now},
		"posts/notes.txt":   {Data: []byte("ignored"), ModTime: now},
		"posts/nested/c.md": {Data: []byte("---\ntitle: C\n---\nbody c\n"), ModTime: now},
	}
}

func TestServiceLoadRendersBody(t *testing.T) {
	svc, err := NewService(Config{FS: newTestFS(), Parser: interfaces.ParseOptions{ShiftHeadings: true}}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	doc, err := svc.Load(context.Background(), "posts/a.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.FrontMatter.Title != "A" {
		t.Fatalf("unexpected title %q", doc.FrontMatter.Title)
	}
	if !strings.Contains(string(doc.BodyHTML), "<h2") {
		t.Fatalf("expected shifted heading, got %q", doc.BodyHTML)
	}
	if len(doc.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(doc.Checksum))
	}
}

func TestServiceCollectReportsIssues(t *testing.T) {
	svc, err := NewService(Config{FS: newTestFS()}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	docs, issues, err := svc.Collect(context.Background(), "posts", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].FilePath != "posts/a.md" || docs[1].FilePath != "posts/b.md" {
		t.Fatalf("expected documents sorted by path, got %s, %s", docs[0].FilePath, docs[1].FilePath)
	}
	if len(issues) != 1 || issues[0].Path != "posts/broken.md" {
		t.Fatalf("expected broken.md issue, got %#v", issues)
	}
}

func TestServiceLoadDirectoryRecursive(t *testing.T) {
	svc, err := NewService(Config{FS: newTestFS()}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	recursive := true
	docs, err := svc.LoadDirectory(context.Background(), "posts", interfaces.LoadOptions{Recursive: &recursive})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
}

func TestServiceLoadDirectoryMissingIsEmpty(t *testing.T) {
	svc, err := NewService(Config{FS: newTestFS()}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	docs, err := svc.LoadDirectory(context.Background(), "pins", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected no documents, got %d", len(docs))
	}
}

func TestServiceRenderHonoursCancellation(t *testing.T) {
	svc, err := NewService(Config{FS: newTestFS()}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Render(ctx, []byte("x"), interfaces.ParseOptions{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestRenderDocumentRejectsNil(t *testing.T) {
	svc, err := NewService(Config{FS: newTestFS()}, nil)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.RenderDocument(context.Background(), nil, interfaces.ParseOptions{}); err == nil {
		t.Fatalf("expected error for nil document")
	}
}
