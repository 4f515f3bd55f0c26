package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := UUID("newsroom:post:posts:port-blast")
	second := UUID("newsroom:post:posts:port-blast")
	if first != second {
		t.Fatalf("expected stable uuid, got %s and %s", first, second)
	}
	if first == uuid.Nil {
		t.Fatalf("expected non-nil uuid")
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key, got %s", got)
	}
}

func TestPostUUIDSeparatesCollections(t *testing.T) {
	post := PostUUID("posts", "port-blast")
	pin := PostUUID("pins", "port-blast")
	if post == pin {
		t.Fatalf("expected different ids per collection")
	}
	if PostUUID(" Posts ", "port-blast") != post {
		t.Fatalf("expected collection name to be normalised")
	}
}
