package uuid

import (
	"testing"

	googleuuid "github.com/google/uuid"
)

func TestNewIsVersion7(t *testing.T) {
	id := New()
	parsed, err := googleuuid.Parse(id)
	if err != nil {
		t.Fatalf("New returned an invalid uuid %q: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("expected version 7, got %d", parsed.Version())
	}
}

func TestFromHeader(t *testing.T) {
	supplied := "0190b6d2-9f1a-7c3e-8a45-2b6f0c1d9e7a"
	if got := FromHeader(supplied); got != supplied {
		t.Errorf("expected supplied id to be kept, got %q", got)
	}
	if got := FromHeader("not-a-uuid"); got == "not-a-uuid" || !IsValid(got) {
		t.Errorf("expected a fresh id for invalid input, got %q", got)
	}
	if got := FromHeader(""); !IsValid(got) {
		t.Errorf("expected a fresh id for empty input, got %q", got)
	}
}
