package templates

import "testing"

func TestT_NilLocalizer(t *testing.T) {
	got := T(nil, "some.key")
	if got != "some.key" {
		t.Fatalf("T(nil, ...) = %q, want %q", got, "some.key")
	}
}

func TestT_NilLocalizerFormatsArgs(t *testing.T) {
	got := T(nil, "Created: %s", "1/2/2025")
	if got != "Created: 1/2/2025" {
		t.Fatalf("T(nil, ...) = %q", got)
	}
}

func TestT_NilLocalizerNonStringKey(t *testing.T) {
	got := T(nil, 42)
	if got != "" {
		t.Fatalf("T(nil, 42) = %q, want empty", got)
	}
}
