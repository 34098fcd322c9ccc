package uuid

import "testing"

func TestNewIDUnique(t *testing.T) {
	gen := NewGenerator()
	a, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	b, err := gen.NewID()
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	if a == b {
		t.Fatalf("expected unique IDs, got %q twice", a)
	}
	if len(a) != 36 {
		t.Fatalf("unexpected ID format %q", a)
	}
}
