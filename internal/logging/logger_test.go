package logging

import "testing"

func TestNewDevelopment(t *testing.T) {
	logger, err := New(true)
	if err != nil {
		t.Fatalf("New(true) error = %v", err)
	}
	if logger == nil {
		t.Fatal("expected a logger")
	}
}

func TestNewProduction(t *testing.T) {
	logger, err := New(false)
	if err != nil {
		t.Fatalf("New(false) error = %v", err)
	}
	if logger == nil {
		t.Fatal("expected a logger")
	}
}
