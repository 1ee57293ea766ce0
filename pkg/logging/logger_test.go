package logging

import "testing"

func TestNewLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
		if logger := New(level); logger == nil || logger.Logger == nil {
			t.Fatalf("New(%q) returned nil logger", level)
		}
	}
}

func TestPretty(t *testing.T) {
	if logger := New("info", Pretty()); logger == nil {
		t.Fatal("New with Pretty() returned nil")
	}
}

func TestWith(t *testing.T) {
	parent := Default()
	child := parent.With("session_id", "abc")
	if child == nil || child.Logger == parent.Logger {
		t.Fatal("With should return a distinct child logger")
	}
}
