package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"bare tilde", "~", home},
		{"tilde slash", "~/state.db", filepath.Join(home, "state.db")},
		{"absolute path untouched", "/var/lib/state.db", "/var/lib/state.db"},
		{"relative path untouched", "state.db", "state.db"},
		{"tilde user form untouched", "~root/state.db", "~root/state.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTilde(tt.path); got != tt.expected {
				t.Errorf("ExpandTilde(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestAtomicWriteFile(t *testing.T) {
	t.Run("creates new file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		if err := AtomicWriteFile(path, []byte("hello"), 0644); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read back: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("expected %q, got %q", "hello", string(data))
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := AtomicWriteFile(path, []byte("new"), 0644); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != "new" {
			t.Errorf("expected %q, got %q", "new", string(data))
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.txt")
		if err := AtomicWriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected exactly one file in dir, got %d", len(entries))
		}
	})
}
