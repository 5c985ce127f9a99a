package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherDetectsChartWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	w, err := NewWatcher(dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "subject.toml")
	if err := os.WriteFile(path, []byte(vimsottariOnlyChart), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case change := <-w.Changes:
		if change.Kind != ChangeModified {
			t.Errorf("change.Kind = %v, want ChangeModified", change.Kind)
		}
		if change.File != path {
			t.Errorf("change.File = %q, want %q", change.File, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcherIgnoresNonChartFiles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	w, err := NewWatcher(dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case change := <-w.Changes:
		t.Fatalf("unexpected change for non-chart file: %+v", change)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherReportsRemoval(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "subject.toml")
	if err := os.WriteFile(path, []byte(vimsottariOnlyChart), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w, err := NewWatcher(dir, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	select {
	case change := <-w.Changes:
		if change.Kind != ChangeRemoved {
			t.Errorf("change.Kind = %v, want ChangeRemoved", change.Kind)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for removal")
	}
}

func TestIsChartFile(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		want bool
	}{
		{"subject.toml", true},
		{"/abs/dir/subject.toml", true},
		{"notes.txt", false},
		{".hidden.toml", false},
		{"subject.toml.bak", false},
	}
	for _, tc := range cases {
		if got := isChartFile(tc.name); got != tc.want {
			t.Errorf("isChartFile(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
