package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGenerateLogFilename(t *testing.T) {
	got := GenerateLogFilename(time.Date(2026, 3, 5, 9, 51, 5, 123000000, time.UTC))
	if got != "spokeops-20260305-095105-123.log" {
		t.Fatalf("unexpected filename: %s", got)
	}
	got = GenerateLogFilename(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if got != "spokeops-20260101-000000-000.log" {
		t.Fatalf("unexpected midnight filename: %s", got)
	}
}

func TestNewLogFileDestinations(t *testing.T) {
	dir := t.TempDir()

	t.Run("none discards", func(t *testing.T) {
		lf, err := NewLogFile(&LogConfig{Output: "none", Dir: dir})
		if err != nil {
			t.Fatalf("NewLogFile: %v", err)
		}
		defer lf.Close()
		if lf.Path != "" || lf.Writer() == nil {
			t.Fatalf("none destination should have no path and a writer: %+v", lf)
		}
	})

	t.Run("dash is stderr", func(t *testing.T) {
		lf, err := NewLogFile(&LogConfig{Output: "-", Dir: dir})
		if err != nil {
			t.Fatalf("NewLogFile: %v", err)
		}
		defer lf.Close()
		if lf.Writer() != os.Stderr || lf.Path != "" {
			t.Fatalf("dash destination should write to stderr: %+v", lf)
		}
	})

	t.Run("empty picks dated file in dir", func(t *testing.T) {
		lf, err := NewLogFile(&LogConfig{Dir: dir})
		if err != nil {
			t.Fatalf("NewLogFile: %v", err)
		}
		defer lf.Close()
		if filepath.Dir(lf.Path) != dir {
			t.Fatalf("expected file under %s, got %s", dir, lf.Path)
		}
		if _, err := os.Stat(lf.Path); err != nil {
			t.Fatalf("log file not created: %v", err)
		}
	})

	t.Run("relative path joins dir", func(t *testing.T) {
		lf, err := NewLogFile(&LogConfig{Output: "run.log", Dir: dir})
		if err != nil {
			t.Fatalf("NewLogFile: %v", err)
		}
		defer lf.Close()
		if lf.Path != filepath.Join(dir, "run.log") {
			t.Fatalf("unexpected path: %s", lf.Path)
		}
	})

	t.Run("absolute path wins", func(t *testing.T) {
		abs := filepath.Join(dir, "abs.log")
		lf, err := NewLogFile(&LogConfig{Output: abs, Dir: "/elsewhere"})
		if err != nil {
			t.Fatalf("NewLogFile: %v", err)
		}
		defer lf.Close()
		if lf.Path != abs {
			t.Fatalf("unexpected path: %s", lf.Path)
		}
	})
}

func TestCleanupOldLogFiles(t *testing.T) {
	dir := t.TempDir()
	stale := time.Now().AddDate(0, 0, -10)
	fresh := time.Now().AddDate(0, 0, -3)

	write := func(name string, mtime time.Time) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
		return path
	}

	old := write("spokeops-20260801-120000-000.log", stale)
	kept := write("spokeops-20260827-120000-000.log", fresh)
	other := write("other.log", stale)

	if err := CleanupOldLogFiles(dir, 7); err != nil {
		t.Fatalf("CleanupOldLogFiles: %v", err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatalf("stale log should be removed: %s", old)
	}
	for _, p := range []string{kept, other} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("file should survive cleanup: %s", p)
		}
	}
}

func TestCleanupOldLogFilesEdgeCases(t *testing.T) {
	if err := CleanupOldLogFiles(filepath.Join(t.TempDir(), "missing"), 7); err != nil {
		t.Fatalf("missing dir should not error: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "spokeops-20260801-120000-000.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CleanupOldLogFiles(dir, 0); err != nil {
		t.Fatalf("zero retention should be a no-op: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("zero retention must not delete: %v", err)
	}
}
