package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LogConfig selects where file logging goes.
type LogConfig struct {
	// Output is a path relative to Dir, an absolute path, "-" for stderr,
	// or "none" to discard. Empty picks a dated filename under Dir.
	Output string
	// Dir is the log directory, normally $SPOKEOPS_DIR/logs.
	Dir string
}

// LogFile is an open log destination. Path is empty when the destination
// is not a regular file.
type LogFile struct {
	Path   string
	file   *os.File
	writer io.Writer
}

// path resolves the file path for the destination, or "" for non-file
// destinations.
func (c *LogConfig) path() string {
	switch out := strings.ToLower(c.Output); out {
	case "none", "-":
		return ""
	case "":
		return filepath.Join(c.Dir, GenerateLogFilename(time.Now().UTC()))
	default:
		if filepath.IsAbs(c.Output) {
			return c.Output
		}
		return filepath.Join(c.Dir, c.Output)
	}
}

// NewLogFile opens the destination described by cfg. File destinations are
// opened in append mode so concurrent invocations interleave rather than
// truncate.
func NewLogFile(cfg *LogConfig) (*LogFile, error) {
	switch strings.ToLower(cfg.Output) {
	case "none":
		return &LogFile{writer: io.Discard}, nil
	case "-":
		return &LogFile{writer: os.Stderr}, nil
	}

	path := cfg.path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}
	return &LogFile{Path: path, file: f, writer: f}, nil
}

// Writer returns the destination writer.
func (lf *LogFile) Writer() io.Writer { return lf.writer }

// Close closes the underlying file when one was opened.
func (lf *LogFile) Close() error {
	if lf.file != nil {
		return lf.file.Close()
	}
	return nil
}

// GenerateLogFilename returns "spokeops-YYYYMMDD-HHMMSS-sss.log" for t,
// where sss is milliseconds.
func GenerateLogFilename(t time.Time) string {
	return fmt.Sprintf("spokeops-%s-%03d.log", t.Format("20060102-150405"), t.Nanosecond()/1_000_000)
}

// CleanupOldLogFiles removes spokeops-*.log files older than retentionDays
// from dir. A missing directory and unremovable files are not errors.
func CleanupOldLogFiles(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "spokeops-") || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
	return nil
}
