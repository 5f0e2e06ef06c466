package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// RotatingWriter appends to one log file per ISO week and starts a numbered
// continuation file when the current one exceeds maxFileSize. Old files are
// removed by CleanupOldLogs after the retention window.
type RotatingWriter struct {
	logDir      string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	currentFile *os.File
	currentWeek string
	currentSize int64
	sequence    int
}

// NewRotatingWriter creates a writer rooted at logDir. The directory must
// already exist.
func NewRotatingWriter(logDir string, retentionWeeks int, maxFileSize int64) *RotatingWriter {
	return &RotatingWriter{
		logDir:      logDir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
	}
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

func (rw *RotatingWriter) fileName() string {
	if rw.sequence == 0 {
		return fmt.Sprintf("app-%s.log", rw.currentWeek)
	}
	return fmt.Sprintf("app-%s_%02d.log", rw.currentWeek, rw.sequence)
}

// rotate opens the file for the given week, continuing an existing file when
// it still has room. Caller must hold the lock.
func (rw *RotatingWriter) rotate(week string) error {
	if rw.currentFile != nil {
		if err := rw.currentFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log file during rotation: %v\n", err)
		}
		rw.currentFile = nil
	}

	if week != rw.currentWeek {
		rw.currentWeek = week
		rw.sequence = 0
	} else {
		rw.sequence++
	}

	path := filepath.Join(rw.logDir, rw.fileName())
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rw.currentFile = file
	rw.currentSize = 0
	if info, err := file.Stat(); err == nil {
		rw.currentSize = info.Size()
	}

	// Resumed file already full, move straight to the next sequence number
	if rw.maxFileSize > 0 && rw.currentSize >= rw.maxFileSize {
		return rw.rotate(week)
	}

	return nil
}

// Write appends to the current week's log file, rotating first if needed.
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	week := weekKey(time.Now())
	needsRotation := rw.currentFile == nil || week != rw.currentWeek
	if !needsRotation && rw.maxFileSize > 0 && rw.currentSize+int64(len(p)) > rw.maxFileSize {
		needsRotation = true
	}

	if needsRotation {
		if err := rw.rotate(week); err != nil {
			return 0, err
		}
	}

	n, err := rw.currentFile.Write(p)
	rw.currentSize += int64(n)
	return n, err
}

// CleanupOldLogs removes app-*.log files past the retention window and
// returns how many it deleted.
func (rw *RotatingWriter) CleanupOldLogs() (int, error) {
	entries, err := os.ReadDir(rw.logDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().Add(-rw.retention)
	deleted := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "app-") || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(rw.logDir, entry.Name())); err == nil {
				deleted++
			}
		}
	}

	return deleted, nil
}

// Close closes the current log file.
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.currentFile != nil {
		err := rw.currentFile.Close()
		rw.currentFile = nil
		return err
	}
	return nil
}

// SetupLogger configures slog to write text to the console and JSON to a
// rotating file under logDir. If the directory cannot be created it degrades
// to console-only logging.
func SetupLogger(logDir string, retentionWeeks int, maxFileSize int64) *slog.Logger {
	consoleHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger := slog.New(consoleHandler)
		logger.Error("Failed to create logs directory, logging to console only", "error", err)
		return logger
	}

	writer := NewRotatingWriter(logDir, retentionWeeks, maxFileSize)

	// Daily retention sweep
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if deleted, err := writer.CleanupOldLogs(); err != nil {
				slog.Warn("Failed to clean up old log files", "error", err)
			} else if deleted > 0 {
				slog.Info("Cleaned up old log files", "deleted", deleted)
			}
		}
	}()

	fileHandler := slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	return slog.New(newTeeHandler(consoleHandler, fileHandler))
}
