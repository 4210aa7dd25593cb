package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger appends leveled messages to a per-run log file. It shares the
// console logger's format without colorization.
type FileLogger struct {
	file     *os.File
	logLevel string
	mutex    sync.Mutex
}

// NewFileLogger creates a log file named after the run ID under dir,
// creating the directory when needed.
func NewFileLogger(dir, runID, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run-%s.log", runID))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &FileLogger{file: file, logLevel: normalizeLogLevel(logLevel)}, nil
}

// Path returns the log file path.
func (fl *FileLogger) Path() string {
	return fl.file.Name()
}

// Close flushes and closes the log file.
func (fl *FileLogger) Close() error {
	return fl.file.Close()
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.log("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.log("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.log("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.log("ERROR", message)
}

func (fl *FileLogger) log(level, message string) {
	if logLevelToInt(normalizeLogLevel(level)) < logLevelToInt(fl.logLevel) {
		return
	}

	fl.mutex.Lock()
	defer fl.mutex.Unlock()

	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(fl.file, "[%s] [%s] %s\n", ts, level, message)
}
