// ============================================================================
// leitstand - Terminal Dashboard Shell
// ============================================================================
//
// Package:     logging
// Description: FileWriter appends log lines to a file while the terminal UI
//              owns stdout and stderr
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	mdwerror "github.com/msto63/leitstand/foundation/core/error"
)

// FileWriter implements io.Writer on top of an append-only log file
type FileWriter struct {
	path     string
	file     *os.File
	mu       sync.Mutex
	fallback io.Writer
}

// FileWriterConfig holds configuration for FileWriter
type FileWriterConfig struct {
	Path     string    // Log file path; parent directories are created
	Fallback io.Writer // Used once the file fails (default: io.Discard)
}

// NewFileWriter opens (or creates) the log file
func NewFileWriter(cfg FileWriterConfig) (*FileWriter, error) {
	if cfg.Fallback == nil {
		cfg.Fallback = io.Discard
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, mdwerror.Wrap(err, "failed to create log directory").
			WithCode(mdwerror.CodeEnvironmentError).
			WithOperation("logging.NewFileWriter").
			WithDetail("path", cfg.Path)
	}

	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to open log file").
			WithCode(mdwerror.CodeEnvironmentError).
			WithOperation("logging.NewFileWriter").
			WithDetail("path", cfg.Path)
	}

	return &FileWriter{path: cfg.Path, file: file, fallback: cfg.Fallback}, nil
}

// Write implements io.Writer. After a write error the fallback takes over.
func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file != nil {
		n, err := w.file.Write(p)
		if err == nil {
			return n, nil
		}
		_ = w.file.Close()
		w.file = nil
	}
	return w.fallback.Write(p)
}

// Path returns the log file path
func (w *FileWriter) Path() string {
	return w.path
}

// Close closes the log file
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
