// Package fileutil provides file system utilities.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// AtomicFile is written to a temporary file in the target's directory and
// only appears under its final name on Commit. Readers see either the old
// file or the complete new one.
type AtomicFile struct {
	*os.File
	target string
	perm   os.FileMode
	done   bool
}

// CreateAtomic starts writing filename. Call Commit to publish it or Abort
// to throw it away; Abort after Commit is a no-op, so it can be deferred.
func CreateAtomic(filename string, perm os.FileMode) (*AtomicFile, error) {
	// same directory so the rename stays on one filesystem
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".tmp.*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &AtomicFile{File: tmp, target: filename, perm: perm}, nil
}

// Commit syncs the data and renames the temporary file into place.
func (f *AtomicFile) Commit() error {
	if f.done {
		return errors.New("fileutil: file already committed or aborted")
	}
	f.done = true
	tmpPath := f.Name()

	if err := f.Sync(); err != nil {
		f.cleanup()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, f.perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, f.target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Abort removes the temporary file unless it was already committed.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.cleanup()
}

func (f *AtomicFile) cleanup() {
	f.Close()
	os.Remove(f.Name())
}

// WriteFileAtomic writes data to filename in one step.
func WriteFileAtomic(filename string, data []byte, perm os.FileMode) error {
	f, err := CreateAtomic(filename, perm)
	if err != nil {
		return err
	}
	defer f.Abort()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	return f.Commit()
}
