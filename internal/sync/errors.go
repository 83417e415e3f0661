package sync

import (
	"errors"
	"fmt"
)

// ErrSourceNotFound is returned when the AppImage to register does not exist
var ErrSourceNotFound = errors.New("source file not found")

// StagingError reports a failure while installing the executable
type StagingError struct {
	Op   string // "mkdir", "chmod" or "copy"
	Path string
	Err  error
}

func (e *StagingError) Error() string {
	return fmt.Sprintf("couldn't %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StagingError) Unwrap() error {
	return e.Err
}

// IconDegradedError reports an icon that could not be copied.
// It never aborts a registration; the original icon path is used instead.
type IconDegradedError struct {
	Path string
	Err  error
}

func (e *IconDegradedError) Error() string {
	return fmt.Sprintf("couldn't copy icon %s: %v", e.Path, e.Err)
}

func (e *IconDegradedError) Unwrap() error {
	return e.Err
}

// DescriptorWriteError reports a failure writing the desktop entry.
// The executable has already been installed when this is returned.
type DescriptorWriteError struct {
	Path string
	Err  error
}

func (e *DescriptorWriteError) Error() string {
	return fmt.Sprintf("couldn't write desktop file %s: %v", e.Path, e.Err)
}

func (e *DescriptorWriteError) Unwrap() error {
	return e.Err
}
