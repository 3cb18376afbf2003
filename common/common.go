package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Vars for common.go operations
var (
	// ErrNilPointer defines an error for a nil pointer
	ErrNilPointer = errors.New("nil pointer")
	// ErrDateUnset is an error for start end check calculations
	ErrDateUnset = errors.New("date unset")
	// ErrStartAfterEnd is returned when the start date is after the end date
	ErrStartAfterEnd = errors.New("start date after end date")
	// ErrStartEqualsEnd is returned when start and end dates are the same
	ErrStartEqualsEnd = errors.New("start date equals end date")
)

// SimpleTimeFormat a common, but non-implemented time format in golang
const SimpleTimeFormat = time.DateTime

// AppendError appends error in a more idiomatic way. This can start out as a
// standard error e.g. err := errors.New("random error")
// err = AppendError(err, errors.New("another random error"))
func AppendError(original, incoming error) error {
	switch {
	case incoming == nil:
		return original
	case original == nil:
		return incoming
	}
	return errors.Join(original, incoming)
}

// StartEndTimeCheck provides some basic checks which occur
// frequently in the codebase
func StartEndTimeCheck(start, end time.Time) error {
	if start.IsZero() || start.Equal(time.Unix(0, 0)) {
		return fmt.Errorf("start %w", ErrDateUnset)
	}
	if end.IsZero() || end.Equal(time.Unix(0, 0)) {
		return fmt.Errorf("end %w", ErrDateUnset)
	}
	if start.After(end) {
		return ErrStartAfterEnd
	}
	if start.Equal(end) {
		return ErrStartEqualsEnd
	}
	return nil
}

// GetDefaultDataDir returns the default data directory
// Windows - C:\Users\%USER%\AppData\Roaming\Newton
// Linux/Unix or OSX - $HOME/.newton
func GetDefaultDataDir(env string) string {
	if env == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "Newton")
	}

	usr, err := os.UserHomeDir()
	if err != nil {
		dir, err := os.Getwd()
		if err != nil {
			return ""
		}
		return filepath.Join(dir, ".newton")
	}
	return filepath.Join(usr, ".newton")
}

// CreateDir creates a directory based on the supplied parameter
func CreateDir(dir string) error {
	_, err := os.Stat(dir)
	if !os.IsNotExist(err) {
		return nil
	}
	return os.MkdirAll(dir, 0o770)
}

// DefaultDataDir returns the data directory for the running OS
func DefaultDataDir() string {
	return GetDefaultDataDir(runtime.GOOS)
}
