package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var errFileNameUnset = errors.New("log file name unset")

// Rotate is an io.Writer which writes to a file in the log path and moves it
// aside once it grows past MaxSize megabytes
type Rotate struct {
	FileName string
	Rotate   *bool
	MaxSize  int64

	size   int64
	output *os.File
	mu     sync.Mutex
}

// Write implements io.Writer
func (r *Rotate) Write(output []byte) (n int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.output == nil {
		if err = r.openOrCreate(); err != nil {
			return 0, err
		}
	}
	if r.Rotate != nil && *r.Rotate {
		maxSize := r.MaxSize
		if maxSize <= 0 {
			maxSize = DefaultMaxFileSize
		}
		if r.size+int64(len(output)) > maxSize*1024*1024 {
			if err = r.rotate(); err != nil {
				return 0, err
			}
		}
	}
	n, err = r.output.Write(output)
	r.size += int64(n)
	return n, err
}

func (r *Rotate) openOrCreate() error {
	if r.FileName == "" {
		return errFileNameUnset
	}
	f, err := os.OpenFile(filepath.Join(logPath, r.FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		return err
	}
	r.output = f
	r.size = info.Size()
	return nil
}

func (r *Rotate) rotate() error {
	if err := r.output.Close(); err != nil {
		return err
	}
	r.output = nil
	current := filepath.Join(logPath, r.FileName)
	moved := filepath.Join(logPath, fmt.Sprintf("%s-%s", time.Now().Format("2006-01-02T15-04-05"), r.FileName))
	if err := os.Rename(current, moved); err != nil {
		return err
	}
	return r.openOrCreate()
}

// Close closes the underlying file
func (r *Rotate) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.output == nil {
		return nil
	}
	err := r.output.Close()
	r.output = nil
	return err
}
