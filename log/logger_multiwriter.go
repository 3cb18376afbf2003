package log

import (
	"errors"
	"fmt"
	"io"
)

var (
	errWriterAlreadyLoaded = errors.New("io.Writer already loaded")
	errWriterNotFound      = errors.New("io.Writer not found")
)

// MultiWriter returns a writer duplicating each write to every writer
func MultiWriter(writers ...io.Writer) (*multiWriter, error) {
	mw := &multiWriter{}
	for _, w := range writers {
		if err := mw.Add(w); err != nil {
			return nil, err
		}
	}
	return mw, nil
}

// Add registers a writer, each writer may only be added once
func (mw *multiWriter) Add(writer io.Writer) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	for _, w := range mw.writers {
		if w == writer {
			return errWriterAlreadyLoaded
		}
	}
	mw.writers = append(mw.writers, writer)
	return nil
}

// Remove unregisters a writer
func (mw *multiWriter) Remove(writer io.Writer) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	for i, w := range mw.writers {
		if w == writer {
			mw.writers = append(mw.writers[:i], mw.writers[i+1:]...)
			return nil
		}
	}
	return errWriterNotFound
}

// Write writes p to every writer in registration order. A failing writer
// does not stop the rest receiving p
func (mw *multiWriter) Write(p []byte) (int, error) {
	mw.mu.RLock()
	defer mw.mu.RUnlock()
	var errs error
	for _, w := range mw.writers {
		n, err := w.Write(p)
		if err == nil && n != len(p) {
			err = io.ErrShortWrite
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%T %w", w, err))
		}
	}
	if errs != nil {
		return 0, errs
	}
	return len(p), nil
}
