package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aluiziolira/go-game-deals/models"
)

// MultiWriter fans every batch out to several writers, in order.
type MultiWriter struct {
	names   []string
	writers []OutputWriter
	mu      sync.Mutex
}

// NewMultiWriter pairs each writer with a name used in error messages.
func NewMultiWriter(names []string, writers ...OutputWriter) *MultiWriter {
	return &MultiWriter{names: names, writers: writers}
}

// NewDualWriter exports the same rows as CSV and JSONL.
func NewDualWriter(csvFilename, jsonFilename string) (*MultiWriter, error) {
	csvWriter, err := NewCSVWriter(csvFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV writer: %w", err)
	}
	jsonWriter, err := NewJSONWriter(jsonFilename)
	if err != nil {
		csvWriter.Close()
		return nil, fmt.Errorf("failed to create JSON writer: %w", err)
	}
	return NewMultiWriter([]string{"CSV", "JSON"}, csvWriter, jsonWriter), nil
}

func (mw *MultiWriter) name(i int) string {
	if i < len(mw.names) {
		return mw.names[i]
	}
	return fmt.Sprintf("writer %d", i)
}

// Write stops at the first writer that fails.
func (mw *MultiWriter) Write(records []*models.GameRecord) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	for i, w := range mw.writers {
		if err := w.Write(records); err != nil {
			return fmt.Errorf("%s write failed: %w", mw.name(i), err)
		}
	}
	return nil
}

// Close closes every writer and joins their errors.
func (mw *MultiWriter) Close() error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	var errs []error
	for i, w := range mw.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s close failed: %w", mw.name(i), err))
		}
	}
	return errors.Join(errs...)
}

// Validate validates every output.
func (mw *MultiWriter) Validate() error {
	var errs []error
	for i, w := range mw.writers {
		if err := w.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s validation failed: %w", mw.name(i), err))
		}
	}
	return errors.Join(errs...)
}
