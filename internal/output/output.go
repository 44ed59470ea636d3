// Package output persists per-event tables.
package output

import (
	"errors"

	"github.com/decibelcooper/hcreco/internal/sink"
)

// Record holds the tables produced for one event.
type Record struct {
	Run, Event int64
	Tables     []sink.Table
}

// Writer consumes records in event order.
type Writer interface {
	Write(rec Record) error
	Close() error
}

// Multi writes each record to every writer.
type Multi []Writer

func (m Multi) Write(rec Record) error {
	for _, w := range m {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var errs []error
	for _, w := range m {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}
