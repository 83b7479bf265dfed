package report

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/thisdougb/fleetcheck/internal/analytics"
)

// Writer copies every line to a primary sink and, when set, a secondary one.
type Writer struct {
	primary   io.Writer
	secondary io.Writer
}

// NewWriter returns a Writer. Either sink may be nil.
func NewWriter(primary, secondary io.Writer) *Writer {
	return &Writer{primary: primary, secondary: secondary}
}

// WriteLines writes each line followed by a newline to both sinks.
func (w *Writer) WriteLines(lines []string) error {
	for _, line := range lines {
		for _, sink := range []io.Writer{w.primary, w.secondary} {
			if sink == nil {
				continue
			}
			if _, err := io.WriteString(sink, line+"\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteBuckets renders every bucket in order.
func (w *Writer) WriteBuckets(bs *analytics.Buckets, block BlockFunc) error {
	for _, b := range bs.All() {
		if err := w.WriteLines(block(b)); err != nil {
			return fmt.Errorf("failed to write report for %s: %w", b.Key, err)
		}
	}
	return nil
}

// WriteReport renders buckets to primary and, when path is not empty, to a
// report file at path. The file is truncated first and always closed.
func WriteReport(path string, primary io.Writer, bs *analytics.Buckets, block BlockFunc) (err error) {
	if path == "" {
		return NewWriter(primary, nil).WriteBuckets(bs, block)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close report file: %w", cerr))
		}
	}()

	return NewWriter(primary, f).WriteBuckets(bs, block)
}
