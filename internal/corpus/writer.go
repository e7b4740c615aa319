// Package corpus persists accepted line pairs as an append-only
// tab-separated file, one pair per line, no header.
package corpus

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// Writer appends line pairs to a UTF-8 TSV file. The file is shared across
// all document pairs of a run; pairs from different documents follow each
// other with no separator, in processing order.
type Writer struct {
	f  *os.File
	bw *bufio.Writer
}

// NewWriter opens path in append mode, creating the file and its parent
// directory when missing.
func NewWriter(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}

	return &Writer{f: f, bw: bufio.NewWriter(f)}, nil
}

// WritePair appends one "src<TAB>ref<NL>" record.
func (w *Writer) WritePair(src, ref string) error {
	if _, err := fmt.Fprintf(w.bw, "%s\t%s\n", src, ref); err != nil {
		return fmt.Errorf("append pair: %w", err)
	}
	return nil
}

// Close flushes buffered pairs and closes the underlying file.
func (w *Writer) Close() error {
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("flush corpus file: %w", err)
	}
	return w.f.Close()
}
