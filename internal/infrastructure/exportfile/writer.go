package exportfile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	appexport "github.com/pimsync/connector/internal/application/export"
	"github.com/pimsync/connector/internal/domain/magento"
)

// Record kinds written to the output stream.
const (
	kindAttribute = "attribute"
	kindProduct   = "product"
)

type line struct {
	Kind   string                   `json:"kind"`
	Code   string                   `json:"code,omitempty"`
	Record *magento.AttributeRecord `json:"record,omitempty"`
	Row    magento.Row              `json:"row,omitempty"`
}

// Writer streams export records as newline-delimited JSON. It buffers writes;
// callers must Close to flush.
type Writer struct {
	out io.Writer
	buf *bufio.Writer
	c   io.Closer
}

// Open creates a writer on the given path. "-" writes to stdout.
func Open(path string) (*Writer, error) {
	if path == "-" {
		return New(os.Stdout), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open export output: %w", err)
	}
	w := New(f)
	w.c = f
	return w, nil
}

// New creates a writer on an arbitrary stream.
func New(out io.Writer) *Writer {
	return &Writer{out: out, buf: bufio.NewWriter(out)}
}

// WriteAttribute emits one platform attribute payload under its code.
func (w *Writer) WriteAttribute(_ context.Context, code string, record *magento.AttributeRecord) error {
	return w.write(line{Kind: kindAttribute, Code: code, Record: record})
}

// WriteRow emits one flat product record.
func (w *Writer) WriteRow(_ context.Context, row magento.Row) error {
	return w.write(line{Kind: kindProduct, Row: row})
}

func (w *Writer) write(l line) error {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode export record: %w", err)
	}
	if _, err := w.buf.Write(raw); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

// Close flushes buffered records and closes the underlying file, if any.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return err
	}
	if w.c != nil {
		return w.c.Close()
	}
	return nil
}

// Ensure Writer implements the export writer contract
var _ appexport.Writer = (*Writer)(nil)
