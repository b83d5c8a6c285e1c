package output

import (
	"bufio"
	"io"
	"sync"

	"github.com/goccy/go-json"
)

// JSONLWriter streams one Record per line as results arrive.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
	mu  sync.Mutex
}

// NewJSONLWriter wraps an io.Writer with buffering.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{w: bw, enc: enc}
}

// Write writes a single record as a JSON line. Safe for concurrent use.
func (j *JSONLWriter) Write(rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(rec)
}

// Flush flushes the underlying buffer.
func (j *JSONLWriter) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.w.Flush()
}

// Close flushes the buffer; keep the signature similar to io.Closer.
func (j *JSONLWriter) Close() error {
	return j.Flush()
}
