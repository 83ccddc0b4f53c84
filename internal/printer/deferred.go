package printer

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter buffers writes until Flush. Used while the editor owns the
// terminal. Safe for concurrent use.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write stores p in the buffer.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Write(p)
}

// Flush writes buffered output to w and clears the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.buf.Len() == 0 {
		return nil
	}

	_, err := d.buf.WriteTo(w)
	return err
}

// Deferred returns a printer whose output is held until the returned
// writer is flushed.
func Deferred() (*Printer, *DeferredWriter) {
	dw := &DeferredWriter{}
	return New(dw), dw
}
