// Package progress tracks bytes moved while streaming pack data between
// ibundle files, staged bundles, and git subprocesses.
package progress

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Reader counts the bytes read through it.
type Reader struct {
	reader io.Reader

	mu    sync.RWMutex
	total int64
	delta int64
}

// NewReader wraps r with byte accounting.
func NewReader(r io.Reader) *Reader {
	return &Reader{reader: r}
}

// Read wraps [io.Reader.Read] with byte accounting.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.total += int64(n)
	r.delta += int64(n)
	return n, err
}

// Progress returns the running total and the bytes moved since the last
// call.
func (r *Reader) Progress() (total, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delta = r.delta
	r.delta = 0
	return r.total, delta
}

// Total returns the running total.
func (r *Reader) Total() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total
}

// reportInterval paces transfer logging.
const reportInterval = 2 * time.Second

// Copy streams src into dst, logging the transferred byte count under label
// while the copy is in flight and returning the final total.
func Copy(ctx context.Context, dst io.Writer, src io.Reader, label string) (int64, error) {
	pr := NewReader(src)

	done := make(chan struct{})
	go func() {
		t := time.NewTicker(reportInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-t.C:
				total, delta := pr.Progress()
				if delta > 0 {
					slog.DebugContext(ctx, "transferring", slog.String("what", label), slog.Int64("bytes", total))
				}
			}
		}
	}()
	defer close(done)

	n, err := io.Copy(dst, pr)
	if err != nil {
		return n, err
	}
	return n, nil
}
