package logging

import (
	"io"
	"sync"
	"sync/atomic"
)

// AsyncWriter hands log lines to a background goroutine. Write never blocks:
// when the buffer is full the line is dropped and counted.
type AsyncWriter struct {
	out     io.Writer
	lines   chan []byte
	done    chan struct{}
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// NewAsyncWriter starts the drain goroutine. size is the number of buffered lines.
func NewAsyncWriter(out io.Writer, size int) *AsyncWriter {
	if size <= 0 {
		size = 256
	}
	w := &AsyncWriter{
		out:   out,
		lines: make(chan []byte, size),
		done:  make(chan struct{}),
	}
	go w.drain()
	return w
}

func (w *AsyncWriter) drain() {
	defer close(w.done)
	for line := range w.lines {
		// a failing sink must not stop the drain
		_, _ = w.out.Write(line)
	}
}

func (w *AsyncWriter) Write(p []byte) (int, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.dropped.Add(1)
		return len(p), nil
	}
	line := make([]byte, len(p))
	copy(line, p)
	select {
	case w.lines <- line:
	default:
		w.dropped.Add(1)
	}
	return len(p), nil
}

// Dropped reports how many lines were discarded.
func (w *AsyncWriter) Dropped() int64 { return w.dropped.Load() }

// Close flushes buffered lines and stops the drain goroutine.
func (w *AsyncWriter) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.lines)
	w.mu.Unlock()
	<-w.done
	return nil
}
