package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"git.lost.host/meutraa/vsrg/internal/render"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Frame is what was drawn at one point of the chart
type Frame struct {
	Index  uint64      `json:"index"`
	TimeMs float64     `json:"time_ms"`
	Rate   float64     `json:"rate"`
	Ops    []render.Op `json:"ops"`
}

type Compression string

const (
	None   Compression = ""
	Zstd   Compression = "zstd"
	Snappy Compression = "snappy"
)

// CompressionFor picks the stream compression from the file extension
func CompressionFor(path string) Compression {
	switch filepath.Ext(path) {
	case ".zst":
		return Zstd
	case ".sz":
		return Snappy
	}
	return None
}

// Writer appends frames as JSON lines to a possibly compressed file
type Writer struct {
	mu     sync.Mutex
	file   *os.File
	stream io.WriteCloser
	buffer *bufio.Writer
	next   uint64
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if nil != err {
		return nil, fmt.Errorf("unable to create trace file: %w", err)
	}

	var stream io.WriteCloser
	switch CompressionFor(path) {
	case Zstd:
		encoder, err := zstd.NewWriter(file)
		if nil != err {
			file.Close()
			return nil, fmt.Errorf("unable to create zstd stream: %w", err)
		}
		stream = encoder
	case Snappy:
		stream = snappy.NewBufferedWriter(file)
	default:
		stream = nopCloser{file}
	}

	return &Writer{
		file:   file,
		stream: stream,
		buffer: bufio.NewWriter(stream),
	}, nil
}

// WriteFrame records ops, which may be reused by the caller afterwards
func (w *Writer) WriteFrame(timeMs, rate float64, ops []render.Op) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	frame := Frame{Index: w.next, TimeMs: timeMs, Rate: rate, Ops: ops}
	data, err := json.Marshal(frame)
	if nil != err {
		return fmt.Errorf("unable to encode frame %v: %w", w.next, err)
	}
	data = append(data, '\n')
	if _, err := w.buffer.Write(data); nil != err {
		return fmt.Errorf("unable to write frame %v: %w", w.next, err)
	}
	w.next++
	return nil
}

// Frames returns how many frames have been written
func (w *Writer) Frames() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.next
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if nil == w.file {
		return nil
	}
	var firstErr error
	if err := w.buffer.Flush(); nil != err {
		firstErr = err
	}
	if err := w.stream.Close(); nil != err && nil == firstErr {
		firstErr = err
	}
	if err := w.file.Close(); nil != err && nil == firstErr {
		firstErr = err
	}
	w.file = nil
	return firstErr
}
