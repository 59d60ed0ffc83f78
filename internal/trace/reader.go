package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// ReadFrames loads every frame of a trace written by Writer
func ReadFrames(path string) ([]Frame, error) {
	file, err := os.Open(path)
	if nil != err {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader = file
	switch CompressionFor(path) {
	case Zstd:
		decoder, err := zstd.NewReader(file)
		if nil != err {
			return nil, fmt.Errorf("unable to open zstd stream: %w", err)
		}
		defer decoder.Close()
		reader = decoder
	case Snappy:
		reader = snappy.NewReader(file)
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	frames := []Frame{}
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var frame Frame
		if err := json.Unmarshal(scanner.Bytes(), &frame); nil != err {
			return nil, fmt.Errorf("unable to decode frame %v: %w", len(frames), err)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); nil != err {
		return nil, err
	}
	return frames, nil
}
