package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

var ErrUnsupportedFormat = errors.New("unsupported audio format")

// IsAudioFile reports whether Decode understands the file extension
func IsAudioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".mp3", ".ogg":
		return true
	}
	return false
}

// Decode opens an audio file, choosing the decoder by extension. Closing
// the returned streamer closes the file.
func Decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	if !IsAudioFile(path) {
		return nil, beep.Format{}, fmt.Errorf("%v: %w", path, ErrUnsupportedFormat)
	}

	f, err := os.Open(path)
	if nil != err {
		return nil, beep.Format{}, fmt.Errorf("unable to open audio file: %w", err)
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unable to decode %v: %w", path, err)
	}
	return streamer, format, nil
}

// Duration of the whole stream, false if the decoder does not know it
func Duration(s beep.StreamSeeker, format beep.Format) (time.Duration, bool) {
	if s.Len() <= 0 || format.SampleRate <= 0 {
		return 0, false
	}
	return format.SampleRate.D(s.Len()), true
}

// skip advances s by ms, clamped to the stream length
func skip(s beep.StreamSeeker, format beep.Format, ms float64) error {
	n := format.SampleRate.N(time.Duration(ms * float64(time.Millisecond)))
	if l := s.Len(); l > 0 && n > l {
		n = l
	}
	if n <= 0 {
		return nil
	}
	return s.Seek(n)
}
