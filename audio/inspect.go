package audio

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Duration   time.Duration
}

// Inspect reads the WAV header of path.
func Inspect(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, errors.New("not a valid wav file")
	}
	// Duration() counts the header bytes too, so time the data chunk alone.
	if err := d.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("wav data chunk: %w", err)
	}
	perSec := int(d.SampleRate) * int(d.NumChans) * int(d.BitDepth) / 8
	if perSec == 0 {
		return nil, errors.New("wav header has zero byte rate")
	}
	return &Info{
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		BitDepth:   int(d.BitDepth),
		Duration:   time.Duration(d.PCMSize) * time.Second / time.Duration(perSec),
	}, nil
}
