package audio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func writeWAV(t *testing.T, path string, rate, channels, seconds int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, rate, 16, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: rate},
		Data:           make([]int, channels*rate*seconds),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func near(got, want time.Duration) bool {
	d := got - want
	return d > -time.Millisecond && d < time.Millisecond
}

func TestInspect(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tone.wav")
	writeWAV(t, p, 16000, 1, 2)

	info, err := Inspect(p)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if info.SampleRate != 16000 || info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("info = %+v", info)
	}
	if !near(info.Duration, 2*time.Second) {
		t.Errorf("duration = %v, want 2s", info.Duration)
	}

	p = filepath.Join(t.TempDir(), "stereo.wav")
	writeWAV(t, p, 8000, 2, 3)
	if info, err := Inspect(p); err != nil || info.Channels != 2 || !near(info.Duration, 3*time.Second) {
		t.Errorf("stereo info = %+v, %v", info, err)
	}
}
