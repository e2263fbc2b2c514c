package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	cfg "github.com/maastricht-university/speech-emotion/config"
)

var ErrNoAudio = errors.New("input has no audio stream")

// Converter transcodes audio to PCM WAV with ffmpeg.
type Converter struct {
	Binary     string
	SampleRate int
	Channels   int
	Codec      string
}

func NewConverter(a cfg.Audio) *Converter {
	bin := a.FFmpeg
	if bin == "" {
		bin = "ffmpeg"
	}
	return &Converter{Binary: bin, SampleRate: a.SampleRate, Channels: a.Channels, Codec: a.Codec}
}

func (c *Converter) Args(src, dst string) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", src, "-vn"}
	if c.Codec != "" {
		args = append(args, "-acodec", c.Codec)
	}
	if c.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(c.SampleRate))
	}
	if c.Channels > 0 {
		args = append(args, "-ac", strconv.Itoa(c.Channels))
	}
	return append(args, dst)
}

// ToWAV returns src unchanged when it already is a WAV file, otherwise the
// path of a newly created converted copy next to it. The caller owns that
// copy.
func (c *Converter) ToWAV(ctx context.Context, src string) (string, error) {
	if IsWAV(src) {
		return src, nil
	}
	dst := WAVPath(src)

	cmd := exec.CommandContext(ctx, c.Binary, c.Args(src, dst)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if rmErr := os.Remove(dst); rmErr != nil && !os.IsNotExist(rmErr) {
			log.WithError(rmErr).WithField("dst", dst).Warn("remove partial wav")
		}
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "does not contain any stream") {
			return "", ErrNoAudio
		}
		return "", fmt.Errorf("ffmpeg error: %v\nStderr: %s", err, msg)
	}
	log.WithFields(log.Fields{"src": src, "dst": dst}).Debug("converted to wav")
	return dst, nil
}
