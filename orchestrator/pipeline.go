package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	log "github.com/sirupsen/logrus"

	"github.com/maastricht-university/speech-emotion/audio"
	"github.com/maastricht-university/speech-emotion/clients"
	cfg "github.com/maastricht-university/speech-emotion/config"
	"github.com/maastricht-university/speech-emotion/metrics"
)

// ErrConvert marks failures of the WAV normalization step.
var ErrConvert = errors.New("audio conversion failed")

type Normalizer interface {
	ToWAV(ctx context.Context, src string) (string, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, wavPath string) (*clients.ASRResp, error)
}

type Classifier interface {
	Classify(ctx context.Context, text string) (*clients.EmoResp, error)
}

type Pipeline struct {
	cfg  *cfg.Root
	norm Normalizer
	asr  Transcriber
	emo  Classifier
}

func NewPipeline(c *cfg.Root, norm Normalizer, asr Transcriber, emo Classifier) *Pipeline {
	return &Pipeline{cfg: c, norm: norm, asr: asr, emo: emo}
}

// Run converts audioPath to WAV, transcribes it and classifies every
// segment in transcript order. The result holds exactly one entry per
// transcript segment.
func (p *Pipeline) Run(ctx context.Context, audioPath string) (*Analysis, error) {
	started := time.Now()
	a := &Analysis{ID: ulid.Make().String(), AudioPath: audioPath}
	logger := log.WithFields(log.Fields{"analysis": a.ID, "audio": audioPath})

	wavPath := audioPath
	if !audio.IsWAV(audioPath) {
		t := time.Now()
		converted, err := p.norm.ToWAV(ctx, audioPath)
		metrics.StageDuration.WithLabelValues("convert").Observe(time.Since(t).Seconds())
		if err != nil {
			logger.WithError(err).Error("audio conversion failed")
			return nil, fmt.Errorf("%w: %v", ErrConvert, err)
		}
		wavPath = converted
		if !p.cfg.Paths.KeepUploads {
			defer removeConverted(converted, logger)
		}
	}
	a.WAVPath = wavPath

	if info, err := audio.Inspect(wavPath); err != nil {
		logger.WithError(err).Debug("wav header unreadable")
	} else {
		a.Duration = info.Duration.Seconds()
		metrics.AudioDuration.Observe(a.Duration)
		logger = logger.WithFields(log.Fields{"duration": a.Duration, "sample_rate": info.SampleRate})
	}

	t := time.Now()
	asr, err := p.asr.Transcribe(ctx, wavPath)
	metrics.StageDuration.WithLabelValues("transcribe").Observe(time.Since(t).Seconds())
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	a.Language = asr.Language
	logger.WithField("segments", len(asr.Segments)).Debug("transcribed")

	t = time.Now()
	a.Segments = make([]SegmentResult, 0, len(asr.Segments))
	for i, s := range asr.Segments {
		emo, err := p.emo.Classify(ctx, s.Text)
		if err != nil {
			return nil, fmt.Errorf("classify segment %d: %w", i, err)
		}
		a.Segments = append(a.Segments, SegmentResult{
			Text:     s.Text,
			Start:    s.Start,
			End:      s.End,
			Emotions: topK(emo.Emotions, p.cfg.Services.Emotion.TopK),
		})
	}
	metrics.StageDuration.WithLabelValues("classify").Observe(time.Since(t).Seconds())
	metrics.Segments.Add(float64(len(a.Segments)))

	if a.Language == "" && p.cfg.Features.DetectLanguage {
		a.Language = detectLanguage(joinText(a.Segments))
	}

	if p.cfg.Paths.Outputs != "" {
		if dir, err := persist(p.cfg.Paths.Outputs, a); err != nil {
			logger.WithError(err).Warn("persist analysis")
		} else {
			logger.WithField("dir", dir).Debug("analysis persisted")
		}
	}

	a.Elapsed = time.Since(started)
	logger.WithFields(log.Fields{
		"segments": len(a.Segments),
		"language": a.Language,
		"elapsed":  a.Elapsed.Round(time.Millisecond),
	}).Info("analysis complete")
	return a, nil
}

func removeConverted(path string, logger *log.Entry) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logger.WithError(err).WithField("path", path).Warn("remove converted wav")
	}
}

func joinText(segs []SegmentResult) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, strings.TrimSpace(s.Text))
	}
	return strings.Join(parts, " ")
}
