package orchestrator

import (
	"time"

	"github.com/maastricht-university/speech-emotion/clients"
)

// SegmentResult is one element of the upload response.
type SegmentResult struct {
	Text     string             `json:"text"`
	Start    float64            `json:"-"` // sec
	End      float64            `json:"-"` // sec
	Emotions []clients.EmoScore `json:"emotions"`
}

type Analysis struct {
	ID        string          `json:"id"`
	AudioPath string          `json:"audio_path"`
	WAVPath   string          `json:"wav_path"`
	Language  string          `json:"language,omitempty"`
	Duration  float64         `json:"duration_seconds,omitempty"`
	Segments  []SegmentResult `json:"segments"`
	Elapsed   time.Duration   `json:"-"`
}
