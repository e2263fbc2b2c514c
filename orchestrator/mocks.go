package orchestrator

import (
	"context"

	"github.com/maastricht-university/speech-emotion/clients"
)

type MockNormalizer struct {
	ToWAVFunc func(ctx context.Context, src string) (string, error)
}

func (m *MockNormalizer) ToWAV(ctx context.Context, src string) (string, error) {
	return m.ToWAVFunc(ctx, src)
}

type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, wavPath string) (*clients.ASRResp, error)
}

func (m *MockTranscriber) Transcribe(ctx context.Context, wavPath string) (*clients.ASRResp, error) {
	return m.TranscribeFunc(ctx, wavPath)
}

type MockClassifier struct {
	ClassifyFunc func(ctx context.Context, text string) (*clients.EmoResp, error)
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (*clients.EmoResp, error) {
	return m.ClassifyFunc(ctx, text)
}
