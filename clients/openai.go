package clients

import (
	"context"
	"fmt"
	"net/http"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAITranscriber sends audio to the OpenAI transcription endpoint.
type OpenAITranscriber struct {
	client   *openai.Client
	model    string
	language string
}

// NewOpenAITranscriber falls back to OPENAI_API_KEY and OPENAI_BASE_URL
// when apiKey or baseURL are empty.
func NewOpenAITranscriber(apiKey, baseURL, model, language string, hc *http.Client) *OpenAITranscriber {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if model == "" {
		model = openai.Whisper1
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if hc != nil {
		cfg.HTTPClient = hc
	}
	return &OpenAITranscriber{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		language: language,
	}
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, wavPath string) (*ASRResp, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: wavPath,
		Language: t.language,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	out := &ASRResp{Language: resp.Language, Segments: make([]TransSeg, 0, len(resp.Segments))}
	for _, s := range resp.Segments {
		out.Segments = append(out.Segments, TransSeg{Start: s.Start, End: s.End, Text: s.Text})
	}
	// verbose_json without segments still carries the full text
	if len(out.Segments) == 0 && resp.Text != "" {
		out.Segments = append(out.Segments, TransSeg{Start: 0, End: resp.Duration, Text: resp.Text})
	}
	return out, nil
}
