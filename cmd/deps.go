package cmd

import (
	"github.com/maastricht-university/speech-emotion/audio"
	"github.com/maastricht-university/speech-emotion/clients"
	cfg "github.com/maastricht-university/speech-emotion/config"
	"github.com/maastricht-university/speech-emotion/orchestrator"
)

// newPipeline wires the model clients once per process.
func newPipeline(c *cfg.Root) (*orchestrator.Pipeline, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var asr orchestrator.Transcriber
	asrHTTP := clients.NewHTTP(cfg.DurSeconds(c.Services.ASR.Timeout))
	switch c.Services.ASR.Provider {
	case cfg.ProviderOpenAI:
		a := c.Services.ASR
		asr = clients.NewOpenAITranscriber(a.APIKey, a.BaseURL, a.Model, a.Language, asrHTTP.Client())
	default:
		asr = &clients.ASRService{HTTP: asrHTTP, URL: c.Services.ASR.URL, Language: c.Services.ASR.Language}
	}
	emo := &clients.EmotionService{
		HTTP: clients.NewHTTP(cfg.DurSeconds(c.Services.Emotion.Timeout)),
		URL:  c.Services.Emotion.URL,
	}
	return orchestrator.NewPipeline(c, audio.NewConverter(c.Audio), asr, emo), nil
}
