package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// --- Emotion (/detect) ---
type EmoReq struct {
	Text string `json:"text"`
}
type EmoScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
type EmoResp struct {
	Emotions        []EmoScore `json:"emotions"`
	DominantEmotion string     `json:"dominant_emotion"`
}

func (h *HTTP) Emotion(ctx context.Context, url, text string) (*EmoResp, error) {
	b, _ := json.Marshal(EmoReq{Text: text})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(url, "/")+"/detect", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("emotion %s: %s", resp.Status, string(body))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("emotion read: %w", err)
	}
	out, err := decodeEmotions(raw)
	if err != nil {
		return nil, fmt.Errorf("emotion decode: %w", err)
	}
	return out, nil
}

// decodeEmotions accepts the {"emotions": [...]} object as well as the bare
// list a text-classification pipeline returns, either flat or nested once.
func decodeEmotions(raw []byte) (*EmoResp, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var out EmoResp
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return nil, err
		}
		if out.DominantEmotion == "" {
			out.DominantEmotion = dominant(out.Emotions)
		}
		return &out, nil
	}

	var nested [][]EmoScore
	if err := json.Unmarshal(trimmed, &nested); err == nil {
		var flat []EmoScore
		for _, n := range nested {
			flat = append(flat, n...)
		}
		return &EmoResp{Emotions: flat, DominantEmotion: dominant(flat)}, nil
	}

	var flat []EmoScore
	if err := json.Unmarshal(trimmed, &flat); err != nil {
		return nil, err
	}
	return &EmoResp{Emotions: flat, DominantEmotion: dominant(flat)}, nil
}

func dominant(scores []EmoScore) string {
	best := ""
	top := -1.0
	for _, s := range scores {
		if s.Score > top {
			best, top = s.Label, s.Score
		}
	}
	return best
}

// EmotionService binds the emotion endpoint to a base URL.
type EmotionService struct {
	HTTP *HTTP
	URL  string
}

func (s *EmotionService) Classify(ctx context.Context, text string) (*EmoResp, error) {
	return s.HTTP.Emotion(ctx, s.URL, text)
}
