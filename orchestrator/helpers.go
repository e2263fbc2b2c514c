package orchestrator

import (
	"sort"
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"

	"github.com/maastricht-university/speech-emotion/clients"
)

// topK orders scores by descending confidence and keeps the first k;
// k <= 0 keeps all of them.
func topK(scores []clients.EmoScore, k int) []clients.EmoScore {
	out := make([]clients.EmoScore, len(scores))
	copy(out, scores)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// detectLanguage returns the ISO 639-1 code of text, or "" when unsure.
func detectLanguage(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().FromAllLanguages().Build()
	})
	lang, ok := detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
