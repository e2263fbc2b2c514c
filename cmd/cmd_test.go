package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	defer func() { audioFlag = "" }()
	err := rootCmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, asrURL, emoURL string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	body := fmt.Sprintf(`pipeline:
  log_level: error
services:
  asr:
    url: %s
  emotion:
    url: %s
    top_k: 1
`, asrURL, emoURL)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestConfigCommand(t *testing.T) {
	out, err := run(t, "config", "--config", writeConfig(t, "http://asr:9000", "http://emo:9001"))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	for _, want := range []string{"url: http://asr:9000", "top_k: 1", "log_level: error"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestAnalyzeCommand(t *testing.T) {
	asr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"language":"en","segments":[{"start":0,"end":1,"text":" good morning"},{"start":1,"end":2,"text":" leave me alone"}]}`))
	}))
	defer asr.Close()
	emo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Text string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		label := "joy"
		if strings.Contains(req.Text, "alone") {
			label = "anger"
		}
		_, _ = fmt.Fprintf(w, `[{"label":%q,"score":0.9},{"label":"neutral","score":0.05}]`, label)
	}))
	defer emo.Close()

	in := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(in, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "analyze", "--config", writeConfig(t, asr.URL, emo.URL), in)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var segs []struct {
		Text     string `json:"text"`
		Emotions []struct {
			Label string  `json:"label"`
			Score float64 `json:"score"`
		} `json:"emotions"`
	}
	if err := json.Unmarshal([]byte(out), &segs); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(segs) != 2 || segs[1].Emotions[0].Label != "anger" || len(segs[0].Emotions) != 1 {
		t.Errorf("segments = %+v", segs)
	}
	if _, err := os.Stat(in); err != nil {
		t.Errorf("wav input must be left in place: %v", err)
	}
}

func TestAnalyzeLeavesNeighbouringFilesAlone(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in for ffmpeg")
	}
	asr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"segments":[{"start":0,"end":1,"text":" hi"}]}`))
	}))
	defer asr.Close()
	emo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"label":"joy","score":0.9}]`))
	}))
	defer emo.Close()

	dir := t.TempDir()
	ffmpeg := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor a; do last=\"$a\"; done\nprintf RIFF > \"$last\"\n"
	if err := os.WriteFile(ffmpeg, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	in := filepath.Join(dir, "talk.mp3")
	existing := filepath.Join(dir, "talk.wav")
	if err := os.WriteFile(in, []byte("ID3"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("USER RECORDING"), 0o644); err != nil {
		t.Fatal(err)
	}

	conf := writeConfig(t, asr.URL, emo.URL)
	f, err := os.OpenFile(conf, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fmt.Fprintf(f, "audio:\n  ffmpeg: %s\n", ffmpeg)
	_ = f.Close()

	if _, err := run(t, "analyze", "--config", conf, in); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if b, err := os.ReadFile(existing); err != nil || string(b) != "USER RECORDING" {
		t.Errorf("talk.wav after analyze = %q, %v", b, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("converted copy left behind: %v", entries)
	}
}

func TestAnalyzeRejectsUnsupported(t *testing.T) {
	_, err := run(t, "analyze", "--config", writeConfig(t, "http://127.0.0.1:1", "http://127.0.0.1:1"), "notes.txt")
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("err = %v", err)
	}
}
