package orchestrator

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

type PersistBundle struct {
	SessionID   string    `json:"session_id"`
	GeneratedAt time.Time `json:"generated_at"`
	*Analysis
}

func mkSessionDir(outputsRoot, id string) (string, string, error) {
	ts := time.Now().Format("20060102-150405")
	sid := "session_" + ts + "_" + id
	dir := filepath.Join(outputsRoot, sid)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	return sid, dir, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// persist writes a under outputsRoot/session_<ts>_<id>/analysis.json and
// returns the session directory.
func persist(outputsRoot string, a *Analysis) (string, error) {
	sid, outDir, err := mkSessionDir(outputsRoot, a.ID)
	if err != nil {
		return "", err
	}
	bundle := PersistBundle{SessionID: sid, GeneratedAt: time.Now(), Analysis: a}
	if err := writeJSON(filepath.Join(outDir, "analysis.json"), bundle); err != nil {
		return "", err
	}
	return outDir, nil
}
