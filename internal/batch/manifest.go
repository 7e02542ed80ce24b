package batch

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Manifest describes one run.
type Manifest struct {
	RunID    string          `json:"run_id"`
	Created  time.Time       `json:"created"`
	InputDir string          `json:"input_dir"`
	Items    []ManifestEntry `json:"items"`
}

// ManifestEntry represents one item in the output manifest.
type ManifestEntry struct {
	Name     string  `json:"name"`
	Segment  string  `json:"segment,omitempty"`
	Overlay  string  `json:"overlay,omitempty"`
	Coverage float64 `json:"coverage"`
	Error    string  `json:"error,omitempty"`
}

// NewManifest builds a manifest with a fresh run id.
func NewManifest(inputDir string, results []Result) Manifest {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:     r.Name,
			Segment:  r.Segment,
			Overlay:  r.Overlay,
			Coverage: r.Coverage,
			Error:    r.Error,
		}
	}
	return Manifest{
		RunID:    uuid.New().String(),
		Created:  time.Now().UTC(),
		InputDir: inputDir,
		Items:    entries,
	}
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
