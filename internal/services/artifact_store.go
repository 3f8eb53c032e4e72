package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/irfndi/augur-ai-go/internal/models"
	"github.com/irfndi/augur-ai-go/internal/sarima"
)

// Artifact file names inside the artifact directory.
const (
	modelArtifactFile  = "model.json"
	seriesArtifactFile = "series.json"
)

// ArtifactStore persists the bundled model and its training series as a
// pair of JSON files. The trainer writes them, the forecast service
// reads them once at startup.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates a store rooted at dir.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

func (s *ArtifactStore) modelPath() string  { return filepath.Join(s.dir, modelArtifactFile) }
func (s *ArtifactStore) seriesPath() string { return filepath.Join(s.dir, seriesArtifactFile) }

// Save writes both artifacts, creating the directory when needed.
func (s *ArtifactStore) Save(model *sarima.Model, series *models.TimeSeries) error {
	artifact, err := model.Artifact()
	if err != nil {
		return fmt.Errorf("failed to export model artifact: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := writeJSON(s.modelPath(), artifact); err != nil {
		return err
	}
	return writeJSON(s.seriesPath(), series)
}

// Load reads both artifacts and rebuilds a ready-to-forecast model.
func (s *ArtifactStore) Load() (*sarima.Model, *models.TimeSeries, error) {
	var artifact sarima.Artifact
	if err := readJSON(s.modelPath(), &artifact); err != nil {
		return nil, nil, err
	}
	var series models.TimeSeries
	if err := readJSON(s.seriesPath(), &series); err != nil {
		return nil, nil, err
	}

	model, err := sarima.FromArtifact(&artifact)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore model artifact: %w", err)
	}
	if model.NObs() != series.Len() {
		return nil, nil, fmt.Errorf("model and series artifacts disagree: %d training values vs %d series points", model.NObs(), series.Len())
	}
	return model, &series, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
