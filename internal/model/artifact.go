// Package model applies pre-trained criterion classifiers. An artifact is a
// versioned JSON document produced offline: a vocabulary, per-term IDF
// weights, and a linear decision function over the TF-IDF vector of the
// cleaned patient document. Training is not part of this tool.
package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cohorttools/cohortsel/internal/criteria"
)

// SchemaVersion is the artifact schema this build understands.
const SchemaVersion = 1

// LoadError reports a missing or incompatible model artifact.
type LoadError struct {
	Path   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("model artifact %s: %s", e.Path, e.Reason)
}

// Artifact is the on-disk form of a trained criterion classifier.
type Artifact struct {
	SchemaVersion int       `json:"schema_version"`
	Criterion     string    `json:"criterion"`
	Vocabulary    []string  `json:"vocabulary"`
	IDF           []float64 `json:"idf"`
	Weights       []float64 `json:"weights"`
	Bias          float64   `json:"bias"`
	Threshold     float64   `json:"threshold"`
}

// LoadArtifact reads and validates an artifact for the given criterion.
// Every failure mode is a LoadError so the driver can fail fast before any
// patient is evaluated.
func LoadArtifact(path string, crit criteria.Criterion) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Path: path, Reason: "artifact file does not exist"}
		}
		return nil, &LoadError{Path: path, Reason: err.Error()}
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if a.SchemaVersion != SchemaVersion {
		return nil, &LoadError{
			Path:   path,
			Reason: fmt.Sprintf("schema version %d, want %d", a.SchemaVersion, SchemaVersion),
		}
	}
	if a.Criterion != string(crit) {
		return nil, &LoadError{
			Path:   path,
			Reason: fmt.Sprintf("trained for criterion %q, want %q", a.Criterion, crit),
		}
	}
	if len(a.Vocabulary) == 0 {
		return nil, &LoadError{Path: path, Reason: "empty vocabulary"}
	}
	if len(a.IDF) != len(a.Vocabulary) || len(a.Weights) != len(a.Vocabulary) {
		return nil, &LoadError{
			Path: path,
			Reason: fmt.Sprintf("inconsistent vector lengths: vocabulary %d, idf %d, weights %d",
				len(a.Vocabulary), len(a.IDF), len(a.Weights)),
		}
	}
	return &a, nil
}
