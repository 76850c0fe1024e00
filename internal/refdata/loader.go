package refdata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stockit/analyzer/internal/domain"
)

// Artifact file names inside the artifacts directory. The training
// collaborator publishes these; we only ever read them.
const (
	ScalerFile   = "scaler.json"
	CentroidFile = "centroids.json"
	PersonaFile  = "personas.json"
)

type scalerArtifact struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

type centroidArtifact struct {
	Centroids [][]float64 `json:"centroids"`
}

type personaArtifact struct {
	Personas []Persona `json:"personas"`
}

// Load reads the fitted scaler, the cluster centroids and the persona table
// from dir and assembles the immutable reference context. Any missing or
// malformed artifact yields a domain.ArtifactError; callers must treat that
// as fatal and abort startup.
func Load(dir string) (*Context, error) {
	var scalerData scalerArtifact
	if err := readArtifact(dir, ScalerFile, &scalerData); err != nil {
		return nil, err
	}
	scaler, err := NewScaler(scalerData.Mean, scalerData.Std)
	if err != nil {
		return nil, &domain.ArtifactError{Artifact: ScalerFile, Err: err}
	}

	var centroidData centroidArtifact
	if err := readArtifact(dir, CentroidFile, &centroidData); err != nil {
		return nil, err
	}
	classifier, err := NewClassifier(centroidData.Centroids)
	if err != nil {
		return nil, &domain.ArtifactError{Artifact: CentroidFile, Err: err}
	}

	var personaData personaArtifact
	if err := readArtifact(dir, PersonaFile, &personaData); err != nil {
		return nil, err
	}
	personas, err := NewPersonaTable(personaData.Personas)
	if err != nil {
		return nil, &domain.ArtifactError{Artifact: PersonaFile, Err: err}
	}

	return NewContext(scaler, classifier, personas), nil
}

func readArtifact(dir, name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return &domain.ArtifactError{Artifact: name, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return &domain.ArtifactError{Artifact: name, Err: fmt.Errorf("parse: %w", err)}
	}
	return nil
}
