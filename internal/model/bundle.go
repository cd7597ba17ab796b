package model

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/queuecast/internal/domain"
	"github.com/alexanderramin/queuecast/internal/features"
)

// ManifestFile is the name of the manifest inside a bundle directory.
const ManifestFile = "bundle.yaml"

// Vocabulary names used by the bundles.
const (
	VocabTask    = "task_id"
	VocabSection = "section_id"
)

// Manifest describes one trained artifact bundle: the regressor, its scaler
// parameters and the label vocabularies it was fitted with.
type Manifest struct {
	Name         string              `yaml:"name"`
	Model        string              `yaml:"model"`
	Features     []string            `yaml:"features"`
	Scaler       []ScaleParam        `yaml:"scaler"`
	Vocabularies map[string][]string `yaml:"vocabularies"`
}

// Bundle is a loaded, validated artifact bundle. It is read-only once built.
type Bundle struct {
	Name      string
	Features  []string
	Scaler    *Scaler
	Regressor Regressor
	vocabs    map[string]*features.Vocabulary
}

// LoadBundle reads dir/bundle.yaml and the model file it names.
func LoadBundle(dir string) (*Bundle, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, fmt.Errorf("reading bundle manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parsing bundle manifest: %w", err)
	}
	if m.Model == "" {
		return nil, fmt.Errorf("bundle %s: manifest names no model file", dir)
	}
	modelPath := m.Model
	if !filepath.IsAbs(modelPath) {
		modelPath = filepath.Join(dir, modelPath)
	}
	reg, err := LoadTreeEnsembleFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", dir, err)
	}
	return NewBundle(m, reg)
}

// NewBundle validates a manifest against an already-loaded regressor.
func NewBundle(m Manifest, reg Regressor) (*Bundle, error) {
	if len(m.Features) == 0 {
		return nil, fmt.Errorf("bundle %s: no features listed", m.Name)
	}
	if reg.NumFeatures() != len(m.Features) {
		return nil, fmt.Errorf("bundle %s: %w: manifest lists %d features, model expects %d",
			m.Name, ErrShapeMismatch, len(m.Features), reg.NumFeatures())
	}
	listed := make(map[string]bool, len(m.Features))
	for _, f := range m.Features {
		listed[f] = true
	}
	for _, p := range m.Scaler {
		if !listed[p.Feature] {
			return nil, fmt.Errorf("bundle %s: scaler feature %q is not a model feature", m.Name, p.Feature)
		}
	}
	scaler, err := NewScaler(m.Scaler)
	if err != nil {
		return nil, fmt.Errorf("bundle %s: %w", m.Name, err)
	}

	b := &Bundle{
		Name:      m.Name,
		Features:  append([]string(nil), m.Features...),
		Scaler:    scaler,
		Regressor: reg,
		vocabs:    make(map[string]*features.Vocabulary, len(m.Vocabularies)),
	}
	for name, classes := range m.Vocabularies {
		var normalize func(string) string
		if name == VocabSection {
			normalize = domain.NormalizeSectionCode
		}
		v, err := features.NewNormalizedVocabulary(name, classes, normalize)
		if err != nil {
			return nil, fmt.Errorf("bundle %s: %w", m.Name, err)
		}
		b.vocabs[name] = v
	}
	return b, nil
}

// Vocabulary returns a fitted vocabulary by name.
func (b *Bundle) Vocabulary(name string) (*features.Vocabulary, bool) {
	v, ok := b.vocabs[name]
	return v, ok
}

// RequireVocabulary is Vocabulary for callers that cannot proceed without it.
func (b *Bundle) RequireVocabulary(name string) (*features.Vocabulary, error) {
	v, ok := b.vocabs[name]
	if !ok {
		return nil, fmt.Errorf("bundle %s: missing vocabulary %q", b.Name, name)
	}
	return v, nil
}

// Score scales v, checks it against the bundle's feature order and runs the
// regressor. It returns the raw model output.
func (b *Bundle) Score(v features.Vector) (float64, features.Vector, error) {
	if err := v.CheckOrder(b.Features); err != nil {
		return 0, features.Vector{}, fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	scaled := b.Scaler.Transform(v)
	raw, err := b.Regressor.Predict(scaled.Values)
	if err != nil {
		return 0, scaled, err
	}
	return raw, scaled, nil
}
