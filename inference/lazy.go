package inference

import (
	"errors"
	"fmt"
	"sync"
)

// Artifact names a model file and the feature count its runtime must accept.
// Legacy lists exports of the same model that this build cannot execute.
type Artifact struct {
	Name     string
	Legacy   []string
	Features int
}

var (
	KeplerArtifact = Artifact{
		Name:     "kepler_ann.json",
		Legacy:   []string{"kepler_ann.keras", "kepler_ann.h5"},
		Features: KeplerFeatureCount,
	}
	TessArtifact = Artifact{
		Name:     "tess_xgb_improved_model.json",
		Legacy:   []string{"tess_xgb_improved_model.pkl"},
		Features: TessFeatureCount,
	}
)

// Loader turns a resolved path into a Classifier.
type Loader func(path string) (Classifier, error)

// Lazy loads a model on first use. Failed loads are not remembered, so a
// later call retries after the artifact is fixed.
type Lazy struct {
	artifact Artifact
	locator  *Locator
	load     Loader

	mu    sync.Mutex
	path  string
	model Classifier
}

func NewLazy(artifact Artifact, locator *Locator, load Loader) *Lazy {
	if load == nil {
		load = Load
	}
	return &Lazy{artifact: artifact, locator: locator, load: load}
}

func (l *Lazy) Name() string { return l.artifact.Name }

func (l *Lazy) Get() (Classifier, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.model != nil {
		return l.model, nil
	}

	path, err := l.resolve()
	if err != nil {
		return nil, err
	}

	model, err := l.load(path)
	if err != nil {
		return nil, err
	}
	if got := model.NumFeatures(); got != l.artifact.Features {
		return nil, fmt.Errorf("%w: %s expects %d features, encoder produces %d",
			ErrModelUnavailable, l.artifact.Name, got, l.artifact.Features)
	}

	l.model = model
	return model, nil
}

// Path reports where the artifact was found, or "" when it cannot be
// located. It does not load the model.
func (l *Lazy) Path() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	path, err := l.resolve()
	if err != nil {
		return ""
	}
	return path
}

func (l *Lazy) Loaded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.model != nil
}

// resolve must be called with mu held.
func (l *Lazy) resolve() (string, error) {
	if l.path != "" {
		return l.path, nil
	}
	path, err := l.locator.Find(l.artifact.Name)
	if err == nil {
		l.path = path
		return path, nil
	}
	if !errors.Is(err, ErrModelNotFound) {
		return "", err
	}
	for _, legacy := range l.artifact.Legacy {
		if p, lerr := l.locator.Find(legacy); lerr == nil {
			return "", fmt.Errorf("%w: found %s but only %s artifacts can be served",
				ErrMissingRuntime, p, l.artifact.Name)
		}
	}
	return "", err
}
