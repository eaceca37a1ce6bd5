// Package prediction loads the calories regression artifact and evaluates it.
//
// The artifact is a tree ensemble exported by the training notebook. Parsing
// and evaluation are delegated to github.com/dmitryikh/leaves; this package only
// decides which reader to use and maps a FeatureRecord onto the model's columns.
package prediction

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/dmitryikh/leaves"

	"github.com/AnshRaj112/calorie-burn-analyzer/internal/models"
)

// Supported artifact formats.
const (
	FormatXGBoost  = "xgboost"
	FormatLightGBM = "lightgbm"
	FormatSklearn  = "sklearn"
)

var (
	// ErrFeatureCount means the artifact was trained on a different column set.
	ErrFeatureCount = errors.New("model feature count mismatch")
	// ErrNonFinite means the artifact produced NaN or Inf for a row.
	ErrNonFinite = errors.New("model returned a non-finite value")
)

// Predictor is the capability the prediction page depends on.
type Predictor interface {
	Predict(models.FeatureRecord) (float64, error)
}

// Model is a loaded artifact. It is immutable and safe for concurrent use.
type Model struct {
	ensemble *leaves.Ensemble
	path     string
	format   string
}

// Path is the file the model was read from.
func (m *Model) Path() string { return m.path }

// Format is the artifact format the model was read as.
func (m *Model) Format() string { return m.format }

// Estimators is the number of trees in the ensemble.
func (m *Model) Estimators() int { return m.ensemble.NEstimators() }

// Predict evaluates the ensemble on one row. The record is assumed to be in range.
func (m *Model) Predict(f models.FeatureRecord) (float64, error) {
	v := m.ensemble.PredictSingle(f.Vector(), 0)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}

func readEnsemble(path, format string) (*leaves.Ensemble, error) {
	switch format {
	case FormatXGBoost, "":
		return leaves.XGEnsembleFromFile(path, false)
	case FormatLightGBM:
		return leaves.LGEnsembleFromFile(path, false)
	case FormatSklearn:
		return leaves.SKEnsembleFromFile(path, false)
	}
	return nil, fmt.Errorf("unsupported model format %q", format)
}

// Loader reads the artifact at most once per process.
type Loader struct {
	path   string
	format string

	once  sync.Once
	model *Model
	err   error
}

// NewLoader prepares a loader; nothing is read until Load.
func NewLoader(path, format string) *Loader {
	if format == "" {
		format = FormatXGBoost
	}
	return &Loader{path: path, format: format}
}

// Load reads and checks the artifact on the first call and returns the same
// model, or the same error, on every later call. A failed load is not retried.
func (l *Loader) Load() (*Model, error) {
	l.once.Do(func() {
		ensemble, err := readEnsemble(l.path, l.format)
		if err != nil {
			l.err = fmt.Errorf("load %s model %q: %w", l.format, l.path, err)
			return
		}
		if n := ensemble.NFeatures(); n != models.FeatureCount {
			l.err = fmt.Errorf("load %s model %q: %w: expected %d, artifact has %d",
				l.format, l.path, ErrFeatureCount, models.FeatureCount, n)
			return
		}
		l.model = &Model{ensemble: ensemble, path: l.path, format: l.format}
	})
	return l.model, l.err
}
