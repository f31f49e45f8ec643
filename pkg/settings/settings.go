// Package settings persists per-document numeric settings, such as the
// animation speed a user picked for a chart.
//
// Settings are keyed by a document ID (validated by
// errors.ValidateDocumentID) and a setting name. Two stores are provided:
//   - [FileStore] writes one TOML file per document for CLI use
//   - [MongoStore] keeps one MongoDB document per chart document for the
//     HTTP API, so several server instances share the values
package settings

import (
	"context"
	"math"
	"regexp"

	"github.com/matzehuels/funnelchart/pkg/errors"
)

// AnimationSpeed is the setting name for the reveal speed multiplier.
const AnimationSpeed = "animation_speed"

// Store reads and writes numeric document settings.
type Store interface {
	// Get returns the value of name for doc and whether it is set.
	Get(ctx context.Context, doc, name string) (float64, bool, error)

	// Set stores value as name for doc.
	Set(ctx context.Context, doc, name string, value float64) error

	// All returns every setting stored for doc.
	All(ctx context.Context, doc string) (map[string]float64, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// GetOr returns the value of name for doc, or def when it is not set.
func GetOr(ctx context.Context, s Store, doc, name string, def float64) (float64, error) {
	v, ok, err := s.Get(ctx, doc, name)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

func validateKey(doc, name string) error {
	if err := errors.ValidateDocumentID(doc); err != nil {
		return err
	}
	if name == "" {
		return errors.New(errors.ErrCodeInvalidInput, "setting name cannot be empty")
	}
	if !nameRegex.MatchString(name) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid setting name %q", name)
	}
	return nil
}

// Setting names become TOML keys and MongoDB field paths, so dots are not
// allowed.
var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

func validateValue(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "setting %s must be a finite number", name)
	}
	if name == AnimationSpeed && value <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s must be positive, got %g", name, value)
	}
	return nil
}
