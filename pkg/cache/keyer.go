package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer generates cache keys.
type Keyer interface {
	// GeometryKey identifies the segments computed for a table under a
	// geometry configuration.
	GeometryKey(inputHash string, opts GeometryKeyOpts) string

	// ArtifactKey identifies a rendered output of a geometry.
	ArtifactKey(geometryHash string, opts ArtifactKeyOpts) string
}

// GeometryKeyOpts holds the options that change computed geometry.
type GeometryKeyOpts struct {
	Width         float64 `json:"w"`
	Height        float64 `json:"h"`
	BottomPercent float64 `json:"bp"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string  `json:"f"`
	Style   string  `json:"s"`
	Speed   float64 `json:"sp"`
	Animate bool    `json:"a"`
	Title   bool    `json:"t,omitempty"`
	Scale   float64 `json:"sc,omitempty"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// GeometryKey returns "geometry:<sha256>".
func (DefaultKeyer) GeometryKey(inputHash string, opts GeometryKeyOpts) string {
	return hashKey("geometry", inputHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(geometryHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", geometryHash, opts)
}

// hashKey returns "prefix:<sha256 of the JSON-encoded parts>".
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
