// Package pipeline provides the build → render pipeline for funnel charts.
//
// This package implements the complete pipeline used by both the CLI and
// the HTTP API. By centralizing this logic, both entry points validate,
// cache and render identically.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Build: Normalize the raw table, validate it, and compute the funnel
//     layout (trapezoids, labels, colours)
//  2. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Table:   [][]any{{"Stage", "Count"}, {"Visits", 1000}, {"Signups", 150}},
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Build only
//	layout, err := runner.Build(ctx, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, layout, opts)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnelchart/pkg/cache"
	"github.com/matzehuels/funnelchart/pkg/errors"
	"github.com/matzehuels/funnelchart/pkg/funnel"
	"github.com/matzehuels/funnelchart/pkg/render/styles"
	"github.com/matzehuels/funnelchart/pkg/reveal"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default chart width in pixels.
	DefaultWidth = funnel.DefaultWidth

	// DefaultHeight is the default chart height in pixels.
	DefaultHeight = funnel.DefaultHeight

	// DefaultBottomPercent is the default bottom base as a share of the width.
	DefaultBottomPercent = funnel.DefaultBottomPercent

	// DefaultSpeed is the default draw-in speed in pixels per millisecond.
	DefaultSpeed = reveal.DefaultSpeed

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// DefaultStyle is the default visual style.
const DefaultStyle = styles.Default

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the funnel pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Build options
	Table         [][]any `json:"table"`
	Width         float64 `json:"width,omitempty"`
	Height        float64 `json:"height,omitempty"`
	BottomPercent float64 `json:"bottom_percent,omitempty"`
	Refresh       bool    `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`
	Speed   float64  `json:"speed,omitempty"`  // Draw-in speed in px/ms
	Static  bool     `json:"static,omitempty"` // Render the final state without animation
	Title   bool     `json:"title,omitempty"`  // Draw the value header above the funnel
	Scale   float64  `json:"scale,omitempty"`  // PNG scale factor

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the computed funnel.
	Layout funnel.Layout

	// InputHash is the content hash of the input table.
	InputHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Segments       int
	Total          float64
	RevealDuration time.Duration
	BuildTime      time.Duration
	RenderTime     time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is registered.
func ValidateStyle(style string) error {
	if style == "" {
		return errors.New(errors.ErrCodeInvalidStyle, "style is required")
	}
	_, err := styles.Lookup(style)
	return err
}

// ParseFormats splits a comma-separated format list. Empty means SVG.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetBuildDefaults sets default values for chart building.
func (o *Options) SetBuildDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.BottomPercent == 0 {
		o.BottomPercent = DefaultBottomPercent
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForBuild checks the input table and geometry configuration.
func (o *Options) ValidateForBuild() error {
	if len(o.Table) == 0 {
		return errors.New(errors.ErrCodeInvalidInputShape, errors.MsgImproperData)
	}
	o.SetBuildDefaults()
	return o.Config().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Speed <= 0 {
		o.Speed = DefaultSpeed
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// Config returns the geometry configuration.
func (o *Options) Config() funnel.Config {
	return funnel.Config{Width: o.Width, Height: o.Height, BottomPercent: o.BottomPercent}
}

// GeometryKeyOpts returns cache key options for chart building.
func (o *Options) GeometryKeyOpts() cache.GeometryKeyOpts {
	return cache.GeometryKeyOpts{
		Width:         o.Width,
		Height:        o.Height,
		BottomPercent: o.BottomPercent,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:  format,
		Style:   o.Style,
		Speed:   o.Speed,
		Animate: !o.Static,
		Title:   o.Title,
	}
	// Raster and print formats never animate.
	if format == FormatPNG || format == FormatPDF {
		k.Speed, k.Animate = 0, false
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}
