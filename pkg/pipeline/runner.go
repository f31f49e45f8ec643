package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/funnelchart/pkg/cache"
	"github.com/matzehuels/funnelchart/pkg/funnel"
	"github.com/matzehuels/funnelchart/pkg/observability"
	"github.com/matzehuels/funnelchart/pkg/reveal"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGeometry = "geometry"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete build → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Build
	buildStart := time.Now()
	in, err := Parse(opts)
	if err != nil {
		return nil, err
	}
	result.InputHash = InputHash(in)
	layout, buildHit, err := r.buildInputWithCacheInfo(ctx, in, result.InputHash, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Segments = len(layout.Segments)
	result.Stats.Total = layout.Total
	result.Stats.RevealDuration = reveal.TotalDuration(reveal.Plan(layout.Segments, opts.Speed))
	result.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built funnel",
		"segments", result.Stats.Segments,
		"total", funnel.FormatValue(layout.Total),
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// BuildWithCacheInfo computes the layout with caching and returns cache hit info.
//
// A cached layout keeps the chart identifier it was first built with.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, opts Options) (funnel.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForBuild(); err != nil {
		return funnel.Layout{}, false, err
	}
	in, err := Parse(opts)
	if err != nil {
		return funnel.Layout{}, false, err
	}
	return r.buildInputWithCacheInfo(ctx, in, InputHash(in), opts)
}

func (r *Runner) buildInputWithCacheInfo(ctx context.Context, in funnel.Input, inputHash string, opts Options) (funnel.Layout, bool, error) {
	hooks := observability.Cache()
	cacheKey := r.Keyer.GeometryKey(inputHash, opts.GeometryKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		var cached funnel.Layout
		if err := cache.GetJSON(ctx, r.Cache, cacheKey, &cached); err == nil {
			hooks.OnCacheHit(ctx, keyTypeGeometry)
			return cached, true, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			r.Logger.Warn("geometry cache read failed", "error", err)
		}
		hooks.OnCacheMiss(ctx, keyTypeGeometry)
	}

	layout, err := buildInput(ctx, in, opts)
	if err != nil {
		return funnel.Layout{}, false, err
	}

	if n, err := cache.SetJSON(ctx, r.Cache, cacheKey, layout, cache.GeometryTTL); err != nil {
		r.Logger.Warn("geometry cache write failed", "error", err)
	} else {
		hooks.OnCacheSet(ctx, keyTypeGeometry, n)
	}
	return layout, false, nil
}

// Build is a convenience wrapper that calls BuildWithCacheInfo and discards the cache hit info.
func (r *Runner) Build(ctx context.Context, opts Options) (funnel.Layout, error) {
	layout, _, err := r.BuildWithCacheInfo(ctx, opts)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout funnel.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	hooks := observability.Cache()

	layoutHash, err := LayoutHash(layout)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}

	// Try to get all formats from cache
	artifacts := make(map[string][]byte)
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				hooks.OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			hooks.OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(uniqueFormats(opts.Formats)) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, layout, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout funnel.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func uniqueFormats(formats []string) map[string]bool {
	seen := make(map[string]bool, len(formats))
	for _, f := range formats {
		seen[f] = true
	}
	return seen
}
