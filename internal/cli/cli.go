package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/funnelchart/pkg/buildinfo"
	"github.com/matzehuels/funnelchart/pkg/cache"
	"github.com/matzehuels/funnelchart/pkg/config"
	"github.com/matzehuels/funnelchart/pkg/pipeline"
	"github.com/matzehuels/funnelchart/pkg/reveal"
	"github.com/matzehuels/funnelchart/pkg/settings"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// backendTimeout bounds connecting to Redis or MongoDB.
	backendTimeout = 5 * time.Second
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Funnelchart draws proportional-area funnel charts",
		Long:         `Funnelchart turns a two-column table of stages and values into a funnel whose segment areas are proportional to the values, and reveals it one segment at a time.`,
		Version:      buildinfo.Get().Short(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/funnelchart/config.toml)")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.settingsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cfg.Cache.KeyPrefix)
	}
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		var cc cache.Cache
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			cc, err = cache.NewRedisCache(ctx, cache.RedisConfig{
				Addr:        c.cfg.Cache.RedisAddr,
				Password:    c.cfg.Cache.RedisPassword,
				DB:          c.cfg.Cache.RedisDB,
				DialTimeout: backendTimeout,
			})
			if err != nil {
				c.Logger.Debug("redis connect failed", "addr", c.cfg.Cache.RedisAddr, "error", err)
			}
			return err
		})
		return cc, err
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newSettingsStore opens the configured document settings store.
func (c *CLI) newSettingsStore(ctx context.Context) (settings.Store, error) {
	s := c.cfg.Settings
	if s.Backend == config.SettingsMongo {
		store, err := settings.NewMongoStore(ctx, settings.MongoConfig{
			URI:        s.MongoURI,
			Database:   s.Database,
			Collection: s.Collection,
			Timeout:    backendTimeout,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	dir := s.Dir
	if dir == "" {
		var err error
		if dir, err = config.Dir("XDG_DATA_HOME", ".local/share"); err != nil {
			return nil, err
		}
	}
	return settings.NewFileStore(dir), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory: the configured one, or the XDG
// standard (~/.cache/funnelchart/).
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return config.Dir("XDG_CACHE_HOME", ".cache")
}

// =============================================================================
// Options Helpers
// =============================================================================

// chartFlags are the geometry and animation flags shared by commands that
// build a chart. Zero values fall back to the config file, then to the
// pipeline defaults.
type chartFlags struct {
	width    float64
	height   float64
	bottom   float64
	style    string
	speed    float64 // multiplier of the default draw-in speed
	document string  // document whose animation_speed setting applies
	sheet    string
	cellRng  string
}

func (f *chartFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "chart width in pixels (default 600)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "chart height in pixels (default 400)")
	cmd.Flags().Float64Var(&f.bottom, "bottom", 0, "bottom base as a fraction of the width (default 0.333)")
	cmd.Flags().StringVar(&f.style, "style", "", "visual style: classic (default), outline")
	cmd.Flags().Float64Var(&f.speed, "speed", 0, "animation speed multiplier (default 1)")
	cmd.Flags().StringVar(&f.document, "doc", "", "document whose saved animation speed to use")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "workbook sheet to read (default active sheet)")
	cmd.Flags().StringVar(&f.cellRng, "range", "", "cell range to read, e.g. A1:B6 (default all used cells)")
}

// options layers flags over the config file and returns pipeline options.
func (c *CLI) options(ctx context.Context, f *chartFlags) (pipeline.Options, error) {
	chart := c.cfg.Chart
	opts := pipeline.Options{
		Width:         firstPositive(f.width, chart.Width),
		Height:        firstPositive(f.height, chart.Height),
		BottomPercent: firstPositive(f.bottom, chart.BottomPercent),
		Style:         f.style,
		Logger:        c.Logger,
	}
	if opts.Style == "" {
		opts.Style = chart.Style
	}

	mult, err := c.speedMultiplier(ctx, f)
	if err != nil {
		return opts, err
	}
	opts.Speed = reveal.SpeedFromSetting(mult)
	return opts, nil
}

// speedMultiplier resolves the animation speed: flag, then document
// setting, then config file, then 1.
func (c *CLI) speedMultiplier(ctx context.Context, f *chartFlags) (float64, error) {
	if f.speed > 0 {
		return f.speed, nil
	}
	def := firstPositive(c.cfg.Animation.Speed, 1)
	if f.document == "" {
		return def, nil
	}
	store, err := c.newSettingsStore(ctx)
	if err != nil {
		return 0, err
	}
	defer store.Close(ctx)
	return settings.GetOr(ctx, store, f.document, settings.AnimationSpeed, def)
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
