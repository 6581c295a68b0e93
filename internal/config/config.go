// Package config holds the tunables shared by every host: defaults, the
// optional TOML config file and the command-line flags that override it.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/iburimskiy/digital-rain/internal/glyphs"
	"github.com/iburimskiy/digital-rain/internal/layout"
	"github.com/iburimskiy/digital-rain/internal/mask"
	"github.com/iburimskiy/digital-rain/internal/rain"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640

	// Glyph cell geometry in pixels
	FontSize      = 20
	CellWidth     = 14
	CellHeight    = 20
	HorizontalGap = 2
	VerticalGap   = 4
	GlyphOffsetX  = 1
	GlyphOffsetY  = 17

	// Simulation parameters
	Density          = rain.DefaultDensity
	SlowMotionFactor = rain.DefaultSlowMotionFactor
	MinDensity       = 0.1
	MaxSlowMotion    = 20.0

	// Mask pipeline
	MaskDebounce  = mask.DefaultDebounce
	MaskThreshold = mask.DefaultThreshold

	DefaultAlphabet = "default"
	DefaultTheme    = "green"
)

// Config is the full set of host settings. Field names double as TOML keys.
type Config struct {
	WindowWidth  int `toml:"window_width"`
	WindowHeight int `toml:"window_height"`

	FontSize      float64 `toml:"font_size"`
	CellWidth     float64 `toml:"cell_width"`
	CellHeight    float64 `toml:"cell_height"`
	HorizontalGap float64 `toml:"horizontal_gap"`
	VerticalGap   float64 `toml:"vertical_gap"`
	GlyphOffsetX  float64 `toml:"glyph_offset_x"`
	GlyphOffsetY  float64 `toml:"glyph_offset_y"`

	Density          float64 `toml:"density"`
	SlowMotionFactor float64 `toml:"slow_motion_factor"`
	Alphabet         string  `toml:"alphabet"`
	Theme            string  `toml:"theme"`
	Seed             uint64  `toml:"seed"`

	MaskImage       string        `toml:"mask_image"`
	MaskDebounce    time.Duration `toml:"mask_debounce"`
	MaskThreshold   float64       `toml:"mask_threshold"`
	MaskBinarize    bool          `toml:"mask_binarize"`
	MaskSkipReapply bool          `toml:"mask_skip_reapply"`

	Debug   bool   `toml:"debug"`
	Verbose bool   `toml:"verbose"`
	LogFile string `toml:"log_file"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		WindowWidth:      WindowWidth,
		WindowHeight:     WindowHeight,
		FontSize:         FontSize,
		CellWidth:        CellWidth,
		CellHeight:       CellHeight,
		HorizontalGap:    HorizontalGap,
		VerticalGap:      VerticalGap,
		GlyphOffsetX:     GlyphOffsetX,
		GlyphOffsetY:     GlyphOffsetY,
		Density:          Density,
		SlowMotionFactor: SlowMotionFactor,
		Alphabet:         DefaultAlphabet,
		Theme:            DefaultTheme,
		MaskDebounce:     MaskDebounce,
		MaskThreshold:    MaskThreshold,
	}
}

// Load reads a TOML file over the defaults. Unknown keys are an error so
// typos do not go unnoticed.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// BindFlags registers a flag for every field, defaulting to the current value.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.WindowWidth, "width", c.WindowWidth, "window width in pixels")
	fs.IntVar(&c.WindowHeight, "height", c.WindowHeight, "window height in pixels")
	fs.Float64Var(&c.FontSize, "font-size", c.FontSize, "glyph font size")
	fs.Float64Var(&c.CellWidth, "cell-width", c.CellWidth, "glyph cell width")
	fs.Float64Var(&c.CellHeight, "cell-height", c.CellHeight, "glyph cell height")
	fs.Float64Var(&c.HorizontalGap, "hgap", c.HorizontalGap, "gap between columns")
	fs.Float64Var(&c.VerticalGap, "vgap", c.VerticalGap, "gap between rows")
	fs.Float64Var(&c.GlyphOffsetX, "glyph-offset-x", c.GlyphOffsetX, "glyph anchor inside its cell, x")
	fs.Float64Var(&c.GlyphOffsetY, "glyph-offset-y", c.GlyphOffsetY, "glyph anchor inside its cell, y (baseline)")
	fs.Float64Var(&c.Density, "density", c.Density, "stream density 0.1-1.0")
	fs.Float64Var(&c.SlowMotionFactor, "slow-factor", c.SlowMotionFactor, "slow motion divisor")
	fs.StringVar(&c.Alphabet, "chars", c.Alphabet, "named alphabet or custom string")
	fs.StringVar(&c.Theme, "theme", c.Theme, "color theme name or #rrggbb")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed, 0 picks one")
	fs.StringVar(&c.MaskImage, "mask", c.MaskImage, "mask image path")
	fs.DurationVar(&c.MaskDebounce, "mask-debounce", c.MaskDebounce, "delay before regenerating the mask")
	fs.Float64Var(&c.MaskThreshold, "mask-threshold", c.MaskThreshold, "luminance threshold 0-1")
	fs.BoolVar(&c.MaskBinarize, "mask-binarize", c.MaskBinarize, "binarize on channel average instead of luminance")
	fs.BoolVar(&c.MaskSkipReapply, "mask-skip-reapply", c.MaskSkipReapply, "skip the threshold pass after resizing")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "start with the debug overlay on")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "verbose logging")
	fs.StringVar(&c.LogFile, "log", c.LogFile, "log file (default stderr)")
}

// Parse builds the effective configuration: defaults, then the file named by
// -config, then any flag given explicitly on the command line.
func Parse(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Default()
	var path string
	fs.StringVar(&path, "config", "", "TOML config file")
	cfg.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if path != "" {
		fileCfg, err := Load(path)
		if err != nil {
			return Config{}, err
		}
		override := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
		fileCfg.BindFlags(override)
		var setErr error
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "config" || setErr != nil {
				return
			}
			setErr = override.Set(f.Name, f.Value.String())
		})
		if setErr != nil {
			return Config{}, setErr
		}
		cfg = fileCfg
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate range-checks every field.
func (c Config) Validate() error {
	var errs []error
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive (got %dx%d)", c.WindowWidth, c.WindowHeight))
	}
	if c.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font size must be positive (got %g)", c.FontSize))
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		errs = append(errs, fmt.Errorf("cell size must be positive (got %gx%g)", c.CellWidth, c.CellHeight))
	}
	if c.HorizontalGap < 0 || c.VerticalGap < 0 {
		errs = append(errs, fmt.Errorf("gaps must not be negative (got %g, %g)", c.HorizontalGap, c.VerticalGap))
	}
	if c.Density < MinDensity || c.Density > 1 {
		errs = append(errs, fmt.Errorf("density out of range 0.1-1.0 (got %g)", c.Density))
	}
	if c.SlowMotionFactor < 1 || c.SlowMotionFactor > MaxSlowMotion {
		errs = append(errs, fmt.Errorf("slow motion factor out of range 1-%g (got %g)", MaxSlowMotion, c.SlowMotionFactor))
	}
	if c.MaskThreshold <= 0 || c.MaskThreshold > 1 {
		errs = append(errs, fmt.Errorf("mask threshold out of range 0-1 (got %g)", c.MaskThreshold))
	}
	if c.MaskDebounce < 0 {
		errs = append(errs, fmt.Errorf("mask debounce must not be negative (got %s)", c.MaskDebounce))
	}
	if _, err := glyphs.Resolve(c.Alphabet); err != nil {
		errs = append(errs, err)
	}
	if _, err := ResolveTheme(c.Theme); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// LayoutParams returns the cell geometry for layout.Compute.
func (c Config) LayoutParams() layout.Params {
	return layout.Params{
		CellWidth:     c.CellWidth,
		CellHeight:    c.CellHeight,
		HorizontalGap: c.HorizontalGap,
		VerticalGap:   c.VerticalGap,
		GlyphOffset:   layout.Offset{X: c.GlyphOffsetX, Y: c.GlyphOffsetY},
	}
}

// MaskPipeline returns the filter settings the mask refresher applies to
// every grid request.
func (c Config) MaskPipeline() mask.Params {
	return mask.Params{
		Threshold:   c.MaskThreshold,
		Binarize:    c.MaskBinarize,
		SkipReapply: c.MaskSkipReapply,
	}
}

// InitialState returns the engine state a fresh Start begins from.
func (c Config) InitialState() rain.State {
	return rain.State{
		Density:          c.Density,
		SlowMotionFactor: c.SlowMotionFactor,
		Debug:            c.Debug,
	}
}

// Style resolves the theme into an engine palette.
func (c Config) Style() (rain.Style, error) {
	t, err := ResolveTheme(c.Theme)
	if err != nil {
		return rain.Style{}, err
	}
	s := t.Style()
	s.FontSize = c.FontSize
	return s, nil
}

// Glyphs returns the configured alphabet.
func (c Config) Glyphs() ([]rune, error) {
	return glyphs.Resolve(c.Alphabet)
}
