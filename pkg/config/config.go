// Package config loads the settings shared by the sector commands from a
// YAML file and command line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/sector/pkg/present"
	"github.com/taigrr/sector/pkg/render"
)

// ErrInvalid is returned by Validate for settings that cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config holds every setting. Zero values mean "use the default".
type Config struct {
	// Display
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	Format     string  `yaml:"format"` // truecolor or paletted
	FOV        float64 `yaml:"fov"`
	Gamma      float64 `yaml:"gamma"`
	RGamma     float64 `yaml:"rgamma"`
	GGamma     float64 `yaml:"ggamma"`
	BGamma     float64 `yaml:"bgamma"`
	VSync      bool    `yaml:"vsync"`
	MaxFPS     int     `yaml:"max_fps"`

	// Renderer
	Workers int `yaml:"workers"`

	// Textures
	TextureDir       string `yaml:"texture_dir"`
	TexturePack      string `yaml:"texture_pack"`
	TextureCacheSize int    `yaml:"texture_cache_size"`

	// Services
	LogLevel    string `yaml:"log_level"`
	SSHAddr     string `yaml:"ssh_addr"`
	HostKey     string `yaml:"host_key"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Defaults.
const (
	DefaultWidth            = 320
	DefaultHeight           = 200
	DefaultFOV              = 90
	DefaultGamma            = 1.0
	DefaultFPS              = 35
	DefaultTextureCacheSize = 256
	DefaultSSHAddr          = ":2222"
	DefaultHostKey          = "sector_host_key"
)

// Load reads a YAML config file. Fields missing from the file keep their
// zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load, returning an empty config when path is empty or
// does not exist.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// Flags holds command line values that override the config file. Zero
// values leave the file's setting alone.
type Flags struct {
	Width       int
	Height      int
	Fullscreen  bool
	Format      string
	FOV         float64
	Gamma       float64
	MaxFPS      int
	Workers     int
	TextureDir  string
	TexturePack string
	LogLevel    string
	SSHAddr     string
	MetricsAddr string
}

// Resolve applies flags over the file settings and fills in defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Fullscreen {
		c.Fullscreen = true
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.FOV > 0 {
		c.FOV = flags.FOV
	}
	if flags.Gamma > 0 {
		c.Gamma = flags.Gamma
	}
	if flags.MaxFPS > 0 {
		c.MaxFPS = flags.MaxFPS
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.TextureDir != "" {
		c.TextureDir = flags.TextureDir
	}
	if flags.TexturePack != "" {
		c.TexturePack = flags.TexturePack
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}
	if flags.SSHAddr != "" {
		c.SSHAddr = flags.SSHAddr
	}
	if flags.MetricsAddr != "" {
		c.MetricsAddr = flags.MetricsAddr
	}

	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Format == "" {
		c.Format = render.TrueColor32.String()
	}
	c.Format = strings.ToLower(c.Format)
	if c.FOV <= 0 {
		c.FOV = DefaultFOV
	}
	if c.Gamma <= 0 {
		c.Gamma = DefaultGamma
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.TextureCacheSize <= 0 {
		c.TextureCacheSize = DefaultTextureCacheSize
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.SSHAddr == "" {
		c.SSHAddr = DefaultSSHAddr
	}
	if c.HostKey == "" {
		c.HostKey = DefaultHostKey
	}
	if c.TextureDir != "" && !filepath.IsAbs(c.TextureDir) {
		if abs, err := filepath.Abs(c.TextureDir); err == nil {
			c.TextureDir = abs
		}
	}
}

// Validate reports settings that Resolve cannot repair.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.CanvasFormat(); err != nil {
		errs = append(errs, err)
	}
	if c.FOV >= 180 {
		errs = append(errs, fmt.Errorf("%w: fov %v must be below 180", ErrInvalid, c.FOV))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// CanvasFormat returns the canvas pixel format named by Format.
func (c *Config) CanvasFormat() (render.Format, error) {
	switch c.Format {
	case "truecolor", "":
		return render.TrueColor32, nil
	case "paletted":
		return render.Paletted8, nil
	}
	return 0, fmt.Errorf("%w: format %q (want truecolor or paletted)", ErrInvalid, c.Format)
}

// Level returns the slog level named by LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: log_level %q: %w", ErrInvalid, c.LogLevel, err)
	}
	return l, nil
}

// Settings returns the framebuffer settings. VSync without an explicit
// max_fps caps presentation at DefaultFPS.
func (c *Config) Settings() present.Settings {
	format, _ := c.CanvasFormat()
	maxFPS := c.MaxFPS
	if c.VSync && maxFPS == 0 {
		maxFPS = DefaultFPS
	}
	return present.Settings{
		Width:      c.Width,
		Height:     c.Height,
		Fullscreen: c.Fullscreen,
		Format:     format,
		Gamma:      c.Gamma,
		RGamma:     c.RGamma,
		GGamma:     c.GGamma,
		BGamma:     c.BGamma,
		MaxFPS:     maxFPS,
	}
}

// RenderOptions returns the renderer options.
func (c *Config) RenderOptions() render.Options {
	return render.Options{Workers: c.Workers, FOV: c.FOV}
}
