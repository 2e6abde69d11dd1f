package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/sector/pkg/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sector.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
width: 640
height: 400
format: paletted
gamma: 1.5
rgamma: 1.1
workers: 3
texture_pack: assets/textures.glb
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
	assert.Equal(t, "paletted", cfg.Format)
	assert.InDelta(t, 1.5, cfg.Gamma, 1e-9)
	assert.InDelta(t, 1.1, cfg.RGamma, 1e-9)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, "assets/textures.glb", cfg.TexturePack)
	assert.Zero(t, cfg.FOV)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "width: [1, 2"))
	assert.Error(t, err)

	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)

	cfg, err = LoadOptional("")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		cfg   Config
		flags Flags
		check func(t *testing.T, c Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, c Config) {
				assert.Equal(t, DefaultWidth, c.Width)
				assert.Equal(t, DefaultHeight, c.Height)
				assert.Equal(t, "truecolor", c.Format)
				assert.InDelta(t, DefaultFOV, c.FOV, 0)
				assert.InDelta(t, DefaultGamma, c.Gamma, 0)
				assert.Equal(t, runtime.NumCPU(), c.Workers)
				assert.Equal(t, DefaultTextureCacheSize, c.TextureCacheSize)
				assert.Equal(t, "info", c.LogLevel)
				assert.Equal(t, DefaultSSHAddr, c.SSHAddr)
			},
		},
		{
			name:  "flags override file",
			cfg:   Config{Width: 640, Workers: 2, Format: "paletted"},
			flags: Flags{Width: 800, Workers: 6, Format: "TrueColor", Fullscreen: true},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, 800, c.Width)
				assert.Equal(t, 6, c.Workers)
				assert.Equal(t, "truecolor", c.Format)
				assert.True(t, c.Fullscreen)
			},
		},
		{
			name: "zero flags keep file",
			cfg:  Config{Width: 640, Height: 480, Gamma: 2, Fullscreen: true},
			check: func(t *testing.T, c Config) {
				assert.Equal(t, 640, c.Width)
				assert.Equal(t, 480, c.Height)
				assert.InDelta(t, 2.0, c.Gamma, 0)
				assert.True(t, c.Fullscreen)
			},
		},
		{
			name: "relative texture dir made absolute",
			cfg:  Config{TextureDir: "textures"},
			check: func(t *testing.T, c Config) {
				assert.True(t, filepath.IsAbs(c.TextureDir))
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.cfg
			c.Resolve(tc.flags)
			tc.check(t, c)
			assert.NoError(t, c.Validate())
		})
	}
}

func TestValidate(t *testing.T) {
	c := Config{Format: "hicolor", FOV: 200, LogLevel: "loud"}
	err := c.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "hicolor")
	assert.Contains(t, err.Error(), "fov")
	assert.Contains(t, err.Error(), "loud")
}

func TestConversions(t *testing.T) {
	c := Config{Format: "paletted", LogLevel: "warn", VSync: true}
	c.Resolve(Flags{})

	f, err := c.CanvasFormat()
	require.NoError(t, err)
	assert.Equal(t, render.Paletted8, f)

	l, err := c.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, l)

	s := c.Settings()
	assert.Equal(t, render.Paletted8, s.Format)
	assert.Equal(t, DefaultFPS, s.MaxFPS)
	assert.Equal(t, DefaultWidth, s.Width)

	o := c.RenderOptions()
	assert.Equal(t, c.Workers, o.Workers)
	assert.InDelta(t, DefaultFOV, o.FOV, 0)
}
