package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/taigrr/sector/pkg/blend"
	"github.com/taigrr/sector/pkg/config"
	"github.com/taigrr/sector/pkg/render"
	"github.com/taigrr/sector/pkg/texture"
	"github.com/taigrr/sector/pkg/world"
)

// loadWorld builds the demo map and resolves its textures from the
// configured directory and pack, falling back to the built-in set.
func loadWorld(ctx context.Context, cfg config.Config) (*world.Map, world.Start, *texture.Set, error) {
	m, start := world.Demo()
	pal := blend.DefaultPalette()
	log := render.Logger()

	var chain texture.Chain
	if cfg.TextureDir != "" {
		chain = append(chain, texture.DirSource{Dir: cfg.TextureDir, Palette: pal})
	}
	if cfg.TexturePack != "" {
		pack, err := texture.LoadPack(ctx, cfg.TexturePack, pal)
		if err != nil {
			return nil, world.Start{}, nil, fmt.Errorf("load texture pack: %w", err)
		}
		log.Info("textures: pack loaded", "path", cfg.TexturePack, "images", pack.Len())
		chain = append(chain, pack)
	}
	chain = append(chain, texture.NewBuiltin())

	cache, err := texture.NewCache(chain, cfg.TextureCacheSize)
	if err != nil {
		return nil, world.Start{}, nil, err
	}
	set, missing, err := cache.Resolve(m.Textures())
	if err != nil {
		return nil, world.Start{}, nil, err
	}
	if len(missing) > 0 {
		log.Warn("textures: missing, using placeholders", "names", strings.Join(missing, ","))
	}
	return m, start, set, nil
}
