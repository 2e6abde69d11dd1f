package texture

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/taigrr/sector/pkg/blend"
)

// Source resolves asset names to decoded textures and flats. It returns
// ErrNotFound for names it does not know.
type Source interface {
	Texture(name string) (*Texture, error)
	Flat(name string) (*Flat, error)
}

// Chain tries each source in order; the first hit wins.
type Chain []Source

// Texture implements Source.
func (c Chain) Texture(name string) (*Texture, error) {
	for _, s := range c {
		t, err := s.Texture(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return t, err
	}
	return nil, ErrNotFound
}

// Flat implements Source.
func (c Chain) Flat(name string) (*Flat, error) {
	for _, s := range c {
		f, err := s.Flat(name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return f, err
	}
	return nil, ErrNotFound
}

// DefaultCacheSize is the number of entries kept per asset kind.
const DefaultCacheSize = 256

// Cache keeps recently used assets from a Source. It is safe for concurrent
// use; concurrent misses on the same name load it once.
type Cache struct {
	src      Source
	textures *lru.Cache[string, *Texture]
	flats    *lru.Cache[string, *Flat]
	loads    singleflight.Group
}

// NewCache creates a cache holding up to size textures and size flats.
func NewCache(src Source, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	textures, err := lru.New[string, *Texture](size)
	if err != nil {
		return nil, fmt.Errorf("create texture cache: %w", err)
	}
	flats, err := lru.New[string, *Flat](size)
	if err != nil {
		return nil, fmt.Errorf("create flat cache: %w", err)
	}
	return &Cache{src: src, textures: textures, flats: flats}, nil
}

// Texture returns a cached texture, loading it on a miss.
func (c *Cache) Texture(name string) (*Texture, error) {
	if t, ok := c.textures.Get(name); ok {
		return t, nil
	}
	v, err, _ := c.loads.Do("t:"+name, func() (any, error) {
		if t, ok := c.textures.Get(name); ok {
			return t, nil
		}
		t, err := c.src.Texture(name)
		if err != nil {
			return nil, err
		}
		c.textures.Add(name, t)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Texture), nil
}

// Flat returns a cached flat, loading it on a miss.
func (c *Cache) Flat(name string) (*Flat, error) {
	if f, ok := c.flats.Get(name); ok {
		return f, nil
	}
	v, err, _ := c.loads.Do("f:"+name, func() (any, error) {
		if f, ok := c.flats.Get(name); ok {
			return f, nil
		}
		f, err := c.src.Flat(name)
		if err != nil {
			return nil, err
		}
		c.flats.Add(name, f)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Flat), nil
}

// Len returns the number of cached textures and flats.
func (c *Cache) Len() int {
	return c.textures.Len() + c.flats.Len()
}

// Purge drops every cached entry, for example after a palette change.
func (c *Cache) Purge() {
	c.textures.Purge()
	c.flats.Purge()
}

// Resolve snapshots the named assets into a Set for one frame. Unknown names
// resolve to the missing-asset placeholders and are reported in missing;
// any other load failure is returned as an error.
func (c *Cache) Resolve(textures, flats []string) (set *Set, missing []string, err error) {
	set = NewSet()
	for _, name := range textures {
		if name == "" || set.textures[name] != nil {
			continue
		}
		t, err := c.Texture(name)
		switch {
		case errors.Is(err, ErrNotFound):
			missing = append(missing, name)
			continue
		case err != nil:
			return nil, nil, fmt.Errorf("load texture %q: %w", name, err)
		}
		set.textures[name] = t
	}
	for _, name := range flats {
		if name == "" || set.flats[name] != nil {
			continue
		}
		f, err := c.Flat(name)
		switch {
		case errors.Is(err, ErrNotFound):
			missing = append(missing, name)
			continue
		case err != nil:
			return nil, nil, fmt.Errorf("load flat %q: %w", name, err)
		}
		set.flats[name] = f
	}
	return set, missing, nil
}

// Set is an immutable name-to-asset snapshot handed to the renderer for one
// frame. Lookups of unknown names return a placeholder checker.
type Set struct {
	textures    map[string]*Texture
	flats       map[string]*Flat
	missing     *Texture
	missingFlat *Flat
}

var (
	missingTexture = NewChecker("-", 64, 64, 16, blend.RampIndex(blend.RampMagenta, 13), blend.RampIndex(blend.RampGray, 1))
	missingFlat    = NewCheckerFlat("-", 64, 16, blend.RampIndex(blend.RampMagenta, 13), blend.RampIndex(blend.RampGray, 1))
)

// NewSet creates an empty set. Use Add and AddFlat to populate it before
// sharing it.
func NewSet() *Set {
	return &Set{
		textures:    make(map[string]*Texture),
		flats:       make(map[string]*Flat),
		missing:     missingTexture,
		missingFlat: missingFlat,
	}
}

// Add registers a texture under its name.
func (s *Set) Add(t *Texture) *Set {
	s.textures[t.Name] = t
	return s
}

// AddFlat registers a flat under its name.
func (s *Set) AddFlat(f *Flat) *Set {
	s.flats[f.Name] = f
	return s
}

// Texture returns the named texture, nil for the empty name, or the
// placeholder when unknown.
func (s *Set) Texture(name string) *Texture {
	if name == "" {
		return nil
	}
	if t, ok := s.textures[name]; ok {
		return t
	}
	return s.missing
}

// Flat returns the named flat or the placeholder when unknown.
func (s *Set) Flat(name string) *Flat {
	if f, ok := s.flats[name]; ok {
		return f
	}
	return s.missingFlat
}
