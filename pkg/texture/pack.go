package texture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/qmuntal/gltf"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/sector/pkg/blend"
)

// Pack is a Source backed by the images of a glTF/GLB file. Every image is
// available both as a texture and as a flat under its upper-cased name, or
// IMAGE<n> when unnamed.
type Pack struct {
	textures map[string]*Texture
	flats    map[string]*Flat
}

type packImage struct {
	name   string
	format string
	data   []byte
}

// LoadPack opens a glTF/GLB file and decodes its images concurrently.
func LoadPack(ctx context.Context, path string, pal *blend.Palette) (*Pack, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	var raws []packImage
	for i, img := range doc.Images {
		name := strings.ToUpper(img.Name)
		if name == "" {
			name = fmt.Sprintf("IMAGE%d", i)
		}
		switch {
		case img.BufferView != nil:
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			if buf.Data == nil {
				continue
			}
			start := bv.ByteOffset
			end := start + bv.ByteLength
			raws = append(raws, packImage{name, formatFromMime(img.MimeType), buf.Data[start:end]})
		case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
			// External image file, relative to the document
			data, err := os.ReadFile(filepath.Join(filepath.Dir(path), img.URI))
			if err != nil {
				return nil, fmt.Errorf("read image %q: %w", img.URI, err)
			}
			raws = append(raws, packImage{name, formatFromExt(filepath.Ext(img.URI)), data})
		}
	}

	decoded := make([]image.Image, len(raws))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, raw := range raws {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			img, err := decodeImage(bytes.NewReader(raw.data), raw.format)
			if err != nil {
				return fmt.Errorf("decode image %q: %w", raw.name, err)
			}
			decoded[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p := &Pack{
		textures: make(map[string]*Texture, len(raws)),
		flats:    make(map[string]*Flat, len(raws)),
	}
	for i, raw := range raws {
		p.textures[raw.name] = FromImage(raw.name, decoded[i], pal)
		p.flats[raw.name] = FlatFromImage(raw.name, decoded[i], pal)
	}
	return p, nil
}

// Len returns the number of images in the pack.
func (p *Pack) Len() int {
	return len(p.textures)
}

// Texture implements Source.
func (p *Pack) Texture(name string) (*Texture, error) {
	if t, ok := p.textures[name]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

// Flat implements Source.
func (p *Pack) Flat(name string) (*Flat, error) {
	if f, ok := p.flats[name]; ok {
		return f, nil
	}
	return nil, ErrNotFound
}
