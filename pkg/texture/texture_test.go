package texture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/qmuntal/gltf"
	"golang.org/x/image/bmp"

	"github.com/taigrr/sector/pkg/blend"
)

func TestNewPadsToPowerOfTwo(t *testing.T) {
	// 2 columns, 3 rows: column 0 = 1,2,3; column 1 = 4,5,6
	tex := New("T", 2, 3, []uint8{1, 2, 3, 4, 5, 6})
	if tex.Height != 4 || tex.SrcHeight != 3 {
		t.Fatalf("Height=%d SrcHeight=%d, want 4 and 3", tex.Height, tex.SrcHeight)
	}
	if got := tex.Column(0); string(got) != string([]uint8{1, 2, 3, 1}) {
		t.Errorf("column 0 = %v, want tiled rows", got)
	}
	if got := tex.FracBits(); got != 18 {
		t.Errorf("FracBits = %d, want 18", got)
	}

	rows := make([]uint8, 48)
	for i := range rows {
		rows[i] = uint8(i)
	}
	tall := New("T", 1, 48, rows)
	col := tall.Column(0)
	if len(col) != 64 {
		t.Fatalf("padded height = %d, want 64", len(col))
	}
	for y := 48; y < 64; y++ {
		if col[y] != uint8(y-48) {
			t.Errorf("row %d = %d, want source row %d", y, col[y], y-48)
		}
	}
}

func TestColumnWraps(t *testing.T) {
	tex := New("T", 2, 1, []uint8{7, 9})
	tests := []struct {
		x    int
		want uint8
	}{
		{0, 7}, {1, 9}, {2, 7}, {-1, 9}, {-2, 7},
	}
	for _, tt := range tests {
		if got := tex.Column(tt.x)[0]; got != tt.want {
			t.Errorf("Column(%d) = %d, want %d", tt.x, got, tt.want)
		}
	}
	if tex.At(3, 5) != 9 {
		t.Errorf("At(3,5) = %d", tex.At(3, 5))
	}
}

func TestNewFlatPads(t *testing.T) {
	f := NewFlat("F", 3, 1, []uint8{1, 2, 3})
	if f.Width() != 4 || f.Height() != 1 {
		t.Fatalf("size %dx%d, want 4x1", f.Width(), f.Height())
	}
	if string(f.Pixels) != string([]uint8{1, 2, 3, 1}) {
		t.Errorf("pixels = %v", f.Pixels)
	}
}

func TestBuiltin(t *testing.T) {
	b := NewBuiltin()
	for _, name := range []string{"BRICK", "STONE", "METAL", "GRATE", "DOOR", "PILLAR", "BARREL", "LAMP", "GHOST"} {
		tex, err := b.Texture(name)
		if err != nil {
			t.Fatalf("Texture(%s): %v", name, err)
		}
		if tex.Height&(tex.Height-1) != 0 {
			t.Errorf("%s height %d is not a power of two", name, tex.Height)
		}
	}
	if tex := New("T", 1, 2, []uint8{blend.Transparent, 3}); tex.Opaque() {
		t.Error("texture with a transparent texel reported opaque")
	}
	grate, _ := b.Texture("GRATE")
	if grate.Opaque() {
		t.Error("GRATE must contain transparent texels")
	}
	brick, _ := b.Texture("BRICK")
	if !brick.Opaque() {
		t.Error("BRICK must be opaque")
	}
	if _, err := b.Texture("NOPE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown texture err = %v", err)
	}
	if _, err := b.Flat("FLOOR"); err != nil {
		t.Errorf("Flat(FLOOR): %v", err)
	}
}

func writeImage(t *testing.T, path string, img image.Image, encode func(io.Writer, image.Image) error) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	writeImage(t, path, img, png.Encode)
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := range 2 {
		for x := range 4 {
			img.Set(x, y, color.NRGBA{255, 40, 32, 255})
		}
	}
	img.Set(0, 0, color.NRGBA{0, 0, 0, 0})
	return img
}

func TestFromImage(t *testing.T) {
	pal := blend.DefaultPalette()
	tex := FromImage("IMG", testImage(), pal)
	if tex.Width != 4 || tex.SrcHeight != 2 {
		t.Fatalf("size %dx%d", tex.Width, tex.SrcHeight)
	}
	if tex.At(0, 0) != blend.Transparent {
		t.Error("transparent texel not mapped to sentinel")
	}
	if got, want := tex.At(1, 0), blend.RampIndex(blend.RampRed, 15); got != want {
		t.Errorf("opaque texel = %d, want %d", got, want)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "flats"), 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(dir, "RED.png"), testImage())
	writePNG(t, filepath.Join(dir, "flats", "REDF.png"), testImage())

	src := DirSource{Dir: dir, Palette: blend.DefaultPalette()}
	if _, err := src.Texture("RED"); err != nil {
		t.Errorf("Texture(RED): %v", err)
	}
	if f, err := src.Flat("REDF"); err != nil || f.Width() != 4 {
		t.Errorf("Flat(REDF) = %v, %v", f, err)
	}
	if _, err := src.Texture("BLUE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file err = %v", err)
	}

	tex, err := LoadFile(filepath.Join(dir, "RED.png"), blend.DefaultPalette())
	if err != nil {
		t.Fatal(err)
	}
	if tex.Name != "RED" {
		t.Errorf("Name = %q, want RED", tex.Name)
	}
}

func TestDirSourceFormats(t *testing.T) {
	red := blend.RampIndex(blend.RampRed, 15)
	tests := []struct {
		name     string
		ext      string
		encode   func(io.Writer, image.Image) error
		lossless bool
	}{
		{"png", ".png", png.Encode, true},
		{"tga", ".tga", tga.Encode, true},
		{"bmp", ".bmp", bmp.Encode, true},
		{"jpeg", ".jpg", func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 100})
		}, false},
		{"gif", ".gif", func(w io.Writer, img image.Image) error {
			return gif.Encode(w, img, nil)
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeImage(t, filepath.Join(dir, "RED"+tt.ext), testImage(), tt.encode)

			src := DirSource{Dir: dir, Palette: blend.DefaultPalette()}
			tex, err := src.Texture("RED")
			if err != nil {
				t.Fatalf("Texture(RED): %v", err)
			}
			if tex.Width != 4 || tex.SrcHeight != 2 {
				t.Errorf("size %dx%d, want 4x2", tex.Width, tex.SrcHeight)
			}
			if tt.lossless {
				if got := tex.At(1, 1); got != red {
					t.Errorf("texel (1,1) = %d, want %d", got, red)
				}
			}
		})
	}
}

func TestSniffFormat(t *testing.T) {
	img := testImage()
	got, err := decodeImage(bytes.NewReader(encodePNG(t, img)), "")
	if err != nil {
		t.Fatalf("sniffed png: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
	if _, err := decodeImage(bytes.NewReader([]byte("not an image")), ""); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("garbage err = %v, want ErrUnknownFormat", err)
	}
}

func TestLoadPack(t *testing.T) {
	brick := testImage()
	wide := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := range 4 {
		for x := range 8 {
			wide.Set(x, y, color.NRGBA{255, 40, 32, 255})
		}
	}
	first, second := encodePNG(t, brick), encodePNG(t, wide)
	data := append(append([]byte{}, first...), second...)

	doc := gltf.NewDocument()
	doc.Buffers = []*gltf.Buffer{{ByteLength: len(data), Data: data}}
	doc.BufferViews = []*gltf.BufferView{
		{Buffer: 0, ByteLength: len(first)},
		{Buffer: 0, ByteOffset: len(first), ByteLength: len(second)},
	}
	doc.Images = []*gltf.Image{
		{Name: "brick", MimeType: "image/png", BufferView: gltf.Index(0)},
		{BufferView: gltf.Index(1)},
	}
	path := filepath.Join(t.TempDir(), "pack.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatal(err)
	}

	pack, err := LoadPack(context.Background(), path, blend.DefaultPalette())
	if err != nil {
		t.Fatalf("LoadPack: %v", err)
	}
	if pack.Len() != 2 {
		t.Fatalf("Len = %d, want 2", pack.Len())
	}

	tex, err := pack.Texture("BRICK")
	if err != nil {
		t.Fatalf("Texture(BRICK): %v", err)
	}
	if tex.Width != 4 || tex.SrcHeight != 2 {
		t.Errorf("BRICK size %dx%d, want 4x2", tex.Width, tex.SrcHeight)
	}
	if tex.At(0, 0) != blend.Transparent {
		t.Error("BRICK (0,0) should be transparent")
	}
	if got, want := tex.At(2, 1), blend.RampIndex(blend.RampRed, 15); got != want {
		t.Errorf("BRICK (2,1) = %d, want %d", got, want)
	}

	flat, err := pack.Flat("IMAGE1")
	if err != nil {
		t.Fatalf("Flat(IMAGE1): %v", err)
	}
	if flat.Width() != 8 || flat.Height() != 4 {
		t.Errorf("IMAGE1 flat %dx%d, want 8x4", flat.Width(), flat.Height())
	}
	if _, err := pack.Texture("NOPE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing texture err = %v", err)
	}
}

type countingSource struct {
	Source
	loads atomic.Int32
}

func (c *countingSource) Texture(name string) (*Texture, error) {
	c.loads.Add(1)
	return c.Source.Texture(name)
}

func TestCache(t *testing.T) {
	src := &countingSource{Source: NewBuiltin()}
	cache, err := NewCache(src, 8)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			if _, err := cache.Texture("BRICK"); err != nil {
				t.Error(err)
			}
		})
	}
	wg.Wait()
	if n := src.loads.Load(); n != 1 {
		t.Errorf("source loaded %d times, want 1", n)
	}

	set, missing, err := cache.Resolve([]string{"BRICK", "NOPE", ""}, []string{"FLOOR", "NOFLAT"})
	if err != nil {
		t.Fatal(err)
	}
	if len(missing) != 2 {
		t.Errorf("missing = %v, want 2 names", missing)
	}
	if set.Texture("BRICK").Name != "BRICK" {
		t.Error("resolved texture not in set")
	}
	if set.Texture("NOPE") != missingTexture {
		t.Error("unknown texture should resolve to placeholder")
	}
	if set.Texture("") != nil {
		t.Error("empty name should resolve to nil")
	}
	if set.Flat("NOFLAT") != missingFlat {
		t.Error("unknown flat should resolve to placeholder")
	}

	cache.Purge()
	if cache.Len() != 0 {
		t.Errorf("Len after Purge = %d", cache.Len())
	}
}

func TestChain(t *testing.T) {
	first := NewSet()
	custom := NewChecker("BRICK", 8, 8, 4, 1, 2)
	chain := Chain{setSource{first.Add(custom)}, NewBuiltin()}
	got, err := chain.Texture("BRICK")
	if err != nil || got != custom {
		t.Errorf("chain should prefer first source, got %v, %v", got, err)
	}
	if _, err := chain.Texture("STONE"); err != nil {
		t.Errorf("chain fallthrough: %v", err)
	}
	if _, err := chain.Flat("NOPE"); !errors.Is(err, ErrNotFound) {
		t.Errorf("chain miss err = %v", err)
	}
}

// setSource adapts a Set to Source for tests.
type setSource struct{ s *Set }

func (s setSource) Texture(name string) (*Texture, error) {
	if t, ok := s.s.textures[name]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}

func (s setSource) Flat(name string) (*Flat, error) {
	if f, ok := s.s.flats[name]; ok {
		return f, nil
	}
	return nil, ErrNotFound
}

func TestLoadPackInvalidPath(t *testing.T) {
	if _, err := LoadPack(context.Background(), "/nonexistent/pack.glb", blend.DefaultPalette()); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func BenchmarkCacheHit(b *testing.B) {
	cache, _ := NewCache(NewBuiltin(), 8)
	_, _ = cache.Texture("BRICK")
	for b.Loop() {
		_, _ = cache.Texture("BRICK")
	}
}
