package texture

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"

	"github.com/taigrr/sector/pkg/blend"
)

// ErrNotFound is returned by a Source that has no asset of the given name.
var ErrNotFound = errors.New("texture not found")

// alphaCutoff is the 8-bit alpha below which a texel becomes transparent.
const alphaCutoff = 128

// quantize maps an image texel to a palette index.
func quantize(img image.Image, x, y int, pal *blend.Palette) uint8 {
	r, g, b, a := img.At(x, y).RGBA()
	if a>>8 < alphaCutoff {
		return blend.Transparent
	}
	// RGBA returns 16-bit values, scale to 8-bit
	return pal.Lookup(blend.RGB(uint8(r>>8), uint8(g>>8), uint8(b>>8)))
}

// FromImage quantizes an image into a paletted texture.
func FromImage(name string, img image.Image, pal *blend.Palette) *Texture {
	bounds := img.Bounds()
	return Generate(name, bounds.Dx(), bounds.Dy(), func(x, y int) uint8 {
		return quantize(img, bounds.Min.X+x, bounds.Min.Y+y, pal)
	})
}

// FlatFromImage quantizes an image into a flat.
func FlatFromImage(name string, img image.Image, pal *blend.Palette) *Flat {
	bounds := img.Bounds()
	return GenerateFlat(name, bounds.Dx(), bounds.Dy(), func(x, y int) uint8 {
		return quantize(img, bounds.Min.X+x, bounds.Min.Y+y, pal)
	})
}

// ErrUnknownFormat is returned for image data in a format no decoder
// handles.
var ErrUnknownFormat = errors.New("unknown image format")

// decoders maps a format name to its decoder. image.Decode is never used:
// the TGA package registers itself with an empty magic string, which
// matches any input, so whichever decoder registered first would win.
var decoders = map[string]func(io.Reader) (image.Image, error){
	"png":  png.Decode,
	"jpeg": jpeg.Decode,
	"gif":  gif.Decode,
	"bmp":  bmp.Decode,
	"tga":  tga.Decode,
}

// formatFromExt returns the format named by a file extension.
func formatFromExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	case ".tga":
		return "tga"
	}
	return ""
}

// formatFromMime returns the format named by a MIME type such as image/png.
func formatFromMime(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/bmp", "image/x-bmp":
		return "bmp"
	case "image/tga", "image/x-tga", "image/x-targa":
		return "tga"
	}
	return ""
}

// sniffFormat guesses the format from the leading bytes. TGA has no magic
// number, so it is never sniffed.
func sniffFormat(head []byte) string {
	switch {
	case bytes.HasPrefix(head, []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case bytes.HasPrefix(head, []byte{0xff, 0xd8}):
		return "jpeg"
	case bytes.HasPrefix(head, []byte("GIF8")):
		return "gif"
	case bytes.HasPrefix(head, []byte("BM")):
		return "bmp"
	}
	return ""
}

// decodeImage decodes r as format. An empty format is sniffed from the
// first bytes of the data.
func decodeImage(r io.Reader, format string) (image.Image, error) {
	if format == "" {
		br := bufio.NewReader(r)
		head, _ := br.Peek(8)
		format, r = sniffFormat(head), br
	}
	decode, ok := decoders[format]
	if !ok {
		return nil, ErrUnknownFormat
	}
	return decode(r)
}

// decodeFile decodes an image file, choosing the decoder by extension.
func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, err := decodeImage(f, formatFromExt(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// LoadFile loads and quantizes a texture image. The texture is named after
// the file without its extension.
func LoadFile(path string, pal *blend.Palette) (*Texture, error) {
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	name := filepath.Base(path)
	return FromImage(name[:len(name)-len(filepath.Ext(name))], img, pal), nil
}

// extensions lists the file extensions a DirSource tries, in order.
var extensions = []string{".png", ".tga", ".bmp", ".jpg", ".jpeg", ".gif"}

// DirSource loads assets named NAME from NAME.<ext> in a directory. Flats
// are looked up in the flats/ subdirectory first.
type DirSource struct {
	Dir     string
	Palette *blend.Palette
}

func (d DirSource) find(names ...string) (string, error) {
	for _, name := range names {
		for _, ext := range extensions {
			path := filepath.Join(d.Dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}
	}
	return "", ErrNotFound
}

// Texture implements Source.
func (d DirSource) Texture(name string) (*Texture, error) {
	path, err := d.find(name)
	if err != nil {
		return nil, err
	}
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return FromImage(name, img, d.Palette), nil
}

// Flat implements Source.
func (d DirSource) Flat(name string) (*Flat, error) {
	path, err := d.find(filepath.Join("flats", name), name)
	if err != nil {
		return nil, err
	}
	img, err := decodeFile(path)
	if err != nil {
		return nil, err
	}
	return FlatFromImage(name, img, d.Palette), nil
}
