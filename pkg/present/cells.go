package present

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"
)

// HalfBlocks draws an image into terminal cells, two pixel rows per cell:
// an upper half block with the top pixel as foreground and the bottom pixel
// as background. The image is scaled to the area when sizes differ.
type HalfBlocks struct {
	Image *image.RGBA
	// Overlay is text drawn over the first cell row.
	Overlay string

	scaled *image.RGBA
}

var (
	overlayFg = color.RGBA{255, 255, 255, 255}
	overlayBg = color.RGBA{0, 0, 0, 255}
)

// PixelSize returns the image size that fills a cols x rows cell area
// without scaling.
func PixelSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw implements uv.Drawable.
func (h *HalfBlocks) Draw(scr uv.Screen, area uv.Rectangle) {
	if h.Image == nil || area.Empty() {
		return
	}
	img := h.fit(PixelSize(area.Dx(), area.Dy()))
	cell := uv.Cell{Content: "▀", Width: 1}
	for row := range area.Dy() {
		top := img.Pix[row*2*img.Stride:]
		bot := img.Pix[(row*2+1)*img.Stride:]
		for col := range area.Dx() {
			o := col * 4
			cell.Style.Fg = color.RGBA{top[o], top[o+1], top[o+2], 255}
			cell.Style.Bg = color.RGBA{bot[o], bot[o+1], bot[o+2], 255}
			scr.SetCell(area.Min.X+col, area.Min.Y+row, &cell)
		}
	}

	text := uv.Cell{Width: 1, Style: uv.Style{Fg: overlayFg, Bg: overlayBg}}
	col := 0
	for _, r := range h.Overlay {
		if col >= area.Dx() {
			break
		}
		text.Content = string(r)
		scr.SetCell(area.Min.X+col, area.Min.Y, &text)
		col++
	}
}

// fit returns the image scaled to width x height.
func (h *HalfBlocks) fit(width, height int) *image.RGBA {
	src := h.Image
	if src.Rect.Dx() == width && src.Rect.Dy() == height && src.Rect.Min == (image.Point{}) {
		return src
	}
	if h.scaled == nil || h.scaled.Rect.Dx() != width || h.scaled.Rect.Dy() != height {
		h.scaled = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	draw.NearestNeighbor.Scale(h.scaled, h.scaled.Rect, src, src.Rect, draw.Src, nil)
	return h.scaled
}
