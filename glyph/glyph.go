package glyph

import (
	"image"
	"image/color"
	"strings"
)

const (
	Width  = 5
	Height = 8
)

// Pixel is a lit (true) or dark (false) dot.
type Pixel bool

// RGBA returns white for a lit pixel and black otherwise.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	if p {
		return 0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF
	}
	return 0, 0, 0, 0xFFFF
}

// toPixel lights any color at least half as bright as white. Fully
// transparent colors stay dark.
func toPixel(c color.Color) color.Color {
	if p, ok := c.(Pixel); ok {
		return p
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return Pixel(false)
	}
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Pixel(y >= 0x8000)
}

// PixelModel converts colors to Pixel.
var PixelModel = color.ModelFunc(toPixel)

// Glyph is a custom character. Each byte is one row, top first.
type Glyph [Height]byte

var bounds = image.Rect(0, 0, Width, Height)

// ColorModel returns the color model of the glyph.
func (g *Glyph) ColorModel() color.Model {
	return PixelModel
}

// Bounds returns the glyph bounds, always 5x8.
func (g *Glyph) Bounds() image.Rectangle {
	return bounds
}

// At returns the color of the pixel at (x, y).
func (g *Glyph) At(x, y int) color.Color {
	return g.PixelAt(x, y)
}

// PixelAt returns the pixel at (x, y).
func (g *Glyph) PixelAt(x, y int) Pixel {
	if !(image.Point{X: x, Y: y}.In(bounds)) {
		return false
	}
	return g[y]&mask(x) != 0
}

// Set sets the pixel at (x, y).
func (g *Glyph) Set(x, y int, c color.Color) {
	g.SetPixel(x, y, PixelModel.Convert(c).(Pixel))
}

// SetPixel sets the pixel at (x, y) without color conversion.
func (g *Glyph) SetPixel(x, y int, p Pixel) {
	if !(image.Point{X: x, Y: y}.In(bounds)) {
		return
	}
	if p {
		g[y] |= mask(x)
	} else {
		g[y] &^= mask(x)
	}
}

// mask returns the row bit of column x.
func mask(x int) byte {
	return 1 << uint(Width-1-x)
}

// FromImage samples the top left 5x8 pixels of img.
func FromImage(img image.Image) Glyph {
	var g Glyph
	o := img.Bounds().Min
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			g.Set(x, y, img.At(o.X+x, o.Y+y))
		}
	}
	return g
}

// Parse reads a glyph from 8 rows of 5 characters, '#' for lit and '.'
// for dark, separated by '/' or newlines. Missing rows and columns are
// dark.
func Parse(s string) Glyph {
	var g Glyph
	rows := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\n' })
	for y, row := range rows {
		if y >= Height {
			break
		}
		for x, c := range []byte(row) {
			if x >= Width {
				break
			}
			g.SetPixel(x, y, c == '#')
		}
	}
	return g
}

// String returns the glyph in the format read by Parse.
func (g Glyph) String() string {
	var b strings.Builder
	for y := 0; y < Height; y++ {
		if y > 0 {
			b.WriteByte('/')
		}
		for x := 0; x < Width; x++ {
			if g.PixelAt(x, y) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}
