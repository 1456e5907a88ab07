// Package glyph provides a 5x8 one bit image for the custom characters of
// HD44780 compatible controllers.
//
// The controller stores a custom character as 8 row bytes. Only the low 5
// bits of each row are used; bit 4 is the leftmost pixel:
//
//	Row:    x=0 1 2 3 4
//	Pixels:   # . . . #
//	Byte:   0b10001 = 0x11
//
// This package provides:
//
// - Pixel: a color type that is either lit or dark
// - PixelModel: a color model converting standard Go colors to Pixel
// - Glyph: a draw.Image whose underlying array is what CreateChar sends
//
// Example usage:
//
//	var heart glyph.Glyph
//	draw.Draw(&heart, heart.Bounds(), img, image.Point{}, draw.Src)
//	lcd.CreateChar(0, heart)
//	lcd.Print("\x00")
package glyph
