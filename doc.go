// Package rgblcd drives character LCDs with an RGB backlight through a
// small, driver independent API.
//
// An LCD owns one opaque handle obtained from a Driver. Every LCD method
// is forwarded to exactly one Driver call with that handle; display state
// such as the cursor position or backlight color lives in the driver.
//
// # Drivers
//
// The following drivers are provided:
//
//	grove     Seeed Grove LCD RGB Backlight over periph.io I²C
//	backpack  HD44780 displays with a PCF8574 I²C backpack (TinyGo driver)
//	lcdsim    in-memory display that can be drawn on a tcell screen
//
// Any type implementing Driver can be used, which is how the tests record
// calls without hardware.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"periph.io/x/host/v3"
//
//		"github.com/flavioheleno/rgblcd"
//		"github.com/flavioheleno/rgblcd/grove"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open I²C bus
//		bus, _ := i2creg.Open("")
//		defer bus.Close()
//
//		lcd, _ := rgblcd.Create(&grove.Driver{Bus: bus}, 16, 2)
//		defer lcd.Close()
//
//		lcd.SetRgb(64, 0, 64)
//		lcd.Print("Hello, world!")
//		lcd.SetCursor(0, 1)
//		lcd.Print(42)
//	}
//
// # Creating a Display
//
// Create takes the geometry and an optional dot size:
//
//	rgblcd.Create(drv, 16, 2)                   // 5x8 font
//	rgblcd.Create(drv, 16, 1, rgblcd.DotsLarge) // 5x10 font
//
// Create fails when the driver fails, and also when the driver reports
// success without returning a handle.
//
// # Printing
//
// Print writes strings and byte slices as they are. Other values are
// written as their JSON encoding, so Print(42) writes "42" and
// Print(true) writes "true".
//
// # Backlight
//
// SetRgb sets all three channels; SetPwm sets one of ChannelRed,
// ChannelGreen or ChannelBlue. Values are nominally 0-255 and are passed
// to the driver without clamping.
//
// # Closing
//
// Close releases the handle. After Close every method returns ErrClosed
// and the driver is not called again.
//
// # Concurrency
//
// Calls on one LCD are serialized, as drivers are not expected to be
// reentrant. Each call blocks until the driver returns.
package rgblcd
