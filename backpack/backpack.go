// Package backpack drives HD44780 character displays fitted with a PCF8574
// I²C backpack.
//
// The controller work is done by TinyGo's hd44780i2c driver; any periph.io
// i2c.Bus can carry it. These modules have a single color backlight, so
// the RGB, PWM, scroll and text direction operations of rgblcd.Driver
// report rgblcd.ErrNotImplemented.
package backpack

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/flavioheleno/rgblcd"
)

// DefaultAddr is the usual PCF8574 address. Modules based on the
// PCF8574A answer on 0x3F.
const DefaultAddr = 0x27

// Opts is the configuration for the Driver.
type Opts struct {
	Addr uint8 // Default: DefaultAddr
}

// Driver opens backpack displays for use with rgblcd.
type Driver struct {
	bus  i2c.Bus
	addr uint8
}

var _ rgblcd.Driver = (*Driver)(nil)

// New returns a Driver on bus.
//
// opts can be nil to use defaults.
func New(bus i2c.Bus, opts *Opts) *Driver {
	d := &Driver{bus: bus, addr: DefaultAddr}
	if opts != nil && opts.Addr != 0 {
		d.addr = opts.Addr
	}
	return d
}

// handle is the per display state behind an rgblcd.Handle.
type handle struct {
	dev    *hd44780i2c.Device
	closed bool
}

var errClosed = errors.New("backpack: closed")

func (d *Driver) get(h rgblcd.Handle) (*handle, error) {
	p, ok := h.(*handle)
	if !ok || p == nil {
		return nil, rgblcd.ErrBadHandle
	}
	if p.closed {
		return nil, errClosed
	}
	return p, nil
}

// Open configures the display. The controller has no 5x10 mode on these
// modules, so dots is ignored.
func (d *Driver) Open(columns, lines int, dots rgblcd.DotSize) (rgblcd.Handle, error) {
	if columns <= 0 || columns > 255 || lines <= 0 || lines > 255 {
		return nil, fmt.Errorf("backpack: invalid geometry %dx%d", columns, lines)
	}
	dev := hd44780i2c.New(d.bus, d.addr)
	if err := dev.Configure(hd44780i2c.Config{Width: uint8(columns), Height: uint8(lines)}); err != nil {
		return nil, fmt.Errorf("backpack: configure: %w", err)
	}
	return &handle{dev: &dev}, nil
}

// Close releases the display behind h.
func (d *Driver) Close(h rgblcd.Handle) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.closed = true
	return nil
}

// PrintString writes the first n bytes of b at the cursor.
func (d *Driver) PrintString(h rgblcd.Handle, b []byte, n int) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	if b, err = rgblcd.Truncate(b, n); err != nil {
		return err
	}
	p.dev.Print(b)
	return nil
}

// Clear blanks the display and homes the cursor.
func (d *Driver) Clear(h rgblcd.Handle) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.dev.ClearDisplay()
	return nil
}

// CursorHome moves the cursor to the zero position.
func (d *Driver) CursorHome(h rgblcd.Handle) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.dev.Home()
	return nil
}

// SetCursor moves the cursor to col, row.
func (d *Driver) SetCursor(h rgblcd.Handle, col, row int) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.dev.SetCursor(uint8(col), uint8(row))
	return nil
}

func (d *Driver) setDisplay(h rgblcd.Handle, on bool) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.dev.DisplayOn(on)
	return nil
}

func (d *Driver) setCursor(h rgblcd.Handle, on bool) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.dev.CursorOn(on)
	return nil
}

func (d *Driver) setBlink(h rgblcd.Handle, on bool) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.dev.CursorBlink(on)
	return nil
}

// DisplayOff blanks the display, keeping its content.
func (d *Driver) DisplayOff(h rgblcd.Handle) error { return d.setDisplay(h, false) }

// DisplayOn shows the display content.
func (d *Driver) DisplayOn(h rgblcd.Handle) error { return d.setDisplay(h, true) }

// CursorOff hides the underline cursor.
func (d *Driver) CursorOff(h rgblcd.Handle) error { return d.setCursor(h, false) }

// CursorOn shows the underline cursor.
func (d *Driver) CursorOn(h rgblcd.Handle) error { return d.setCursor(h, true) }

// BlinkCursorOff stops the block cursor blinking.
func (d *Driver) BlinkCursorOff(h rgblcd.Handle) error { return d.setBlink(h, false) }

// BlinkCursorOn blinks the block cursor.
func (d *Driver) BlinkCursorOn(h rgblcd.Handle) error { return d.setBlink(h, true) }

// BlinkLedOff turns the backlight on. The PCF8574 can only switch the
// backlight, so BlinkLedOn turns it off rather than blinking it.
func (d *Driver) BlinkLedOff(h rgblcd.Handle) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.dev.BacklightOn(true)
	return nil
}

// BlinkLedOn turns the backlight off; the backpack cannot blink it.
func (d *Driver) BlinkLedOn(h rgblcd.Handle) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.dev.BacklightOn(false)
	return nil
}

// CreateChar stores charmap in CGRAM slot location.
func (d *Driver) CreateChar(h rgblcd.Handle, location int, charmap [8]byte) error {
	p, err := d.get(h)
	if err != nil {
		return err
	}
	p.dev.CreateCharacter(uint8(location)&0x7, charmap[:])
	return nil
}

func (d *Driver) notImplemented(h rgblcd.Handle) error {
	if _, err := d.get(h); err != nil {
		return err
	}
	return rgblcd.ErrNotImplemented
}

// ScrollLeft is not supported by the backpack.
func (d *Driver) ScrollLeft(h rgblcd.Handle) error { return d.notImplemented(h) }

// ScrollRight is not supported by the backpack.
func (d *Driver) ScrollRight(h rgblcd.Handle) error { return d.notImplemented(h) }

// SetRtl is not supported by the backpack.
func (d *Driver) SetRtl(h rgblcd.Handle) error { return d.notImplemented(h) }

// SetLtr is not supported by the backpack.
func (d *Driver) SetLtr(h rgblcd.Handle) error { return d.notImplemented(h) }

// RightJustify is not supported by the backpack.
func (d *Driver) RightJustify(h rgblcd.Handle) error { return d.notImplemented(h) }

// LeftJustify is not supported by the backpack.
func (d *Driver) LeftJustify(h rgblcd.Handle) error { return d.notImplemented(h) }

// SetRgb is not supported; the backpack backlight is on or off.
func (d *Driver) SetRgb(h rgblcd.Handle, r, g, b int) error {
	return d.notImplemented(h)
}

// SetPwm is not supported; the backpack backlight is on or off.
func (d *Driver) SetPwm(h rgblcd.Handle, ch rgblcd.Channel, value int) error {
	return d.notImplemented(h)
}

// String returns a string representation of the driver.
func (d *Driver) String() string {
	return fmt.Sprintf("backpack.Driver{%#02x}", d.addr)
}
