package grove

import (
	"periph.io/x/conn/v3/i2c"

	"github.com/flavioheleno/rgblcd"
)

// Driver opens Grove displays on an I²C bus for use with rgblcd.
//
// Handles returned by Open are *Dev.
type Driver struct {
	Bus i2c.Bus
}

var _ rgblcd.Driver = (*Driver)(nil)

func dev(h rgblcd.Handle) (*Dev, error) {
	d, ok := h.(*Dev)
	if !ok || d == nil {
		return nil, rgblcd.ErrBadHandle
	}
	return d, nil
}

// Open initializes a display.
func (g *Driver) Open(columns, lines int, dots rgblcd.DotSize) (rgblcd.Handle, error) {
	d, err := New(g.Bus, &Opts{Columns: columns, Lines: lines, LargeDots: dots != rgblcd.DotsSmall})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Close halts the device behind h.
func (g *Driver) Close(h rgblcd.Handle) error {
	d, err := dev(h)
	if err != nil {
		return err
	}
	return d.Halt()
}

// PrintString writes the first n bytes of b at the cursor.
func (g *Driver) PrintString(h rgblcd.Handle, b []byte, n int) error {
	d, err := dev(h)
	if err != nil {
		return err
	}
	if b, err = rgblcd.Truncate(b, n); err != nil {
		return err
	}
	_, err = d.Write(b)
	return err
}

// Clear blanks the display and homes the cursor.
func (g *Driver) Clear(h rgblcd.Handle) error {
	d, err := dev(h)
	if err != nil {
		return err
	}
	return d.Clear()
}

// CursorHome moves the cursor to the zero position.
func (g *Driver) CursorHome(h rgblcd.Handle) error {
	d, err := dev(h)
	if err != nil {
		return err
	}
	return d.Home()
}

// SetCursor moves the cursor to col, row.
func (g *Driver) SetCursor(h rgblcd.Handle, col, row int) error {
	d, err := dev(h)
	if err != nil {
		return err
	}
	return d.SetCursor(byte(col), byte(row))
}

// toggle adapts a boolean Dev method to a handle call.
func toggle(h rgblcd.Handle, f func(*Dev, bool) error, on bool) error {
	d, err := dev(h)
	if err != nil {
		return err
	}
	return f(d, on)
}

// DisplayOff blanks the display, keeping its content.
func (g *Driver) DisplayOff(h rgblcd.Handle) error { return toggle(h, (*Dev).Display, false) }

// DisplayOn shows the display content.
func (g *Driver) DisplayOn(h rgblcd.Handle) error { return toggle(h, (*Dev).Display, true) }

// CursorOff hides the underline cursor.
func (g *Driver) CursorOff(h rgblcd.Handle) error { return toggle(h, (*Dev).Cursor, false) }

// CursorOn shows the underline cursor.
func (g *Driver) CursorOn(h rgblcd.Handle) error { return toggle(h, (*Dev).Cursor, true) }

// BlinkCursorOff stops the block cursor blinking.
func (g *Driver) BlinkCursorOff(h rgblcd.Handle) error { return toggle(h, (*Dev).BlinkCursor, false) }

// BlinkCursorOn blinks the block cursor.
func (g *Driver) BlinkCursorOn(h rgblcd.Handle) error { return toggle(h, (*Dev).BlinkCursor, true) }

// ScrollLeft shifts the content one position left.
func (g *Driver) ScrollLeft(h rgblcd.Handle) error { return toggle(h, (*Dev).Scroll, false) }

// ScrollRight shifts the content one position right.
func (g *Driver) ScrollRight(h rgblcd.Handle) error { return toggle(h, (*Dev).Scroll, true) }

// SetRtl makes text flow right to left.
func (g *Driver) SetRtl(h rgblcd.Handle) error { return toggle(h, (*Dev).LeftToRight, false) }

// SetLtr makes text flow left to right.
func (g *Driver) SetLtr(h rgblcd.Handle) error { return toggle(h, (*Dev).LeftToRight, true) }

// RightJustify shifts the display on each write.
func (g *Driver) RightJustify(h rgblcd.Handle) error { return toggle(h, (*Dev).Autoscroll, true) }

// LeftJustify moves the cursor on each write.
func (g *Driver) LeftJustify(h rgblcd.Handle) error { return toggle(h, (*Dev).Autoscroll, false) }

// BlinkLedOff stops the backlight blinking.
func (g *Driver) BlinkLedOff(h rgblcd.Handle) error { return toggle(h, (*Dev).BlinkBacklight, false) }

// BlinkLedOn blinks the backlight.
func (g *Driver) BlinkLedOn(h rgblcd.Handle) error { return toggle(h, (*Dev).BlinkBacklight, true) }

// SetRgb truncates each channel to the low byte, as the register width
// does.
func (g *Driver) SetRgb(h rgblcd.Handle, r, gr, b int) error {
	d, err := dev(h)
	if err != nil {
		return err
	}
	return d.SetRGB(byte(r), byte(gr), byte(b))
}

// SetPwm writes value to backlight register ch.
func (g *Driver) SetPwm(h rgblcd.Handle, ch rgblcd.Channel, value int) error {
	d, err := dev(h)
	if err != nil {
		return err
	}
	return d.SetPWM(byte(ch), byte(value))
}

// CreateChar stores charmap in CGRAM slot location.
func (g *Driver) CreateChar(h rgblcd.Handle, location int, charmap [8]byte) error {
	d, err := dev(h)
	if err != nil {
		return err
	}
	return d.CreateChar(byte(location), charmap)
}
