// Package lcdsim is an in-memory character LCD for use without hardware.
//
// It models the parts of an HD44780 controller that are visible from the
// outside: 40 columns of display RAM per line, the cursor, entry mode,
// display shift and the RGB backlight. Displays can be drawn on a tcell
// screen.
package lcdsim

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/flavioheleno/rgblcd"
	"github.com/flavioheleno/rgblcd/glyph"
)

// ramWidth is the DDRAM line length of the controller.
const ramWidth = 40

// maxLines is the largest geometry the controller can address.
const maxLines = 4

// Driver creates simulated displays.
//
// Handles returned by Open are *Display.
type Driver struct {
	mu       sync.Mutex
	displays []*Display
}

var _ rgblcd.Driver = (*Driver)(nil)

// Displays returns the displays opened so far, closed ones included.
func (d *Driver) Displays() []*Display {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Display(nil), d.displays...)
}

// Display is the state of one simulated LCD.
type Display struct {
	mu sync.Mutex

	cols, lines int
	largeDots   bool

	ram    [maxLines][ramWidth]byte
	col    int
	row    int
	offset int

	ltr       bool
	autoshift bool

	on, cursor, blink bool

	pwm      [5]byte // indexed by backlight register, 2-4 used
	ledBlink bool

	cgram  [8]glyph.Glyph
	closed bool
}

// Open returns a new display. Geometry the controller cannot address
// is rejected.
func (d *Driver) Open(columns, lines int, dots rgblcd.DotSize) (rgblcd.Handle, error) {
	if columns <= 0 || columns > ramWidth || lines <= 0 || lines > maxLines {
		return nil, fmt.Errorf("lcdsim: unsupported geometry %dx%d", columns, lines)
	}
	disp := &Display{
		cols:      columns,
		lines:     lines,
		largeDots: dots != rgblcd.DotsSmall && lines == 1,
		ltr:       true,
		on:        true,
	}
	disp.clear()
	disp.setRGB(255, 255, 255)
	d.mu.Lock()
	d.displays = append(d.displays, disp)
	d.mu.Unlock()
	return disp, nil
}

var errClosed = errors.New("lcdsim: closed")

// with runs f on the display behind h with its lock held.
func with(h rgblcd.Handle, f func(d *Display) error) error {
	disp, ok := h.(*Display)
	if !ok || disp == nil {
		return rgblcd.ErrBadHandle
	}
	disp.mu.Lock()
	defer disp.mu.Unlock()
	if disp.closed {
		return errClosed
	}
	return f(disp)
}

// Close marks the display closed.
func (d *Driver) Close(h rgblcd.Handle) error {
	return with(h, func(disp *Display) error {
		disp.closed = true
		return nil
	})
}

// PrintString writes the first n bytes of b. A newline moves the cursor
// to the start of the next line.
func (d *Driver) PrintString(h rgblcd.Handle, b []byte, n int) error {
	b, err := rgblcd.Truncate(b, n)
	if err != nil {
		return err
	}
	return with(h, func(disp *Display) error {
		for _, c := range b {
			disp.write(c)
		}
		return nil
	})
}

// Clear blanks the display and homes the cursor.
func (d *Driver) Clear(h rgblcd.Handle) error {
	return with(h, func(disp *Display) error {
		disp.clear()
		return nil
	})
}

// CursorHome moves the cursor to the zero position.
func (d *Driver) CursorHome(h rgblcd.Handle) error {
	return with(h, func(disp *Display) error {
		disp.col, disp.row, disp.offset = 0, 0, 0
		return nil
	})
}

// SetCursor places the cursor. Rows past the last line address the last
// line; columns wrap around the display RAM.
func (d *Driver) SetCursor(h rgblcd.Handle, col, row int) error {
	return with(h, func(disp *Display) error {
		if row < 0 {
			row = 0
		}
		if row >= disp.lines {
			row = disp.lines - 1
		}
		disp.row = row
		disp.col = wrap(col)
		return nil
	})
}

// flag returns a Driver method that sets a boolean on the display.
func flag(field func(*Display) *bool, v bool) func(h rgblcd.Handle) error {
	return func(h rgblcd.Handle) error {
		return with(h, func(disp *Display) error {
			*field(disp) = v
			return nil
		})
	}
}

func onField(d *Display) *bool        { return &d.on }
func cursorField(d *Display) *bool    { return &d.cursor }
func blinkField(d *Display) *bool     { return &d.blink }
func ltrField(d *Display) *bool       { return &d.ltr }
func autoshiftField(d *Display) *bool { return &d.autoshift }
func ledBlinkField(d *Display) *bool  { return &d.ledBlink }

// DisplayOff blanks the display, keeping its content.
func (d *Driver) DisplayOff(h rgblcd.Handle) error { return flag(onField, false)(h) }

// DisplayOn shows the display content.
func (d *Driver) DisplayOn(h rgblcd.Handle) error { return flag(onField, true)(h) }

// CursorOff hides the underline cursor.
func (d *Driver) CursorOff(h rgblcd.Handle) error { return flag(cursorField, false)(h) }

// CursorOn shows the underline cursor.
func (d *Driver) CursorOn(h rgblcd.Handle) error { return flag(cursorField, true)(h) }

// BlinkCursorOff stops the block cursor blinking.
func (d *Driver) BlinkCursorOff(h rgblcd.Handle) error { return flag(blinkField, false)(h) }

// BlinkCursorOn blinks the block cursor.
func (d *Driver) BlinkCursorOn(h rgblcd.Handle) error { return flag(blinkField, true)(h) }

// SetRtl makes text flow right to left.
func (d *Driver) SetRtl(h rgblcd.Handle) error { return flag(ltrField, false)(h) }

// SetLtr makes text flow left to right.
func (d *Driver) SetLtr(h rgblcd.Handle) error { return flag(ltrField, true)(h) }

// RightJustify shifts the display on each write.
func (d *Driver) RightJustify(h rgblcd.Handle) error { return flag(autoshiftField, true)(h) }

// LeftJustify moves the cursor on each write.
func (d *Driver) LeftJustify(h rgblcd.Handle) error { return flag(autoshiftField, false)(h) }

// BlinkLedOff stops the backlight blinking.
func (d *Driver) BlinkLedOff(h rgblcd.Handle) error { return flag(ledBlinkField, false)(h) }

// BlinkLedOn blinks the backlight.
func (d *Driver) BlinkLedOn(h rgblcd.Handle) error { return flag(ledBlinkField, true)(h) }

// ScrollLeft moves the content one position left, which is what the
// controller does by advancing the display start address.
func (d *Driver) ScrollLeft(h rgblcd.Handle) error {
	return with(h, func(disp *Display) error {
		disp.offset = wrap(disp.offset + 1)
		return nil
	})
}

// ScrollRight shifts the content one position right.
func (d *Driver) ScrollRight(h rgblcd.Handle) error {
	return with(h, func(disp *Display) error {
		disp.offset = wrap(disp.offset - 1)
		return nil
	})
}

// SetRgb stores the low byte of each channel, as the PWM registers do.
func (d *Driver) SetRgb(h rgblcd.Handle, r, g, b int) error {
	return with(h, func(disp *Display) error {
		disp.setRGB(byte(r), byte(g), byte(b))
		return nil
	})
}

// SetPwm writes one backlight register. Registers other than the three
// color channels are accepted and ignored.
func (d *Driver) SetPwm(h rgblcd.Handle, ch rgblcd.Channel, value int) error {
	return with(h, func(disp *Display) error {
		switch ch {
		case rgblcd.ChannelRed, rgblcd.ChannelGreen, rgblcd.ChannelBlue:
			disp.pwm[ch] = byte(value)
		}
		return nil
	})
}

// CreateChar stores charmap in CGRAM slot location.
func (d *Driver) CreateChar(h rgblcd.Handle, location int, charmap [8]byte) error {
	return with(h, func(disp *Display) error {
		disp.cgram[location&0x7] = glyph.Glyph(charmap)
		return nil
	})
}

func wrap(col int) int {
	col %= ramWidth
	if col < 0 {
		col += ramWidth
	}
	return col
}

func (d *Display) clear() {
	for i := range d.ram {
		for j := range d.ram[i] {
			d.ram[i][j] = ' '
		}
	}
	d.col, d.row, d.offset = 0, 0, 0
	d.ltr = true
}

func (d *Display) setRGB(r, g, b byte) {
	d.pwm[rgblcd.ChannelRed] = r
	d.pwm[rgblcd.ChannelGreen] = g
	d.pwm[rgblcd.ChannelBlue] = b
}

func (d *Display) write(c byte) {
	if c == '\n' {
		d.row = (d.row + 1) % d.lines
		d.col = 0
		return
	}
	d.ram[d.row][d.col] = c
	step := 1
	if !d.ltr {
		step = -1
	}
	d.col = wrap(d.col + step)
	if d.autoshift {
		d.offset = wrap(d.offset + step)
	}
}

// Rows returns the visible text of each line. Custom characters are
// returned as their code, 0 to 7.
func (d *Display) Rows() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	rows := make([]string, d.lines)
	for i := range rows {
		var b strings.Builder
		for x := 0; x < d.cols; x++ {
			b.WriteByte(d.ram[i][wrap(d.offset+x)])
		}
		rows[i] = b.String()
	}
	return rows
}

// Cursor returns the cursor position in display RAM.
func (d *Display) Cursor() (col, row int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.col, d.row
}

// Backlight returns the backlight color.
func (d *Display) Backlight() (r, g, b byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pwm[rgblcd.ChannelRed], d.pwm[rgblcd.ChannelGreen], d.pwm[rgblcd.ChannelBlue]
}

// State is a snapshot of the display flags.
type State struct {
	On, Cursor, Blink bool
	LeftToRight       bool
	Autoshift         bool
	LedBlink          bool
	LargeDots         bool
	Closed            bool
	Offset            int
}

// State returns the current flags.
func (d *Display) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{
		On:          d.on,
		Cursor:      d.cursor,
		Blink:       d.blink,
		LeftToRight: d.ltr,
		Autoshift:   d.autoshift,
		LedBlink:    d.ledBlink,
		LargeDots:   d.largeDots,
		Closed:      d.closed,
		Offset:      d.offset,
	}
}

// Glyph returns custom character i.
func (d *Display) Glyph(i int) glyph.Glyph {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cgram[i&0x7]
}

// String returns a string representation of the display.
func (d *Display) String() string {
	return fmt.Sprintf("lcdsim.Display{%dx%d}", d.cols, d.lines)
}

// Screen is the part of tcell.Screen the renderer uses.
type Screen interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
	Show()
}

// customRune stands in for CGRAM characters on a terminal.
const customRune = '▒'

// Render draws the display with its top left corner at (x, y). The
// backlight color is the cell background. A display that is off shows
// blank cells.
func (d *Display) Render(s Screen, x, y int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	bg := tcell.NewRGBColor(int32(d.pwm[rgblcd.ChannelRed]), int32(d.pwm[rgblcd.ChannelGreen]), int32(d.pwm[rgblcd.ChannelBlue]))
	base := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(bg)
	if d.ledBlink {
		base = base.Blink(true)
	}

	for row := 0; row < d.lines; row++ {
		for i := 0; i < d.cols; i++ {
			col := wrap(d.offset + i)
			r := ' '
			if d.on {
				r = cellRune(d.ram[row][col])
			}
			style := base
			if d.on && row == d.row && col == d.col {
				if d.cursor {
					style = style.Reverse(true)
				}
				if d.blink {
					style = style.Blink(true)
				}
			}
			s.SetContent(x+i, y+row, r, nil, style)
		}
	}
	s.Show()
}

func cellRune(c byte) rune {
	switch {
	case c < 8:
		return customRune
	case c < 0x20 || c > 0x7E:
		return '?'
	}
	return rune(c)
}
