// Package grove controls a Seeed Grove LCD RGB Backlight module via I²C.
//
// The module pairs an HD44780 compatible character controller with a
// PCA9633 LED driver for the backlight. Both sit on the same bus at
// different addresses.
package grove

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/i2c"
)

const (
	// LCDAddr is the character controller address (0x7C>>1).
	LCDAddr uint16 = 0x3E
	// RGBAddr is the backlight controller address (0xC4>>1).
	RGBAddr uint16 = 0x62
)

// Backlight registers.
const (
	regMode1  = 0x00
	regMode2  = 0x01
	regBlue   = 0x02 // pwm0
	regGreen  = 0x03 // pwm1
	regRed    = 0x04 // pwm2
	regGrpPWM = 0x06
	regGrpFrq = 0x07
	regOutput = 0x08
)

// Controller commands.
const (
	cmdClearDisplay   = 0x01
	cmdReturnHome     = 0x02
	cmdEntryModeSet   = 0x04
	cmdDisplayControl = 0x08
	cmdCursorShift    = 0x10
	cmdFunctionSet    = 0x20
	cmdSetCGRAMAddr   = 0x40
	cmdSetDDRAMAddr   = 0x80
)

// Flags.
const (
	entryLeft           = 0x02
	entryShiftIncrement = 0x01

	displayOn = 0x04
	cursorOn  = 0x02
	blinkOn   = 0x01

	displayMove = 0x08
	moveRight   = 0x04
	moveLeft    = 0x00

	twoLine   = 0x08
	dots5x10  = 0x04
	dots5x8   = 0x00
	ctrlByte  = 0x80 // control byte prefix for a command
	dataByte  = 0x40 // control byte prefix for display data
	rowOffset = 0x40
)

// Opts is the configuration for the display.
type Opts struct {
	Columns int // Default: 16
	Lines   int // Default: 2

	// LargeDots selects the 5x10 font. Only honored on single line
	// displays.
	LargeDots bool
}

// Dev is a handle to a Grove RGB LCD.
type Dev struct {
	lcd i2c.Dev
	rgb i2c.Dev

	cols, lines int

	function byte
	control  byte
	mode     byte

	halted bool
}

// sleep is replaced in tests.
var sleep = time.Sleep

var errHalted = errors.New("grove: halted")

// New returns a Dev on bus and runs the controller initialization
// sequence.
//
// opts can be nil to use defaults (16x2 display).
func New(bus i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{Columns: 16, Lines: 2}
	}
	d := &Dev{
		lcd:      i2c.Dev{Bus: bus, Addr: LCDAddr},
		rgb:      i2c.Dev{Bus: bus, Addr: RGBAddr},
		cols:     opts.Columns,
		lines:    opts.Lines,
		function: dots5x8,
	}
	if d.lines > 1 {
		d.function |= twoLine
	}
	// Some single line displays have a 10 pixel high font.
	if opts.LargeDots && d.lines == 1 {
		d.function |= dots5x10
	}
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init follows the HD44780 datasheet, page 45 figure 23.
func (d *Dev) init() error {
	// At least 40ms after power rises above 2.7V.
	sleep(50 * time.Millisecond)

	fs := cmdFunctionSet | d.function
	if err := d.command(fs); err != nil {
		return fmt.Errorf("grove: function set: %w", err)
	}
	sleep(4500 * time.Microsecond)
	if err := d.command(fs); err != nil {
		return err
	}
	sleep(150 * time.Microsecond)
	if err := d.command(fs); err != nil {
		return err
	}
	if err := d.command(fs); err != nil {
		return err
	}

	d.control = displayOn
	if err := d.command(cmdDisplayControl | d.control); err != nil {
		return err
	}
	if err := d.Clear(); err != nil {
		return err
	}

	d.mode = entryLeft
	if err := d.command(cmdEntryModeSet | d.mode); err != nil {
		return err
	}

	// Backlight: normal mode, LEDs driven by PWM and GRPPWM, group
	// blinking.
	for _, rv := range [][2]byte{{regMode1, 0x00}, {regOutput, 0xFF}, {regMode2, 0x20}} {
		if err := d.writeReg(rv[0], rv[1]); err != nil {
			return fmt.Errorf("grove: backlight init: %w", err)
		}
	}
	return d.SetRGB(255, 255, 255)
}

func (d *Dev) command(c byte) error {
	return d.lcd.Tx([]byte{ctrlByte, c}, nil)
}

func (d *Dev) writeReg(reg, v byte) error {
	return d.rgb.Tx([]byte{reg, v}, nil)
}

// Command sends a raw controller command.
func (d *Dev) Command(c byte) error {
	if d.halted {
		return errHalted
	}
	return d.command(c)
}

// WriteByte sends a single byte of display data.
func (d *Dev) WriteByte(c byte) error {
	if d.halted {
		return errHalted
	}
	return d.lcd.Tx([]byte{dataByte, c}, nil)
}

// Write writes text at the cursor, one byte per transfer.
func (d *Dev) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := d.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// WriteString is Write for a string.
func (d *Dev) WriteString(s string) (int, error) {
	return d.Write([]byte(s))
}

// Clear clears the display and zeroes the cursor position.
func (d *Dev) Clear() error {
	if d.halted {
		return errHalted
	}
	if err := d.command(cmdClearDisplay); err != nil {
		return err
	}
	sleep(2 * time.Millisecond)
	return nil
}

// Home zeroes the cursor position.
func (d *Dev) Home() error {
	if d.halted {
		return errHalted
	}
	if err := d.command(cmdReturnHome); err != nil {
		return err
	}
	sleep(2 * time.Millisecond)
	return nil
}

// SetCursor moves the cursor. Any row other than 0 addresses the second
// line.
func (d *Dev) SetCursor(col, row byte) error {
	if d.halted {
		return errHalted
	}
	addr := col
	if row != 0 {
		addr |= rowOffset
	}
	return d.command(cmdSetDDRAMAddr | addr)
}

func (d *Dev) setControl(flag byte, on bool) error {
	if d.halted {
		return errHalted
	}
	if on {
		d.control |= flag
	} else {
		d.control &^= flag
	}
	return d.command(cmdDisplayControl | d.control)
}

// Display turns the display on or off.
func (d *Dev) Display(on bool) error {
	return d.setControl(displayOn, on)
}

// Cursor shows or hides the underline cursor.
func (d *Dev) Cursor(on bool) error {
	return d.setControl(cursorOn, on)
}

// BlinkCursor enables or disables the block cursor blink.
func (d *Dev) BlinkCursor(on bool) error {
	return d.setControl(blinkOn, on)
}

// Scroll shifts the whole display one position.
func (d *Dev) Scroll(right bool) error {
	if d.halted {
		return errHalted
	}
	dir := byte(moveLeft)
	if right {
		dir = moveRight
	}
	return d.command(cmdCursorShift | displayMove | dir)
}

func (d *Dev) setMode(flag byte, on bool) error {
	if d.halted {
		return errHalted
	}
	if on {
		d.mode |= flag
	} else {
		d.mode &^= flag
	}
	return d.command(cmdEntryModeSet | d.mode)
}

// LeftToRight sets the text direction.
func (d *Dev) LeftToRight(ltr bool) error {
	return d.setMode(entryLeft, ltr)
}

// Autoscroll shifts the display rather than the cursor on each write,
// which right justifies text from the cursor.
func (d *Dev) Autoscroll(on bool) error {
	return d.setMode(entryShiftIncrement, on)
}

// CreateChar fills one of the 8 CGRAM slots.
func (d *Dev) CreateChar(location byte, charmap [8]byte) error {
	if d.halted {
		return errHalted
	}
	location &= 0x7
	if err := d.command(cmdSetCGRAMAddr | location<<3); err != nil {
		return err
	}
	return d.lcd.Tx(append([]byte{dataByte}, charmap[:]...), nil)
}

// BlinkBacklight blinks the backlight about once a second, half on and
// half off, or stops blinking.
func (d *Dev) BlinkBacklight(on bool) error {
	if d.halted {
		return errHalted
	}
	// period = (GRPFREQ + 1) / 24 s, duty = GRPPWM / 256
	frq, pwm := byte(0x00), byte(0xFF)
	if on {
		frq, pwm = 0x17, 0x7F
	}
	if err := d.writeReg(regGrpFrq, frq); err != nil {
		return err
	}
	return d.writeReg(regGrpPWM, pwm)
}

// SetRGB sets the backlight color.
func (d *Dev) SetRGB(r, g, b byte) error {
	if d.halted {
		return errHalted
	}
	if err := d.writeReg(regRed, r); err != nil {
		return err
	}
	if err := d.writeReg(regGreen, g); err != nil {
		return err
	}
	return d.writeReg(regBlue, b)
}

// SetPWM writes a single backlight PWM register.
func (d *Dev) SetPWM(reg, v byte) error {
	if d.halted {
		return errHalted
	}
	return d.writeReg(reg, v)
}

// Halt marks the device closed. The display keeps showing its last
// content; further calls fail.
func (d *Dev) Halt() error {
	if d.halted {
		return errHalted
	}
	d.halted = true
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("grove.Dev{%dx%d}", d.cols, d.lines)
}
