// Package rgblcd exposes a character LCD with an RGB backlight through a
// small object API that forwards every call to a native Driver.
//
// See doc.go for an overview and the examples for how to use this package.
package rgblcd

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// DotSize selects the character cell format of the controller.
type DotSize int

const (
	DotsSmall DotSize = 0 // 5x8 dots
	DotsLarge DotSize = 4 // 5x10 dots, single line displays only
)

// Channel is a backlight PWM register.
//
// The values are the register numbers of the backlight controller on the
// Grove RGB LCD and are forwarded to the driver as is.
type Channel int

const (
	ChannelRed   Channel = 4 // pwm2
	ChannelGreen Channel = 3 // pwm1
	ChannelBlue  Channel = 2 // pwm0
)

var (
	// ErrClosed is returned by every operation on an LCD after Close.
	ErrClosed = errors.New("rgblcd: closed")
	// ErrNoHandle is returned by Create when the driver reports success
	// but hands back no handle.
	ErrNoHandle = errors.New("rgblcd: driver returned no handle")
	// ErrArity is returned by Create when more than one dot size is given.
	ErrArity = errors.New("rgblcd: too many arguments")
	// ErrBadHandle is returned by drivers given a handle they did not create.
	ErrBadHandle = errors.New("rgblcd: foreign handle")
	// ErrLength is returned by drivers given a negative print length.
	ErrLength = errors.New("rgblcd: negative length")
	// ErrNotImplemented is returned by drivers for hardware features the
	// display does not have.
	ErrNotImplemented = errors.New("rgblcd: not implemented")
)

// Handle is an opaque reference to driver-side display state. Only the
// Driver that returned it can interpret it.
type Handle any

// Driver is the native side of an LCD. Every method except Open takes the
// handle returned by Open as its first argument.
//
// Drivers are not required to be reentrant; LCD serializes calls on a
// handle.
type Driver interface {
	Open(columns, lines int, dots DotSize) (Handle, error)
	Close(h Handle) error

	PrintString(h Handle, b []byte, n int) error
	Clear(h Handle) error
	CursorHome(h Handle) error
	SetCursor(h Handle, col, row int) error

	DisplayOff(h Handle) error
	DisplayOn(h Handle) error
	CursorOff(h Handle) error
	CursorOn(h Handle) error
	BlinkCursorOff(h Handle) error
	BlinkCursorOn(h Handle) error

	ScrollLeft(h Handle) error
	ScrollRight(h Handle) error
	SetRtl(h Handle) error
	SetLtr(h Handle) error
	RightJustify(h Handle) error
	LeftJustify(h Handle) error

	BlinkLedOff(h Handle) error
	BlinkLedOn(h Handle) error
	SetRgb(h Handle, r, g, b int) error
	SetPwm(h Handle, ch Channel, value int) error

	CreateChar(h Handle, location int, charmap [8]byte) error
}

// Opts is the configuration for Create.
type Opts struct {
	Columns int
	Lines   int
	Dots    DotSize

	// Logger receives lifecycle events at debug level. Defaults to the
	// logrus standard logger.
	Logger logrus.FieldLogger
}

// LCD owns one driver handle.
//
// An LCD is Open after Create and Closed after Close. Every operation on a
// Closed LCD returns ErrClosed without reaching the driver.
type LCD struct {
	mu  sync.Mutex
	drv Driver
	h   Handle
	log logrus.FieldLogger
}

// Create opens a display with the given geometry.
//
// dots is optional and defaults to DotsSmall; a single value is forwarded
// unchanged. Neither columns nor lines are checked here.
func Create(drv Driver, columns, lines int, dots ...DotSize) (*LCD, error) {
	if len(dots) > 1 {
		return nil, ErrArity
	}
	opts := &Opts{Columns: columns, Lines: lines, Dots: DotsSmall}
	if len(dots) == 1 {
		opts.Dots = dots[0]
	}
	return CreateWithOpts(drv, opts)
}

// CreateWithOpts is Create with an option struct.
func CreateWithOpts(drv Driver, opts *Opts) (*LCD, error) {
	if opts == nil {
		return nil, errors.New("rgblcd: nil options")
	}
	lg := opts.Logger
	if lg == nil {
		lg = logrus.StandardLogger()
	}
	h, err := drv.Open(opts.Columns, opts.Lines, opts.Dots)
	if err != nil {
		return nil, fmt.Errorf("rgblcd: open %dx%d: %w", opts.Columns, opts.Lines, err)
	}
	if isNil(h) {
		return nil, ErrNoHandle
	}
	lg.WithFields(logrus.Fields{
		"columns": opts.Columns,
		"lines":   opts.Lines,
		"dots":    int(opts.Dots),
	}).Debug("rgblcd: opened")
	return &LCD{drv: drv, h: h, log: lg}, nil
}

// isNil reports whether h is nil or an interface holding a nil pointer,
// map, slice, func or chan.
func isNil(h Handle) bool {
	if h == nil {
		return true
	}
	switch v := reflect.ValueOf(h); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	}
	return false
}

// do runs f with the handle while holding the lock.
func (l *LCD) do(f func(h Handle) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.h == nil {
		return ErrClosed
	}
	return f(l.h)
}

// Print writes v at the cursor. Strings and byte slices are written as
// is; any other value is written as its JSON encoding.
func (l *LCD) Print(v any) error {
	b, err := Serialize(v)
	if err != nil {
		return err
	}
	return l.do(func(h Handle) error { return l.drv.PrintString(h, b, len(b)) })
}

// Println is Print followed by a newline byte.
func (l *LCD) Println(v any) error {
	b, err := Serialize(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return l.do(func(h Handle) error { return l.drv.PrintString(h, b, len(b)) })
}

// Serialize returns the bytes Print sends for v.
func Serialize(v any) ([]byte, error) {
	switch t := v.(type) {
	case string:
		return []byte(t), nil
	case []byte:
		return append([]byte(nil), t...), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rgblcd: serialize %T: %w", v, err)
	}
	return b, nil
}

// Truncate returns the first n bytes of b, or all of b when n is larger.
// Drivers use it to apply the length argument of PrintString.
func Truncate(b []byte, n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrLength
	}
	if n < len(b) {
		return b[:n], nil
	}
	return b, nil
}

// Clear clears the screen and returns the cursor to the zero position.
func (l *LCD) Clear() error {
	return l.do(l.drv.Clear)
}

// CursorHome returns the cursor to the zero position.
func (l *LCD) CursorHome() error {
	return l.do(l.drv.CursorHome)
}

// SetCursor moves the cursor. col and row are zero based; out of range
// values are left to the driver.
func (l *LCD) SetCursor(col, row int) error {
	return l.do(func(h Handle) error { return l.drv.SetCursor(h, col, row) })
}

// DisplayOff turns the display off. The content is kept.
func (l *LCD) DisplayOff() error {
	return l.do(l.drv.DisplayOff)
}

// DisplayOn turns the display back on.
func (l *LCD) DisplayOn() error {
	return l.do(l.drv.DisplayOn)
}

// CursorOff hides the underline cursor.
func (l *LCD) CursorOff() error {
	return l.do(l.drv.CursorOff)
}

// CursorOn shows an underline cursor at the write position.
func (l *LCD) CursorOn() error {
	return l.do(l.drv.CursorOn)
}

// BlinkCursorOff stops the block cursor blinking.
func (l *LCD) BlinkCursorOff() error {
	return l.do(l.drv.BlinkCursorOff)
}

// BlinkCursorOn blinks a block cursor at the write position.
func (l *LCD) BlinkCursorOn() error {
	return l.do(l.drv.BlinkCursorOn)
}

// ScrollLeft scrolls the content one position left.
func (l *LCD) ScrollLeft() error {
	return l.do(l.drv.ScrollLeft)
}

// ScrollRight scrolls the content one position right.
func (l *LCD) ScrollRight() error {
	return l.do(l.drv.ScrollRight)
}

// SetRtl makes text flow from right to left.
func (l *LCD) SetRtl() error {
	return l.do(l.drv.SetRtl)
}

// SetLtr makes text flow from left to right.
func (l *LCD) SetLtr() error {
	return l.do(l.drv.SetLtr)
}

// RightJustify shifts the display instead of the cursor on each write.
func (l *LCD) RightJustify() error {
	return l.do(l.drv.RightJustify)
}

// LeftJustify moves the cursor instead of the display on each write.
func (l *LCD) LeftJustify() error {
	return l.do(l.drv.LeftJustify)
}

// BlinkLedOff stops the backlight blinking.
func (l *LCD) BlinkLedOff() error {
	return l.do(l.drv.BlinkLedOff)
}

// BlinkLedOn blinks the backlight. It is independent of the cursor blink.
func (l *LCD) BlinkLedOn() error {
	return l.do(l.drv.BlinkLedOn)
}

// SetRgb sets the backlight color. Each channel is nominally 0-255; values
// are forwarded without clamping.
func (l *LCD) SetRgb(r, g, b int) error {
	return l.do(func(h Handle) error { return l.drv.SetRgb(h, r, g, b) })
}

// SetPwm sets a single backlight channel.
func (l *LCD) SetPwm(ch Channel, value int) error {
	return l.do(func(h Handle) error { return l.drv.SetPwm(h, ch, value) })
}

// CreateChar stores a custom character in one of the 8 CGRAM slots. Each
// byte of charmap is one row, the low 5 bits are the pixels.
func (l *LCD) CreateChar(location int, charmap [8]byte) error {
	return l.do(func(h Handle) error { return l.drv.CreateChar(h, location, charmap) })
}

// Close releases the handle. The driver is called at most once; later
// calls return ErrClosed.
func (l *LCD) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.h == nil {
		return ErrClosed
	}
	h := l.h
	l.h = nil
	if err := l.drv.Close(h); err != nil {
		l.log.WithError(err).Warn("rgblcd: close failed")
		return err
	}
	l.log.Debug("rgblcd: closed")
	return nil
}

// String returns a string representation of the display state.
func (l *LCD) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.h == nil {
		return "rgblcd.LCD{closed}"
	}
	return "rgblcd.LCD{open}"
}
