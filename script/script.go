// Package script runs line oriented LCD scripts.
//
// Each line is one command named after an rgblcd.LCD method, followed by
// its arguments. Lines are split with shell quoting rules, so text with
// spaces is written in quotes:
//
//	# greet
//	setRgb 64 0 64
//	print "Hello, world!"
//	setCursor 0 1
//	print 42
//	setPwm CHANNEL_RED 255
//	sleep 500ms
//
// Integer arguments accept the constant names DOTS_SMALL, DOTS_LARGE,
// CHANNEL_RED, CHANNEL_GREEN and CHANNEL_BLUE.
package script

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"

	"github.com/flavioheleno/rgblcd"
	"github.com/flavioheleno/rgblcd/glyph"
)

// Constants are the named integers usable as arguments.
var Constants = map[string]int{
	"DOTS_SMALL":    int(rgblcd.DotsSmall),
	"DOTS_LARGE":    int(rgblcd.DotsLarge),
	"CHANNEL_RED":   int(rgblcd.ChannelRed),
	"CHANNEL_GREEN": int(rgblcd.ChannelGreen),
	"CHANNEL_BLUE":  int(rgblcd.ChannelBlue),
}

// Interp executes commands against one LCD. It is not safe for concurrent
// use.
type Interp struct {
	lcd   *rgblcd.LCD
	log   logrus.FieldLogger
	sleep func(time.Duration)
	cmds  map[string]command

	// rest is the unsplit argument text of the line being executed.
	rest string
}

type command struct {
	nargs int // -1 for any
	run   func(args []string) error
}

// New returns an interpreter for lcd. logger can be nil to use the logrus
// standard logger.
func New(lcd *rgblcd.LCD, logger logrus.FieldLogger) *Interp {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	in := &Interp{lcd: lcd, log: logger, sleep: time.Sleep}
	noArg := func(f func() error) command {
		return command{0, func([]string) error { return f() }}
	}
	in.cmds = map[string]command{
		"print":          {-1, in.print(lcd.Print)},
		"println":        {-1, in.print(lcd.Println)},
		"clear":          noArg(lcd.Clear),
		"cursorHome":     noArg(lcd.CursorHome),
		"setCursor":      {2, in.ints(func(v []int) error { return lcd.SetCursor(v[0], v[1]) })},
		"displayOff":     noArg(lcd.DisplayOff),
		"displayOn":      noArg(lcd.DisplayOn),
		"cursorOff":      noArg(lcd.CursorOff),
		"cursorOn":       noArg(lcd.CursorOn),
		"blinkCursorOff": noArg(lcd.BlinkCursorOff),
		"blinkCursorOn":  noArg(lcd.BlinkCursorOn),
		"scrollLeft":     noArg(lcd.ScrollLeft),
		"scrollRight":    noArg(lcd.ScrollRight),
		"setRtl":         noArg(lcd.SetRtl),
		"setLtr":         noArg(lcd.SetLtr),
		"rightJustify":   noArg(lcd.RightJustify),
		"leftJustify":    noArg(lcd.LeftJustify),
		"blinkLedOff":    noArg(lcd.BlinkLedOff),
		"blinkLedOn":     noArg(lcd.BlinkLedOn),
		"setRgb":         {3, in.ints(func(v []int) error { return lcd.SetRgb(v[0], v[1], v[2]) })},
		"setPwm":         {2, in.ints(func(v []int) error { return lcd.SetPwm(rgblcd.Channel(v[0]), v[1]) })},
		"createChar":     {-1, in.createChar},
		"close":          noArg(lcd.Close),
		"sleep":          {1, in.sleepCmd},
	}
	return in
}

// Commands returns the sorted command names.
func (in *Interp) Commands() []string {
	names := make([]string, 0, len(in.cmds))
	for n := range in.cmds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run executes r line by line and stops at the first failing line. Blank
// lines and lines starting with '#' are skipped.
func (in *Interp) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		if err := in.Exec(sc.Text()); err != nil {
			return &LineError{Line: n, Err: err}
		}
	}
	return sc.Err()
}

// Exec executes a single line.
func (in *Interp) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	words, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return nil
	}
	name, args := words[0], words[1:]
	c, ok := in.cmds[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if c.nargs >= 0 && len(args) != c.nargs {
		return fmt.Errorf("%s: want %d arguments, got %d", name, c.nargs, len(args))
	}
	in.log.WithField("cmd", name).WithField("args", args).Debug("script: exec")
	in.rest = ""
	if strings.HasPrefix(line, name) {
		in.rest = strings.TrimSpace(line[len(name):])
	}
	if err := c.run(args); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// LineError reports the script line a command failed on.
type LineError struct {
	Line int
	Err  error
}

// Error implements error.
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the command error.
func (e *LineError) Unwrap() error {
	return e.Err
}

// print joins the arguments with spaces. A single unquoted argument that
// parses as an integer or float is printed as a number; quoting it keeps
// it text.
func (in *Interp) print(f func(any) error) func([]string) error {
	return func(args []string) error {
		if len(args) == 1 && args[0] == in.rest {
			if i, err := strconv.Atoi(args[0]); err == nil {
				return f(i)
			}
			if v, err := strconv.ParseFloat(args[0], 64); err == nil {
				return f(v)
			}
		}
		return f(strings.Join(args, " "))
	}
}

func (in *Interp) ints(f func([]int) error) func([]string) error {
	return func(args []string) error {
		v := make([]int, len(args))
		for i, a := range args {
			n, err := ParseInt(a)
			if err != nil {
				return err
			}
			v[i] = n
		}
		return f(v)
	}
}

// createChar takes a location and either 8 row integers or a single
// pattern in the glyph package format.
func (in *Interp) createChar(args []string) error {
	if len(args) != 2 && len(args) != 9 {
		return fmt.Errorf("want location and 8 rows or a pattern, got %d arguments", len(args))
	}
	loc, err := ParseInt(args[0])
	if err != nil {
		return err
	}
	var g glyph.Glyph
	if len(args) == 2 {
		g = glyph.Parse(args[1])
	} else {
		for i, a := range args[1:] {
			n, err := ParseInt(a)
			if err != nil {
				return err
			}
			g[i] = byte(n)
		}
	}
	return in.lcd.CreateChar(loc, g)
}

func (in *Interp) sleepCmd(args []string) error {
	d, err := time.ParseDuration(args[0])
	if err != nil {
		return err
	}
	in.sleep(d)
	return nil
}

// ParseInt parses a decimal, hex (0x) or named constant argument.
func ParseInt(s string) (int, error) {
	if v, ok := Constants[s]; ok {
		return v, nil
	}
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("bad integer %q", s)
	}
	return int(n), nil
}
