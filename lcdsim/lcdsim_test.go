package lcdsim

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/flavioheleno/rgblcd"
	"github.com/flavioheleno/rgblcd/glyph"
)

func open(t *testing.T, cols, lines int) (*rgblcd.LCD, *Display) {
	t.Helper()
	drv := &Driver{}
	lcd, err := rgblcd.Create(drv, cols, lines)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	ds := drv.Displays()
	if len(ds) != 1 {
		t.Fatalf("Displays() = %d, want 1", len(ds))
	}
	return lcd, ds[0]
}

func TestOpenGeometry(t *testing.T) {
	tests := []struct {
		name        string
		cols, lines int
		wantErr     bool
	}{
		{"16x2", 16, 2, false},
		{"20x4", 20, 4, false},
		{"40x1", 40, 1, false},
		{"zero columns", 0, 2, true},
		{"negative lines", 16, -1, true},
		{"too wide", 41, 2, true},
		{"too many lines", 16, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rgblcd.Create(&Driver{}, tt.cols, tt.lines)
			if (err != nil) != tt.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	lcd, disp := open(t, 16, 2)
	_ = lcd.Print("Hello, world!")
	_ = lcd.SetCursor(0, 1)
	_ = lcd.Print(42)

	want := []string{"Hello, world!   ", "42              "}
	if diff := cmp.Diff(want, disp.Rows()); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
	if col, row := disp.Cursor(); col != 2 || row != 1 {
		t.Errorf("Cursor() = (%d, %d), want (2, 1)", col, row)
	}
}

func TestPrintln(t *testing.T) {
	lcd, disp := open(t, 8, 2)
	_ = lcd.Println("a")
	_ = lcd.Println("b")
	_ = lcd.Print("c")
	want := []string{"c       ", "b       "}
	if diff := cmp.Diff(want, disp.Rows()); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
}

func TestClearAndHome(t *testing.T) {
	lcd, disp := open(t, 8, 1)
	_ = lcd.Print("abc")
	_ = lcd.ScrollLeft()
	_ = lcd.CursorHome()
	if col, _ := disp.Cursor(); col != 0 {
		t.Errorf("col = %d after CursorHome, want 0", col)
	}
	if got := disp.Rows()[0]; got != "abc     " {
		t.Errorf("row = %q after CursorHome, want content kept", got)
	}
	_ = lcd.SetRtl()
	_ = lcd.Clear()
	if got := disp.Rows()[0]; got != "        " {
		t.Errorf("row = %q after Clear, want blank", got)
	}
	if !disp.State().LeftToRight {
		t.Error("Clear should restore left to right entry")
	}
}

func TestSetCursorBounds(t *testing.T) {
	lcd, disp := open(t, 16, 2)
	_ = lcd.SetCursor(3, 7)
	if col, row := disp.Cursor(); col != 3 || row != 1 {
		t.Errorf("Cursor() = (%d, %d), want (3, 1)", col, row)
	}
	_ = lcd.SetCursor(41, 0)
	if col, _ := disp.Cursor(); col != 1 {
		t.Errorf("col = %d, want 1 after wrapping", col)
	}
}

func TestRightToLeft(t *testing.T) {
	lcd, disp := open(t, 8, 1)
	_ = lcd.SetRtl()
	_ = lcd.SetCursor(7, 0)
	_ = lcd.Print("abc")
	if got := disp.Rows()[0]; got != "     cba" {
		t.Errorf("row = %q, want %q", got, "     cba")
	}
}

func TestScroll(t *testing.T) {
	lcd, disp := open(t, 4, 1)
	_ = lcd.Print("abcd")
	_ = lcd.ScrollLeft()
	if got := disp.Rows()[0]; got != "bcd " {
		t.Errorf("row after ScrollLeft = %q, want %q", got, "bcd ")
	}
	_ = lcd.ScrollRight()
	_ = lcd.ScrollRight()
	if got := disp.Rows()[0]; got != " abc" {
		t.Errorf("row after ScrollRight = %q, want %q", got, " abc")
	}
}

func TestRightJustify(t *testing.T) {
	lcd, disp := open(t, 4, 1)
	_ = lcd.SetCursor(4, 0)
	_ = lcd.RightJustify()
	_ = lcd.Print("12")
	if got := disp.Rows()[0]; got != "  12" {
		t.Errorf("row = %q, want %q", got, "  12")
	}
	_ = lcd.LeftJustify()
	if disp.State().Autoshift {
		t.Error("LeftJustify should disable autoshift")
	}
}

func TestFlags(t *testing.T) {
	lcd, disp := open(t, 16, 2)
	want := State{On: true, LeftToRight: true}
	if diff := cmp.Diff(want, disp.State()); diff != "" {
		t.Errorf("initial State() mismatch (-want +got):\n%s", diff)
	}

	_ = lcd.DisplayOff()
	_ = lcd.CursorOn()
	_ = lcd.BlinkCursorOn()
	_ = lcd.BlinkLedOn()
	want = State{Cursor: true, Blink: true, LeftToRight: true, LedBlink: true}
	if diff := cmp.Diff(want, disp.State()); diff != "" {
		t.Errorf("State() mismatch (-want +got):\n%s", diff)
	}

	_ = lcd.DisplayOn()
	_ = lcd.CursorOff()
	_ = lcd.BlinkCursorOff()
	_ = lcd.BlinkLedOff()
	_ = lcd.Close()
	want = State{On: true, LeftToRight: true, Closed: true}
	if diff := cmp.Diff(want, disp.State()); diff != "" {
		t.Errorf("State() mismatch (-want +got):\n%s", diff)
	}
}

func TestLargeDots(t *testing.T) {
	drv := &Driver{}
	if _, err := rgblcd.Create(drv, 16, 1, rgblcd.DotsLarge); err != nil {
		t.Fatal(err)
	}
	if _, err := rgblcd.Create(drv, 16, 2, rgblcd.DotsLarge); err != nil {
		t.Fatal(err)
	}
	ds := drv.Displays()
	if !ds[0].State().LargeDots || ds[1].State().LargeDots {
		t.Error("large dots honored only on single line displays")
	}
}

func TestBacklight(t *testing.T) {
	lcd, disp := open(t, 16, 2)
	if r, g, b := disp.Backlight(); r != 255 || g != 255 || b != 255 {
		t.Errorf("initial Backlight() = (%d, %d, %d), want white", r, g, b)
	}
	_ = lcd.SetRgb(300, -1, 64)
	if r, g, b := disp.Backlight(); r != 44 || g != 255 || b != 64 {
		t.Errorf("Backlight() = (%d, %d, %d), want (44, 255, 64)", r, g, b)
	}
	_ = lcd.SetPwm(rgblcd.ChannelGreen, 10)
	_ = lcd.SetPwm(rgblcd.Channel(0), 99)
	if _, g, _ := disp.Backlight(); g != 10 {
		t.Errorf("green = %d, want 10", g)
	}
}

func TestCreateChar(t *testing.T) {
	lcd, disp := open(t, 16, 2)
	heart := glyph.Parse("...../.#.#./#####/#####/.###./..#..")
	_ = lcd.CreateChar(9, heart)
	if got := disp.Glyph(1); got != heart {
		t.Errorf("Glyph(1) = %v, want %v", got, heart)
	}
}

func TestForeignAndClosedHandles(t *testing.T) {
	drv := &Driver{}
	if err := drv.Clear("nope"); !errors.Is(err, rgblcd.ErrBadHandle) {
		t.Errorf("Clear() error = %v, want %v", err, rgblcd.ErrBadHandle)
	}
	h, err := drv.Open(16, 2, rgblcd.DotsSmall)
	if err != nil {
		t.Fatal(err)
	}
	_ = drv.Close(h)
	if err := drv.Clear(h); err == nil {
		t.Error("Clear() on a closed display should fail")
	}
}

func TestPrintStringLength(t *testing.T) {
	drv := &Driver{}
	h, err := drv.Open(8, 1, rgblcd.DotsSmall)
	if err != nil {
		t.Fatal(err)
	}
	disp := h.(*Display)
	if err := drv.PrintString(h, []byte("abc"), -1); !errors.Is(err, rgblcd.ErrLength) {
		t.Errorf("PrintString(-1) error = %v, want %v", err, rgblcd.ErrLength)
	}
	if err := drv.PrintString(h, []byte("abc"), 2); err != nil {
		t.Fatal(err)
	}
	if err := drv.PrintString(h, []byte("d"), 5); err != nil {
		t.Fatal(err)
	}
	if got := disp.Rows()[0]; got != "abd     " {
		t.Errorf("row = %q, want %q", got, "abd     ")
	}
}

type cell struct {
	r     rune
	style tcell.Style
}

type fakeScreen struct {
	cells map[[2]int]cell
	shown int
}

func (f *fakeScreen) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	if f.cells == nil {
		f.cells = map[[2]int]cell{}
	}
	f.cells[[2]int{x, y}] = cell{mainc, style}
}

func (f *fakeScreen) Show() { f.shown++ }

func TestRender(t *testing.T) {
	lcd, disp := open(t, 4, 2)
	_ = lcd.Print("ab")
	_ = lcd.CreateChar(0, glyph.Glyph{0x1F})
	_ = lcd.Print("\x00")
	_ = lcd.CursorOn()
	_ = lcd.SetRgb(10, 20, 30)

	s := &fakeScreen{}
	disp.Render(s, 2, 1)
	if s.shown != 1 {
		t.Errorf("Show() called %d times, want 1", s.shown)
	}
	if len(s.cells) != 8 {
		t.Fatalf("rendered %d cells, want 8", len(s.cells))
	}
	wantRunes := map[[2]int]rune{{2, 1}: 'a', {3, 1}: 'b', {4, 1}: '▒', {5, 1}: ' ', {2, 2}: ' '}
	for pos, want := range wantRunes {
		if got := s.cells[pos].r; got != want {
			t.Errorf("cell %v = %q, want %q", pos, got, want)
		}
	}

	bg := tcell.NewRGBColor(10, 20, 30)
	plain := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(bg)
	if got := s.cells[[2]int{2, 1}].style; got != plain {
		t.Error("text cell style mismatch")
	}
	if got := s.cells[[2]int{5, 1}].style; got != plain.Reverse(true) {
		t.Error("cursor cell should be reversed")
	}

	_ = lcd.DisplayOff()
	disp.Render(s, 2, 1)
	if got := s.cells[[2]int{2, 1}].r; got != ' ' {
		t.Errorf("cell with display off = %q, want blank", got)
	}
}

func TestRenderSimulationScreen(t *testing.T) {
	lcd, disp := open(t, 16, 2)
	_ = lcd.Print("Hello")

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	defer screen.Fini()
	screen.SetSize(20, 4)
	disp.Render(screen, 0, 0)
}

func TestCellRune(t *testing.T) {
	tests := []struct {
		in   byte
		want rune
	}{
		{'A', 'A'},
		{' ', ' '},
		{0, '▒'},
		{7, '▒'},
		{'\t', '?'},
		{0xFF, '?'},
	}
	for _, tt := range tests {
		if got := cellRune(tt.in); got != tt.want {
			t.Errorf("cellRune(%#02x) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
