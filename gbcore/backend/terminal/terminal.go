package terminal

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-gbcore/gbcore/backend"
	"github.com/valerio/go-gbcore/gbcore/backend/terminal/render"
	"github.com/valerio/go-gbcore/gbcore/debug"
	"github.com/valerio/go-gbcore/gbcore/input/action"
	"github.com/valerio/go-gbcore/gbcore/video"
)

const (
	width  = video.FramebufferWidth
	height = video.FramebufferHeight

	// Two pixel rows share one cell.
	gameAreaHeight = height / 2

	registerHeight = 8
	disasmHeight   = 9
	minTermWidth   = width + 2
	minTermHeight  = gameAreaHeight + 2
	logCapacity    = 200
)

var shadeColors = [4]tcell.Color{
	render.ShadeBlack: tcell.ColorBlack,
	render.ShadeDark:  tcell.ColorGray,
	render.ShadeLight: tcell.ColorSilver,
	render.ShadeWhite: tcell.ColorWhite,
}

// keyMapping maps special keys to actions.
var keyMapping = map[tcell.Key]action.Action{
	tcell.KeyEscape: action.EmulatorQuit,
	tcell.KeyCtrlC:  action.EmulatorQuit,
	tcell.KeyF10:    action.EmulatorDebugToggle,
	tcell.KeyF12:    action.EmulatorSnapshot,
}

// runeMapping maps printable keys to actions.
var runeMapping = map[rune]action.Action{
	'q': action.EmulatorQuit,
	' ': action.EmulatorPauseToggle,
	'p': action.EmulatorPauseToggle,
	'f': action.EmulatorStepFrame,
}

// Backend renders the viewport with half block characters and shows debug
// panels and captured logs next to it.
type Backend struct {
	screen    tcell.Screen
	config    backend.Config
	logBuffer *render.LogBuffer
	logFilter slog.Level
	previous  *slog.Logger
	logOutput io.Writer
	logFlags  int
	signals   chan os.Signal
	events    []backend.InputEvent
	shades    render.ShadeMap

	lastHash   uint64
	drawn      bool
	lastWidth  int
	lastHeight int
}

// New creates a terminal backend drawing to the process terminal.
func New() *Backend {
	return &Backend{logFilter: slog.LevelInfo}
}

// NewWithScreen creates a terminal backend drawing to screen, which is
// initialized by Init.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, logFilter: slog.LevelInfo}
}

func (t *Backend) Init(config backend.Config) error {
	t.config = config

	palette := config.Palette
	if palette == (video.Palette{}) {
		palette = video.GreyPalette
	}
	t.shades = render.NewShadeMap(palette)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}

	t.logBuffer = render.NewLogBuffer(logCapacity)
	// SetDefault also redirects the log package, which Cleanup undoes.
	t.previous = slog.Default()
	t.logOutput = log.Writer()
	t.logFlags = log.Flags()
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, slog.LevelDebug)))

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	slog.Info("Terminal backend initialized", "title", config.Title)
	return nil
}

// Update drains pending input, then redraws. The game area is only redrawn
// when the frame content changed.
func (t *Backend) Update(frame *video.FrameBuffer, state *debug.State) ([]backend.InputEvent, error) {
	t.pollSignals()
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKey(ev)
		case *tcell.EventResize:
			t.drawn = false
			t.screen.Sync()
		}
	}

	events := t.events
	t.events = nil

	t.render(frame, state)
	t.screen.Show()

	return events, nil
}

func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		t.screen.Fini()
	}
	if t.previous != nil {
		slog.SetDefault(t.previous)
		log.SetOutput(t.logOutput)
		log.SetFlags(t.logFlags)
	}
	return nil
}

// Logs returns the captured log buffer.
func (t *Backend) Logs() *render.LogBuffer { return t.logBuffer }

func (t *Backend) pollSignals() {
	select {
	case sig := <-t.signals:
		slog.Info("Received signal", "signal", sig)
		t.events = append(t.events, backend.InputEvent{Action: action.EmulatorQuit})
	default:
	}
}

func (t *Backend) processKey(ev *tcell.EventKey) {
	act, ok := keyMapping[ev.Key()]
	if !ok && ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case '+', '=':
			t.changeLogFilter(-4)
			return
		case '-', '_':
			t.changeLogFilter(4)
			return
		}
		act, ok = runeMapping[ev.Rune()]
	}
	if !ok {
		return
	}

	if act == action.EmulatorDebugToggle {
		t.config.ShowDebug = !t.config.ShowDebug
		t.drawn = false
		slog.Info("Debug display toggled", "enabled", t.config.ShowDebug)
	}

	slog.Debug("Key event", "action", act)
	t.events = append(t.events, backend.InputEvent{Action: act})
}

// changeLogFilter moves the displayed level by delta, staying within
// debug and error.
func (t *Backend) changeLogFilter(delta slog.Level) {
	level := t.logFilter + delta
	if level < slog.LevelDebug || level > slog.LevelError {
		return
	}
	slog.Info("Log filter changed", "from", t.logFilter, "to", level)
	t.logFilter = level
}

func (t *Backend) render(frame *video.FrameBuffer, state *debug.State) {
	termWidth, termHeight := t.screen.Size()
	if termWidth != t.lastWidth || termHeight != t.lastHeight {
		t.lastWidth, t.lastHeight = termWidth, termHeight
		t.drawn = false
	}

	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		t.drawn = false
		return
	}

	dividerX := width + 1
	panelX := dividerX + 2
	panelWidth := termWidth - panelX

	hash := frame.Hash()
	if !t.drawn || hash != t.lastHash {
		if !t.drawn {
			t.screen.Clear()
			t.drawBorders(termWidth, termHeight, dividerX)
		}
		t.drawGameBoy(frame)
		t.lastHash = hash
		t.drawn = true
	}

	t.clearRect(panelX, 1, panelWidth, termHeight-2)

	logsY := 1
	if t.config.ShowDebug && state != nil {
		t.drawRegisters(panelX, 1, panelWidth, state)
		t.drawDisassembly(panelX, registerHeight+2, panelWidth, state)
		logsY = registerHeight + disasmHeight + 3
	}
	t.drawLogs(panelX, logsY, panelWidth, termHeight-1-logsY)
}

func (t *Backend) drawBorders(termWidth, termHeight, dividerX int) {
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)

	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	title := " Game Boy "
	if t.config.Title != "" {
		title = " " + t.config.Title + " "
	}
	t.drawText(1, 0, dividerX-1, title, titleStyle)
	t.drawText(dividerX+2, 0, termWidth-dividerX-2, " Debug / Logs (-/+ filter) ", titleStyle)

	help := " Q=quit SPACE=pause/resume F=frame F10=debug F12=snapshot "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

func (t *Backend) drawGameBoy(frame *video.FrameBuffer) {
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := t.shades.Shade(frame.GetPixel(uint(x), uint(y)))
			bottom := t.shades.Shade(frame.GetPixel(uint(x), uint(y+1)))

			style := tcell.StyleDefault.Foreground(shadeColors[top]).Background(shadeColors[bottom])
			t.screen.SetContent(x, y/2+1, render.HalfBlock(top, bottom), nil, style)
		}
	}
}

func (t *Backend) drawRegisters(x, y, w int, state *debug.State) {
	status := "RUNNING"
	if state.Paused {
		status = "PAUSED"
	}

	cpu := state.CPU
	lines := []string{
		fmt.Sprintf("Status: %s  Mode: %s", status, state.Mode),
		fmt.Sprintf("A: %02X  F: %02X  [%s]", cpu.A, cpu.F, cpu.Flags()),
		fmt.Sprintf("B: %02X  C: %02X", cpu.B, cpu.C),
		fmt.Sprintf("D: %02X  E: %02X", cpu.D, cpu.E),
		fmt.Sprintf("H: %02X  L: %02X", cpu.H, cpu.L),
		fmt.Sprintf("SP: %04X  PC: %04X  IME: %t", cpu.SP, cpu.PC, cpu.IME),
		fmt.Sprintf("LY: %02X  SCY: %02X  SCX: %02X  LCDC: %02X", state.IO.LY, state.IO.SCY, state.IO.SCX, state.IO.LCDC),
		fmt.Sprintf("Frames: %d  Instr: %d  Cycles: %d", state.Frames, state.Instructions, cpu.Cycles),
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	for i, line := range lines {
		if i >= registerHeight {
			break
		}
		t.drawText(x, y+i, w, line, style)
	}
}

func (t *Backend) drawDisassembly(x, y, w int, state *debug.State) {
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	currentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)

	for i, line := range state.Disassembly {
		if i >= disasmHeight {
			break
		}
		s := style
		if line.Current {
			s = currentStyle
		}
		t.drawText(x, y+i, w, line.String(), s)
	}
}

func (t *Backend) drawLogs(x, y, w, h int) {
	if h <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.Recent(h, t.logFilter) {
		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}

		text := render.FormatLogEntry(entry)
		if len(text) > w && w > 3 {
			text = text[:w-3] + "..."
		}
		t.drawText(x, y+i, w, text, style)
	}
}

func (t *Backend) drawText(x, y, w int, text string, style tcell.Style) {
	i := 0
	for _, ch := range text {
		if i >= w {
			return
		}
		t.screen.SetContent(x+i, y, ch, nil, style)
		i++
	}
}

func (t *Backend) clearRect(x, y, w, h int) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			t.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
}
