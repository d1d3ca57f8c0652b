package debug

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/Versifine/coinrun/internal/game"
	"github.com/Versifine/coinrun/internal/vehicle"
)

const (
	defaultStatusInterval = 100 * time.Millisecond
	defaultMovePulse      = 180 * time.Millisecond
)

// ErrQuit is returned by Start when the user pressed Ctrl-C. Raw mode swallows
// the signal, so the console reports it instead.
var ErrQuit = errors.New("console quit")

// ErrNotTerminal is returned by Start when stdin cannot be put in raw mode.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// StdinIsTerminal reports whether Start can take over stdin.
func StdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Simulation is the part of the game the console may read or poke.
type Simulation interface {
	Snapshot() game.Snapshot
	TeleportTo(x, z float64)
}

// Console is a raw-terminal keyboard input source for the car. It implements
// game.InputSource and game.JumpConsumer.
type Console struct {
	sim            Simulation
	out            io.Writer
	statusInterval time.Duration
	movePulse      time.Duration
	now            func() time.Time

	mu            sync.Mutex
	currentInput  vehicle.Input
	throttleUntil time.Time
	steerUntil    time.Time
	lookUntil     time.Time
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
	// jumpSeq counts Space presses; handedJump is the count Input last
	// returned, so ConsumeJump only drops a request the game has seen.
	jumpSeq    uint64
	handedJump uint64
}

func NewConsole(sim Simulation, out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		sim:            sim,
		out:            out,
		statusInterval: defaultStatusInterval,
		movePulse:      defaultMovePulse,
		now:            time.Now,
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.sim == nil {
		return fmt.Errorf("console simulation is nil")
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ErrNotTerminal
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/S throttle, A/D steer, Space jump, ] sprint, arrows look, X clear, : command)\r\n")
	c.renderStatusLine()

	go c.statusLoop(ctx)

	// The reader goroutine stays blocked on stdin after ctx ends; the process
	// is exiting by then.
	errCh := make(chan error, 1)
	go func() { errCh <- c.readLoop(bufio.NewReader(os.Stdin)) }()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func (c *Console) readLoop(reader *bufio.Reader) error {
	for {
		b, err := reader.ReadByte()
		if err != nil {
			return fmt.Errorf("read console input: %w", err)
		}
		if b == 3 { // Ctrl-C
			return ErrQuit
		}
		c.handleKey(reader, b)
	}
}

func (c *Console) statusLoop(ctx context.Context) {
	ticker := time.NewTicker(c.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.renderStatusLine()
		}
	}
}

// Input returns the input for the next frame with expired pulses released.
func (c *Console) Input() vehicle.Input {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyPulsesLocked(c.now())
	c.handedJump = c.jumpSeq
	return c.currentInput
}

// ConsumeJump drops a jump request the car could not honor. A press that
// arrived after the last Input call is kept.
func (c *Console) ConsumeJump() {
	c.mu.Lock()
	if c.jumpSeq == c.handedJump {
		c.currentInput.Jump = false
	}
	c.mu.Unlock()
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulseThrottle(1)
	case 's', 'S':
		c.pulseThrottle(-1)
	case 'a', 'A':
		c.pulseSteer(-1)
	case 'd', 'D':
		c.pulseSteer(1)
	case ' ':
		c.requestJump()
	case ']':
		c.toggleSprint()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.pulseLook(-1)
		case 'C': // right
			c.pulseLook(1)
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		snap := c.sim.Snapshot()
		fmt.Fprintf(c.out, "[debug] frame=%d pos=(%.3f,%.3f,%.3f) speed=%.3f vy=%.3f ground=%t brake=%t\r\n",
			snap.Frame,
			snap.Position.X(), snap.Position.Y(), snap.Position.Z(),
			snap.Speed, snap.VerticalVelocity,
			snap.Grounded, snap.BrakeLights,
		)
	case "coins":
		snap := c.sim.Snapshot()
		fmt.Fprintf(c.out, "[debug] score=%d coins_left=%d respawns=%d\r\n", snap.Score, snap.CoinsLeft, snap.Respawns)
	case "tp":
		if len(parts) != 3 {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		z, err2 := strconv.ParseFloat(parts[2], 64)
		if err1 != nil || err2 != nil {
			fmt.Fprint(c.out, "[debug] invalid tp args\r\n")
			return
		}
		c.sim.TeleportTo(x, z)
		fmt.Fprintf(c.out, "[debug] teleport queued to (%.3f, %.3f)\r\n", x, z)
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S: pulse throttle / brake (~180ms)\r\n")
	fmt.Fprint(c.out, "  A/D: pulse steering (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  ]: toggle sprint\r\n")
	fmt.Fprint(c.out, "  Arrow Left/Right: free-look camera\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <z>\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :coins\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	input := c.currentInput
	width := c.statusWidth
	c.mu.Unlock()

	snap := c.sim.Snapshot()

	line := fmt.Sprintf(
		"[THR:%+.0f STR:%+.0f SPR:%s JMP:%s | SPD:%.1f X:%.1f Y:%.1f Z:%.1f ground:%t | score:%d]",
		input.MoveY,
		input.MoveX,
		boolLabel(input.Sprint),
		boolLabel(input.Jump),
		snap.Speed,
		snap.Position.X(),
		snap.Position.Y(),
		snap.Position.Z(),
		snap.Grounded,
		snap.Score,
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

func (c *Console) requestJump() {
	c.mu.Lock()
	c.currentInput.Jump = true
	c.jumpSeq++
	c.mu.Unlock()
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (c *Console) pulseThrottle(dir float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentInput.MoveY = dir
	c.throttleUntil = c.now().Add(c.movePulse)
}

func (c *Console) pulseSteer(dir float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentInput.MoveX = dir
	c.steerUntil = c.now().Add(c.movePulse)
}

func (c *Console) pulseLook(dir float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentInput.LookX = dir
	c.lookUntil = c.now().Add(c.movePulse)
}

func (c *Console) applyPulsesLocked(now time.Time) {
	if !c.throttleUntil.IsZero() && !now.Before(c.throttleUntil) {
		c.currentInput.MoveY = 0
		c.throttleUntil = time.Time{}
	}
	if !c.steerUntil.IsZero() && !now.Before(c.steerUntil) {
		c.currentInput.MoveX = 0
		c.steerUntil = time.Time{}
	}
	if !c.lookUntil.IsZero() && !now.Before(c.lookUntil) {
		c.currentInput.LookX = 0
		c.lookUntil = time.Time{}
	}
}

func (c *Console) toggleSprint() {
	c.mu.Lock()
	c.currentInput.Sprint = !c.currentInput.Sprint
	enabled := c.currentInput.Sprint
	c.mu.Unlock()
	slog.Debug("debug sprint toggled", "enabled", enabled)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.currentInput = vehicle.Input{}
	c.throttleUntil = time.Time{}
	c.steerUntil = time.Time{}
	c.lookUntil = time.Time{}
	c.mu.Unlock()
}
