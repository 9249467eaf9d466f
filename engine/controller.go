package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/RajanDhamala/go-uci/uci"
)

// Controller owns one engine subprocess. Every stdout line is handed to the
// consumer given to New, in order, from a single goroutine.
type Controller struct {
	cfg    validatedConfig
	onLine func(string)
	log    zerolog.Logger

	mu       sync.Mutex
	state    State
	searches int

	cmd      *exec.Cmd
	stdin    io.WriteCloser
	waitDone chan struct{}

	waitErrMu sync.RWMutex
	waitErr   error

	sleep func(time.Duration)
}

func New(cfg Config, onLine func(string)) (*Controller, error) {
	normalized, err := validateConfig(cfg)
	if err != nil {
		return nil, err
	}
	if onLine == nil {
		onLine = func(string) {}
	}
	return &Controller{
		cfg:    normalized,
		onLine: onLine,
		log:    normalized.logger.With().Str("engine", normalized.binaryPath).Logger(),
		state:  StateNotStarted,
		sleep:  time.Sleep,
	}, nil
}

// Start spawns the engine and sends the "uci" handshake. A failed spawn
// leaves the controller in StateQuit.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateNotStarted {
		return &StateError{Op: "start", State: c.state}
	}
	c.state = StateStarting

	if err := c.spawnLocked(); err != nil {
		c.state = StateQuit
		c.log.Error().Err(err).Msg("engine spawn failed")
		return err
	}
	c.state = StateIdle
	return c.writeLocked("uci")
}

func (c *Controller) spawnLocked() error {
	path, err := resolveBinaryPath(c.cfg.binaryPath)
	if err != nil {
		return &SpawnError{Path: c.cfg.binaryPath, Err: err}
	}

	cmd := exec.Command(path, c.cfg.args...)
	cmd.Dir = c.cfg.dir
	if len(c.cfg.env) > 0 {
		cmd.Env = append(os.Environ(), c.cfg.env...)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return &SpawnError{Path: path, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return &SpawnError{Path: path, Err: err}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return &SpawnError{Path: path, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return &SpawnError{Path: path, Err: err}
	}

	c.cmd = cmd
	c.stdin = stdin
	c.waitDone = make(chan struct{})

	var readers sync.WaitGroup
	readers.Add(2)
	go func() {
		defer readers.Done()
		c.readLoop(stdout)
	}()
	go func() {
		defer readers.Done()
		c.stderrLoop(stderr)
	}()
	go c.waitLoop(cmd, &readers)

	c.log.Info().Int("pid", cmd.Process.Pid).Strs("args", c.cfg.args).Msg("engine started")
	return nil
}

func (c *Controller) NewGame() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked("ucinewgame", StateIdle); err != nil {
		return err
	}
	return c.writeLocked("ucinewgame")
}

func (c *Controller) IsReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked("isready", StateIdle, StateSearching); err != nil {
		return err
	}
	return c.writeLocked("isready")
}

// SetOption sends "setoption". An empty name or value is skipped without
// error so half-filled option forms can be passed straight through.
func (c *Controller) SetOption(name, value string) error {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return nil
	}
	if err := checkLine("option name", name); err != nil {
		return err
	}
	if err := checkLine("option value", value); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked("setoption", StateIdle, StateSearching); err != nil {
		return err
	}
	return c.writeLocked(uci.SetOptionCommand(name, value))
}

func (c *Controller) SetOptions(options []uci.EngineOption) error {
	for _, opt := range options {
		if opt.Kind == uci.OptionButton {
			continue
		}
		if err := c.SetOption(opt.Name, opt.Current); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) SetPosition(pos uci.Position) error {
	if err := checkLine("fen", pos.FEN); err != nil {
		return err
	}
	for _, move := range pos.Moves {
		if err := checkLine("move", move); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked("position", StateIdle); err != nil {
		return err
	}
	return c.writeLocked(pos.Command())
}

func (c *Controller) GoInfinite() error {
	return c.goSearch("go infinite")
}

func (c *Controller) GoDepth(depth int) error {
	if depth < 1 {
		return fmt.Errorf("depth must be >= 1")
	}
	return c.goSearch("go depth " + strconv.Itoa(depth))
}

func (c *Controller) GoNodes(nodes int) error {
	if nodes < 1 {
		return fmt.Errorf("nodes must be >= 1")
	}
	return c.goSearch("go nodes " + strconv.Itoa(nodes))
}

func (c *Controller) GoMovetime(moveTime time.Duration) error {
	moveMillis := moveTime.Milliseconds()
	if moveMillis < 1 {
		moveMillis = 1
	}
	return c.goSearch("go movetime " + strconv.FormatInt(moveMillis, 10))
}

func (c *Controller) goSearch(command string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.requireLocked("go", StateIdle); err != nil {
		return err
	}
	if err := c.writeLocked(command); err != nil {
		return err
	}
	c.searches++
	c.state = StateSearching
	return nil
}

// Stop sends "stop" and then sleeps for the stop grace so the engine can
// flush its final bestmove. The sleep is a fixed delay, not an
// acknowledgement, and cannot be cancelled.
func (c *Controller) Stop() error {
	c.mu.Lock()
	if err := c.requireLocked("stop", StateSearching, StateIdle); err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.writeLocked("stop"); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = StateIdle
	c.mu.Unlock()

	c.sleep(c.cfg.stopGrace)
	return nil
}

// Quit sends "quit", waits up to the quit grace for the process to exit and
// kills it otherwise. Calling Quit again is a no-op.
func (c *Controller) Quit() error {
	c.mu.Lock()
	prev := c.state
	switch prev {
	case StateQuit:
		c.mu.Unlock()
		return nil
	case StateNotStarted:
		c.state = StateQuit
		c.mu.Unlock()
		return nil
	}
	c.state = StateQuit
	if prev != StateStopped {
		if err := c.writeLocked("quit"); err != nil {
			c.log.Debug().Err(err).Msg("send quit")
		}
	}
	cmd := c.cmd
	waitDone := c.waitDone
	stdin := c.stdin
	c.mu.Unlock()

	var quitErr error
	if waitDone == nil {
		c.sleep(c.cfg.quitGrace)
	} else {
		select {
		case <-waitDone:
		case <-time.After(c.cfg.quitGrace):
			c.log.Warn().Dur("grace", c.cfg.quitGrace).Msg("engine did not exit, killing")
			if cmd != nil && cmd.Process != nil {
				if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
					quitErr = &OpError{Op: "kill process", Err: err}
				}
			}
			select {
			case <-waitDone:
			case <-time.After(c.cfg.quitGrace):
				c.log.Warn().Msg("engine output still open after kill")
			}
		}
	}
	if stdin != nil {
		_ = stdin.Close()
	}
	c.log.Info().Str("from", prev.String()).Msg("engine quit")
	return quitErr
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Running reports whether a search is active.
func (c *Controller) Running() bool {
	return c.State() == StateSearching
}

// Alive reports whether the subprocess is live and accepting commands.
func (c *Controller) Alive() bool {
	switch c.State() {
	case StateStarting, StateIdle, StateSearching:
		return true
	default:
		return false
	}
}

func (c *Controller) Path() string {
	return c.cfg.binaryPath
}

// Done is closed once the subprocess has been reaped. It is nil before Start.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waitDone
}

func (c *Controller) ExitErr() error {
	c.waitErrMu.RLock()
	defer c.waitErrMu.RUnlock()
	return c.waitErr
}

func (c *Controller) requireLocked(op string, allowed ...State) error {
	switch c.state {
	case StateQuit:
		return fmt.Errorf("engine %s: %w", op, ErrQuit)
	case StateStopped:
		return fmt.Errorf("engine %s: %w", op, ErrProcessTerminated)
	case StateNotStarted:
		return fmt.Errorf("engine %s: %w", op, ErrNotStarted)
	}
	for _, s := range allowed {
		if c.state == s {
			return nil
		}
	}
	return &StateError{Op: op, State: c.state}
}

func (c *Controller) writeLocked(command string) error {
	if c.stdin == nil {
		return ErrNotStarted
	}
	if _, err := io.WriteString(c.stdin, command+"\n"); err != nil {
		return &OpError{Op: "write command", Err: err}
	}
	c.log.Debug().Str("command", command).Msg("engine <")
	return nil
}

func (c *Controller) readLoop(stdout io.Reader) {
	scanner := bufio.NewScanner(stdout)
	buffer := make([]byte, 0, 64*1024)
	scanner.Buffer(buffer, 1024*1024)

	for scanner.Scan() {
		c.handleLine(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		c.log.Warn().Err(err).Msg("engine stdout read failed")
	}
}

func (c *Controller) handleLine(line string) {
	if uci.Classify(line) == uci.LineBestMove {
		c.mu.Lock()
		if c.searches > 0 {
			c.searches--
		}
		if c.searches == 0 && c.state == StateSearching {
			c.state = StateIdle
		}
		c.mu.Unlock()
	}
	c.onLine(line)
}

func (c *Controller) stderrLoop(stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		c.log.Warn().Str("line", scanner.Text()).Msg("engine stderr")
	}
}

func (c *Controller) waitLoop(cmd *exec.Cmd, readers *sync.WaitGroup) {
	readers.Wait()
	err := cmd.Wait()
	c.setWaitErr(err)

	c.mu.Lock()
	unexpected := c.state != StateQuit
	if unexpected {
		c.state = StateStopped
		c.searches = 0
	}
	waitDone := c.waitDone
	c.mu.Unlock()
	close(waitDone)

	if !unexpected {
		return
	}
	exitErr := ErrProcessTerminated
	if err != nil {
		exitErr = fmt.Errorf("%w: %v", ErrProcessTerminated, err)
	}
	c.log.Error().Err(exitErr).Msg("engine exited")
	if c.cfg.onExit != nil {
		c.cfg.onExit(exitErr)
	}
}

func (c *Controller) setWaitErr(err error) {
	c.waitErrMu.Lock()
	defer c.waitErrMu.Unlock()
	c.waitErr = err
}
