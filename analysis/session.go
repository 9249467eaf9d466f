package analysis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/RajanDhamala/go-uci/engine"
	"github.com/RajanDhamala/go-uci/uci"
)

// Limit bounds a search. The zero value searches until Stop.
type Limit struct {
	Depth    int
	Nodes    int
	MoveTime time.Duration
}

type OptionValue struct {
	Name  string
	Value string
}

type SessionConfig struct {
	Engine  engine.Config
	Options []OptionValue
	Logger  zerolog.Logger

	// OnPV receives every info line that carries a score or a pv.
	OnPV func(uci.PV)
	// OnLine receives every raw engine line before it is interpreted.
	OnLine func(string)
}

// Session drives one engine: it captures the handshake, keeps the latest PV
// per multipv slot and exposes the score of the main line for charting.
type Session struct {
	ctrl   *engine.Controller
	log    zerolog.Logger
	cfg    SessionConfig
	ready  chan struct{}
	readyO sync.Once

	mu         sync.Mutex
	name       string
	author     string
	options    []uci.EngineOption
	lines      map[int]uci.PV
	side       uci.Side
	eval       int
	bestMove   uci.BestMove
	searchDone chan struct{}
	// pending counts go commands still waiting for their bestmove.
	pending int
}

func NewSession(cfg SessionConfig) (*Session, error) {
	s := &Session{
		cfg:   cfg,
		ready: make(chan struct{}),
		lines: make(map[int]uci.PV),
	}
	engineCfg := cfg.Engine
	engineCfg.Logger = cfg.Logger
	ctrl, err := engine.New(engineCfg, s.handleLine)
	if err != nil {
		return nil, err
	}
	s.ctrl = ctrl
	s.log = cfg.Logger.With().Str("engine", ctrl.Path()).Logger()
	return s, nil
}

// Start spawns the engine, waits for "uciok" and applies the configured options.
func (s *Session) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := s.ctrl.Start(); err != nil {
		return err
	}

	select {
	case <-s.ready:
	case <-ctx.Done():
		_ = s.ctrl.Quit()
		return fmt.Errorf("wait uciok: %w", ctx.Err())
	case <-s.ctrl.Done():
		return fmt.Errorf("wait uciok: %w", engine.ErrProcessTerminated)
	}

	for _, opt := range s.cfg.Options {
		if err := s.SetOption(opt.Name, opt.Value); err != nil {
			_ = s.ctrl.Quit()
			return err
		}
	}
	s.log.Info().Str("name", s.Name()).Int("options", len(s.Options())).Msg("engine ready")
	return nil
}

// SetOption validates value against the engine's declaration, when there is
// one, and sends it. An empty name or value is skipped.
func (s *Session) SetOption(name, value string) error {
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" || value == "" {
		return nil
	}

	s.mu.Lock()
	for i := range s.options {
		if s.options[i].Name != name {
			continue
		}
		if err := s.options[i].Set(value); err != nil {
			s.mu.Unlock()
			return err
		}
		break
	}
	s.mu.Unlock()
	return s.ctrl.SetOption(name, value)
}

// Analyze stops a running search, loads pos and starts a new one.
func (s *Session) Analyze(pos uci.Position, limit Limit) error {
	side, err := ResolvePosition(pos)
	if err != nil {
		return err
	}
	if s.ctrl.Running() {
		if err := s.ctrl.Stop(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.side = side
	s.lines = make(map[int]uci.PV)
	s.eval = 0
	s.bestMove = uci.BestMove{}
	s.searchDone = make(chan struct{})
	s.pending++
	s.mu.Unlock()

	if err := s.search(pos, limit); err != nil {
		s.mu.Lock()
		s.pending--
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Session) search(pos uci.Position, limit Limit) error {
	if err := s.ctrl.SetPosition(pos); err != nil {
		return err
	}
	switch {
	case limit.Depth > 0:
		return s.ctrl.GoDepth(limit.Depth)
	case limit.Nodes > 0:
		return s.ctrl.GoNodes(limit.Nodes)
	case limit.MoveTime > 0:
		return s.ctrl.GoMovetime(limit.MoveTime)
	default:
		return s.ctrl.GoInfinite()
	}
}

func (s *Session) Stop() error {
	return s.ctrl.Stop()
}

// WaitBestMove blocks until the current search reports its bestmove.
func (s *Session) WaitBestMove(ctx context.Context) (uci.BestMove, error) {
	s.mu.Lock()
	done := s.searchDone
	s.mu.Unlock()
	if done == nil {
		return uci.BestMove{}, errors.New("no search started")
	}

	select {
	case <-done:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.bestMove, nil
	case <-ctx.Done():
		return uci.BestMove{}, ctx.Err()
	case <-s.ctrl.Done():
		return uci.BestMove{}, engine.ErrProcessTerminated
	}
}

func (s *Session) Close() error {
	return s.ctrl.Quit()
}

func (s *Session) Controller() *engine.Controller {
	return s.ctrl
}

func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *Session) Author() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.author
}

func (s *Session) Options() []uci.EngineOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uci.EngineOption(nil), s.options...)
}

// Lines returns the latest PV of every multipv slot, ordered by slot.
func (s *Session) Lines() []uci.PV {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]uci.PV, 0, len(s.lines))
	for _, pv := range s.lines {
		lines = append(lines, pv)
	}
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].MultiPV < lines[j].MultiPV
	})
	return lines
}

// SetActive marks one multipv slot as the highlighted line.
func (s *Session) SetActive(multiPV int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slot, pv := range s.lines {
		pv.Active = slot == multiPV
		s.lines[slot] = pv
	}
}

// Eval is the main line's score in centipawns, white positive, mates capped.
func (s *Session) Eval() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eval
}

func (s *Session) BestMove() uci.BestMove {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bestMove
}

func (s *Session) handleLine(line string) {
	if s.cfg.OnLine != nil {
		s.cfg.OnLine(line)
	}

	switch uci.Classify(line) {
	case uci.LineID:
		key, value, ok := uci.ParseIDLine(line)
		if !ok {
			return
		}
		s.mu.Lock()
		if key == "name" {
			s.name = value
		} else {
			s.author = value
		}
		s.mu.Unlock()
	case uci.LineOption:
		opt, ok := uci.ParseOptionLine(line)
		if !ok {
			s.log.Debug().Str("line", line).Msg("unparsed option line")
			return
		}
		s.mu.Lock()
		s.options = append(s.options, opt)
		s.mu.Unlock()
	case uci.LineUCIOK:
		s.readyO.Do(func() { close(s.ready) })
	case uci.LineInfo:
		s.handleInfo(uci.ParseInfoLine(line))
	case uci.LineBestMove:
		best, ok := uci.ParseBestMove(line)
		if !ok {
			return
		}
		s.mu.Lock()
		if s.pending > 0 {
			s.pending--
		}
		if s.pending == 0 && s.searchDone != nil {
			s.bestMove = best
			select {
			case <-s.searchDone:
			default:
				close(s.searchDone)
			}
		}
		s.mu.Unlock()
	}
}

func (s *Session) handleInfo(info uci.EngineInfo) {
	if info.Score == nil && !info.HasPV() {
		return
	}
	pv := uci.ToDisplayPV(info)

	s.mu.Lock()
	if s.pending > 1 {
		// Output of a search that was stopped but has not sent bestmove yet.
		s.mu.Unlock()
		return
	}
	prev, seen := s.lines[pv.MultiPV]
	if seen {
		pv.Active = prev.Active
		// Bound-only updates keep the last accepted line.
		if !info.HasPV() {
			pv.Moves = prev.Moves
		}
	}
	s.lines[pv.MultiPV] = pv
	if pv.MultiPV == 1 && info.Score != nil {
		s.eval = uci.ToSignedCentipawns(*info.Score, s.side)
	}
	s.mu.Unlock()

	if s.cfg.OnPV != nil {
		s.cfg.OnPV(pv)
	}
}
