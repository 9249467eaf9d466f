package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/RajanDhamala/go-uci/analysis"
	"github.com/RajanDhamala/go-uci/engine"
	"github.com/RajanDhamala/go-uci/internal/config"
	"github.com/RajanDhamala/go-uci/uci"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "uciwatch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		envFile  = flag.String("env", "", "path to a .env file (default: ./.env if present)")
		engines  = flag.String("engine", "", "comma-separated engine binaries (overrides UCI_ENGINE_PATH)")
		fen      = flag.String("fen", "", "start FEN (default: the standard start position)")
		moves    = flag.String("moves", "", "space-separated UCI moves played from the start position")
		depth    = flag.Int("depth", -1, "search depth (overrides UCI_DEPTH)")
		nodes    = flag.Int("nodes", 0, "node limit")
		moveTime = flag.Duration("movetime", -1, "time per search (overrides UCI_MOVETIME)")
		multiPV  = flag.Int("multipv", -1, "number of lines (overrides UCI_MULTIPV)")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		return err
	}
	if *engines != "" {
		cfg.Engine.Paths = strings.Split(*engines, ",")
	}
	if *depth >= 0 {
		cfg.Engine.Depth = *depth
	}
	if *moveTime >= 0 {
		cfg.Engine.MoveTime = *moveTime
	}
	if *multiPV >= 0 {
		cfg.Engine.MultiPV = *multiPV
	}

	log, err := cfg.Logs.Logger(os.Stderr)
	if err != nil {
		return err
	}

	pos := uci.Position{FEN: *fen, Moves: strings.Fields(*moves)}
	limit := analysis.Limit{Depth: cfg.Engine.Depth, Nodes: *nodes, MoveTime: cfg.Engine.MoveTime}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := &printer{}
	configs := make([]analysis.SessionConfig, 0, len(cfg.Engine.Paths))
	for i, path := range cfg.Engine.Paths {
		tag := fmt.Sprintf("#%d", i+1)
		engineLog := log.With().Str("engine", tag).Logger()
		configs = append(configs, analysis.SessionConfig{
			Engine: engine.Config{
				BinaryPath: strings.TrimSpace(path),
				Args:       cfg.Engine.Args,
				OnExit: func(err error) {
					engineLog.Error().Err(err).Msg("engine exited")
				},
			},
			Options: cfg.Engine.Options(),
			Logger:  engineLog,
			OnPV:    func(pv uci.PV) { out.pv(tag, pv) },
			OnLine:  func(line string) { logStats(engineLog, line) },
		})
	}

	group, err := analysis.NewGroup(configs)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := group.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("close engines")
		}
	}()

	startCtx, startCancel := context.WithTimeout(ctx, 10*time.Second)
	defer startCancel()
	if err := group.StartAll(startCtx); err != nil {
		return fmt.Errorf("start engines: %w", err)
	}
	for i, s := range group.Sessions() {
		log.Info().Str("engine", fmt.Sprintf("#%d", i+1)).Str("name", s.Name()).Str("author", s.Author()).Msg("loaded")
	}

	if err := group.AnalyzeAll(pos, limit); err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	if limit == (analysis.Limit{}) {
		log.Info().Msg("searching until interrupted")
		<-ctx.Done()
		if err := group.StopAll(); err != nil {
			return fmt.Errorf("stop: %w", err)
		}
	}

	waitCtx := context.Background()
	if limit == (analysis.Limit{}) {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(waitCtx, 5*time.Second)
		defer cancel()
	} else {
		waitCtx = ctx
	}

	var errs []error
	for i, s := range group.Sessions() {
		best, err := s.WaitBestMove(waitCtx)
		if err != nil {
			errs = append(errs, fmt.Errorf("engine #%d: %w", i+1, err))
			continue
		}
		fmt.Printf("#%d %s bestmove=%s ponder=%s eval=%+d\n", i+1, s.Name(), best.Move, best.Ponder, s.Eval())
	}
	return errors.Join(errs...)
}

type printer struct {
	mu sync.Mutex
}

func (p *printer) pv(tag string, pv uci.PV) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Printf("%s [%d] depth=%s score=%s wdl=%s/%s/%s %s\n",
		tag, pv.MultiPV, pv.Depth, uci.ToDisplayString(pv.Score),
		pv.WDL.Win, pv.WDL.Draw, pv.WDL.Loss, strings.Join(pv.Moves, " "))
}

func logStats(log zerolog.Logger, line string) {
	if uci.Classify(line) != uci.LineInfo {
		return
	}
	info := uci.ParseInfoLine(line)
	if info.Nodes == nil {
		return
	}
	event := log.Debug().Str("nodes", uci.FormatCount(*info.Nodes))
	if info.NPS != nil {
		event = event.Str("nps", uci.FormatCount(*info.NPS))
	}
	if info.Time != nil {
		event = event.Str("elapsed", uci.FormatElapsed(*info.Time))
	}
	if info.HashFull != nil {
		event = event.Str("hashfull", *info.HashFull)
	}
	event.Msg("search stats")
}
