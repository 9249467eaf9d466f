package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/RajanDhamala/go-uci/analysis"
)

type Config struct {
	Logs   LogConfig
	Engine EngineConfig
}

type LogConfig struct {
	Style string
	Level string
}

type EngineConfig struct {
	Paths    []string
	Args     []string
	HashMB   int
	Threads  int
	MultiPV  int
	ShowWDL  bool
	Depth    int
	MoveTime time.Duration
}

// Load reads settings from the process environment, falling back to the
// given .env file. A missing default ".env" is not an error.
func Load(envFile string) (*Config, error) {
	fileVars := map[string]string{}
	path := envFile
	if path == "" {
		path = ".env"
	}
	vars, err := godotenv.Read(path)
	switch {
	case err == nil:
		fileVars = vars
	case envFile == "" && errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return FromLookup(func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := fileVars[key]
		return value, ok
	})
}

func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		return fallback
	}

	cfg := &Config{
		Logs: LogConfig{
			Style: get("LOG_STYLE", "console"),
			Level: get("LOG_LEVEL", "info"),
		},
	}

	for _, path := range strings.Split(get("UCI_ENGINE_PATH", "stockfish"), ",") {
		if path = strings.TrimSpace(path); path != "" {
			cfg.Engine.Paths = append(cfg.Engine.Paths, path)
		}
	}
	if args := strings.Fields(get("UCI_ENGINE_ARGS", "")); len(args) > 0 {
		cfg.Engine.Args = args
	}

	hashMB, err := parseHash(get("UCI_HASH", ""))
	if err != nil {
		return nil, err
	}
	cfg.Engine.HashMB = hashMB

	if cfg.Engine.Threads, err = parseInt("UCI_THREADS", get("UCI_THREADS", "0")); err != nil {
		return nil, err
	}
	if cfg.Engine.MultiPV, err = parseInt("UCI_MULTIPV", get("UCI_MULTIPV", "0")); err != nil {
		return nil, err
	}
	if cfg.Engine.Depth, err = parseInt("UCI_DEPTH", get("UCI_DEPTH", "0")); err != nil {
		return nil, err
	}
	if cfg.Engine.ShowWDL, err = strconv.ParseBool(get("UCI_SHOW_WDL", "false")); err != nil {
		return nil, fmt.Errorf("UCI_SHOW_WDL: %w", err)
	}
	if cfg.Engine.MoveTime, err = parseMoveTime(get("UCI_MOVETIME", "")); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Options returns the engine options implied by the configuration, in the
// order they should be sent.
func (e EngineConfig) Options() []analysis.OptionValue {
	var opts []analysis.OptionValue
	if e.Threads > 0 {
		opts = append(opts, analysis.OptionValue{Name: "Threads", Value: strconv.Itoa(e.Threads)})
	}
	if e.HashMB > 0 {
		opts = append(opts, analysis.OptionValue{Name: "Hash", Value: strconv.Itoa(e.HashMB)})
	}
	if e.MultiPV > 0 {
		opts = append(opts, analysis.OptionValue{Name: "MultiPV", Value: strconv.Itoa(e.MultiPV)})
	}
	if e.ShowWDL {
		opts = append(opts, analysis.OptionValue{Name: "UCI_ShowWDL", Value: "true"})
	}
	return opts
}

func (l LogConfig) Logger(w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if strings.EqualFold(l.Style, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// parseHash accepts sizes such as "256MB" or "1GB"; a bare number is MB.
func parseHash(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("UCI_HASH: must be >= 0")
		}
		return n, nil
	}
	size, err := bytesize.Parse(raw)
	if err != nil {
		return 0, fmt.Errorf("UCI_HASH: %w", err)
	}
	mb := int(size / bytesize.MB)
	if mb < 1 {
		return 0, fmt.Errorf("UCI_HASH: %s is below 1MB", size)
	}
	return mb, nil
}

func parseInt(key, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must be >= 0", key)
	}
	return n, nil
}

// parseMoveTime accepts a Go duration ("1.5s") or plain milliseconds.
func parseMoveTime(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("UCI_MOVETIME: %w", err)
	}
	return d, nil
}
