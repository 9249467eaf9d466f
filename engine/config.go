package engine

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBinary    = "stockfish"
	defaultStopGrace = 20 * time.Millisecond
	defaultQuitGrace = 250 * time.Millisecond
	maxQuitGrace     = 10 * time.Second
)

type validatedConfig struct {
	binaryPath string
	args       []string
	env        []string
	dir        string
	stopGrace  time.Duration
	quitGrace  time.Duration
	logger     zerolog.Logger
	onExit     func(error)
}

func validateConfig(cfg Config) (validatedConfig, error) {
	binaryPath := strings.TrimSpace(cfg.BinaryPath)
	if binaryPath == "" {
		binaryPath = defaultBinary
	}
	if strings.ContainsAny(binaryPath, "\r\n") {
		return validatedConfig{}, fmt.Errorf("binary path must be single-line")
	}

	stopGrace := cfg.StopGrace
	if stopGrace < 0 {
		return validatedConfig{}, fmt.Errorf("stop grace must be >= 0")
	}
	if stopGrace == 0 {
		stopGrace = defaultStopGrace
	}

	quitGrace := cfg.QuitGrace
	if quitGrace < 0 {
		return validatedConfig{}, fmt.Errorf("quit grace must be >= 0")
	}
	if quitGrace == 0 {
		quitGrace = defaultQuitGrace
	}
	if quitGrace > maxQuitGrace {
		return validatedConfig{}, fmt.Errorf("quit grace must be <= %s", maxQuitGrace)
	}

	return validatedConfig{
		binaryPath: binaryPath,
		args:       append([]string(nil), cfg.Args...),
		env:        append([]string(nil), cfg.Env...),
		dir:        cfg.Dir,
		stopGrace:  stopGrace,
		quitGrace:  quitGrace,
		logger:     cfg.Logger,
		onExit:     cfg.OnExit,
	}, nil
}

func resolveBinaryPath(configuredPath string) (string, error) {
	found, err := exec.LookPath(configuredPath)
	if err != nil {
		return "", fmt.Errorf("engine binary %q not found: %w", configuredPath, err)
	}
	return found, nil
}

// checkLine rejects arguments that would split one protocol command into two.
func checkLine(what, value string) error {
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%s must be single-line", what)
	}
	return nil
}
