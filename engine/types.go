package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidState      = errors.New("engine command not valid in current state")
	ErrProcessTerminated = errors.New("engine process terminated unexpectedly")
	ErrQuit              = errors.New("engine has quit")
	ErrNotStarted        = errors.New("engine is not started")
)

type State int

const (
	StateNotStarted State = iota
	StateStarting
	StateIdle
	StateSearching
	// StateStopped is entered when the process exits on its own.
	StateStopped
	StateQuit
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateStarting:
		return "starting"
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateStopped:
		return "stopped"
	case StateQuit:
		return "quit"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type Config struct {
	BinaryPath string
	Args       []string
	Env        []string
	Dir        string

	// StopGrace is how long Stop sleeps after sending "stop".
	StopGrace time.Duration
	// QuitGrace bounds how long Quit waits for a clean exit before killing.
	QuitGrace time.Duration

	Logger zerolog.Logger
	// OnExit is called once if the process exits without Quit.
	OnExit func(error)
}

type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn engine %q: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

type StateError struct {
	Op    string
	State State
}

func (e *StateError) Error() string {
	return fmt.Sprintf("engine %s: not valid while %s", e.Op, e.State)
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("engine %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
