package uci

import (
	"fmt"
	"strconv"
	"strings"
)

type ScoreKind string

const (
	ScoreCP   ScoreKind = "cp"
	ScoreMate ScoreKind = "mate"
)

// MateCentipawns is the bounded value a mate score is charted as.
const MateCentipawns = 500

type Score struct {
	Kind  ScoreKind
	Value int
}

type Side int

const (
	White Side = iota
	Black
)

func ParseSide(value string) Side {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "black", "b":
		return Black
	default:
		return White
	}
}

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// ParseScore splits a raw "<kind> <value>" score field.
func ParseScore(raw string) (Score, bool) {
	fields := strings.Fields(raw)
	if len(fields) != 2 {
		return Score{}, false
	}
	kind := ScoreKind(fields[0])
	if kind != ScoreCP && kind != ScoreMate {
		return Score{}, false
	}
	value, err := strconv.Atoi(fields[1])
	if err != nil {
		return Score{}, false
	}
	return Score{Kind: kind, Value: value}, true
}

// ToSignedCentipawns returns the score from white's point of view. Mate
// scores collapse to +/-MateCentipawns.
func ToSignedCentipawns(raw string, sideToMove Side) int {
	score, ok := ParseScore(raw)
	if !ok {
		return 0
	}
	value := score.Value
	if sideToMove == Black {
		value = -value
	}
	if score.Kind == ScoreMate {
		if value > 0 {
			return MateCentipawns
		}
		return -MateCentipawns
	}
	return value
}

// ToDisplayString renders a raw score as pawns ("+0.35") or mate distance
// ("-M2"). The sign is the engine's own, not adjusted for the side to move.
func ToDisplayString(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "N/A"
	}
	score, ok := ParseScore(raw)
	if !ok {
		return raw
	}

	sign := "+"
	value := score.Value
	if value < 0 {
		sign = "-"
		value = -value
	}
	switch score.Kind {
	case ScoreMate:
		return fmt.Sprintf("%sM%d", sign, value)
	default:
		return fmt.Sprintf("%s%d.%02d", sign, value/100, value%100)
	}
}
