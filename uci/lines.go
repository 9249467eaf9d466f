package uci

import (
	"strings"
)

type LineKind int

const (
	LineOther LineKind = iota
	LineInfo
	LineBestMove
	LineOption
	LineID
	LineUCIOK
	LineReadyOK
)

func (k LineKind) String() string {
	switch k {
	case LineInfo:
		return "info"
	case LineBestMove:
		return "bestmove"
	case LineOption:
		return "option"
	case LineID:
		return "id"
	case LineUCIOK:
		return "uciok"
	case LineReadyOK:
		return "readyok"
	default:
		return "other"
	}
}

// Classify looks only at the first token of the line.
func Classify(line string) LineKind {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return LineOther
	}
	switch fields[0] {
	case "info":
		return LineInfo
	case "bestmove":
		return LineBestMove
	case "option":
		return LineOption
	case "id":
		return LineID
	case "uciok":
		return LineUCIOK
	case "readyok":
		return LineReadyOK
	default:
		return LineOther
	}
}

type BestMove struct {
	Move   string
	Ponder string
}

func ParseBestMove(line string) (BestMove, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "bestmove" {
		return BestMove{}, false
	}
	best := BestMove{Move: fields[1]}
	for i := 2; i+1 < len(fields); i++ {
		if fields[i] == "ponder" {
			best.Ponder = fields[i+1]
			break
		}
	}
	return best, true
}

// ParseIDLine handles "id name <...>" and "id author <...>".
func ParseIDLine(line string) (key string, value string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || fields[0] != "id" {
		return "", "", false
	}
	switch fields[1] {
	case "name", "author":
		return fields[1], strings.Join(fields[2:], " "), true
	default:
		return "", "", false
	}
}
