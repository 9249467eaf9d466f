package uci

import (
	"strconv"
)

// PV is the display form of one info line.
type PV struct {
	MultiPV int
	Depth   string
	Score   string
	Moves   []string
	WDL     WDL
	// Active marks the highlighted line; callers own it.
	Active bool
}

func ToDisplayPV(info EngineInfo) PV {
	pv := PV{
		MultiPV: 1,
		Depth:   "0",
		Moves:   []string{},
		WDL:     WDL{Win: "0", Draw: "0", Loss: "0"},
	}
	if info.MultiPV != nil {
		if n, err := strconv.Atoi(*info.MultiPV); err == nil && n > 0 {
			pv.MultiPV = n
		}
	}
	if info.Depth != nil {
		pv.Depth = *info.Depth
	}
	if info.Score != nil {
		pv.Score = *info.Score
	}
	if info.WDL != nil {
		pv.WDL = *info.WDL
	}
	pv.Moves = NumberTokens(info.PVTokens)
	return pv
}

func ParsePV(line string) PV {
	return ToDisplayPV(ParseInfoLine(line))
}

func NumberMoves(moves []Move) []string {
	tokens := make([]string, 0, len(moves))
	for _, move := range moves {
		tokens = append(tokens, move.String())
	}
	return NumberTokens(tokens)
}

// NumberTokens prefixes every even ply with its move number: "1. e2e4", "e7e5", "2. g1f3".
// Tokens are used as written by the engine.
func NumberTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for i, token := range tokens {
		if i%2 == 0 {
			out = append(out, strconv.Itoa(i/2+1)+". "+token)
			continue
		}
		out = append(out, token)
	}
	return out
}
