package uci

import (
	"strconv"
	"strings"
)

// EngineInfo is one parsed "info" line. A nil field was not reported by the
// engine; PV is non-nil but empty when "pv" was present without moves.
// PVTokens keeps the pv run as written, including tokens that did not decode.
type EngineInfo struct {
	Depth          *string
	SelDepth       *string
	MultiPV        *string
	Score          *string
	Time           *string
	Nodes          *string
	NPS            *string
	HashFull       *string
	TBHits         *string
	CurrMove       *string
	CurrMoveNumber *string
	CPULoad        *string
	String         *string
	WDL            *WDL
	Bound          string
	PV             []Move
	PVTokens       []string
}

type WDL struct {
	Win  string
	Draw string
	Loss string
}

const (
	BoundLower = "lowerbound"
	BoundUpper = "upperbound"
)

var infoKeywords = map[string]struct{}{
	"depth":          {},
	"seldepth":       {},
	"multipv":        {},
	"score":          {},
	"time":           {},
	"nodes":          {},
	"nps":            {},
	"hashfull":       {},
	"tbhits":         {},
	"currmove":       {},
	"currmovenumber": {},
	"cpuload":        {},
	"string":         {},
	"wdl":            {},
	"lowerbound":     {},
	"upperbound":     {},
	"pv":             {},
}

func isInfoKeyword(token string) bool {
	_, ok := infoKeywords[token]
	return ok
}

func (i EngineInfo) BoundOnly() bool {
	return i.Bound != ""
}

func (i EngineInfo) HasPV() bool {
	return i.PV != nil
}

// ParseInfoLine extracts the search fields of a single engine line. It never
// fails: unknown tokens are skipped and malformed pv moves are dropped.
func ParseInfoLine(line string) EngineInfo {
	fields := strings.Fields(line)
	info := EngineInfo{}

scan:
	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "info":
			continue
		case "depth":
			info.Depth = nextField(fields, &i)
		case "seldepth":
			info.SelDepth = nextField(fields, &i)
		case "multipv":
			info.MultiPV = nextField(fields, &i)
		case "time":
			info.Time = nextField(fields, &i)
		case "nodes":
			info.Nodes = nextField(fields, &i)
		case "nps":
			info.NPS = nextField(fields, &i)
		case "tbhits":
			info.TBHits = nextField(fields, &i)
		case "currmove":
			info.CurrMove = nextField(fields, &i)
		case "currmovenumber":
			info.CurrMoveNumber = nextField(fields, &i)
		case "cpuload":
			info.CPULoad = nextField(fields, &i)
		case "hashfull":
			if raw := nextField(fields, &i); raw != nil {
				info.HashFull = strPtr(hashFullPercent(*raw))
			}
		case "score":
			end := i + 1
			for end < len(fields) && end < i+3 && !isInfoKeyword(fields[end]) {
				end++
			}
			if end == i+1 {
				continue
			}
			info.Score = strPtr(strings.Join(fields[i+1:end], " "))
			i = end - 1
		case "wdl":
			if i+3 < len(fields) {
				info.WDL = &WDL{Win: fields[i+1], Draw: fields[i+2], Loss: fields[i+3]}
				i += 3
			} else {
				i = len(fields) - 1
			}
		case BoundLower, BoundUpper:
			info.Bound = fields[i]
		case "string":
			info.String = strPtr(strings.Join(fields[i+1:], " "))
			break scan
		case "pv":
			if info.BoundOnly() {
				continue
			}
			moves := make([]Move, 0, len(fields)-i-1)
			tokens := make([]string, 0, len(fields)-i-1)
			for i+1 < len(fields) && !isInfoKeyword(fields[i+1]) {
				i++
				tokens = append(tokens, fields[i])
				move, err := DecodeMove(fields[i])
				if err != nil {
					continue
				}
				moves = append(moves, move)
			}
			info.PV = moves
			info.PVTokens = tokens
		}
	}

	// A bound marker anywhere on the line means the pv is provisional.
	if info.BoundOnly() {
		info.PV = nil
		info.PVTokens = nil
	}
	return info
}

func nextField(fields []string, i *int) *string {
	if *i+1 >= len(fields) {
		return nil
	}
	*i++
	return strPtr(fields[*i])
}

// hashfull is reported in permille and shown as value/100 with a percent sign.
func hashFullPercent(raw string) string {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return strconv.FormatFloat(value/100, 'f', -1, 64) + "%"
}

func strPtr(value string) *string {
	return &value
}
