package uci

import (
	"strings"
)

const StartPos = "startpos"

// Position is the argument of a "position" command. An empty FEN (or
// "startpos") means the standard start position.
type Position struct {
	FEN   string
	Moves []string
}

func (p Position) IsStartPos() bool {
	fen := strings.TrimSpace(p.FEN)
	return fen == "" || fen == StartPos
}

func (p Position) Command() string {
	var b strings.Builder
	b.WriteString("position ")
	if p.IsStartPos() {
		b.WriteString(StartPos)
	} else {
		b.WriteString("fen ")
		b.WriteString(strings.TrimSpace(p.FEN))
	}
	if len(p.Moves) > 0 {
		b.WriteString(" moves ")
		b.WriteString(strings.Join(p.Moves, " "))
	}
	return b.String()
}

func SetOptionCommand(name, value string) string {
	return "setoption name " + name + " value " + value
}
