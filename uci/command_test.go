package uci

import "testing"

func TestPositionCommand(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{}, "position startpos"},
		{Position{FEN: "startpos", Moves: []string{"e2e4", "e7e5"}}, "position startpos moves e2e4 e7e5"},
		{Position{FEN: "8/8/8/8/8/8/8/K6k w - - 0 1"}, "position fen 8/8/8/8/8/8/8/K6k w - - 0 1"},
		{Position{FEN: " 8/8/8/8/8/8/8/K6k b - - 0 1 ", Moves: []string{"h1g1"}}, "position fen 8/8/8/8/8/8/8/K6k b - - 0 1 moves h1g1"},
	}
	for _, tt := range tests {
		if got := tt.pos.Command(); got != tt.want {
			t.Errorf("Command() = %q, want %q", got, tt.want)
		}
	}
	if got := SetOptionCommand("Clear Hash", "true"); got != "setoption name Clear Hash value true" {
		t.Fatalf("SetOptionCommand() = %q", got)
	}
}
