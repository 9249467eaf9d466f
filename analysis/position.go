package analysis

import (
	"fmt"
	"strings"

	"github.com/notnil/chess"

	"github.com/RajanDhamala/go-uci/uci"
)

// ResolvePosition replays pos with full move validation and reports the side
// to move, which is needed to put engine scores on a white-positive scale.
func ResolvePosition(pos uci.Position) (uci.Side, error) {
	game := chess.NewGame()
	if !pos.IsStartPos() {
		fen, err := chess.FEN(strings.TrimSpace(pos.FEN))
		if err != nil {
			return uci.White, fmt.Errorf("decode fen: %w", err)
		}
		game = chess.NewGame(fen)
	}

	notation := chess.UCINotation{}
	for i, token := range pos.Moves {
		move, err := notation.Decode(game.Position(), token)
		if err != nil {
			return uci.White, fmt.Errorf("move %d %q: %w", i+1, token, err)
		}
		if err := game.Move(move); err != nil {
			return uci.White, fmt.Errorf("move %d %q: %w", i+1, token, err)
		}
	}

	if game.Position().Turn() == chess.Black {
		return uci.Black, nil
	}
	return uci.White, nil
}
