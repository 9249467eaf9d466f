package uci

import "fmt"

// Move is a coordinate move as the engine writes it ("e2e4", "e7e8q").
// Squares are not validated.
type Move struct {
	Origin      string
	Destination string
	Promotion   string
}

type MalformedMoveError struct {
	Token string
}

func (e *MalformedMoveError) Error() string {
	return fmt.Sprintf("malformed move %q: want 4 or 5 characters, got %d", e.Token, len(e.Token))
}

func DecodeMove(token string) (Move, error) {
	if len(token) != 4 && len(token) != 5 {
		return Move{}, &MalformedMoveError{Token: token}
	}
	move := Move{
		Origin:      token[0:2],
		Destination: token[2:4],
	}
	if len(token) == 5 {
		move.Promotion = token[4:5]
	}
	return move, nil
}

func (m Move) HasPromotion() bool {
	return m.Promotion != ""
}

func (m Move) String() string {
	return m.Origin + m.Destination + m.Promotion
}
