package uci

import (
	"errors"
	"testing"
)

func TestDecodeMove(t *testing.T) {
	move, err := DecodeMove("e2e4")
	if err != nil {
		t.Fatalf("DecodeMove() error = %v", err)
	}
	if move.Origin != "e2" || move.Destination != "e4" || move.HasPromotion() {
		t.Fatalf("DecodeMove(e2e4) = %+v", move)
	}

	move, err = DecodeMove("e7e8q")
	if err != nil {
		t.Fatalf("DecodeMove() error = %v", err)
	}
	if move.Promotion != "q" || move.String() != "e7e8q" {
		t.Fatalf("DecodeMove(e7e8q) = %+v", move)
	}

	move, err = DecodeMove("z9z0")
	if err != nil {
		t.Fatalf("DecodeMove() should pass squares through unchecked, got %v", err)
	}
	if move.Origin != "z9" || move.Destination != "z0" {
		t.Fatalf("DecodeMove(z9z0) = %+v", move)
	}
}

func TestDecodeMoveRejectsLength(t *testing.T) {
	for _, token := range []string{"", "e2", "e2e", "e7e8qq", "(none)"} {
		_, err := DecodeMove(token)
		var malformed *MalformedMoveError
		if !errors.As(err, &malformed) {
			t.Fatalf("DecodeMove(%q) error = %v, want MalformedMoveError", token, err)
		}
		if malformed.Token != token {
			t.Fatalf("MalformedMoveError.Token = %q, want %q", malformed.Token, token)
		}
	}
}
