package uci

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToDisplayPV(t *testing.T) {
	got := ParsePV("info depth 20 multipv 2 score cp 15 wdl 300 500 200 pv e2e4 e7e5 g1f3")
	want := PV{
		MultiPV: 2,
		Depth:   "20",
		Score:   "cp 15",
		Moves:   []string{"1. e2e4", "e7e5", "2. g1f3"},
		WDL:     WDL{Win: "300", Draw: "500", Loss: "200"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParsePV() mismatch (-want +got):\n%s", diff)
	}
}

func TestToDisplayPVDefaults(t *testing.T) {
	got := ToDisplayPV(EngineInfo{})
	want := PV{
		MultiPV: 1,
		Depth:   "0",
		Moves:   []string{},
		WDL:     WDL{Win: "0", Draw: "0", Loss: "0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ToDisplayPV() mismatch (-want +got):\n%s", diff)
	}
}

func TestNumberMovesPromotion(t *testing.T) {
	got := NumberMoves([]Move{
		{Origin: "a7", Destination: "a8", Promotion: "q"},
		{Origin: "h2", Destination: "h1", Promotion: "n"},
		{Origin: "a8", Destination: "a1"},
	})
	want := []string{"1. a7a8q", "h2h1n", "2. a8a1"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("NumberMoves() mismatch (-want +got):\n%s", diff)
	}
}

func TestToDisplayPVKeepsRawTokens(t *testing.T) {
	got := ParsePV("info depth 7 score cp 3 pv e2e4 xx e7e5")
	want := []string{"1. e2e4", "xx", "2. e7e5"}
	if diff := cmp.Diff(want, got.Moves); diff != "" {
		t.Fatalf("ParsePV().Moves mismatch (-want +got):\n%s", diff)
	}
}
