package uci

import "testing"

func TestFormatCount(t *testing.T) {
	tests := map[string]string{
		"999":           "999",
		"1500":          "1.5K",
		"1234567":       "1.2M",
		"2500000000":    "2.5B",
		"3100000000000": "3.1T",
		"n/a":           "n/a",
	}
	for raw, want := range tests {
		if got := FormatCount(raw); got != want {
			t.Errorf("FormatCount(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := FormatElapsed("3723000"); got != "01:02:03" {
		t.Fatalf("FormatElapsed(3723000) = %q", got)
	}
	if got := FormatElapsed("0"); got != "00:00:00" {
		t.Fatalf("FormatElapsed(0) = %q", got)
	}
	if got := FormatElapsed("soon"); got != "soon" {
		t.Fatalf("FormatElapsed(soon) = %q", got)
	}
}
