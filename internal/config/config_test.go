package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/RajanDhamala/go-uci/analysis"
)

func lookupFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromLookupDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	if err != nil {
		t.Fatalf("FromLookup() error = %v", err)
	}
	want := &Config{
		Logs:   LogConfig{Style: "console", Level: "info"},
		Engine: EngineConfig{Paths: []string{"stockfish"}},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if opts := cfg.Engine.Options(); len(opts) != 0 {
		t.Fatalf("Options() = %v, want none", opts)
	}
}

func TestFromLookupValues(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"UCI_ENGINE_PATH": "/usr/bin/stockfish, /opt/lc0 ,",
		"UCI_ENGINE_ARGS": "--threads 2",
		"UCI_HASH":        "1GB",
		"UCI_THREADS":     "4",
		"UCI_MULTIPV":     "3",
		"UCI_DEPTH":       "18",
		"UCI_MOVETIME":    "1500",
		"UCI_SHOW_WDL":    "true",
		"LOG_STYLE":       "json",
		"LOG_LEVEL":       "debug",
	}))
	if err != nil {
		t.Fatalf("FromLookup() error = %v", err)
	}
	want := EngineConfig{
		Paths:    []string{"/usr/bin/stockfish", "/opt/lc0"},
		Args:     []string{"--threads", "2"},
		HashMB:   1024,
		Threads:  4,
		MultiPV:  3,
		ShowWDL:  true,
		Depth:    18,
		MoveTime: 1500 * time.Millisecond,
	}
	if diff := cmp.Diff(want, cfg.Engine); diff != "" {
		t.Fatalf("engine config mismatch (-want +got):\n%s", diff)
	}

	wantOpts := []analysis.OptionValue{
		{Name: "Threads", Value: "4"},
		{Name: "Hash", Value: "1024"},
		{Name: "MultiPV", Value: "3"},
		{Name: "UCI_ShowWDL", Value: "true"},
	}
	if diff := cmp.Diff(wantOpts, cfg.Engine.Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHash(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: 0},
		{raw: "128", want: 128},
		{raw: "256MB", want: 256},
		{raw: "2GB", want: 2048},
		{raw: "512KB", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "lots", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseHash(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseHash(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("parseHash(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParseMoveTime(t *testing.T) {
	for raw, want := range map[string]time.Duration{
		"":     0,
		"250":  250 * time.Millisecond,
		"2s":   2 * time.Second,
		"1.5s": 1500 * time.Millisecond,
	} {
		got, err := parseMoveTime(raw)
		if err != nil {
			t.Fatalf("parseMoveTime(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("parseMoveTime(%q) = %v, want %v", raw, got, want)
		}
	}
	if _, err := parseMoveTime("soon"); err == nil {
		t.Fatalf("parseMoveTime accepted garbage")
	}
}

func TestFromLookupRejectsBadNumbers(t *testing.T) {
	for _, key := range []string{"UCI_THREADS", "UCI_MULTIPV", "UCI_DEPTH"} {
		_, err := FromLookup(lookupFrom(map[string]string{key: "-2"}))
		if err == nil || !strings.Contains(err.Error(), key) {
			t.Fatalf("%s=-2: error = %v, want one naming the variable", key, err)
		}
	}
	if _, err := FromLookup(lookupFrom(map[string]string{"UCI_SHOW_WDL": "maybe"})); err == nil {
		t.Fatalf("UCI_SHOW_WDL=maybe accepted")
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uci.env")
	content := "UCI_ENGINE_PATH=/from/file\nUCI_DEPTH=12\nUCI_HASH=64MB\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// The process environment wins over the file.
	t.Setenv("UCI_DEPTH", "20")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]string{"/from/file"}, cfg.Engine.Paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if cfg.Engine.Depth != 20 {
		t.Fatalf("Depth = %d, want 20", cfg.Engine.Depth)
	}
	if cfg.Engine.HashMB != 64 {
		t.Fatalf("HashMB = %d, want 64", cfg.Engine.HashMB)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Fatalf("Load() accepted a missing env file")
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := LogConfig{Style: "json", Level: "warn"}.Logger(&buf)
	if err != nil {
		t.Fatalf("Logger() error = %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Str("engine", "fake").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"engine":"fake"`) || !strings.Contains(out, `"message":"shown"`) {
		t.Fatalf("unexpected log output: %s", out)
	}

	if _, err := (LogConfig{Style: "json", Level: "loud"}).Logger(&buf); err == nil {
		t.Fatalf("Logger() accepted an unknown level")
	}
}
