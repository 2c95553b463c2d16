// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_JSONFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Format: "json", Writer: &buf})

	log.Info().Msg("filtered out")
	log.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "filtered out") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, `"message":"kept"`) {
		t.Errorf("expected JSON warn message, got %q", out)
	}
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	log := Named(New(Options{Format: "json", Writer: &buf}), "converter")

	log.Info().Msg("hi")

	if !strings.Contains(buf.String(), `"component":"converter"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}
