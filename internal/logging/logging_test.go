package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"WARNING", LevelWarn},
		{" error ", LevelError},
		{"bogus", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelWarn)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("below-level messages written: %q", out)
	}
	if !strings.Contains(out, "shown 3") || !strings.Contains(out, "shown 4") {
		t.Errorf("missing messages: %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, LevelError)

	l.Info("before")
	l.SetLevel(LevelDebug)
	l.Debug("after")

	out := buf.String()
	if strings.Contains(out, "before") {
		t.Error("info written at error level")
	}
	if !strings.Contains(out, "after") {
		t.Error("debug not written after SetLevel")
	}
}

func TestSetOutput(t *testing.T) {
	var first, second bytes.Buffer
	l := NewWithWriter(&first, LevelInfo)
	l.SetOutput(&second)
	l.Info("moved")

	if first.Len() != 0 {
		t.Error("old writer still receives output")
	}
	if !strings.Contains(second.String(), "moved") {
		t.Error("new writer missing output")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	// Must not panic at any level.
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
}
