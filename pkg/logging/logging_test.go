package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var e map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &e); err != nil {
		t.Fatalf("Log line is not JSON: %v (%q)", err, lines[len(lines)-1])
	}
	return e
}

func TestJSONLogger_Basic(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Info("extracted model", String("model", "resnet.onnx"), Int("vertices", 42))

	e := lastEntry(t, &buf)
	if e["level"] != "INFO" || e["msg"] != "extracted model" {
		t.Errorf("Unexpected entry: %v", e)
	}
	fields := e["fields"].(map[string]any)
	if fields["model"] != "resnet.onnx" {
		t.Errorf("Missing string field: %v", fields)
	}
	if fields["vertices"] != float64(42) {
		t.Errorf("Missing int field: %v", fields)
	}
}

func TestJSONLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, WarnLevel)

	logger.Debug("hidden")
	logger.Info("also hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected no output below warn, got %q", buf.String())
	}

	logger.Warn("visible")
	if buf.Len() == 0 {
		t.Error("Expected warn output")
	}

	logger.SetLevel(DebugLevel)
	buf.Reset()
	logger.Debug("now visible")
	if buf.Len() == 0 {
		t.Error("Expected debug output after SetLevel")
	}
}

func TestJSONLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel).With(Component("extract"))

	logger.Info("working", Graph("main"))

	fields := lastEntry(t, &buf)["fields"].(map[string]any)
	if fields["component"] != "extract" {
		t.Errorf("Preset field lost: %v", fields)
	}
	if fields["graph"] != "main" {
		t.Errorf("Call field lost: %v", fields)
	}
}

func TestJSONLogger_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	logger.Error("failed", Error(errors.New("boom")))

	fields := lastEntry(t, &buf)["fields"].(map[string]any)
	if fields["error"] != "boom" {
		t.Errorf("Unexpected error field: %v", fields)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":     DebugLevel,
		"DEBUG":     DebugLevel,
		"info":      InfoLevel,
		"warn":      WarnLevel,
		"WARNING":   WarnLevel,
		"error":     ErrorLevel,
		"gibberish": InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTimedOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, InfoLevel)

	timer := StartTimer(logger, "extract", String("model", "m.onnx"))
	timer.End()

	e := lastEntry(t, &buf)
	fields := e["fields"].(map[string]any)
	if fields["model"] != "m.onnx" {
		t.Errorf("Timer lost its fields: %v", fields)
	}
	if _, ok := fields["latency"]; !ok {
		t.Errorf("Timer entry missing latency: %v", fields)
	}
}
