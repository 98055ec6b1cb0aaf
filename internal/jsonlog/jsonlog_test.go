package jsonlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestJSONLogger(t *testing.T) {
	type entry struct {
		Level      string            `json:"level"`
		Time       string            `json:"time"`
		Message    string            `json:"message"`
		Properties map[string]string `json:"properties"`
		Trace      string            `json:"trace"`
	}

	t.Run("INFO level", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintInfo("starting server", map[string]string{"addr": ":4000"})
		var e entry
		if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
			t.Fatal(err)
		}
		if e.Level != "INFO" {
			t.Errorf("expected level INFO; got %s", e.Level)
		}
		if e.Message != "starting server" {
			t.Errorf("expected message %q; got %q", "starting server", e.Message)
		}
		if e.Properties["addr"] != ":4000" {
			t.Errorf("expected property addr=:4000; got %q", e.Properties["addr"])
		}
		if e.Trace != "" {
			t.Error("expected no stack trace for INFO entries")
		}
	})

	t.Run("ERROR level includes trace", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelInfo)
		l.PrintError(errors.New("boom"), nil)
		var e entry
		if err := json.Unmarshal(buf.Bytes(), &e); err != nil {
			t.Fatal(err)
		}
		if e.Level != "ERROR" {
			t.Errorf("expected level ERROR; got %s", e.Level)
		}
		if e.Trace == "" {
			t.Error("expected a stack trace for ERROR entries")
		}
	})

	t.Run("entries below minimum level are dropped", func(t *testing.T) {
		var buf bytes.Buffer
		l := New(&buf, LevelError)
		l.PrintInfo("should not appear", nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output; got %q", buf.String())
		}
	})
}
