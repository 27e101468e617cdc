package console

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConsoleLogger_Level(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantInfo  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewConsoleLogger(ConsoleLoggerParams{Level: tt.level, Writer: &buf})

			l.Debug("debug-line")
			l.Info("info-line", "nodes", 3)
			l.Error("error-line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, bytes.Contains([]byte(out), []byte("debug-line")))
			assert.Equal(t, tt.wantInfo, bytes.Contains([]byte(out), []byte("info-line")))
			assert.Contains(t, out, "error-line")
		})
	}
}

func TestConsoleLogger_KeyVals(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(ConsoleLoggerParams{Level: "info", Writer: &buf})
	l.Info("graph built", "nodes", 9)
	assert.Contains(t, buf.String(), "nodes=9")
}
