package batch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressReporter_EmitAndSubscribe(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	want := ProgressEvent{Query: "Pump", Status: ProgressWorking}
	pr.Emit(want)

	select {
	case got := <-pr.Subscribe():
		assert.Equal(t, want, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for progress event")
	}
}

func TestProgressReporter_EmitWhenFull_DoesNotBlock(t *testing.T) {
	pr := NewProgressReporter()
	defer pr.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			pr.Emit(ProgressEvent{Query: "q", Status: ProgressWorking})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit blocked when the channel was full")
	}
}

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		event ProgressEvent
		want  string
	}{
		{ProgressEvent{Query: "Pump", Status: ProgressPending}, "  ○ Pump (pending)"},
		{ProgressEvent{Query: "Pump", Status: ProgressWorking}, "  ● Pump..."},
		{ProgressEvent{Query: "Pump", Status: ProgressComplete}, "  ✓ Pump"},
		{ProgressEvent{Query: "Pump", Status: ProgressComplete, Message: "2 match(es)"}, "  ✓ Pump: 2 match(es)"},
		{ProgressEvent{Query: "Pump", Status: ProgressFailed, Message: "boom"}, "  ✗ Pump: boom"},
		{ProgressEvent{Query: "Pump", Status: "odd"}, "  ? Pump (unknown status)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatProgress(tt.event))
	}
}
