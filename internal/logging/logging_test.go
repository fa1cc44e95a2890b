package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	l, err := New(false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) || !l.Core().Enabled(zapcore.WarnLevel) {
		t.Fatal("default logger should emit warnings but not debug")
	}
	d, err := New(true)
	if err != nil {
		t.Fatalf("New(debug): %v", err)
	}
	if !d.Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug logger should emit debug")
	}
}
