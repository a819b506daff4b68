package logger

import (
	"os"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestInit_Production(t *testing.T) {
	os.Unsetenv("PURSUIT_ENV")
	Init()
	if Log == nil {
		t.Fatal("Init should set the global logger")
	}
	if Log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("production logger should not emit debug")
	}
}

func TestInit_Development(t *testing.T) {
	os.Setenv("PURSUIT_ENV", "development")
	defer os.Unsetenv("PURSUIT_ENV")

	Init()
	if Log == nil {
		t.Fatal("Init should set the global logger")
	}
	if !Log.Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Error("development logger should emit debug")
	}
}
