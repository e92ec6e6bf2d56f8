package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"DEBUG", LevelDebug, false},
		{"info", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelWarn)

	l.Debug("debug message")
	l.Info("info message")
	require.NotContains(t, buf.String(), "debug message")
	require.NotContains(t, buf.String(), "info message")

	l.Warn("warn message")
	l.Error("error message")
	require.Contains(t, buf.String(), "warn message")
	require.Contains(t, buf.String(), "error message")
}

func TestLogger_LogFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	l.SetOutput(&buf)
	l.SetLevel(LevelDebug)

	l.Info("geocoded %s", "Lisbon")

	out := buf.String()
	require.Contains(t, out, "INFO")
	require.Contains(t, out, "geocoded Lisbon")
}

func TestLogger_DiscardsByDefault(t *testing.T) {
	t.Setenv("ASTROGUIDE_LOG_FILE", "")
	l := New()
	// Nothing to assert beyond not panicking on a discard sink.
	l.Error("dropped")
	require.NoError(t, l.Close())
}

func TestLogger_EnvVarLogLevel(t *testing.T) {
	t.Setenv("ASTROGUIDE_LOG_LEVEL", "debug")

	l := New()
	require.Equal(t, zapcore.DebugLevel, l.level.Level())
}

func TestLogger_EnvVarLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "astroguide.log")
	t.Setenv("ASTROGUIDE_LOG_FILE", path)

	l := New()
	l.Info("test message")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(content), "test message")
}

func TestConfigure(t *testing.T) {
	saved := Default
	t.Cleanup(func() { Default = saved })
	Default = New()

	require.Error(t, Configure("loud", ""))

	path := filepath.Join(t.TempDir(), "cfg.log")
	require.NoError(t, Configure("warn", path))
	Info("hidden")
	Warn("shown")
	require.NoError(t, Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(content), "hidden")
	require.Contains(t, string(content), "shown")
}

func TestPackageLevelFunctions(t *testing.T) {
	saved := Default
	t.Cleanup(func() { Default = saved })
	Default = New()

	var buf bytes.Buffer
	Default.SetOutput(&buf)
	Default.SetLevel(LevelDebug)

	Debug("debug %s", "test")
	Info("info %s", "test")
	Warn("warn %s", "test")
	Error("error %s", "test")

	out := buf.String()
	for _, want := range []string{"debug test", "info test", "warn test", "error test"} {
		require.Contains(t, out, want)
	}
}
