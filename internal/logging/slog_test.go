package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) (*SlogLogger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return NewSlogLogger(slog.New(h)), &buf
}

func TestSlogLogger_Levels(t *testing.T) {
	log, buf := newTestLogger(t)
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG", "msg=dbg", "a=1",
		"level=INFO", "msg=inf", "b=2",
		"level=WARN", "msg=wrn", "c=3",
		"level=ERROR", "msg=err", "d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestSlogLogger_With(t *testing.T) {
	log, buf := newTestLogger(t)

	log.With("module", "marketplace").Info(context.Background(), "listing created", "item_id", "42")

	out := buf.String()
	assert.Contains(t, out, "module=marketplace")
	assert.Contains(t, out, "item_id=42")
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().With("k", "v").Error(context.TODO(), "discarded")
	})
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{name: "defaults", s: DefaultSettings()},
		{name: "bad level", s: Settings{Level: "loud", Type: TypeConsole}, wantErr: true},
		{name: "bad type", s: Settings{Level: LevelInfo, Type: "syslog"}, wantErr: true},
		{name: "file without path", s: Settings{Level: LevelInfo, Type: TypeFile}, wantErr: true},
		{name: "file size out of range", s: Settings{Level: LevelInfo, Type: TypeFile, FilePath: "x.log", MaxSize: 500}, wantErr: true},
		{name: "file ok", s: Settings{Level: LevelDebug, Type: TypeFile, FilePath: "x.log", MaxSize: 5, MaxBackups: 2, MaxAge: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_FileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "var", "log", "otto.log")
	l, err := New(Settings{Level: LevelInfo, Type: TypeFile, FilePath: path, MaxSize: 1, MaxBackups: 1, MaxAge: 1})
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Info(context.Background(), "written to file")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "written to file")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(LevelDebug))
	assert.Equal(t, slog.LevelWarn, ParseLevel(LevelWarning))
	assert.Equal(t, slog.LevelError, ParseLevel(LevelError))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}
