package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/natefinch/lumberjack"
	"github.com/ottocollect/ottocollect/internal/filex"
)

// Log level names accepted in Settings.Level.
const (
	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelWarning = "warning"
	LevelError   = "error"
)

// Log sink types accepted in Settings.Type.
const (
	TypeConsole = "console"
	TypeFile    = "file"
)

// Settings configures where and how verbosely the server logs.
type Settings struct {
	Level      string `json:"level" validate:"required,oneof=debug info warning error"`
	Type       string `json:"type" validate:"required,oneof=console file"`
	FilePath   string `json:"file_path" validate:"required_if=Type file"`
	MaxSize    int    `json:"max_size" validate:"omitempty,min=1,max=100"`
	MaxBackups int    `json:"max_backups" validate:"omitempty,min=1,max=10"`
	MaxAge     int    `json:"max_age" validate:"omitempty,min=1,max=365"`
}

// DefaultSettings logs info and above to stdout.
func DefaultSettings() Settings {
	return Settings{Level: LevelInfo, Type: TypeConsole, MaxSize: 10, MaxBackups: 3, MaxAge: 28}
}

// Validate checks the settings against their struct tags.
func (s Settings) Validate() error {
	if err := validator.New().Struct(s); err != nil {
		return fmt.Errorf("invalid log settings: %w", err)
	}
	return nil
}

// New builds a Logger from validated settings. File logs are rotated by
// lumberjack; console logs go to stdout.
func New(s Settings) (*SlogLogger, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var w io.Writer = os.Stdout
	if s.Type == TypeFile {
		if _, err := filex.EnsureParentDir(s.FilePath); err != nil {
			return nil, err
		}
		w = &lumberjack.Logger{
			Filename:   s.FilePath,
			MaxSize:    s.MaxSize,
			MaxBackups: s.MaxBackups,
			MaxAge:     s.MaxAge,
			Compress:   true,
		}
	}

	return NewJSONLogger(w, ParseLevel(s.Level)), nil
}

// ParseLevel maps a level name onto slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
