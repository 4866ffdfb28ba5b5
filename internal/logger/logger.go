// Package logger builds the console logger used by the command: debug, info
// and warn go to one stream, error and above to another.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger at level writing human-readable lines to out, with
// errors routed to errOut instead.
func New(level zerolog.Level, out, errOut io.Writer) zerolog.Logger {
	_, isFile := out.(*os.File)
	writer := zerolog.MultiLevelWriter(
		SpecificLevelWriter{
			Writer: zerolog.ConsoleWriter{
				Out:        out,
				TimeFormat: time.RFC3339,
				NoColor:    !isFile,
			},
			Levels: []zerolog.Level{
				zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel,
			},
		},
		SpecificLevelWriter{
			Writer: zerolog.ConsoleWriter{
				Out:        errOut,
				TimeFormat: time.RFC3339,
				NoColor:    !isFile,
			},
			Levels: []zerolog.Level{
				zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel,
			},
		},
	)
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Console is New on stdout and stderr.
func Console(level zerolog.Level) zerolog.Logger {
	return New(level, os.Stdout, os.Stderr)
}

// SpecificLevelWriter passes through only the events whose level is listed.
type SpecificLevelWriter struct {
	io.Writer
	Levels []zerolog.Level
}

func (w SpecificLevelWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	for _, l := range w.Levels {
		if l == level {
			return w.Write(p)
		}
	}
	return len(p), nil
}
