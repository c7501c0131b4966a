package logging

import (
	"io"
	"log/slog"
	"os"
)

// Init configures the default slog logger for the process.
// verbose=true enables LevelDebug, otherwise LevelWarn so a clean run
// stays quiet. output defaults to os.Stderr if nil.
func Init(verbose bool, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level,
	})))
}
