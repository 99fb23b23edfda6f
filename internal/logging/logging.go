package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"minimorph-blackjack/internal/config"
)

var output io.Writer = os.Stdout

func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && cfg.Level != "" {
		level = parsed
	}

	output = os.Stdout
	if cfg.File != "" {
		if w, err := newCappedFileWriter(cfg.File, cfg.MaxMB); err == nil {
			output = w
		}
	}

	sink := output
	if cfg.Pretty {
		sink = zerolog.ConsoleWriter{Out: output}
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(sink).With().Timestamp().Logger()
}

// Writer is the raw log sink, for handing to request-logging middleware.
func Writer() io.Writer {
	return output
}
