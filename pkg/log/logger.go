package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const componentField = "component"

type LoggerType uint8

const (
	ConsoleLogger LoggerType = iota
	JSONLogger
)

// Component loggers stay silent until Init is called.
var (
	Root   = zerolog.Nop()
	Store  = zerolog.Nop()
	Engine = zerolog.Nop()
	CLI    = zerolog.Nop()
)

// Options for Logger
type Options struct {
	// Enable Debug loglevel, default Info
	LogLevel zerolog.Level
	Type     LoggerType
	// Out defaults to os.Stderr.
	Out io.Writer
}

func ParseLogLevel(loglevel string) (zerolog.Level, error) {
	return zerolog.ParseLevel(loglevel)
}

func ParseLoggerType(s string) (LoggerType, error) {
	switch strings.ToLower(s) {
	case "console", "":
		return ConsoleLogger, nil
	case "json":
		return JSONLogger, nil
	default:
		return 0, fmt.Errorf("unknown log format %q", s)
	}
}

func Init(opts Options) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	switch opts.Type {
	case ConsoleLogger:
		Root = zerolog.New(newConsoleWriter(out)).Level(opts.LogLevel).
			With().Timestamp().Logger()
	default:
		Root = zerolog.New(out).Level(opts.LogLevel).
			With().Timestamp().Logger()
	}
	Store = Root.With().Str(componentField, "store").Logger()
	Engine = Root.With().Str(componentField, "engine").Logger()
	CLI = Root.With().Str(componentField, "cli").Logger()
}

// newConsoleWriter renders one compact line per event for stderr, with the
// component right after the level.
func newConsoleWriter(out io.Writer) zerolog.ConsoleWriter {
	cw := zerolog.ConsoleWriter{
		Out:           out,
		NoColor:       true,
		TimeFormat:    "15:04:05.000",
		PartsOrder:    []string{zerolog.TimestampFieldName, zerolog.LevelFieldName, componentField, zerolog.MessageFieldName},
		FieldsExclude: []string{componentField},
	}

	cw.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("%-5s", i))
	}

	cw.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s=", i)
	}

	cw.FormatFieldValue = func(i interface{}) string {
		if i == nil {
			return ""
		}
		return fmt.Sprintf("%v", i)
	}

	cw.FormatErrFieldValue = func(i interface{}) string {
		return fmt.Sprintf("%q", i)
	}
	return cw
}
