package utils

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOptions configures the monitor logger.
type LogOptions struct {
	// File is the path of an optional rotating log file.
	File  string
	Debug bool
	// NoColors is set when stderr is not a terminal.
	NoColors bool
}

// NewLogger creates the session logger. Every entry carries the session id,
// so that the records of different runs can be told apart in a shared log file.
func NewLogger(opts LogOptions) *logrus.Entry {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	logger.SetFormatter(&formatter.Formatter{
		NoColors:        opts.NoColors,
		TimestampFormat: "15:04:05.000",
		HideKeys:        false,
		CallerFirst:     true,
		FieldsOrder:     []string{"session", "frame"},
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			funcName := s[len(s)-1]
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, funcName)
		},
	})

	writers := []io.Writer{os.Stderr}
	if opts.File != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    20,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}
	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetReportCaller(opts.Debug)

	return logger.WithField("session", uuid.NewString()[:8])
}
