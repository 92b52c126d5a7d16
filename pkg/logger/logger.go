package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const (
	permission = 0664
)

// LogBuild assembles a zerolog logger for the duc tools.
type LogBuild struct {
	writer    io.Writer
	path      string
	level     zerolog.Level
	component string
}

// LogData owns the configured logger and the log file, if any.
type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func New() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

// WithLevel sets the minimum level written by the logger.
func (build *LogBuild) WithLevel(level zerolog.Level) *LogBuild {
	build.level = level
	return build
}

// WithComponent tags every entry with a component field.
func (build *LogBuild) WithComponent(name string) *LogBuild {
	build.component = name
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	writer := build.writer
	if writer == nil {
		writer = os.Stderr
	}
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.SyncWriter(logData.LogFile)
	}
	ctx := zerolog.New(writer).Level(build.level).With().Timestamp()
	if build.component != "" {
		ctx = ctx.Str("component", build.component)
	}
	logData.Logger = ctx.Logger()
	return
}

// Close releases the log file opened by FromPath.
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}

// Nop returns a logger that discards everything. Library code defaults to it.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
