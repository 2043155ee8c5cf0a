package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Level logrus.Level

const (
	ErrorLevel = Level(logrus.ErrorLevel)
	WarnLevel  = Level(logrus.WarnLevel)
	InfoLevel  = Level(logrus.InfoLevel)
	DebugLevel = Level(logrus.DebugLevel)
	TraceLevel = Level(logrus.TraceLevel)
)

// Logger is the process-wide application logger.
var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.Formatter = &logrus.TextFormatter{
		DisableLevelTruncation: true,
		PadLevelText:           true,
		TimestampFormat:        "2006/01/02 15:04:05",
		FullTimestamp:          true,
	}
	if lvl, ok := ParseLevel(os.Getenv("FEEDBOX_LOG_LEVEL")); ok {
		SetLevel(lvl)
	}
}

// ParseLevel maps a level name (debug, info, warn, error, trace) to a Level.
func ParseLevel(name string) (Level, bool) {
	if strings.TrimSpace(name) == "" {
		return 0, false
	}
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return 0, false
	}
	return Level(lvl), true
}

func SetLevel(level Level) {
	Logger.SetLevel(logrus.Level(level))
}

func IsDebug() bool {
	return Logger.IsLevelEnabled(logrus.DebugLevel)
}

func SetOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// Writer returns a pipe that logs each written line at info level.
// The caller must close it.
func Writer() *io.PipeWriter {
	return Logger.Writer()
}

func WithField(key string, value any) *logrus.Entry {
	return Logger.WithField(key, value)
}

func WithFields(fields map[string]any) *logrus.Entry {
	return Logger.WithFields(logrus.Fields(fields))
}

func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

func Debugf(fmt string, args ...any) {
	Logger.Debugf(fmt, args...)
}
func Debug(args ...any) {
	Logger.Debugln(args...)
}

func Infof(fmt string, args ...any) {
	Logger.Infof(fmt, args...)
}
func Info(args ...any) {
	Logger.Infoln(args...)
}

func Warnf(fmt string, args ...any) {
	Logger.Warnf(fmt, args...)
}
func Warn(args ...any) {
	Logger.Warnln(args...)
}

func Errorf(fmt string, args ...any) {
	Logger.Errorf(fmt, args...)
}
func Error(args ...any) {
	Logger.Errorln(args...)
}

func Fatalf(fmt string, args ...any) {
	Logger.Fatalf(fmt, args...)
}
func Fatal(args ...any) {
	Logger.Fatalln(args...)
}
