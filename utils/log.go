package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
)

// log level
const (
	Detail LogLevel = 1
	Debug  LogLevel = 10
	Info   LogLevel = 20
	Warn   LogLevel = 30
	Error  LogLevel = 40
	Fatal  LogLevel = 50
)

var (
	level2String = make(map[LogLevel]string)
	level2Zero   = make(map[LogLevel]zerolog.Level)

	// WalletLogger is the process-wide logger used by the package level helpers.
	WalletLogger = newLogger("", true, false)
)

type LogLevel int

type CombinedLogger struct {
	logger  zerolog.Logger
	outfile *os.File
}

func init() {
	level2String[Detail] = "detail"
	level2String[Debug] = "debug"
	level2String[Info] = "info"
	level2String[Warn] = "warn"
	level2String[Error] = "error"
	level2String[Fatal] = "fatal"

	level2Zero[Detail] = zerolog.TraceLevel
	level2Zero[Debug] = zerolog.DebugLevel
	level2Zero[Info] = zerolog.InfoLevel
	level2Zero[Warn] = zerolog.WarnLevel
	level2Zero[Error] = zerolog.ErrorLevel
	level2Zero[Fatal] = zerolog.FatalLevel
}

func newLogger(logFilepath string, enableStd, enableFile bool) *CombinedLogger {
	var writers []io.Writer
	if enableStd {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	}

	var outfile *os.File
	if enableFile {
		var err error
		if err = os.MkdirAll(filepath.Dir(logFilepath), os.ModePerm); err != nil {
			panic(fmt.Sprintf("log file '%v' initialize failed: %v", logFilepath, err.Error()))
		}
		outfile, err = os.OpenFile(logFilepath, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0666)
		if err != nil {
			panic(fmt.Sprintf("log file '%v' open failed: %v", logFilepath, err.Error()))
		}
		writers = append(writers, outfile)
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = zerolog.MultiLevelWriter(writers...)
	}

	return &CombinedLogger{
		logger:  zerolog.New(out).With().Timestamp().Logger().Level(zerolog.DebugLevel),
		outfile: outfile,
	}
}

func NewLogger(filepath string, enableStd, enableFile bool) *CombinedLogger {
	return newLogger(filepath, enableStd, enableFile)
}

// NewDefaultLogger replaces the logger behind the package level helpers.
func NewDefaultLogger(filepath string, enableStd, enableFile bool) *CombinedLogger {
	WalletLogger = newLogger(filepath, enableStd, enableFile)
	return WalletLogger
}

// ParseLogLevel maps a config string such as "debug" to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	for lv, str := range level2String {
		if str == s {
			return lv, nil
		}
	}
	return Info, fmt.Errorf("unknown log level %q", s)
}

func (l *CombinedLogger) GetLevelString(lv LogLevel) string {
	if str, ok := level2String[lv]; ok {
		return str
	}
	return strconv.Itoa(int(lv))
}

func (l *CombinedLogger) SetLogLevel(lv LogLevel) {
	zl, ok := level2Zero[lv]
	if !ok {
		zl = zerolog.InfoLevel
	}
	l.logger = l.logger.Level(zl)
}

// Zero exposes the underlying zerolog logger for structured fields.
func (l *CombinedLogger) Zero() *zerolog.Logger {
	return &l.logger
}

func (l *CombinedLogger) Close() error {
	if l.outfile == nil {
		return nil
	}
	return l.outfile.Close()
}

func (l *CombinedLogger) Log(level LogLevel, v ...interface{}) {
	zl, ok := level2Zero[level]
	if !ok {
		zl = zerolog.InfoLevel
	}
	// WithLevel never exits, even at fatal level
	l.logger.WithLevel(zl).Msg(sprint(v...))
}

func (l *CombinedLogger) ErrorLog(v ...interface{}) {
	l.Log(Error, v...)
}

func sprint(v ...interface{}) string {
	s := fmt.Sprintln(v...)
	return s[:len(s)-1]
}

// Log calls default logger and output info log
func Log(v ...interface{}) {
	WalletLogger.Log(Info, v...)
}

func Logf(template string, v ...interface{}) {
	WalletLogger.Log(Info, fmt.Sprintf(template, v...))
}

// ErrorLog call default logger and output error log
func ErrorLog(v ...interface{}) {
	WalletLogger.Log(Error, v...)
}

// ErrorLogf call default logger and output error log
func ErrorLogf(template string, v ...interface{}) {
	WalletLogger.Log(Error, fmt.Sprintf(template, v...))
}

func WarnLog(v ...interface{}) {
	WalletLogger.Log(Warn, v...)
}

func WarnLogf(template string, v ...interface{}) {
	WalletLogger.Log(Warn, fmt.Sprintf(template, v...))
}

// DebugLog calls default logger and output debug log
func DebugLog(v ...interface{}) {
	WalletLogger.Log(Debug, v...)
}

func DebugLogf(template string, v ...interface{}) {
	WalletLogger.Log(Debug, fmt.Sprintf(template, v...))
}

// DetailLogf is for payload dumps that are too noisy for debug.
func DetailLogf(template string, v ...interface{}) {
	WalletLogger.Log(Detail, fmt.Sprintf(template, v...))
}

func FatalLogfAndExit(exitCode int, template string, v ...interface{}) {
	WalletLogger.Log(Fatal, fmt.Sprintf(template, v...))
	os.Exit(exitCode)
}
