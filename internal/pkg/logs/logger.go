// Package logs provides structured JSON logger used by server and console.
package logs

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/labstack/gommon/log"
)

// Logger writes JSON log lines through gommon logger.
//
// Arguments of Debug, Info, Warn and Error are interpreted by type:
// string becomes "message", error becomes "error" and LogField adds
// named field. Fields attached with With are appended to every line.
type Logger struct {
	*log.Logger
	fields []any
}

const defaultHeader = `{"time":"${time_rfc3339_nano}","level":"${level}"}`

// NewLogger returns a new logger writing to specified output.
func NewLogger(output io.Writer, level log.Lvl) *Logger {
	logger := Logger{Logger: log.New("")}
	logger.SetHeader(defaultHeader)
	logger.SetOutput(output)
	logger.SetLevel(level)
	return &logger
}

// With returns logger that attaches specified fields to every line.
func (l *Logger) With(args ...any) *Logger {
	fields := make([]any, 0, len(args)+len(l.fields))
	fields = append(fields, args...)
	fields = append(fields, l.fields...)
	return &Logger{Logger: l.Logger, fields: fields}
}

func (l *Logger) Debug(args ...any) {
	l.write(log.DEBUG, makeLine(args...))
}

func (l *Logger) Info(args ...any) {
	l.write(log.INFO, makeLine(args...))
}

func (l *Logger) Warn(args ...any) {
	l.write(log.WARN, makeLine(args...))
}

func (l *Logger) Error(args ...any) {
	l.write(log.ERROR, makeLine(args...))
}

func (l *Logger) Debugf(format string, args ...any) {
	l.write(log.DEBUG, makeLine(fmt.Sprintf(format, args...)))
}

func (l *Logger) Infof(format string, args ...any) {
	l.write(log.INFO, makeLine(fmt.Sprintf(format, args...)))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.write(log.WARN, makeLine(fmt.Sprintf(format, args...)))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.write(log.ERROR, makeLine(fmt.Sprintf(format, args...)))
}

func (l *Logger) Debugj(j log.JSON) {
	l.write(log.DEBUG, j)
}

func (l *Logger) Infoj(j log.JSON) {
	l.write(log.INFO, j)
}

func (l *Logger) Warnj(j log.JSON) {
	l.write(log.WARN, j)
}

func (l *Logger) Errorj(j log.JSON) {
	l.write(log.ERROR, j)
}

func (l *Logger) write(level log.Lvl, line log.JSON) {
	_, file, no, _ := runtime.Caller(2)
	line["file"] = fmt.Sprintf("%s:%d", file, no)
	setFields(line, l.fields...)
	switch level {
	case log.DEBUG:
		l.Logger.Debugj(line)
	case log.INFO:
		l.Logger.Infoj(line)
	case log.WARN:
		l.Logger.Warnj(line)
	default:
		l.Logger.Errorj(line)
	}
}

// LogField represents named field of log line.
type LogField struct {
	Name  string
	Value any
}

// Any returns field with specified name and value.
func Any(name string, value any) LogField {
	return LogField{Name: name, Value: value}
}

func makeLine(args ...any) log.JSON {
	line := log.JSON{}
	setFields(line, args...)
	return line
}

func setFields(line log.JSON, args ...any) {
	for _, arg := range args {
		switch v := arg.(type) {
		case nil:
		case string:
			line["message"] = v
		case LogField:
			line[v.Name] = v.Value
		case error:
			line["error"] = v.Error()
		default:
			panic(fmt.Errorf("unsupported type: %T", arg))
		}
	}
}

// ParseLevel parses level name like "debug" or "error".
func ParseLevel(name string) (log.Lvl, error) {
	switch strings.ToLower(name) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}
