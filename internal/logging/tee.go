package logging

import "github.com/vvka-141/psqlc/pkg/psqlc"

// TeeLogger fans every message out to several loggers in order.
type TeeLogger struct {
	loggers []psqlc.Logger
}

// Tee returns a logger writing to all of loggers. Nil entries are dropped.
func Tee(loggers ...psqlc.Logger) *TeeLogger {
	t := &TeeLogger{}
	for _, l := range loggers {
		if l != nil {
			t.loggers = append(t.loggers, l)
		}
	}
	return t
}

func (t *TeeLogger) Verbose(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Verbose(format, args...)
	}
}

func (t *TeeLogger) Info(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Info(format, args...)
	}
}

func (t *TeeLogger) Warn(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Warn(format, args...)
	}
}

func (t *TeeLogger) Error(format string, args ...interface{}) {
	for _, l := range t.loggers {
		l.Error(format, args...)
	}
}

var (
	_ psqlc.Logger = (*TeeLogger)(nil)
	_ psqlc.Logger = (*ConsoleLogger)(nil)
	_ psqlc.Logger = (*NullLogger)(nil)
)
