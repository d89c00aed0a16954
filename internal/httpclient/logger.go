package httpclient

import (
	"github.com/flexprice/adminconsole/internal/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// leveledLogger adapts the sugared logger to retryablehttp.LeveledLogger
type leveledLogger struct {
	log *logger.Logger
}

var _ retryablehttp.LeveledLogger = (*leveledLogger)(nil)

func newLeveledLogger(log *logger.Logger) retryablehttp.LeveledLogger {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &leveledLogger{log: &logger.Logger{SugaredLogger: log.With("component", "httpclient")}}
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Infow(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}
