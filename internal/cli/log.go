package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/opgraph/pkg/errors"
)

// Values accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// setLogFormat switches l between human-readable and JSON lines.
func setLogFormat(l *log.Logger, format string) error {
	switch format {
	case logFormatText, "":
		l.SetFormatter(log.TextFormatter)
	case logFormatJSON:
		l.SetFormatter(log.JSONFormatter)
	default:
		return errors.New(errors.ErrCodeInvalidArgument, "unknown log format %q (want text or json)", format)
	}
	return nil
}

// progress times a step and logs it with an "elapsed" field.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}
