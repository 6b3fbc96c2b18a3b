package reminders

import (
	"context"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/studydesk/internal/models"
)

// LogNotifier writes reminders to the application log
type LogNotifier struct {
	logger arbor.ILogger
}

func NewLogNotifier(logger arbor.ILogger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, r models.Reminder) error {
	n.logger.Info().
		Str("kind", string(r.Kind)).
		Str("meeting_at", r.MeetingAt.Format("Mon 15:04")).
		Msg("Meeting reminder")
	return nil
}

// cronLogger routes cron's own diagnostics into arbor
type cronLogger struct {
	logger arbor.ILogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Trace().Int("fields", len(keysAndValues)/2).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Msg("cron: " + msg)
}
