package mail

import (
	"context"

	"github.com/dmitrijs2005/todolist/internal/logging"
)

// LogSender stands in for SMTP in development: it records that a message
// would have been sent, without its body.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(l logging.Logger) *LogSender {
	return &LogSender{logger: l.With("module", "mail")}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Warn(ctx, "SMTP not configured, mail dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}
