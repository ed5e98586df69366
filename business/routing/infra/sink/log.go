package sink

import (
	"context"

	"github.com/fd1az/smart-router/internal/logger"
)

// LogWriter emits each record as one structured log line.
type LogWriter struct {
	logger logger.LoggerInterface
}

// NewLogWriter returns a LogWriter over log.
func NewLogWriter(log logger.LoggerInterface) *LogWriter {
	return &LogWriter{logger: log}
}

func (w *LogWriter) Write(ctx context.Context, r Record) error {
	args := make([]any, 0, 2*len(r.Fields))
	for _, f := range r.Fields {
		args = append(args, f.Key, f.Value)
	}
	w.logger.Info(ctx, r.Kind, args...)
	return nil
}
