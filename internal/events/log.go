package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes every event to the structured log at debug level.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log.Named("events")}
}

func (p *LogPublisher) Publish(_ context.Context, ev Event) {
	p.log.Debug(string(ev.Type),
		zap.String("room", ev.Room),
		zap.Time("at", ev.At),
		zap.Any("data", ev.Data),
	)
}
