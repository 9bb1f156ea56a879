package restclient

import (
	"time"

	"go.uber.org/zap"
)

// CallEvent records one logical request, including its retries.
type CallEvent struct {
	Method    string
	Table     string
	Attempts  int
	Latency   time.Duration
	Success   bool
	ErrorCode string
}

// Observer receives an event after every call.
type Observer interface {
	OnCallComplete(event CallEvent)
}

type LogObserver struct {
	log *zap.Logger
}

func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(e CallEvent) {
	fields := []zap.Field{
		zap.String("method", e.Method),
		zap.String("table", e.Table),
		zap.Int("attempts", e.Attempts),
		zap.Duration("latency", e.Latency),
	}
	if e.Success {
		o.log.Debug("remote call", fields...)
		return
	}
	o.log.Warn("remote call failed", append(fields, zap.String("error_code", e.ErrorCode))...)
}

type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
