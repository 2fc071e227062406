package markers

import (
	"time"

	"go.uber.org/zap"
)

// Emitter accepts markers. Emit never blocks on the recording equipment
// and never fails; delivery problems are logged by the implementation.
type Emitter interface {
	Emit(code Code, note string)
}

// Marker is a code stamped with the time Emit was called.
type Marker struct {
	Code Code
	Note string
	At   time.Time
}

// Sink delivers markers to one destination.
type Sink interface {
	Send(m Marker) error
	Close() error
}

type nop struct{}

func (nop) Emit(Code, string) {}

// Nop discards every marker.
var Nop Emitter = nop{}

// LogSink writes each marker as a debug log line.
type LogSink struct {
	Logger *zap.Logger
}

func (s LogSink) Send(m Marker) error {
	s.Logger.Debug("marker",
		zap.Int("code", int(m.Code)),
		zap.Stringer("event", m.Code),
		zap.String("note", m.Note),
		zap.Time("at", m.At),
	)
	return nil
}

func (s LogSink) Close() error { return nil }
