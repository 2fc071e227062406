package markers

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const QueueSize = 64

// Dispatcher is an asynchronous Emitter. Markers are stamped when emitted
// and delivered in order by a single goroutine, at most one per minGap so
// that consecutive trigger pulses stay distinguishable.
type Dispatcher struct {
	log     *zap.Logger
	sinks   []Sink
	limiter *rate.Limiter
	queue   chan Marker
	done    chan struct{}
	now     func() time.Time

	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(log *zap.Logger, minGap time.Duration, sinks ...Sink) *Dispatcher {
	limit := rate.Inf
	if minGap > 0 {
		limit = rate.Every(minGap)
	}
	d := &Dispatcher{
		log:     log,
		sinks:   sinks,
		limiter: rate.NewLimiter(limit, 1),
		queue:   make(chan Marker, QueueSize),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	go d.run()
	return d
}

func (d *Dispatcher) Emit(code Code, note string) {
	m := Marker{Code: code, Note: note, At: d.now()}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.log.Warn("marker emitted after close", zap.Stringer("event", code))
		return
	}
	select {
	case d.queue <- m:
	default:
		d.log.Warn("marker queue full, dropping", zap.Stringer("event", code), zap.String("note", note))
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for m := range d.queue {
		_ = d.limiter.Wait(context.Background())
		for _, s := range d.sinks {
			if err := s.Send(m); err != nil {
				d.log.Warn("marker delivery failed", zap.Stringer("event", m.Code), zap.Error(err))
			}
		}
	}
}

// Close delivers the queued markers and closes every sink.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done

	var errs []error
	for _, s := range d.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
