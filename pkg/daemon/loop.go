package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/charlie0129/i2cbatt/pkg/battery"
	"github.com/charlie0129/i2cbatt/pkg/config"
	"github.com/charlie0129/i2cbatt/pkg/events"
)

// eventBuffer is how many events an SSE client may lag behind before it
// misses some.
const eventBuffer = 8

// Publisher forwards readings somewhere outside the daemon.
type Publisher interface {
	Publish(battery.Reading) error
	Close()
}

// daemon owns the monitor and everything derived from its readings.
type daemon struct {
	conf    config.Config
	monitor *battery.Monitor
	// sem serializes access to monitor, which is not safe for concurrent use.
	sem       *semaphore.Weighted
	recorder  *ReadingRecorder
	hub       *events.EventHub
	publisher Publisher

	// intervalChanged wakes the loop up to pick up a new poll interval.
	intervalChanged chan struct{}

	mu        sync.Mutex
	lastLevel battery.ChargeLevel
	lastErr   error
}

func newDaemon(conf config.Config, monitor *battery.Monitor) *daemon {
	return &daemon{
		conf:            conf,
		monitor:         monitor,
		sem:             semaphore.NewWeighted(1),
		recorder:        NewReadingRecorder(conf.HistorySize()),
		hub:             events.NewEventHub(eventBuffer),
		intervalChanged: make(chan struct{}, 1),
	}
}

// loop samples the battery every poll interval until ctx is done.
func (d *daemon) loop(ctx context.Context) error {
	logrus.Debugln("poll loop starts")

	interval := d.conf.PollInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_, _ = d.sample(ctx)

	for {
		select {
		case <-ctx.Done():
			logrus.Debugln("poll loop stops")
			return nil
		case <-ticker.C:
			_, _ = d.sample(ctx)
		case <-d.intervalChanged:
		}

		if i := d.conf.PollInterval(); i != interval {
			logrus.Infof("poll interval changed from %s to %s", interval, i)
			interval = i
			ticker.Reset(interval)
		}
	}
}

// notifyIntervalChanged never blocks; one pending notification is enough.
func (d *daemon) notifyIntervalChanged() {
	select {
	case d.intervalChanged <- struct{}{}:
	default:
	}
}

// sample takes one reading and records the outcome.
func (d *daemon) sample(ctx context.Context) (battery.Reading, error) {
	if err := d.sem.Acquire(ctx, 1); err != nil {
		return battery.Reading{}, err
	}
	// Held until recorded, so history and level events follow sampling order.
	defer d.sem.Release(1)

	r, err := d.monitor.Read()
	if err != nil {
		d.recordError(err)
		return r, err
	}

	d.record(r)
	return r, nil
}

func (d *daemon) record(r battery.Reading) {
	d.recorder.AddRecord(r)

	d.mu.Lock()
	prev := d.lastLevel
	d.lastLevel = r.Level
	d.lastErr = nil
	d.mu.Unlock()

	if prev != r.Level {
		ev := events.LevelChangedEvent{
			To:      r.Level.String(),
			Voltage: r.Voltage,
			Ts:      r.Time.Unix(),
		}
		if prev != battery.Unknown {
			ev.From = prev.String()
		}
		logrus.WithFields(logrus.Fields{
			"from":    ev.From,
			"to":      ev.To,
			"voltage": r.Voltage,
		}).Info("charge level changed")
		d.hub.Publish(events.LevelChanged, ev)
	}

	if d.publisher != nil {
		if err := d.publisher.Publish(r); err != nil {
			logrus.Warnf("failed to publish reading: %v", err)
		}
	}
}

func (d *daemon) recordError(err error) {
	logrus.Errorf("failed to sample battery: %v", err)

	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()

	d.hub.Publish(events.ReadFailed, events.ReadFailedEvent{
		Error: err.Error(),
		Ts:    time.Now().Unix(),
	})
}

func (d *daemon) lastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}
