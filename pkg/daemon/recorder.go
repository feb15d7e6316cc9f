package daemon

import (
	"sync"
	"time"

	"github.com/charlie0129/i2cbatt/pkg/battery"
)

// ReadingRecorder keeps the last N readings, oldest first.
type ReadingRecorder struct {
	MaxRecordCount int
	Readings       []battery.Reading
	mu             *sync.Mutex
}

// NewReadingRecorder returns a new ReadingRecorder.
func NewReadingRecorder(maxRecordCount int) *ReadingRecorder {
	return &ReadingRecorder{
		MaxRecordCount: maxRecordCount,
		Readings:       make([]battery.Reading, 0, maxRecordCount),
		mu:             &sync.Mutex{},
	}
}

// AddRecord appends r, evicting the oldest record when full.
func (r *ReadingRecorder) AddRecord(reading battery.Reading) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Strip monotonic clock reading, so that time.Since stays accurate
	// across system suspend.
	reading.Time = reading.Time.Round(0)

	r.Readings = append(r.Readings, reading)
	r.trim()
}

// SetMaxRecordCount changes the capacity, dropping the oldest records if
// there are too many.
func (r *ReadingRecorder) SetMaxRecordCount(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.MaxRecordCount = n
	r.trim()
}

func (r *ReadingRecorder) trim() {
	if over := len(r.Readings) - r.MaxRecordCount; over > 0 {
		r.Readings = append([]battery.Reading(nil), r.Readings[over:]...)
	}
}

// ClearRecords clears all records.
func (r *ReadingRecorder) ClearRecords() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Readings = make([]battery.Reading, 0, r.MaxRecordCount)
}

// Len returns the number of records.
func (r *ReadingRecorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.Readings)
}

// Last returns the newest record.
func (r *ReadingRecorder) Last() (battery.Reading, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.Readings) == 0 {
		return battery.Reading{}, false
	}
	return r.Readings[len(r.Readings)-1], true
}

// GetRecords returns a copy of all records.
func (r *ReadingRecorder) GetRecords() []battery.Reading {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]battery.Reading(nil), r.Readings...)
}

// GetRecordsIn returns the records taken within the last duration, oldest
// first.
func (r *ReadingRecorder) GetRecordsIn(last time.Duration) []battery.Reading {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := len(r.Readings)
	for i > 0 && time.Since(r.Readings[i-1].Time) <= last {
		i--
	}

	return append([]battery.Reading(nil), r.Readings[i:]...)
}
