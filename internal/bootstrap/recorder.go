package bootstrap

import (
	"strings"
	"time"
)

// Recorder measures wall-clock duration per pipeline phase. Nested phases
// produce entries keyed by the full dotted phase path. A Recorder belongs
// to a single bootstrap invocation and is not safe for concurrent use.
type Recorder struct {
	stack     []string
	order     []string
	durations map[string]time.Duration
	now       func() time.Time
}

// NewRecorder constructs an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		durations: make(map[string]time.Duration),
		now:       time.Now,
	}
}

// Record runs fn as the named phase, measuring its duration. The phase's
// return value and error pass through untouched.
func Record[T any](r *Recorder, name string, fn func() (T, error)) (T, error) {
	r.stack = append(r.stack, name)
	key := strings.Join(r.stack, ".")
	start := r.now()

	value, err := fn()

	elapsed := r.now().Sub(start)
	r.stack = r.stack[:len(r.stack)-1]

	if _, seen := r.durations[key]; !seen {
		r.order = append(r.order, key)
	}

	r.durations[key] += elapsed

	return value, err
}

// Duration returns the recorded duration for a phase path.
func (r *Recorder) Duration(key string) (time.Duration, bool) {
	d, ok := r.durations[key]
	return d, ok
}

// Each visits every recorded phase in first-recorded order.
func (r *Recorder) Each(fn func(key string, d time.Duration)) {
	for _, key := range r.order {
		fn(key, r.durations[key])
	}
}

// Len returns the number of recorded phase paths.
func (r *Recorder) Len() int {
	return len(r.order)
}
