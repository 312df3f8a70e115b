// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

const (
	slotEmpty = iota
	slotValue
	slotFailure
	slotTaken
)

// Slot is write-once, consume-once storage for the outcome of a
// computation that has not produced one at creation time. A Slot holds
// nothing, a value of T, or a failure.
//
// The contract is strict: the outcome is written at most once and taken
// at most once. Writing twice, taking before writing, or taking twice
// panics. Timing bugs around completion surface immediately instead of
// reading stale or half-initialized results.
//
// A Slot must not be shared across goroutines without synchronization.
type Slot[T any] struct {
	state uint8
	value T
	err   error
}

// Done reports whether an outcome (value or failure) has been written,
// including one that has already been taken.
func (s *Slot[T]) Done() bool {
	return s.state != slotEmpty
}

// Put writes the value outcome. Panics if an outcome was already written.
func (s *Slot[T]) Put(v T) {
	if s.state != slotEmpty {
		panic("sched: outcome already produced")
	}
	s.state = slotValue
	s.value = v
}

// Fail writes the failure outcome. Panics if an outcome was already written.
func (s *Slot[T]) Fail(err error) {
	if s.state != slotEmpty {
		panic("sched: outcome already produced")
	}
	s.state = slotFailure
	s.err = err
}

// Take consumes the outcome: the stored value, or the zero value and the
// stored failure. Panics if no outcome was written yet, or if the outcome
// was already consumed.
func (s *Slot[T]) Take() (T, error) {
	switch s.state {
	case slotEmpty:
		panic("sched: outcome not produced yet")
	case slotTaken:
		panic("sched: outcome already consumed")
	}
	v, err := s.value, s.err
	var zero T
	s.state = slotTaken
	s.value = zero
	s.err = nil
	return v, err
}
