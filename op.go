// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// SleepAt is the effect operation for suspending until a point in time.
// Perform(SleepAt{At: t}) resumes the computation no earlier than t; a
// deadline already in the past resumes on the same dispatch pass without
// parking. Wake-up may be later than requested, bounded by scheduler
// granularity — the contract is "no earlier than", never exact.
type SleepAt struct {
	kont.Phantom[struct{}]
	At time.Time
}

// DispatchLoop handles SleepAt on the event loop.
// Non-blocking: returns iox.ErrWouldBlock after registering the strand in
// the timer tree when the deadline has not passed.
func (op SleepAt) DispatchLoop(l *Loop, s *strand) (kont.Resumed, error) {
	now := time.Now()
	if !op.At.After(now) {
		return struct{}{}, nil
	}
	s.at = l.timers.insert(op.At, s)
	return nil, iox.ErrWouldBlock
}

// Sleep is the effect operation for suspending for a duration.
// The deadline is computed when the operation dispatches, that is, when
// the sleeping computation is first resumed, not when the value is built.
// A non-positive duration resumes on the same dispatch pass.
type Sleep struct {
	kont.Phantom[struct{}]
	D time.Duration
}

// DispatchLoop handles Sleep on the event loop.
// Non-blocking: returns iox.ErrWouldBlock after registering the strand in
// the timer tree.
func (op Sleep) DispatchLoop(l *Loop, s *strand) (kont.Resumed, error) {
	if op.D <= 0 {
		return struct{}{}, nil
	}
	s.at = l.timers.insert(time.Now().Add(op.D), s)
	return nil, iox.ErrWouldBlock
}

// Recv is the effect operation for receiving one value from an [Inbox].
// Perform(Recv[T]{From: b}) yields the next value the producer pushed,
// or fails the computation with [ErrClosed] once b is closed and drained.
type Recv[T any] struct {
	kont.Phantom[T]
	From *Inbox[T]
}

// DispatchLoop handles Recv on the event loop.
// Non-blocking: returns iox.ErrWouldBlock after registering the strand as
// a poller when the inbox is empty and open.
func (op Recv[T]) DispatchLoop(l *Loop, s *strand) (kont.Resumed, error) {
	v, err, ready := op.From.pollRecv()
	if ready {
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	l.addPoller(s, op.From.pollRecv)
	return nil, iox.ErrWouldBlock
}
