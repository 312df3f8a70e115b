// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"errors"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// loopDispatcher is the structural interface for scheduler operations.
// DispatchLoop is non-blocking: it returns iox.ErrWouldBlock after parking
// the strand when the operation cannot complete on this pass (deadline not
// reached, inbox empty, combinator still outstanding). Any other error is
// a failure of the operation itself and fails the dispatching strand.
type loopDispatcher interface {
	DispatchLoop(l *Loop, s *strand) (kont.Resumed, error)
}

func isWouldBlock(err error) bool {
	return errors.Is(err, iox.ErrWouldBlock)
}

// A Loop drives computations to completion on the calling goroutine.
// It alternates two states: resuming the active strand chain until every
// strand is parked, then consulting the timer tree — firing the earliest
// expired deadline, or parking the goroutine until the earliest deadline
// is due. Timer expiry and inbox arrival are the only wake sources.
//
// A Loop must not be shared across goroutines; the only concurrency-safe
// surface of the package is the producer side of an [Inbox].
type Loop struct {
	timers  *timerTree
	pollers []*poller

	// Trace receives human-readable strand lifecycle lines. Nil means no
	// tracing. Set before the first Spawn or Run; not part of the
	// functional contract.
	Trace Tracer
}

// New creates an empty Loop.
func New() *Loop {
	return &Loop{timers: newTimerTree()}
}

// poller is a parked inbox receiver. The Waiting step re-polls it with
// adaptive backoff while nothing else is runnable.
type poller struct {
	s    *strand
	poll func() (kont.Resumed, error, bool)
	loop *Loop
}

// release implements parkSite: abandonment drops the poller.
func (p *poller) release(*strand) {
	p.s.at = nil
	l := p.loop
	for i, q := range l.pollers {
		if q == p {
			l.pollers = append(l.pollers[:i], l.pollers[i+1:]...)
			return
		}
	}
}

// wait runs the Waiting state until *done is set and the timer tree is
// drained. Strands still parked on an inbox when the loop exits are left
// unresumed.
func (l *Loop) wait(done *bool) {
	for !*done || !l.timers.empty() {
		if e, ok := l.timers.min(); ok {
			now := time.Now()
			if !e.key.at.After(now) {
				l.fire(e)
				continue
			}
			l.parkUntil(e.key.at)
			continue
		}
		if *done {
			return
		}
		if !l.pollIdle() {
			panic("sched: deadlock: nothing is runnable and no timer is pending")
		}
	}
}

// fire removes an expired entry and resumes its sleeper.
func (l *Loop) fire(e *timerEntry) {
	l.timers.remove(e)
	s := e.strand
	l.tracef("strand %d timer fired at %s", s.serial, e.key.at.Format(time.RFC3339Nano))
	l.wake(s, struct{}{})
}

// parkUntil blocks the goroutine until at. With parked inbox receivers it
// polls them with adaptive backoff instead of sleeping through the
// deadline; without any it sleeps exactly once.
func (l *Loop) parkUntil(at time.Time) {
	if len(l.pollers) == 0 {
		if d := time.Until(at); d > 0 {
			time.Sleep(d)
		}
		return
	}
	var bo iox.Backoff
	for {
		if l.pollOnce() {
			return
		}
		if !time.Now().Before(at) {
			return
		}
		bo.Wait()
	}
}

// pollIdle waits for an inbox arrival when no timer is pending. Returns
// false when there are no parked receivers either — nothing can ever
// become runnable again.
func (l *Loop) pollIdle() bool {
	if len(l.pollers) == 0 {
		return false
	}
	var bo iox.Backoff
	for {
		if l.pollOnce() {
			return true
		}
		bo.Wait()
	}
}

// pollOnce tries every parked receiver once and resumes the first that is
// ready. One resumption per call: the woken chain may change the timer
// tree, so the caller reconsults it before polling again.
func (l *Loop) pollOnce() bool {
	for _, p := range l.pollers {
		v, err, ready := p.poll()
		if !ready {
			continue
		}
		p.release(p.s)
		if err != nil {
			l.fail(p.s, err)
		} else {
			l.wake(p.s, v)
		}
		return true
	}
	return false
}

func (l *Loop) addPoller(s *strand, poll func() (kont.Resumed, error, bool)) {
	p := &poller{s: s, poll: poll, loop: l}
	l.pollers = append(l.pollers, p)
	s.at = p
}
