// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// A Task is a single-owner handle to a computation launched alongside the
// root. The computation itself stays lazy until Spawn: building a kont
// value runs nothing. Spawn runs it inline until its first suspension;
// from then on the loop interleaves it with everything else.
//
// The outcome is read exactly once, through Await from inside another
// computation or through Result from the host after [Run] returns.
// Reading twice, or reading before completion, panics. Await is recorded
// as the task's continuation and may be registered at most once.
type Task[T any] struct {
	loop      *Loop
	s         *strand
	slot      Slot[T]
	awaiter   *strand
	awaited   bool
	abandoned bool
}

// Spawn launches a Cont-world computation and returns its handle.
func Spawn[T any](l *Loop, c kont.Eff[T]) *Task[T] {
	return SpawnExpr(l, kont.Reify(c))
}

// SpawnExpr launches an Expr-world computation and returns its handle.
func SpawnExpr[T any](l *Loop, m kont.Expr[T]) *Task[T] {
	t := &Task[T]{loop: l}
	t.s = l.launch(eraseExpr(m), t.finish)
	return t
}

// finish is the task strand's continuation link: it stores the outcome
// and, if an awaiter is parked, consumes it on the awaiter's behalf.
func (t *Task[T]) finish(v kont.Erased, err error) {
	if err != nil {
		t.slot.Fail(err)
	} else {
		t.slot.Put(v.(T))
	}
	if t.awaiter != nil {
		a := t.awaiter
		t.awaiter = nil
		rv, rerr := t.slot.Take()
		if rerr != nil {
			t.loop.fail(a, rerr)
			return
		}
		t.loop.wake(a, rv)
	}
}

// release implements parkSite for the awaiting strand. Abandoning the
// awaiter drops the continuation link; the task itself keeps running —
// it is owned by whoever spawned it, not by its awaiter.
func (t *Task[T]) release(*strand) {
	t.awaiter = nil
}

// awaitOp is the effect operation for awaiting a spawned task.
type awaitOp[T any] struct {
	kont.Phantom[T]
	task *Task[T]
}

// DispatchLoop handles awaitOp on the event loop. A completed task yields
// (and consumes) its outcome on the same pass; otherwise the awaiting
// strand is recorded as the task's continuation. Non-blocking: returns
// iox.ErrWouldBlock when parked.
func (op awaitOp[T]) DispatchLoop(l *Loop, s *strand) (kont.Resumed, error) {
	t := op.task
	if t.abandoned {
		panic("sched: await on abandoned task")
	}
	if t.slot.Done() {
		v, err := t.slot.Take()
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	if t.awaited {
		panic("sched: task awaited twice")
	}
	t.awaited = true
	t.awaiter = s
	s.at = t
	return nil, iox.ErrWouldBlock
}

// Await suspends the calling computation until t completes, then yields
// its value or re-raises its failure. The outcome is consumed.
func (t *Task[T]) Await() kont.Eff[T] {
	return kont.Perform(awaitOp[T]{task: t})
}

// Done reports whether t has produced an outcome.
func (t *Task[T]) Done() bool {
	return t.slot.Done()
}

// Result consumes the outcome of a completed task: its value, or the
// zero value and its failure. Panics if t has not completed, if the
// outcome was already consumed, or if t was abandoned.
func (t *Task[T]) Result() (T, error) {
	if t.abandoned {
		panic("sched: outcome of abandoned task")
	}
	return t.slot.Take()
}

// Abandon tears down an unfinished task deterministically: its parked
// timer entry is removed, its suspension discarded, and outstanding
// combinator sub-strands abandoned with it. A parked awaiter fails with
// [ErrAbandoned]. Abandoning a completed task is a no-op.
func (t *Task[T]) Abandon() {
	if t.abandoned || t.slot.Done() {
		return
	}
	t.abandoned = true
	t.loop.abandon(t.s)
	if t.awaiter != nil {
		a := t.awaiter
		t.awaiter = nil
		t.loop.fail(a, ErrAbandoned)
	}
}
