// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/kont"
)

// outcome is the type-erased completion value every strand produces:
// Right carries the erased result, Left carries the failure.
type outcome = kont.Either[error, kont.Erased]

// parkSite is where a parked strand is registered while it waits: a
// timer entry, a combinator control block, a [Task] continuation link, or
// an inbox poller. Abandoning the strand releases the registration, so
// teardown is deterministic rather than a side effect of collection order.
type parkSite interface {
	release(s *strand)
}

// strand is one cooperatively interleaved execution: the root computation,
// a spawned [Task], or a combinator sub-computation. It holds the one-shot
// suspension of the underlying kont computation, the continuation link
// invoked exactly once on completion, and the site it is parked at.
type strand struct {
	serial Serial
	susp   *kont.Suspension[outcome]
	done   func(v kont.Erased, err error)
	at     parkSite
	ended  bool
}

// eraseExpr lifts a typed Expr-world computation into the erased strand
// world. The final value is boxed as Right; failures never reach this
// wrapper — they short-circuit in dispatch.
func eraseExpr[T any](m kont.Expr[T]) kont.Expr[outcome] {
	return kont.ExprMap(m, func(v T) outcome {
		return kont.Right[error, kont.Erased](kont.Erased(v))
	})
}

func eraseEff[T any](c kont.Eff[T]) kont.Expr[outcome] {
	return eraseExpr(kont.Reify(c))
}

// launch creates a strand for m and drives it until it parks, completes,
// or fails. done is the strand's continuation link: called exactly once,
// from dispatch context, with the erased value or the failure.
func (l *Loop) launch(m kont.Expr[outcome], done func(v kont.Erased, err error)) *strand {
	s := &strand{serial: nextSerial(), done: done}
	l.tracef("strand %d launch", s.serial)
	result, susp := kont.StepExpr(m)
	l.advance(s, result, susp)
	return s
}

// advance resumes s through effect dispatch until it parks, completes, or
// fails. Error effects dispatch eagerly: a throw discards the suspension
// and completes the strand with the failure. Loop effects dispatch
// non-blocking: ErrWouldBlock means the dispatcher parked the strand, any
// other error is a failure produced by the operation itself.
func (l *Loop) advance(s *strand, result outcome, susp *kont.Suspension[outcome]) {
	for {
		if susp == nil {
			l.settle(s, result)
			return
		}

		op := susp.Op()

		if eop, ok := op.(interface {
			DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
		}); ok {
			var ctx kont.ErrorContext[error]
			v, _ := eop.DispatchError(&ctx)
			if ctx.HasErr {
				susp.Discard()
				l.settle(s, kont.Left[error, kont.Erased](ctx.Err))
				return
			}
			result, susp = susp.Resume(v)
			continue
		}

		lop, ok := op.(loopDispatcher)
		if !ok {
			panic("sched: unhandled effect in Loop")
		}
		s.susp = susp
		v, err := lop.DispatchLoop(l, s)
		if err != nil {
			if isWouldBlock(err) {
				l.tracef("strand %d parked on %T", s.serial, op)
				return
			}
			s.susp = nil
			susp.Discard()
			l.settle(s, kont.Left[error, kont.Erased](err))
			return
		}
		s.susp = nil
		result, susp = susp.Resume(v)
	}
}

// wake resumes a parked strand with the dispatch value.
func (l *Loop) wake(s *strand, v kont.Resumed) {
	l.tracef("strand %d wake", s.serial)
	s.at = nil
	susp := s.susp
	s.susp = nil
	result, next := susp.Resume(v)
	l.advance(s, result, next)
}

// fail completes a parked strand with err without resuming it.
func (l *Loop) fail(s *strand, err error) {
	s.at = nil
	susp := s.susp
	s.susp = nil
	susp.Discard()
	l.settle(s, kont.Left[error, kont.Erased](err))
}

// settle marks s complete and hands its outcome to the continuation link.
func (l *Loop) settle(s *strand, result outcome) {
	s.ended = true
	s.susp = nil
	done := s.done
	s.done = nil
	if e, ok := result.GetLeft(); ok {
		l.tracef("strand %d failed: %v", s.serial, e)
		done(nil, e)
		return
	}
	v, _ := result.GetRight()
	l.tracef("strand %d complete", s.serial)
	done(v, nil)
}

// abandon tears down a not-yet-completed strand: its park registration is
// released, its suspension discarded, its continuation link dropped. The
// failure an abandoned strand would have produced later is discarded with
// it. Abandoning an ended strand is a no-op.
func (l *Loop) abandon(s *strand) {
	if s.ended {
		return
	}
	s.ended = true
	l.tracef("strand %d abandoned", s.serial)
	if s.at != nil {
		s.at.release(s)
		s.at = nil
	}
	if s.susp != nil {
		s.susp.Discard()
		s.susp = nil
	}
	s.done = nil
}
