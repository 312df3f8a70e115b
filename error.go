// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"errors"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// ErrClosed is the failure delivered to a receive on a closed, drained
// [Inbox].
var ErrClosed = errors.New("sched: inbox closed")

// ErrAbandoned is the failure delivered to a computation parked on a
// [Task] that its owner abandoned.
var ErrAbandoned = errors.New("sched: task abandoned")

// Fail is a computation that fails with err. The failure propagates to
// the awaiter through the normal resume path: an enclosing combinator
// force-completes with it, [Try] captures it, and out of the root it is
// the error return of [Run].
func Fail[T any](err error) kont.Eff[T] {
	return kont.ThrowError[error, T](err)
}

// ExprFail is the Expr-world [Fail].
func ExprFail[T any](err error) kont.Expr[T] {
	return kont.ExprThrowError[error, T](err)
}

// tryBlock links one [Try] sub-strand to its waiting computation.
type tryBlock struct {
	loop   *Loop
	sub    *strand
	waiter *strand
	result outcome
	done   bool
}

// finish is the sub-strand's continuation link: unlike a combinator
// block, a failure here becomes a value.
func (b *tryBlock) finish(v kont.Erased, err error) {
	b.done = true
	if err != nil {
		b.result = kont.Left[error, kont.Erased](err)
	} else {
		b.result = kont.Right[error, kont.Erased](v)
	}
	if w := b.waiter; w != nil {
		b.waiter = nil
		b.loop.wake(w, b.result)
	}
}

// release implements parkSite: abandoning the waiter abandons the probe.
func (b *tryBlock) release(*strand) {
	b.waiter = nil
	if b.sub != nil && !b.sub.ended {
		b.loop.abandon(b.sub)
	}
}

// tryOp is the effect operation behind [Try].
type tryOp struct {
	kont.Phantom[outcome]
	sub kont.Expr[outcome]
}

// DispatchLoop launches the probed computation as a sibling strand.
// Non-blocking: returns iox.ErrWouldBlock after parking when the probe
// suspended.
func (op tryOp) DispatchLoop(l *Loop, s *strand) (kont.Resumed, error) {
	b := &tryBlock{loop: l}
	b.sub = l.launch(op.sub, b.finish)
	if b.done {
		return b.result, nil
	}
	b.waiter = s
	s.at = b
	return nil, iox.ErrWouldBlock
}

// Try runs c and yields its outcome as a value: Right on success, Left
// on failure. Unlike kont.CatchError — whose body must be a pure error
// effect — the probed computation may sleep, await and fork; Try is the
// way to recover from failures that cross a suspension point.
func Try[T any](c kont.Eff[T]) kont.Eff[kont.Either[error, T]] {
	return kont.Bind(kont.Perform(tryOp{sub: eraseEff(c)}), func(o outcome) kont.Eff[kont.Either[error, T]] {
		if e, ok := o.GetLeft(); ok {
			return kont.Pure(kont.Left[error, T](e))
		}
		v, _ := o.GetRight()
		return kont.Pure(kont.Right[error](v.(T)))
	})
}

// Recover runs c and, if it fails, continues with h applied to the
// failure.
func Recover[T any](c kont.Eff[T], h func(error) kont.Eff[T]) kont.Eff[T] {
	return kont.Bind(Try(c), func(e kont.Either[error, T]) kont.Eff[T] {
		if err, ok := e.GetLeft(); ok {
			return h(err)
		}
		v, _ := e.GetRight()
		return kont.Pure(v)
	})
}
