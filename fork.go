// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Pair is the result record of [Join2].
type Pair[A, B any] struct {
	First  A
	Second B
}

// Triple is the result record of [Join3].
type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// Winner is the result of [RaceAll]: the position of the first finisher
// and its value.
type Winner[T any] struct {
	Index int
	Value T
}

// joinBlock is the control block for one wait-for-all combinator.
// Scoped to a single dispatch; every sub-strand's continuation link
// mutates it exactly once, serialized by the loop.
type joinBlock struct {
	loop      *Loop
	subs      []*strand
	values    []kont.Resumed
	remaining int
	waiter    *strand
	failure   error
	settled   bool
}

func (b *joinBlock) finish(i int, v kont.Erased, err error) {
	if b.settled {
		return
	}
	if err != nil {
		// First failure is decisive: complete now, abandon the rest.
		b.settled = true
		b.failure = err
		b.abandonLive()
		b.resume()
		return
	}
	b.values[i] = v
	b.remaining--
	if b.remaining == 0 {
		b.settled = true
		b.resume()
	}
}

func (b *joinBlock) abandonLive() {
	for _, sub := range b.subs {
		if sub != nil && !sub.ended {
			b.loop.abandon(sub)
		}
	}
}

// resume hands control back to the combinator's continuation. During the
// launch phase no waiter is parked yet; the dispatcher reads the block
// state directly instead.
func (b *joinBlock) resume() {
	w := b.waiter
	if w == nil {
		return
	}
	b.waiter = nil
	if b.failure != nil {
		b.loop.fail(w, b.failure)
		return
	}
	b.loop.wake(w, b.values)
}

// release implements parkSite: abandoning the parked combinator abandons
// its outstanding sub-strands.
func (b *joinBlock) release(*strand) {
	b.settled = true
	b.waiter = nil
	b.abandonLive()
}

// joinOp is the effect operation behind the join combinators. It resumes
// with every sub-result in argument order once the last one finishes, or
// fails with the first sub-failure the instant it happens.
type joinOp struct {
	kont.Phantom[[]kont.Resumed]
	subs []kont.Expr[outcome]
}

// DispatchLoop launches the sub-computations as sibling strands, each
// running inline until its first suspension. Non-blocking: returns
// iox.ErrWouldBlock after parking the strand on the control block when
// some sub-computation is still outstanding.
func (op joinOp) DispatchLoop(l *Loop, s *strand) (kont.Resumed, error) {
	n := len(op.subs)
	b := &joinBlock{
		loop:      l,
		subs:      make([]*strand, n),
		values:    make([]kont.Resumed, n),
		remaining: n,
	}
	for i, sub := range op.subs {
		if b.settled {
			break
		}
		b.subs[i] = l.launch(sub, func(v kont.Erased, err error) { b.finish(i, v, err) })
	}
	if b.settled || b.remaining == 0 {
		b.settled = true
		if b.failure != nil {
			return nil, b.failure
		}
		return b.values, nil
	}
	b.waiter = s
	s.at = b
	return nil, iox.ErrWouldBlock
}

// raceWin is the erased resumption value of a race: the winning position
// and that sub-computation's value only.
type raceWin struct {
	index int
	value kont.Erased
}

// raceBlock is the control block for one wait-for-first combinator.
// winner stays -1 until the decisive finisher claims it; the single-writer
// discipline holds only because the loop serializes every mutation.
type raceBlock struct {
	loop    *Loop
	subs    []*strand
	winner  int
	value   kont.Erased
	failure error
	waiter  *strand
	settled bool
}

func (b *raceBlock) finish(i int, v kont.Erased, err error) {
	if b.settled {
		return
	}
	// First finisher is decisive, whether it produced a value or failed.
	b.settled = true
	b.winner = i
	b.value = v
	b.failure = err
	b.abandonLive()
	b.resume()
}

func (b *raceBlock) abandonLive() {
	for _, sub := range b.subs {
		if sub != nil && !sub.ended {
			b.loop.abandon(sub)
		}
	}
}

func (b *raceBlock) resume() {
	w := b.waiter
	if w == nil {
		return
	}
	b.waiter = nil
	if b.failure != nil {
		b.loop.fail(w, b.failure)
		return
	}
	b.loop.wake(w, raceWin{index: b.winner, value: b.value})
}

// release implements parkSite: abandoning the parked combinator abandons
// its outstanding sub-strands.
func (b *raceBlock) release(*strand) {
	b.settled = true
	b.waiter = nil
	b.abandonLive()
}

// raceOp is the effect operation behind the race combinators.
type raceOp struct {
	kont.Phantom[raceWin]
	subs []kont.Expr[outcome]
}

// DispatchLoop launches sub-computations exactly like joinOp. A decisive
// finish during the launch phase stops launching: computations after the
// winner never start.
func (op raceOp) DispatchLoop(l *Loop, s *strand) (kont.Resumed, error) {
	if len(op.subs) == 0 {
		panic("sched: race over no computations")
	}
	b := &raceBlock{loop: l, winner: -1, subs: make([]*strand, len(op.subs))}
	for i, sub := range op.subs {
		if b.settled {
			break
		}
		b.subs[i] = l.launch(sub, func(v kont.Erased, err error) { b.finish(i, v, err) })
	}
	if b.settled {
		if b.failure != nil {
			return nil, b.failure
		}
		return raceWin{index: b.winner, value: b.value}, nil
	}
	b.waiter = s
	s.at = b
	return nil, iox.ErrWouldBlock
}

// Join2 runs two computations concurrently and completes with both
// results once both finish. The first failure completes the combinator
// immediately: the other computation is abandoned and the failure is
// re-raised to the caller.
func Join2[A, B any](a kont.Eff[A], b kont.Eff[B]) kont.Eff[Pair[A, B]] {
	op := joinOp{subs: []kont.Expr[outcome]{eraseEff(a), eraseEff(b)}}
	return kont.Bind(kont.Perform(op), func(vs []kont.Resumed) kont.Eff[Pair[A, B]] {
		return kont.Pure(Pair[A, B]{First: vs[0].(A), Second: vs[1].(B)})
	})
}

// Join3 runs three computations concurrently and completes with all three
// results. Failure policy is that of [Join2].
func Join3[A, B, C any](a kont.Eff[A], b kont.Eff[B], c kont.Eff[C]) kont.Eff[Triple[A, B, C]] {
	op := joinOp{subs: []kont.Expr[outcome]{eraseEff(a), eraseEff(b), eraseEff(c)}}
	return kont.Bind(kont.Perform(op), func(vs []kont.Resumed) kont.Eff[Triple[A, B, C]] {
		return kont.Pure(Triple[A, B, C]{First: vs[0].(A), Second: vs[1].(B), Third: vs[2].(C)})
	})
}

// JoinAll runs any number of same-typed computations concurrently and
// completes with every result in argument order. Failure policy is that
// of [Join2]. JoinAll of nothing completes immediately with an empty
// slice.
func JoinAll[T any](subs ...kont.Eff[T]) kont.Eff[[]T] {
	erased := make([]kont.Expr[outcome], len(subs))
	for i, c := range subs {
		erased[i] = eraseEff(c)
	}
	return kont.Bind(kont.Perform(joinOp{subs: erased}), func(vs []kont.Resumed) kont.Eff[[]T] {
		out := make([]T, len(vs))
		for i, v := range vs {
			out[i] = v.(T)
		}
		return kont.Pure(out)
	})
}

// Race2 runs two computations concurrently and completes with the first
// finisher: Left carries a's value, Right carries b's. The loser is
// abandoned. If the decisive computation failed, the failure is re-raised.
func Race2[A, B any](a kont.Eff[A], b kont.Eff[B]) kont.Eff[kont.Either[A, B]] {
	op := raceOp{subs: []kont.Expr[outcome]{eraseEff(a), eraseEff(b)}}
	return kont.Bind(kont.Perform(op), func(w raceWin) kont.Eff[kont.Either[A, B]] {
		if w.index == 0 {
			return kont.Pure(kont.Left[A, B](w.value.(A)))
		}
		return kont.Pure(kont.Right[A](w.value.(B)))
	})
}

// RaceAll runs any number of same-typed computations concurrently and
// completes with the first finisher tagged by its position. Losers are
// abandoned. If the decisive computation failed, the failure is
// re-raised. RaceAll of nothing panics.
func RaceAll[T any](subs ...kont.Eff[T]) kont.Eff[Winner[T]] {
	erased := make([]kont.Expr[outcome], len(subs))
	for i, c := range subs {
		erased[i] = eraseEff(c)
	}
	return kont.Bind(kont.Perform(raceOp{subs: erased}), func(w raceWin) kont.Eff[Winner[T]] {
		return kont.Pure(Winner[T]{Index: w.index, Value: w.value.(T)})
	})
}

func joinAllUnwind[T any](_, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	vs := current.([]kont.Resumed)
	out := make([]T, len(vs))
	for i, v := range vs {
		out[i] = v.(T)
	}
	return kont.Erased(out), kont.ReturnFrame{}
}

// ExprJoinAll is the Expr-world [JoinAll].
func ExprJoinAll[T any](subs ...kont.Expr[T]) kont.Expr[[]T] {
	erased := make([]kont.Expr[outcome], len(subs))
	for i, m := range subs {
		erased[i] = eraseExpr(m)
	}
	bf := kont.AcquireUnwindFrame()
	bf.Unwind = joinAllUnwind[T]
	ef := kont.AcquireEffectFrame()
	ef.Operation = joinOp{subs: erased}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[[]T](ef)
}

func raceAllUnwind[T any](_, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	w := current.(raceWin)
	return kont.Erased(Winner[T]{Index: w.index, Value: w.value.(T)}), kont.ReturnFrame{}
}

// ExprRaceAll is the Expr-world [RaceAll].
func ExprRaceAll[T any](subs ...kont.Expr[T]) kont.Expr[Winner[T]] {
	erased := make([]kont.Expr[outcome], len(subs))
	for i, m := range subs {
		erased[i] = eraseExpr(m)
	}
	bf := kont.AcquireUnwindFrame()
	bf.Unwind = raceAllUnwind[T]
	ef := kont.AcquireEffectFrame()
	ef.Operation = raceOp{subs: erased}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[Winner[T]](ef)
}
