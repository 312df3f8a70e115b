// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"time"

	"code.hybscloud.com/kont"
)

// exprReturnFrame is the pre-allocated terminal frame shared by the fused
// Expr constructors, avoiding a heap escape per construction.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame
// construction. Named function produces a static function value,
// consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// ExprSleepFor suspends the computation for d (Expr-world).
func ExprSleepFor(d time.Duration) kont.Expr[struct{}] {
	ef := kont.AcquireEffectFrame()
	ef.Operation = Sleep{D: d}
	ef.Resume = identityResume
	ef.Next = exprReturnFrame
	return kont.ExprSuspend[struct{}](ef)
}

// ExprSleepUntil suspends the computation until t (Expr-world).
func ExprSleepUntil(t time.Time) kont.Expr[struct{}] {
	ef := kont.AcquireEffectFrame()
	ef.Operation = SleepAt{At: t}
	ef.Resume = identityResume
	ef.Next = exprReturnFrame
	return kont.ExprSuspend[struct{}](ef)
}

// ExprSleepThen sleeps for d and then continues with next.
// Fuses ExprPerform(Sleep{D: d}) + ExprThen.
func ExprSleepThen[B any](d time.Duration, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = Sleep{D: d}
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func recvBindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T) kont.Expr[B])
	result := f(current.(T))
	return kont.Erased(result.Value), result.Frame
}

// ExprRecvBind receives a value from b and passes it to f.
// Fuses ExprPerform(Recv[T]{From: b}) + ExprBind.
func ExprRecvBind[T, B any](b *Inbox[T], f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = recvBindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Recv[T]{From: b}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}
