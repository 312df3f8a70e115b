// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"time"

	"code.hybscloud.com/kont"
)

// SleepFor suspends the computation for d.
// Wraps Perform(Sleep{D: d}); the deadline is taken when the sleep is
// reached, not when the computation value is built.
func SleepFor(d time.Duration) kont.Eff[struct{}] {
	return kont.Perform(Sleep{D: d})
}

// SleepUntil suspends the computation until t.
// Wraps Perform(SleepAt{At: t}). A t in the past resumes without parking.
func SleepUntil(t time.Time) kont.Eff[struct{}] {
	return kont.Perform(SleepAt{At: t})
}

// SleepThen sleeps for d and then continues with next.
// Fuses Perform(Sleep{D: d}) + Then.
func SleepThen[B any](d time.Duration, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Sleep{D: d}), next)
}

// RecvFrom receives the next value from b.
// Wraps Perform(Recv[T]{From: b}).
func RecvFrom[T any](b *Inbox[T]) kont.Eff[T] {
	return kont.Perform(Recv[T]{From: b})
}

// RecvBind receives a value from b and passes it to f.
// Fuses Perform(Recv[T]{From: b}) + Bind.
func RecvBind[T, B any](b *Inbox[T], f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv[T]{From: b}), f)
}
