// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sched provides a single-goroutine cooperative task runtime via
// algebraic effects on [code.hybscloud.com/kont].
//
// Computations are suspendable kont values driven to completion by an
// event [Loop]. Suspension points are effect operations: sleeping on a
// timer, awaiting a spawned [Task], receiving from an [Inbox], or waiting
// on a combinator. Between suspension points one computation holds the
// goroutine; there is no parallelism and no locking in the runtime core.
//
// # Architecture
//
//   - Execution: Dual-world API supporting closure-based (Cont-world) and
//     defunctionalized (Expr-world) evaluation, bridged by [Reify]/[Reflect].
//   - Timers: A deadline-ordered red-black tree. The [Loop] alternates
//     between resuming the active strand chain and firing (or parking the
//     goroutine until) the earliest deadline.
//   - Non-blocking: Effect dispatch returns [code.hybscloud.com/iox.ErrWouldBlock]
//     at the timer and inbox boundary; a would-block dispatch parks the strand.
//   - Error Handling: Failures propagate through the normal resume path as
//     [code.hybscloud.com/kont.Either]; [Run] returns the root's value or
//     its failure. Contract violations (double resume, double consume of a
//     result) panic.
//
// # API Topologies
//
//   - Operations: [Sleep], [SleepAt], [Recv]. Dispatched by the [Loop]
//     through structural interface assertion.
//   - Cont-world: [SleepFor], [SleepUntil], [RecvFrom], [RecvBind], [Fail],
//     [Try], [Recover], [Join2], [Join3], [JoinAll], [Race2], [RaceAll],
//     [Iterate].
//   - Expr-world: [ExprSleepFor], [ExprSleepUntil], [ExprFail], [ExprJoinAll],
//     [ExprRaceAll], [ExprIterate]. Bridge via [Reify] and [Reflect].
//   - Handles: [Spawn] launches a computation alongside the root and returns
//     a single-owner [Task] whose result is read once, awaited once, or
//     abandoned.
//
// # Structured Concurrency
//
// [Join2], [Join3] and [JoinAll] wait for all sub-computations and collect
// every result in argument order. [Race2] and [RaceAll] complete with the
// first finisher, tagged by its position. In both families the first
// failure is decisive: it completes the combinator immediately and the
// remaining sub-computations are abandoned — their timer entries are
// removed and their suspensions discarded, and any failure they would have
// produced later is discarded with them.
//
// # Fan-In
//
// An [Inbox] is the only bridge across goroutine boundaries: one producer
// goroutine pushes values through a bounded lock-free SPSC queue from
// [code.hybscloud.com/lfq], and computations receive them as an effect.
// While receivers are parked the Waiting step of the [Loop] polls with
// adaptive backoff instead of sleeping through the next deadline.
//
// # Example
//
//	l := sched.New()
//	fast := kont.Then(sched.SleepFor(10*time.Millisecond), kont.Pure(1))
//	slow := kont.Then(sched.SleepFor(20*time.Millisecond), kont.Pure(2))
//	v, err := sched.Run(l, sched.Race2(fast, slow))
//	// v is Left(1): the 10ms sleeper wins
package sched
