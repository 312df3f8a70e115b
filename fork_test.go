// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"errors"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/sched"
)

func TestJoin2WaitsForBoth(t *testing.T) {
	l := sched.New()

	a := sched.SleepThen(10*time.Millisecond, kont.Pure(1))
	b := sched.SleepThen(30*time.Millisecond, kont.Pure("x"))

	var p sched.Pair[int, string]
	var err error
	took := elapsed(func() {
		p, err = sched.Run(l, sched.Join2(a, b))
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if p.First != 1 || p.Second != "x" {
		t.Fatalf("got %+v, want {1 x}", p)
	}
	if took < 30*time.Millisecond {
		t.Fatalf("join took %v, want no earlier than the slowest leg", took)
	}
}

func TestJoin3ResultsInArgumentOrder(t *testing.T) {
	l := sched.New()

	// The middle leg finishes first; results still land in argument order.
	a := sched.SleepThen(20*time.Millisecond, kont.Pure(1))
	b := sched.SleepThen(5*time.Millisecond, kont.Pure("mid"))
	c := sched.SleepThen(10*time.Millisecond, kont.Pure(3.5))

	v, err := sched.Run(l, sched.Join3(a, b, c))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if v.First != 1 || v.Second != "mid" || v.Third != 3.5 {
		t.Fatalf("got %+v, want {1 mid 3.5}", v)
	}
}

func TestJoinAllRunsConcurrently(t *testing.T) {
	l := sched.New()
	const d = 40 * time.Millisecond

	subs := make([]kont.Eff[struct{}], 3)
	for i := range subs {
		subs[i] = sched.SleepFor(d)
	}

	var vs []struct{}
	var err error
	took := elapsed(func() {
		vs, err = sched.Run(l, sched.JoinAll(subs...))
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(vs) != 3 {
		t.Fatalf("got %d results, want 3", len(vs))
	}
	if took < d {
		t.Fatalf("join took %v, want no earlier than %v", took, d)
	}
	// Sequential execution would take 3*d.
	if took >= 3*d-d/2 {
		t.Fatalf("join took %v, sleeps did not interleave", took)
	}
}

func TestJoinAllEmpty(t *testing.T) {
	l := sched.New()

	vs, err := sched.Run(l, sched.JoinAll[int]())
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if len(vs) != 0 {
		t.Fatalf("got %d results, want 0", len(vs))
	}
}

func TestJoinFirstFailureIsDecisive(t *testing.T) {
	l := sched.New()
	boom := errors.New("boom")

	failing := sched.SleepThen(5*time.Millisecond, sched.Fail[int](boom))
	slow := sched.SleepThen(300*time.Millisecond, kont.Pure(2))

	var err error
	took := elapsed(func() {
		_, err = sched.Run(l, sched.Join2(failing, slow))
	})
	if !errors.Is(err, boom) {
		t.Fatalf("got error %v, want %v", err, boom)
	}
	// The slow leg is abandoned, not waited for.
	if took >= 150*time.Millisecond {
		t.Fatalf("join failed after %v, want completion at the failure", took)
	}
}

func TestRace2FirstFinisherWins(t *testing.T) {
	l := sched.New()

	fast := sched.SleepThen(10*time.Millisecond, kont.Pure(1))
	slow := sched.SleepThen(60*time.Millisecond, kont.Pure("late"))

	var v kont.Either[int, string]
	var err error
	took := elapsed(func() {
		v, err = sched.Run(l, sched.Race2(fast, slow))
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	won, ok := v.GetLeft()
	if !ok {
		t.Fatalf("got %v, want Left", v)
	}
	if won != 1 {
		t.Fatalf("winner got %d, want 1", won)
	}
	if took < 10*time.Millisecond {
		t.Fatalf("race took %v, want no earlier than the winner", took)
	}
	if took >= 45*time.Millisecond {
		t.Fatalf("race took %v, want completion at the first finisher", took)
	}
}

func TestRaceAllWinnerIndex(t *testing.T) {
	l := sched.New()

	v, err := sched.Run(l, sched.RaceAll(
		sched.SleepThen(40*time.Millisecond, kont.Pure(10)),
		sched.SleepThen(5*time.Millisecond, kont.Pure(20)),
		sched.SleepThen(40*time.Millisecond, kont.Pure(30)),
	))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if v.Index != 1 || v.Value != 20 {
		t.Fatalf("got %+v, want {1 20}", v)
	}
}

func TestRaceDecisiveFailureIsReRaised(t *testing.T) {
	l := sched.New()
	boom := errors.New("boom")

	_, err := sched.Run(l, sched.Race2(
		sched.SleepThen(5*time.Millisecond, sched.Fail[int](boom)),
		sched.SleepThen(200*time.Millisecond, kont.Pure("late")),
	))
	if !errors.Is(err, boom) {
		t.Fatalf("got error %v, want %v", err, boom)
	}
}

func TestRaceLoserIsAbandoned(t *testing.T) {
	l := sched.New()
	var log []string

	fast := kont.Bind(sched.SleepFor(5*time.Millisecond), func(struct{}) kont.Eff[int] {
		log = append(log, "fast")
		return kont.Pure(1)
	})
	slow := kont.Bind(sched.SleepFor(60*time.Millisecond), func(struct{}) kont.Eff[int] {
		log = append(log, "slow")
		return kont.Pure(2)
	})

	v, err := sched.Run(l, sched.RaceAll(fast, slow))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if v.Index != 0 {
		t.Fatalf("winner index got %d, want 0", v.Index)
	}
	if len(log) != 1 || log[0] != "fast" {
		t.Fatalf("log got %v, the abandoned loser must never resume", log)
	}
}

func TestLoserFailureIsDiscarded(t *testing.T) {
	l := sched.New()

	// The slow leg would fail, but the race is decided before it does.
	v, err := sched.Run(l, sched.Race2(
		sched.SleepThen(5*time.Millisecond, kont.Pure("winner")),
		sched.SleepThen(100*time.Millisecond, sched.Fail[int](errors.New("too late"))),
	))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if s, ok := v.GetLeft(); !ok || s != "winner" {
		t.Fatalf("got %v, want Left(winner)", v)
	}
}

func TestNestedCombinators(t *testing.T) {
	l := sched.New()

	inner := sched.Join2(
		sched.SleepThen(5*time.Millisecond, kont.Pure(1)),
		sched.SleepThen(10*time.Millisecond, kont.Pure(2)),
	)
	outer := sched.Race2(
		kont.Bind(inner, func(p sched.Pair[int, int]) kont.Eff[int] {
			return kont.Pure(p.First + p.Second)
		}),
		sched.SleepThen(200*time.Millisecond, kont.Pure(-1)),
	)

	v, err := sched.Run(l, outer)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if sum, ok := v.GetLeft(); !ok || sum != 3 {
		t.Fatalf("got %v, want Left(3)", v)
	}
}

func TestExprJoinAll(t *testing.T) {
	l := sched.New()

	vs, err := sched.RunExpr(l, sched.ExprJoinAll(
		sched.ExprSleepThen(10*time.Millisecond, kont.ExprReturn(1)),
		sched.ExprSleepThen(5*time.Millisecond, kont.ExprReturn(2)),
	))
	if err != nil {
		t.Fatalf("RunExpr error: %v", err)
	}
	if len(vs) != 2 || vs[0] != 1 || vs[1] != 2 {
		t.Fatalf("got %v, want [1 2]", vs)
	}
}

func TestExprRaceAll(t *testing.T) {
	l := sched.New()

	w, err := sched.RunExpr(l, sched.ExprRaceAll(
		sched.ExprSleepThen(40*time.Millisecond, kont.ExprReturn("slow")),
		sched.ExprSleepThen(5*time.Millisecond, kont.ExprReturn("fast")),
	))
	if err != nil {
		t.Fatalf("RunExpr error: %v", err)
	}
	if w.Index != 1 || w.Value != "fast" {
		t.Fatalf("got %+v, want {1 fast}", w)
	}
}
