// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched_test

import (
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/sched"
)

func TestSleepForWakesNoEarlier(t *testing.T) {
	l := sched.New()
	const d = 20 * time.Millisecond

	var v int
	var err error
	took := elapsed(func() {
		v, err = sched.Run(l, sched.SleepThen(d, kont.Pure(1)))
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
	if took < d {
		t.Fatalf("woke after %v, want no earlier than %v", took, d)
	}
}

func TestSleepUntilPastResumesWithoutBlocking(t *testing.T) {
	l := sched.New()

	took := elapsed(func() {
		_, err := sched.Run(l, sched.SleepUntil(time.Now().Add(-time.Second)))
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
	})
	// An already-expired deadline fires on the same pass; nothing parks.
	if took > 10*time.Millisecond {
		t.Fatalf("past deadline took %v, want immediate", took)
	}
}

func TestSleepForNonPositive(t *testing.T) {
	l := sched.New()

	took := elapsed(func() {
		_, err := sched.Run(l, sched.SleepFor(0))
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
	})
	if took > 10*time.Millisecond {
		t.Fatalf("zero sleep took %v, want immediate", took)
	}
}

func TestSleepUntilWakesAtDeadline(t *testing.T) {
	l := sched.New()
	const d = 15 * time.Millisecond
	deadline := time.Now().Add(d)

	_, err := sched.Run(l, kont.Bind(sched.SleepUntil(deadline), func(struct{}) kont.Eff[struct{}] {
		if time.Now().Before(deadline) {
			t.Errorf("resumed before the deadline")
		}
		return kont.Pure(struct{}{})
	}))
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
}

func TestExprSleepFor(t *testing.T) {
	l := sched.New()
	const d = 15 * time.Millisecond

	var v string
	var err error
	took := elapsed(func() {
		v, err = sched.RunExpr(l, sched.ExprSleepThen(d, kont.ExprReturn("awake")))
	})
	if err != nil {
		t.Fatalf("RunExpr error: %v", err)
	}
	if v != "awake" {
		t.Fatalf("got %q, want %q", v, "awake")
	}
	if took < d {
		t.Fatalf("woke after %v, want no earlier than %v", took, d)
	}
}

func TestExprSleepUntilPast(t *testing.T) {
	l := sched.New()

	took := elapsed(func() {
		_, err := sched.RunExpr(l, sched.ExprSleepUntil(time.Now().Add(-time.Minute)))
		if err != nil {
			t.Fatalf("RunExpr error: %v", err)
		}
	})
	if took > 10*time.Millisecond {
		t.Fatalf("past deadline took %v, want immediate", took)
	}
}

func TestExprSleepForWakesNoEarlier(t *testing.T) {
	l := sched.New()
	const d = 10 * time.Millisecond

	took := elapsed(func() {
		_, err := sched.RunExpr(l, sched.ExprSleepFor(d))
		if err != nil {
			t.Fatalf("RunExpr error: %v", err)
		}
	})
	if took < d {
		t.Fatalf("woke after %v, want no earlier than %v", took, d)
	}
}

func TestSequentialSleepsAccumulate(t *testing.T) {
	l := sched.New()
	const d = 10 * time.Millisecond

	took := elapsed(func() {
		_, err := sched.Run(l, sched.SleepThen(d, sched.SleepThen(d, kont.Pure(struct{}{}))))
		if err != nil {
			t.Fatalf("Run error: %v", err)
		}
	})
	if took < 2*d {
		t.Fatalf("two chained sleeps took %v, want no earlier than %v", took, 2*d)
	}
}
