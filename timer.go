// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"time"

	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// timerKey orders timer entries by expiration time, ties broken by
// insertion order. The sequence component makes every key unique, so the
// tree never overwrites one sleeper with another.
type timerKey struct {
	at  time.Time
	seq uint64
}

func compareTimerKey(a, b timerKey) int {
	switch {
	case a.at.Before(b.at):
		return -1
	case b.at.Before(a.at):
		return 1
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	}
	return 0
}

// timerEntry records one sleeping strand. It lives exactly as long as the
// strand is registered: firing or abandonment removes it from the tree.
type timerEntry struct {
	key    timerKey
	strand *strand
	timers *timerTree
}

// release implements parkSite for timer-parked strands: abandonment
// removes the entry so the loop never wakes a dead sleeper.
func (e *timerEntry) release(*strand) {
	e.timers.remove(e)
}

// timerTree is the deadline-ordered wait structure of a [Loop]: a
// red-black tree keyed by (expiration, insertion sequence), giving
// O(log n) insert, peek-minimum, remove-minimum, and keyed removal of an
// abandoned sleeper.
type timerTree struct {
	tree *rbt.Tree[timerKey, *timerEntry]
	seq  uint64
}

func newTimerTree() *timerTree {
	return &timerTree{tree: rbt.NewWith[timerKey, *timerEntry](compareTimerKey)}
}

func (tt *timerTree) insert(at time.Time, s *strand) *timerEntry {
	tt.seq++
	e := &timerEntry{key: timerKey{at: at, seq: tt.seq}, strand: s, timers: tt}
	tt.tree.Put(e.key, e)
	return e
}

// min returns the entry with the earliest deadline without removing it.
func (tt *timerTree) min() (*timerEntry, bool) {
	node := tt.tree.Left()
	if node == nil {
		return nil, false
	}
	return node.Value, true
}

func (tt *timerTree) remove(e *timerEntry) {
	tt.tree.Remove(e.key)
}

func (tt *timerTree) empty() bool {
	return tt.tree.Empty()
}

func (tt *timerTree) size() int {
	return tt.tree.Size()
}
