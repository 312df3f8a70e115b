// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sched

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/lfq"
)

// defaultInboxCapacity bounds the transport ring when NewInbox is given a
// non-positive capacity.
const defaultInboxCapacity = 4

// An Inbox carries values from one producer goroutine into a [Loop].
// Transport is a bounded lock-free SPSC queue: exactly one goroutine may
// push, and the consuming side is the Recv effect dispatched by the loop.
// This is the only part of the package that crosses goroutines.
//
// Values that are nil interfaces or nil pointers follow the kont nil
// completion convention and read back as zero; wrap them if nil must be
// distinguished.
type Inbox[T any] struct {
	q      lfq.SPSC[T]
	closed atomix.Uint32
}

// NewInbox creates an Inbox whose transport ring holds capacity values.
func NewInbox[T any](capacity int) *Inbox[T] {
	if capacity <= 0 {
		capacity = defaultInboxCapacity
	}
	b := &Inbox[T]{}
	b.q.Init(capacity)
	return b
}

// TryPush enqueues v without blocking. Returns iox.ErrWouldBlock when the
// ring is full, or [ErrClosed] after Close.
func (b *Inbox[T]) TryPush(v T) error {
	if b.closed.Load() != 0 {
		return ErrClosed
	}
	return b.q.Enqueue(&v)
}

// Push enqueues v, waiting past a full ring with adaptive backoff.
// Returns [ErrClosed] after Close.
func (b *Inbox[T]) Push(v T) error {
	var bo iox.Backoff
	for {
		err := b.TryPush(v)
		if err == nil || !isWouldBlock(err) {
			return err
		}
		bo.Wait()
	}
}

// Close marks the inbox closed. Values already in the ring are still
// delivered; a Recv after the ring drains fails with [ErrClosed].
func (b *Inbox[T]) Close() {
	b.closed.Add(1)
}

// pollRecv is the non-blocking consumer probe the loop dispatches and
// re-polls: (value, nil, true) on delivery, (nil, ErrClosed, true) once
// closed and drained, ready=false while empty and open. The second
// dequeue closes the race against a producer that pushed right before
// closing.
func (b *Inbox[T]) pollRecv() (kont.Resumed, error, bool) {
	v, err := b.q.Dequeue()
	if err == nil {
		return v, nil, true
	}
	if b.closed.Load() != 0 {
		if v, err := b.q.Dequeue(); err == nil {
			return v, nil, true
		}
		return nil, ErrClosed, true
	}
	return nil, nil, false
}
