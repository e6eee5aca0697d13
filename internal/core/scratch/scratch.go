// Package scratch hands out per-invocation working buffers for sort-based
// passes. Buffers are sized to exactly the requested count and are always
// returned through With, whatever the callback does.
package scratch

import (
	"errors"
	"fmt"
	"sync"
)

// ErrExhausted is returned when a request exceeds the arena limit.
var ErrExhausted = errors.New("scratch arena exhausted")

// Frame is one acquisition: a key array, its indirection permutation, the
// radix sort's ping-pong buffers and a payload array of the same length.
type Frame[T any] struct {
	Keys        []uint32
	Indirection []uint32
	TmpKeys     []uint32
	TmpIndex    []uint32
	Payload     []T
}

// Arena recycles frames between acquisitions. It is safe for concurrent use.
// A pooled frame keeps only its capacity: release zeroes the payload and
// truncates every slice, so nothing from one tick is visible to the next.
type Arena[T any] struct {
	limit int
	pool  sync.Pool
	live  sync.WaitGroup
}

// NewArena creates an arena that refuses requests above limit entries
// (limit <= 0 means unbounded).
func NewArena[T any](limit int) *Arena[T] {
	return &Arena[T]{limit: limit}
}

// With acquires a frame of length n, calls fn and releases the frame on every
// exit path, including a panic in fn.
func (a *Arena[T]) With(n int, fn func(*Frame[T]) error) error {
	f, err := a.acquire(n)
	if err != nil {
		return err
	}
	defer a.release(f)
	return fn(f)
}

// Wait blocks until every outstanding frame has been released.
func (a *Arena[T]) Wait() { a.live.Wait() }

func (a *Arena[T]) acquire(n int) (*Frame[T], error) {
	if n < 0 || (a.limit > 0 && n > a.limit) {
		return nil, fmt.Errorf("%w: requested %d, limit %d", ErrExhausted, n, a.limit)
	}
	f, _ := a.pool.Get().(*Frame[T])
	if f == nil {
		f = &Frame[T]{}
	}
	f.Keys = grow(f.Keys, n)
	f.Indirection = grow(f.Indirection, n)
	f.TmpKeys = grow(f.TmpKeys, n)
	f.TmpIndex = grow(f.TmpIndex, n)
	if cap(f.Payload) < n {
		f.Payload = make([]T, n)
	}
	f.Payload = f.Payload[:n]
	a.live.Add(1)
	return f, nil
}

// release zeroes the payload so no entity references outlive the frame.
func (a *Arena[T]) release(f *Frame[T]) {
	clear(f.Payload[:cap(f.Payload)])
	f.Keys = f.Keys[:0]
	f.Indirection = f.Indirection[:0]
	f.TmpKeys = f.TmpKeys[:0]
	f.TmpIndex = f.TmpIndex[:0]
	f.Payload = f.Payload[:0]
	a.pool.Put(f)
	a.live.Done()
}

func grow(s []uint32, n int) []uint32 {
	if cap(s) < n {
		return make([]uint32, n)
	}
	return s[:n]
}
