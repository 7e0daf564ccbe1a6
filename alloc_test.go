package gifalloc

import (
	"errors"
	"testing"
)

// countingAllocator tracks live bytes and can be told to refuse the
// allocation after the next failAfter successful ones.
type countingAllocator struct {
	live      int
	allocs    int
	frees     int
	failAfter int
}

func newCountingAllocator() *countingAllocator {
	return &countingAllocator{failAfter: -1}
}

func (a *countingAllocator) Alloc(size int) error {
	if a.failAfter == 0 {
		return errors.New("out of memory")
	}
	if a.failAfter > 0 {
		a.failAfter--
	}
	a.allocs++
	a.live += size
	return nil
}

func (a *countingAllocator) Free(size int) {
	a.frees++
	a.live -= size
}

func useAllocator(t *testing.T, a Allocator) {
	SetAllocator(a)
	t.Cleanup(func() {
		SetAllocator(nil)
	})
}
