package gifalloc

import "sync/atomic"

// Allocator accounts for every buffer the package creates and releases.
// Alloc is called before a buffer of size bytes is created and may refuse
// it; Free is called once the buffer has been released.
type Allocator interface {
	Alloc(size int) error
	Free(size int)
}

type heap struct{}

func (heap) Alloc(int) error { return nil }

func (heap) Free(int) {}

type allocatorHolder struct {
	a Allocator
}

var allocator atomic.Pointer[allocatorHolder]

func init() {
	allocator.Store(&allocatorHolder{heap{}})
}

// SetAllocator installs a as the package Allocator. Passing nil restores
// the default, which never fails and keeps no accounts.
func SetAllocator(a Allocator) {
	if a == nil {
		a = heap{}
	}
	allocator.Store(&allocatorHolder{a})
}

func alloc(size int) error {
	if err := allocator.Load().a.Alloc(size); err != nil {
		return ErrAllocation
	}
	return nil
}

func free(size int) {
	allocator.Load().a.Free(size)
}

func colorBytes(n int) int {
	return 3 * n
}
