package model

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// BufferToPool returns a scratch buffer to the pool for reuse
func BufferToPool(buf *bitset.BitSet, pool *BufferPool) {
	if pool == nil || buf == nil {
		return
	}

	pool.Put(buf)
}

// BufferPool recycles the scratch bitsets Tick writes the next generation into.
// A single pool may be shared by grids of different sizes.
type BufferPool struct {
	pool sync.Pool
}

func NewBufferPool() *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				return &bitset.BitSet{}
			},
		},
	}
}

// Get retrieves a cleared buffer holding exactly length bits
func (p *BufferPool) Get(length uint) *bitset.BitSet {
	buf := p.pool.Get().(*bitset.BitSet)
	if buf.Len() != length {
		// Wrong size for this grid, let the GC have it
		return bitset.New(length)
	}
	buf.ClearAll()
	return buf
}

// Put returns a buffer to the pool
func (p *BufferPool) Put(buf *bitset.BitSet) {
	p.pool.Put(buf)
}
