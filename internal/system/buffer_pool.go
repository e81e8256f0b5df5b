package system

import (
	"image"
	"sync"
)

// FramePool reuses *image.NRGBA buffers between GIF captures to keep
// the garbage collector out of the frame loop. Buffers are keyed by size.
type FramePool struct {
	pools map[image.Rectangle]*sync.Pool
	mu    sync.RWMutex
}

// NewFramePool returns an empty pool.
func NewFramePool() *FramePool {
	return &FramePool{pools: make(map[image.Rectangle]*sync.Pool)}
}

var globalPool = NewFramePool()

// GetFrame returns a buffer of the given bounds from the shared pool.
// Its contents are undefined; callers overwrite every pixel.
func GetFrame(rect image.Rectangle) *image.NRGBA {
	return globalPool.Get(rect)
}

// PutFrame hands a buffer back to the shared pool.
func PutFrame(img *image.NRGBA) {
	globalPool.Put(img)
}

func (p *FramePool) Get(rect image.Rectangle) *image.NRGBA {
	p.mu.RLock()
	pool, exists := p.pools[rect]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[rect]
		if !exists {
			pool = &sync.Pool{
				New: func() any {
					return image.NewNRGBA(rect)
				},
			}
			p.pools[rect] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.NRGBA)
}

func (p *FramePool) Put(img *image.NRGBA) {
	if img == nil {
		return
	}
	p.mu.RLock()
	pool, exists := p.pools[img.Rect]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}
