// render/surface.go
package render

import (
	"sync"
	"time"

	"github.com/stellarfoundry/orrery/scene"
)

// Surface receives finished frames. A windowed build wraps a GPU swapchain
// here; HeadlessSurface serves tests and server deployments.
type Surface interface {
	Draw(w *scene.World) error
	Resize(width, height int)
}

// HeadlessSurface draws nothing. It counts frames and remembers its size so
// the loop behaves identically with or without a window attached.
type HeadlessSurface struct {
	mu       sync.Mutex
	frames   int
	width    int
	height   int
	lastDraw time.Time
}

func NewHeadlessSurface(width, height int) *HeadlessSurface {
	return &HeadlessSurface{width: width, height: height}
}

// Draw implements Surface.
func (s *HeadlessSurface) Draw(*scene.World) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	s.lastDraw = time.Now()
	return nil
}

// Resize implements Surface.
func (s *HeadlessSurface) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

// Frames returns the number of Draw calls so far.
func (s *HeadlessSurface) Frames() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Size returns the current surface dimensions.
func (s *HeadlessSurface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// LastDraw returns when Draw last ran, zero before the first frame.
func (s *HeadlessSurface) LastDraw() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastDraw
}
