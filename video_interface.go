// video_interface.go - host display backend contract

/*
(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "fmt"

type VideoError struct {
	Op  string
	Err error
}

func (e *VideoError) Error() string {
	return fmt.Sprintf("video: %s: %v", e.Op, e.Err)
}

func (e *VideoError) Unwrap() error {
	return e.Err
}

// DisplayConfig describes the surface the VPU scans into.
type DisplayConfig struct {
	Width  int
	Height int
	Title  string
}

// VideoOutput is the host display backend contract: a console handle
// supporting resize, a direct byte-slice view of its surface, the
// surface's row stride, and a dirty-rectangle hint.
type VideoOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig

	// SurfaceData returns a direct view of the 32-bit-per-pixel surface.
	// Resize must be called first if the VPU's mode changed dimensions.
	SurfaceData() []byte
	// SurfaceStride returns the row stride of SurfaceData, in bytes.
	SurfaceStride() int
	// Resize reallocates the surface to width x height 32bpp pixels.
	Resize(width, height int) error
	// UpdateRect flags the given rectangle as needing a host redraw.
	UpdateRect(x, y, w, h int)

	WaitForVSync() error
	GetFrameCount() uint64
	GetRefreshRate() int
}

const VIDEO_BACKEND_EBITEN = 0

// NewVideoOutput constructs the host display backend. Only one concrete
// backend exists (ebiten); the parameter is kept for symmetry with
// NewSoundOutput and to leave room for a future backend.
func NewVideoOutput(backend int) (VideoOutput, error) {
	return NewEbitenOutput()
}
