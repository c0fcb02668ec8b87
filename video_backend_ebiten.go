//go:build !headless

// video_backend_ebiten.go - ebiten/v2 host display backend

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenOutput presents the VPU's scanned-out surface in a resizable
// window. The surface is a plain 32-bit-per-pixel byte slice the VPU
// writes into directly (via SurfaceData); Draw blits it into an ebiten
// image once per host frame.
type EbitenOutput struct {
	mu     sync.RWMutex
	width  int
	height int
	title  string

	surface []byte
	image   *ebiten.Image

	running    bool
	fullscreen bool
	frameCount uint64
	readyOnce  sync.Once
	ready      chan struct{}
}

func NewEbitenOutput() (VideoOutput, error) {
	return &EbitenOutput{
		width:   640,
		height:  480,
		title:   "Sandpiper media core",
		surface: make([]byte, 640*480*4),
		ready:   make(chan struct{}, 1),
	}, nil
}

func (eo *EbitenOutput) Start() error {
	eo.mu.Lock()
	if eo.running {
		eo.mu.Unlock()
		return nil
	}
	eo.running = true
	eo.mu.Unlock()

	ebiten.SetWindowSize(eo.width, eo.height)
	ebiten.SetWindowTitle(eo.title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)

	go func() {
		if err := ebiten.RunGame(eo); err != nil {
			fmt.Printf("ebiten: %v\n", err)
		}
	}()

	<-eo.ready
	return nil
}

func (eo *EbitenOutput) Stop() error {
	eo.mu.Lock()
	defer eo.mu.Unlock()
	eo.running = false
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

func (eo *EbitenOutput) IsStarted() bool {
	eo.mu.RLock()
	defer eo.mu.RUnlock()
	return eo.running
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	return eo.Resize(config.Width, config.Height)
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	eo.mu.RLock()
	defer eo.mu.RUnlock()
	return DisplayConfig{Width: eo.width, Height: eo.height, Title: eo.title}
}

// Resize reallocates the surface. The ebiten image is rebuilt lazily on
// the next Draw, since it must be created on ebiten's own goroutine.
func (eo *EbitenOutput) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return &VideoError{Op: "resize", Err: fmt.Errorf("invalid dimensions %dx%d", width, height)}
	}

	eo.mu.Lock()
	defer eo.mu.Unlock()
	eo.width = width
	eo.height = height
	eo.surface = make([]byte, width*height*4)
	eo.image = nil
	return nil
}

func (eo *EbitenOutput) SurfaceData() []byte {
	eo.mu.RLock()
	defer eo.mu.RUnlock()
	return eo.surface
}

func (eo *EbitenOutput) SurfaceStride() int {
	eo.mu.RLock()
	defer eo.mu.RUnlock()
	return eo.width * 4
}

func (eo *EbitenOutput) UpdateRect(x, y, w, h int) {
	// ebiten's Draw blits the whole surface every frame; a partial
	// invalidation hint has no separate effect on this backend.
}

func (eo *EbitenOutput) WaitForVSync() error {
	<-eo.ready
	return nil
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&eo.frameCount)
}

func (eo *EbitenOutput) GetRefreshRate() int {
	return 60
}

// Update implements ebiten.Game.
func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	eo.mu.RLock()
	running := eo.running
	eo.mu.RUnlock()
	if !running {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	eo.mu.Lock()
	if eo.image == nil {
		eo.image = ebiten.NewImage(eo.width, eo.height)
	}
	eo.image.WritePixels(eo.surface)
	eo.mu.Unlock()

	screen.DrawImage(eo.image, nil)
	atomic.AddUint64(&eo.frameCount, 1)

	select {
	case eo.ready <- struct{}{}:
	default:
	}
}

// Layout implements ebiten.Game.
func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	eo.mu.RLock()
	defer eo.mu.RUnlock()
	return eo.width, eo.height
}
