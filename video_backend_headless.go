//go:build headless

package main

import "sync/atomic"

type HeadlessVideoOutput struct {
	started bool
	config  DisplayConfig
	surface []byte
	frames  uint64
}

func NewEbitenOutput() (VideoOutput, error) {
	return &HeadlessVideoOutput{
		config:  DisplayConfig{Width: 640, Height: 480},
		surface: make([]byte, 640*480*4),
	}, nil
}

func (h *HeadlessVideoOutput) Start() error {
	h.started = true
	return nil
}

func (h *HeadlessVideoOutput) Stop() error {
	h.started = false
	return nil
}

func (h *HeadlessVideoOutput) Close() error {
	h.started = false
	return nil
}

func (h *HeadlessVideoOutput) IsStarted() bool {
	return h.started
}

func (h *HeadlessVideoOutput) SetDisplayConfig(config DisplayConfig) error {
	return h.Resize(config.Width, config.Height)
}

func (h *HeadlessVideoOutput) GetDisplayConfig() DisplayConfig {
	return h.config
}

func (h *HeadlessVideoOutput) Resize(width, height int) error {
	h.config.Width = width
	h.config.Height = height
	h.surface = make([]byte, width*height*4)
	return nil
}

func (h *HeadlessVideoOutput) SurfaceData() []byte {
	return h.surface
}

func (h *HeadlessVideoOutput) SurfaceStride() int {
	return h.config.Width * 4
}

func (h *HeadlessVideoOutput) UpdateRect(x, y, w, h2 int) {
	atomic.AddUint64(&h.frames, 1)
}

func (h *HeadlessVideoOutput) WaitForVSync() error {
	return nil
}

func (h *HeadlessVideoOutput) GetFrameCount() uint64 {
	return atomic.LoadUint64(&h.frames)
}

func (h *HeadlessVideoOutput) GetRefreshRate() int {
	return 60
}
