// vpu.go - command-FIFO video scanout engine with VBLANK-gated page flip

/*
(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"log"
	"sync"
	"time"
)

// mode_flags bitfield.
const (
	VMODE_SCAN_ENABLE = 1 << 0
	VMODE_WIDTH_640   = 1 << 1
	VMODE_DEPTH_16BPP = 1 << 2
	VMODE_SCAN_DOUBLE = 1 << 3
)

// FIFO command opcodes (low byte of the command word).
const (
	CMD_SETVPAGE        = 0x00
	CMD_FINALIZE        = 0x01
	CMD_VMODE           = 0x02
	CMD_SHIFTCACHE      = 0x03
	CMD_SHIFTSCANOUT    = 0x04
	CMD_SHIFTPIXEL      = 0x05
	CMD_SETSECONDBUFFER = 0x06
	CMD_SYNCSWAP        = 0x07
	CMD_WCONTROLREG     = 0x08
)

const VPU_FIFO_CAPACITY = 1024

// VPU is the video scanout engine: a 1024-word command FIFO feeding a
// small latched-opcode/parameter state machine, a VBLANK-gated page flip,
// and the scanout routine that turns guest RAM into host surface pixels.
//
// VPU exclusively owns the Palette; the VCP only ever holds a borrowed
// pointer to it (see vcp.go). The VPU drives the VCP with a downward call
// on every scanline of scanout -- there is no back-reference from VCP to
// VPU.
type VPU struct {
	mu sync.Mutex

	vpage        uint32
	secondBuffer uint32
	modeFlags    uint32

	cmdPending    bool
	pendingOpcode uint32

	fifo      [VPU_FIFO_CAPACITY]uint32
	fifoHead  int
	fifoTail  int
	fifoCount int

	swapPending  bool
	vblankToggle bool

	palette *Palette
	vcp     *VCP
	mem     GuestMemory
	display VideoOutput

	started bool
	stopCh  chan struct{}
}

func NewVPU(mem GuestMemory, display VideoOutput) *VPU {
	v := &VPU{
		mem:       mem,
		display:   display,
		palette:   NewPalette(),
		modeFlags: VMODE_SCAN_ENABLE | VMODE_WIDTH_640 | VMODE_DEPTH_16BPP,
	}
	v.vcp = NewVCP(mem, v.palette)
	return v
}

func (v *VPU) Palette() *Palette { return v.palette }
func (v *VPU) VCP() *VCP         { return v.vcp }

// Start launches the 60Hz VBLANK/scanout loop.
func (v *VPU) Start() {
	v.mu.Lock()
	if v.started {
		v.mu.Unlock()
		return
	}
	v.started = true
	v.stopCh = make(chan struct{})
	v.mu.Unlock()

	go v.refreshLoop()
}

func (v *VPU) Stop() {
	v.mu.Lock()
	if !v.started {
		v.mu.Unlock()
		return
	}
	v.started = false
	close(v.stopCh)
	v.mu.Unlock()
}

func (v *VPU) refreshLoop() {
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case <-v.stopCh:
			return
		case <-ticker.C:
			v.vblankTick()
			v.scanout()
		}
	}
}

// HandleRead implements the status register at offset 0: bit 0 =
// vblank_toggle, bit 11 = FIFO non-empty.
func (v *VPU) HandleRead(offset uint32) uint32 {
	v.mu.Lock()
	defer v.mu.Unlock()

	var status uint32
	if v.vblankToggle {
		status |= 1
	}
	if v.fifoCount > 0 {
		status |= 1 << 11
	}
	return status
}

// HandleWrite implements the command FIFO enqueue at offset 0.
func (v *VPU) HandleWrite(offset uint32, value uint32) {
	if offset != 0 {
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.enqueue(value)
	v.processCommandsLocked()
}

func (v *VPU) enqueue(word uint32) {
	if v.fifoCount == VPU_FIFO_CAPACITY {
		log.Printf("vpu: fifo overflow, dropping command 0x%08X", word)
		return
	}
	v.fifo[v.fifoTail] = word
	v.fifoTail = (v.fifoTail + 1) % VPU_FIFO_CAPACITY
	v.fifoCount++
}

func (v *VPU) dequeue() (uint32, bool) {
	if v.fifoCount == 0 {
		return 0, false
	}
	word := v.fifo[v.fifoHead]
	v.fifoHead = (v.fifoHead + 1) % VPU_FIFO_CAPACITY
	v.fifoCount--
	return word, true
}

// processCommandsLocked drains the FIFO until it's empty or a SYNCSWAP
// barrier is hit. Callers must hold v.mu.
func (v *VPU) processCommandsLocked() {
	for !v.swapPending {
		word, ok := v.dequeue()
		if !ok {
			return
		}

		if v.cmdPending {
			switch v.pendingOpcode {
			case CMD_SETVPAGE:
				v.vpage = word
			case CMD_VMODE:
				v.modeFlags = word
			case CMD_SETSECONDBUFFER:
				v.secondBuffer = word
			case CMD_SHIFTCACHE, CMD_SHIFTSCANOUT, CMD_SHIFTPIXEL:
				// parameter acknowledged, behaviourally inert
			}
			v.cmdPending = false
			continue
		}

		opcode := word & 0xFF
		switch opcode {
		case CMD_SETVPAGE, CMD_VMODE, CMD_SETSECONDBUFFER,
			CMD_SHIFTCACHE, CMD_SHIFTSCANOUT, CMD_SHIFTPIXEL:
			v.pendingOpcode = opcode
			v.cmdPending = true
		case CMD_SYNCSWAP:
			v.swapPending = true
		case CMD_WCONTROLREG, CMD_FINALIZE:
			// acknowledged, inert in this core
		default:
			log.Printf("vpu: unknown command opcode 0x%02X", opcode)
		}
	}
}

// vblankTick fires once per 1/60s: toggles vblank_toggle, retires any
// pending page flip, then resumes draining the FIFO (commands queued
// behind a SYNCSWAP barrier can now proceed).
func (v *VPU) vblankTick() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.vblankToggle = !v.vblankToggle
	if v.swapPending {
		v.vpage, v.secondBuffer = v.secondBuffer, v.vpage
		v.swapPending = false
	}
	v.processCommandsLocked()
}

// dims returns the scanout width, height, bpp, and source stride implied
// by the current mode_flags.
func (v *VPU) dims() (width, height, bpp, stride int) {
	if v.modeFlags&VMODE_WIDTH_640 != 0 {
		width = 640
	} else {
		width = 320
	}
	if v.modeFlags&VMODE_SCAN_DOUBLE != 0 {
		height = 240
	} else {
		height = 480
	}
	if v.modeFlags&VMODE_DEPTH_16BPP != 0 {
		bpp = 16
	} else {
		bpp = 8
	}
	if width == 320 && bpp == 8 {
		stride = 384
	} else {
		stride = width * (bpp / 8)
	}
	return
}

// scanout reads the current front buffer out of guest RAM and renders it
// into the host surface, driving the VCP once per scanline along the way.
func (v *VPU) scanout() {
	v.mu.Lock()
	if v.modeFlags&VMODE_SCAN_ENABLE == 0 {
		v.mu.Unlock()
		return
	}
	width, height, bpp, stride := v.dims()
	vpage := v.vpage
	palette := v.palette
	v.mu.Unlock()

	cfg := v.display.GetDisplayConfig()
	if cfg.Width != width || cfg.Height != height {
		if err := v.display.Resize(width, height); err != nil {
			log.Printf("vpu: resize to %dx%d failed: %v", width, height, err)
			return
		}
	}

	src := v.mem.Map(vpage, stride*height)
	if len(src) < stride*height {
		log.Printf("vpu: vpage 0x%08X is not RAM-backed, skipping frame", vpage)
		return
	}

	dest := v.display.SurfaceData()
	destStride := v.display.SurfaceStride()

	for y := 0; y < height; y++ {
		v.vcp.Run(y, width-1)

		srcRow := src[y*stride:]
		destRow := dest[y*destStride:]
		if bpp == 8 {
			scanline8bpp(srcRow, destRow, width, palette)
		} else {
			scanline16bpp(srcRow, destRow, width)
		}
	}

	v.display.UpdateRect(0, 0, width, height)
}

func scanline8bpp(src, dest []byte, width int, palette *Palette) {
	for x := 0; x < width && x < len(src); x++ {
		idx := uint32(src[x])
		var pixel uint32
		if palette != nil {
			pixel = palette.Get(idx)
		} else {
			pixel = idx * 0x010101
		}
		putPixel32(dest, x, pixel)
	}
}

func scanline16bpp(src, dest []byte, width int) {
	for x := 0; x < width; x++ {
		off := x * 2
		if off+1 >= len(src) {
			return
		}
		pixel := uint16(src[off]) | uint16(src[off+1])<<8

		r := uint32(pixel>>11) & 0x1F
		g := uint32(pixel>>5) & 0x3F
		b := uint32(pixel) & 0x1F

		r = (r << 3) | (r >> 2)
		g = (g << 2) | (g >> 4)
		b = (b << 3) | (b >> 2)

		putPixel32(dest, x, (r<<16)|(g<<8)|b)
	}
}

func putPixel32(dest []byte, x int, pixel uint32) {
	off := x * 4
	if off+3 >= len(dest) {
		return
	}
	nativeEndian.PutUint32(dest[off:], pixel)
}

// Reset restores power-on defaults.
func (v *VPU) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.vpage = 0
	v.secondBuffer = 0
	v.modeFlags = VMODE_SCAN_ENABLE | VMODE_WIDTH_640 | VMODE_DEPTH_16BPP
	v.cmdPending = false
	v.pendingOpcode = 0
	v.fifoHead, v.fifoTail, v.fifoCount = 0, 0, 0
	v.swapPending = false
	v.vblankToggle = false
	v.palette.Reset()
	v.vcp.Reset()
}
