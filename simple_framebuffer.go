// simple_framebuffer.go - fixed-geometry pre-VPU scanout helper

/*
(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import "log"

// SimpleFramebufferFormat selects the pixel layout SimpleFramebuffer reads
// out of guest RAM, mirroring the device-tree "format" property of the
// Linux simple-framebuffer binding this device stands in for.
type SimpleFramebufferFormat int

const (
	FB_FORMAT_R5G6B5 SimpleFramebufferFormat = iota
	FB_FORMAT_R8G8B8
	FB_FORMAT_X8R8G8B8
)

func bppFor(format SimpleFramebufferFormat) int {
	switch format {
	case FB_FORMAT_R5G6B5:
		return 16
	case FB_FORMAT_R8G8B8:
		return 24
	case FB_FORMAT_X8R8G8B8:
		return 32
	default:
		return 16
	}
}

// SimpleFramebuffer is a fixed-geometry, command-FIFO-less scanout path:
// a single guest physical base address, width/height/stride/format fixed
// at construction, always scanned out regardless of mode_flags. It has
// no MMIO region of its own -- firmware has no register interface to it,
// matching the device-tree-described "simple-framebuffer" binding it
// models. main.go uses it as the display sink before guest firmware has
// programmed the VPU's command FIFO at all.
type SimpleFramebuffer struct {
	base   uint32
	width  int
	height int
	stride int
	format SimpleFramebufferFormat

	mem     GuestMemory
	display VideoOutput
}

// NewSimpleFramebuffer constructs a fixed-geometry framebuffer reading
// from guest physical address base. stride of 0 derives the tightest
// packing for width/format, matching the original's "stride defaults to
// width * bytes-per-pixel when unset" behaviour.
func NewSimpleFramebuffer(mem GuestMemory, display VideoOutput, base uint32, width, height, stride int, format SimpleFramebufferFormat) *SimpleFramebuffer {
	if stride <= 0 {
		stride = width * (bppFor(format) / 8)
	}
	return &SimpleFramebuffer{
		base:    base,
		width:   width,
		height:  height,
		stride:  stride,
		format:  format,
		mem:     mem,
		display: display,
	}
}

// Scanout reads one frame out of guest RAM and writes it into the host
// display surface. Unlike the VPU it never consults mode_flags or
// SCAN_ENABLE -- this device has no command FIFO to gate on.
func (f *SimpleFramebuffer) Scanout() {
	cfg := f.display.GetDisplayConfig()
	if cfg.Width != f.width || cfg.Height != f.height {
		if err := f.display.Resize(f.width, f.height); err != nil {
			log.Printf("simple-framebuffer: resize to %dx%d failed: %v", f.width, f.height, err)
			return
		}
	}

	src := f.mem.Map(f.base, f.stride*f.height)
	if len(src) < f.stride*f.height {
		log.Printf("simple-framebuffer: base 0x%08X is not RAM-backed, skipping frame", f.base)
		return
	}

	dest := f.display.SurfaceData()
	destStride := f.display.SurfaceStride()

	for y := 0; y < f.height; y++ {
		srcRow := src[y*f.stride:]
		destRow := dest[y*destStride:]
		f.blitRow(srcRow, destRow)
	}

	f.display.UpdateRect(0, 0, f.width, f.height)
}

func (f *SimpleFramebuffer) blitRow(src, dest []byte) {
	switch f.format {
	case FB_FORMAT_R5G6B5:
		for x := 0; x < f.width; x++ {
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
	case FB_FORMAT_R8G8B8:
		for x := 0; x < f.width; x++ {
			off := x * 3
			if off+2 >= len(src) {
				return
			}
			b := uint32(src[off])
			g := uint32(src[off+1])
			r := uint32(src[off+2])
			putPixel32(dest, x, (r<<16)|(g<<8)|b)
		}
	case FB_FORMAT_X8R8G8B8:
		for x := 0; x < f.width; x++ {
			off := x * 4
			if off+3 >= len(src) {
				return
			}
			pixel := nativeEndian.Uint32(src[off:])
			putPixel32(dest, x, pixel&0x00FFFFFF)
		}
	}
}
