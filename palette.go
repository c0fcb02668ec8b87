// palette.go - 256-entry indexed colour lookup table owned by the VPU

/*
(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"log"
	"sync"
)

const PALETTE_ENTRIES = 256

// Palette is a flat 256-entry register file of 0x00RRGGBB values. It is
// exclusively owned by the VPU and reached by the VCP through a borrowed
// pointer (see vcp.go) -- the VCP never owns or resets it.
type Palette struct {
	mu      sync.RWMutex
	entries [PALETTE_ENTRIES]uint32
}

func NewPalette() *Palette {
	return &Palette{}
}

// Get returns entries[idx], or 0 if idx is out of range.
func (p *Palette) Get(idx uint32) uint32 {
	if idx >= PALETTE_ENTRIES {
		log.Printf("palette: read index %d out of range", idx)
		return 0
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.entries[idx]
}

// Set writes entries[idx] = value, dropping out-of-range writes.
func (p *Palette) Set(idx uint32, value uint32) {
	if idx >= PALETTE_ENTRIES {
		log.Printf("palette: write index %d out of range", idx)
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries[idx] = value
}

// HandleRead implements the MMIO read port: word-addressed, 4 bytes per
// entry, offset/4 selects the index.
func (p *Palette) HandleRead(offset uint32) uint32 {
	return p.Get(offset / 4)
}

// HandleWrite implements the MMIO write port.
func (p *Palette) HandleWrite(offset uint32, value uint32) {
	p.Set(offset/4, value)
}

// Reset clears every entry back to 0.
func (p *Palette) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.entries {
		p.entries[i] = 0
	}
}
