// guest_memory.go - guest physical memory accessor shared by APU/VPU/VCP

/*
(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"encoding/binary"
	"sync"
)

// GuestMemory is the narrow contract the media core needs from guest
// physical RAM: a synchronous byte copy for DMA loads, and a direct-pointer
// mapping for scanout. None of APU/VPU/VCP ever writes guest memory.
type GuestMemory interface {
	// ReadBytes copies len(buf) bytes starting at addr into buf. Reads
	// that run past the end of backing RAM are truncated; the untouched
	// tail of buf is left as-is.
	ReadBytes(addr uint32, buf []byte)

	// Map returns a direct slice view of length want bytes starting at
	// addr, or nil if addr is not backed by RAM (e.g. addr is itself an
	// MMIO hole, or the requested range runs off the end of memory).
	// The returned slice aliases the backing store; callers must not
	// retain it past the current scanout/DMA operation.
	Map(addr uint32, want int) []byte
}

// FlatGuestMemory is a GuestMemory backed by one contiguous byte slice,
// the shape simulators use to stand in for a guest's physical address
// space. It is guarded by a mutex since scanout, APU pull-callbacks and
// VCP program loads all run from different host call sites.
type FlatGuestMemory struct {
	mu  sync.RWMutex
	ram []byte
}

// NewFlatGuestMemory allocates size bytes of zeroed guest RAM.
func NewFlatGuestMemory(size int) *FlatGuestMemory {
	return &FlatGuestMemory{ram: make([]byte, size)}
}

func (m *FlatGuestMemory) ReadBytes(addr uint32, buf []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a := int(addr)
	if a >= len(m.ram) {
		return
	}
	n := copy(buf, m.ram[a:])
	_ = n
}

func (m *FlatGuestMemory) Map(addr uint32, want int) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a := int(addr)
	if a < 0 || a >= len(m.ram) {
		return nil
	}
	end := a + want
	if end > len(m.ram) {
		end = len(m.ram)
	}
	return m.ram[a:end]
}

// Write is a test/bootstrap convenience; the media devices themselves
// never call it, but loaders and scenario tests populate RAM through it.
func (m *FlatGuestMemory) Write(addr uint32, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a := int(addr)
	if a >= len(m.ram) {
		return
	}
	copy(m.ram[a:], data)
}

var nativeEndian = binary.LittleEndian
