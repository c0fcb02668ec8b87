// registers.go - Sandpiper media subsystem MMIO region map

/*
(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

// Each device occupies a 4 KiB region. Only offset 0 is meaningful for
// APU/VPU/VCP control; Palette uses offset/4 as a register index across
// the whole region.
const (
	REGION_SIZE = 0x1000

	APU_BASE = 0xF0000
	APU_END  = APU_BASE + REGION_SIZE - 1

	PALETTE_BASE = 0xF1000
	PALETTE_END  = PALETTE_BASE + REGION_SIZE - 1

	VPU_BASE = 0xF2000
	VPU_END  = VPU_BASE + REGION_SIZE - 1

	VCP_BASE = 0xF3000
	VCP_END  = VCP_BASE + REGION_SIZE - 1
)

// IsAPUAddress reports whether addr falls inside the APU's MMIO region.
func IsAPUAddress(addr uint32) bool {
	return addr >= APU_BASE && addr <= APU_END
}

// IsPaletteAddress reports whether addr falls inside the Palette's MMIO region.
func IsPaletteAddress(addr uint32) bool {
	return addr >= PALETTE_BASE && addr <= PALETTE_END
}

// IsVPUAddress reports whether addr falls inside the VPU's MMIO region.
func IsVPUAddress(addr uint32) bool {
	return addr >= VPU_BASE && addr <= VPU_END
}

// IsVCPAddress reports whether addr falls inside the VCP's MMIO region.
func IsVCPAddress(addr uint32) bool {
	return addr >= VCP_BASE && addr <= VCP_END
}

// GetIORegion returns a human-readable name for the device owning addr, or
// "" if addr isn't claimed by any Sandpiper media device.
func GetIORegion(addr uint32) string {
	switch {
	case IsAPUAddress(addr):
		return "APU"
	case IsPaletteAddress(addr):
		return "Palette"
	case IsVPUAddress(addr):
		return "VPU"
	case IsVCPAddress(addr):
		return "VCP"
	default:
		return ""
	}
}
