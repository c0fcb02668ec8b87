// main.go - entry point wiring the Sandpiper media subsystem to a guest image

/*
(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func boilerPlate() {
	fmt.Println("Sandpiper media core - APU/Palette/VPU/VCP emulation")
	fmt.Println("(c) 2024 - 2025 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("License: GPLv3 or later")
}

// GuestRAMSize is the simulated physical address space the APU/VPU/VCP
// DMA against. It is arbitrary for this standalone core; a full-system
// integration would instead hand in the machine's real address space.
const GuestRAMSize = 16 * 1024 * 1024

func main() {
	boilerPlate()

	simpleFB := flag.Bool("simplefb", false, "bring up a fixed-geometry scanout instead of waiting for the VPU command FIFO")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Usage: ./sandpiper-media [-simplefb] <guest-ram-image>")
		os.Exit(1)
	}

	mem := NewFlatGuestMemory(GuestRAMSize)
	if err := loadGuestImage(mem, flag.Arg(0)); err != nil {
		fmt.Printf("Failed to load guest image: %v\n", err)
		os.Exit(1)
	}

	display, err := NewVideoOutput(VIDEO_BACKEND_EBITEN)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}

	if *simpleFB {
		fb := NewSimpleFramebuffer(mem, display, 0, 640, 480, 0, FB_FORMAT_R5G6B5)
		if err := display.Start(); err != nil {
			fmt.Printf("Failed to start video: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Sandpiper media core running in simple-framebuffer bring-up mode")
		ticker := time.NewTicker(time.Second / 60)
		for range ticker.C {
			fb.Scanout()
		}
	}

	vpu := NewVPU(mem, display)

	apu := NewAPU(mem, nil)
	audio, err := NewOtoPlayer(apu)
	if err != nil {
		fmt.Printf("Failed to initialize audio: %v\n", err)
		os.Exit(1)
	}
	apu.SetOutput(audio)

	bus := NewMediaBus()
	bus.MapIO(APU_BASE, APU_END, apu.HandleRead, apu.HandleWrite)
	bus.MapIO(PALETTE_BASE, PALETTE_END, vpu.Palette().HandleRead, vpu.Palette().HandleWrite)
	bus.MapIO(VPU_BASE, VPU_END, vpu.HandleRead, vpu.HandleWrite)
	bus.MapIO(VCP_BASE, VCP_END, vpu.VCP().HandleRead, vpu.VCP().HandleWrite)

	if err := display.Start(); err != nil {
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}
	vpu.Start()

	fmt.Printf("Sandpiper media core running against %s\n", os.Args[1])
	select {}
}

// loadGuestImage copies a flat binary file into guest RAM at address 0.
// Real integrations would instead have the surrounding machine populate
// guest RAM directly; this exists so the core is runnable standalone.
func loadGuestImage(mem *FlatGuestMemory, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	mem.Write(0, data)
	return nil
}
