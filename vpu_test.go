package main

import "testing"

type mockVideoOutput struct {
	width, height int
	surface       []byte
	stride        int
	resizeCalls   int
	updateRects   [][4]int
}

func newMockVideoOutput(w, h int) *mockVideoOutput {
	return &mockVideoOutput{
		width:   w,
		height:  h,
		stride:  w * 4,
		surface: make([]byte, w*h*4),
	}
}

func (m *mockVideoOutput) Start() error { return nil }
func (m *mockVideoOutput) Stop() error  { return nil }
func (m *mockVideoOutput) Close() error { return nil }
func (m *mockVideoOutput) IsStarted() bool { return true }

func (m *mockVideoOutput) SetDisplayConfig(config DisplayConfig) error {
	return m.Resize(config.Width, config.Height)
}
func (m *mockVideoOutput) GetDisplayConfig() DisplayConfig {
	return DisplayConfig{Width: m.width, Height: m.height}
}
func (m *mockVideoOutput) Resize(width, height int) error {
	m.resizeCalls++
	m.width, m.height = width, height
	m.stride = width * 4
	m.surface = make([]byte, width*height*4)
	return nil
}
func (m *mockVideoOutput) SurfaceData() []byte    { return m.surface }
func (m *mockVideoOutput) SurfaceStride() int     { return m.stride }
func (m *mockVideoOutput) UpdateRect(x, y, w, h int) {
	m.updateRects = append(m.updateRects, [4]int{x, y, w, h})
}
func (m *mockVideoOutput) WaitForVSync() error { return nil }
func (m *mockVideoOutput) GetFrameCount() uint64 { return 0 }
func (m *mockVideoOutput) GetRefreshRate() int    { return 60 }

func newVPUTestRig() (*VPU, *FlatGuestMemory, *mockVideoOutput) {
	mem := NewFlatGuestMemory(1 << 20)
	disp := newMockVideoOutput(640, 480)
	vpu := NewVPU(mem, disp)
	return vpu, mem, disp
}

func pixelAt32(dest []byte, stride, x, y int) uint32 {
	off := y*stride + x*4
	return nativeEndian.Uint32(dest[off:])
}

// TestVPUPaletteScanout: 8bpp 320-wide mode (stride 384),
// a guest page with byte 0x42 at offset 0, palette[0x42] = 0x00AABBCC;
// the top-left pixel must equal that colour.
func TestVPUPaletteScanout(t *testing.T) {
	vpu, mem, disp := newVPUTestRig()

	vpu.HandleWrite(0, CMD_VMODE)
	vpu.HandleWrite(0, VMODE_SCAN_ENABLE) // 320 wide, 8bpp, not double

	const vpage = 0x10000
	mem.Write(vpage, []byte{0x42})

	vpu.HandleWrite(0, CMD_SETVPAGE)
	vpu.HandleWrite(0, vpage)

	vpu.Palette().Set(0x42, 0x00AABBCC)

	vpu.scanout()

	if disp.resizeCalls == 0 {
		t.Fatalf("expected a resize for 320x480 mode")
	}
	if got := pixelAt32(disp.surface, disp.stride, 0, 0); got != 0x00AABBCC {
		t.Fatalf("top-left pixel = 0x%08X, want 0x00AABBCC", got)
	}
}

func TestVPU16bppScanout(t *testing.T) {
	vpu, mem, disp := newVPUTestRig()

	// default mode_flags already SCAN_ENABLE|WIDTH_640|DEPTH_16BPP
	const vpage = 0x20000
	// RGB565 white: r=31,g=63,b=31 -> 0xFFFF
	mem.Write(vpage, []byte{0xFF, 0xFF})

	vpu.HandleWrite(0, CMD_SETVPAGE)
	vpu.HandleWrite(0, vpage)

	vpu.scanout()

	if got := pixelAt32(disp.surface, disp.stride, 0, 0); got != 0x00FFFFFF {
		t.Fatalf("top-left pixel = 0x%08X, want 0x00FFFFFF", got)
	}
}

func TestVPUScanDisabledSkipsFrame(t *testing.T) {
	vpu, mem, disp := newVPUTestRig()
	vpu.HandleWrite(0, CMD_VMODE)
	vpu.HandleWrite(0, 0) // SCAN_ENABLE clear

	const vpage = 0x30000
	mem.Write(vpage, []byte{0xFF, 0xFF})
	vpu.HandleWrite(0, CMD_SETVPAGE)
	vpu.HandleWrite(0, vpage)

	before := append([]byte(nil), disp.surface...)
	vpu.scanout()
	for i := range before {
		if disp.surface[i] != before[i] {
			t.Fatalf("scanout must be a no-op when SCAN_ENABLE is clear")
		}
	}
}

// TestVPUSyncSwap: SETVPAGE p; SYNCSWAP; SETVPAGE q. Before
// VBLANK, vpage==p and q is not yet applied. After one VBLANK tick, vpage
// and second_buffer swap, then the queued SETVPAGE q executes.
func TestVPUSyncSwap(t *testing.T) {
	vpu, _, _ := newVPUTestRig()

	const p, q = 0x1000, 0x2000
	vpu.HandleWrite(0, CMD_SETVPAGE)
	vpu.HandleWrite(0, p)

	if vpu.vpage != p {
		t.Fatalf("vpage = 0x%x, want 0x%x", vpu.vpage, p)
	}

	vpu.HandleWrite(0, CMD_SYNCSWAP)
	vpu.HandleWrite(0, CMD_SETVPAGE)
	vpu.HandleWrite(0, q)

	// Barrier: q must not be visible yet.
	if vpu.vpage != p {
		t.Fatalf("SYNCSWAP barrier violated: vpage = 0x%x before VBLANK", vpu.vpage)
	}
	if !vpu.cmdPending && vpu.fifoCount == 0 {
		t.Fatalf("expected SETVPAGE q queued behind the barrier")
	}

	vpu.vblankTick()

	if vpu.secondBuffer != p {
		t.Fatalf("expected second_buffer == p after swap, got 0x%x", vpu.secondBuffer)
	}
	if vpu.vpage != q {
		t.Fatalf("expected queued SETVPAGE q to apply after swap, vpage = 0x%x", vpu.vpage)
	}
}

// TestVPUSwapClearedOnlyAtVBlank: the barrier
// stays set across writes until the VBLANK tick retires it.
func TestVPUSwapClearedOnlyAtVBlank(t *testing.T) {
	vpu, _, _ := newVPUTestRig()

	vpu.HandleWrite(0, CMD_SYNCSWAP)
	if !vpu.swapPending {
		t.Fatalf("expected swap_pending after SYNCSWAP")
	}
	vpu.HandleWrite(0, CMD_SETVPAGE) // stalls behind the barrier
	if !vpu.swapPending {
		t.Fatalf("swap_pending must survive further writes until VBLANK")
	}
	vpu.vblankTick()
	if vpu.swapPending {
		t.Fatalf("swap_pending must clear exactly at VBLANK")
	}
}

func TestVPUFIFOOrdering(t *testing.T) {
	vpu, _, _ := newVPUTestRig()

	vpu.HandleWrite(0, CMD_SETVPAGE)
	vpu.HandleWrite(0, 0xAAAA)
	if vpu.vpage != 0xAAAA {
		t.Fatalf("first command not applied before second enqueued")
	}
	vpu.HandleWrite(0, CMD_SETVPAGE)
	vpu.HandleWrite(0, 0xBBBB)
	if vpu.vpage != 0xBBBB {
		t.Fatalf("second command should supersede the first, in order")
	}
}

func TestVPUFIFOOverflowDropsCommand(t *testing.T) {
	vpu, _, _ := newVPUTestRig()

	// Stall draining behind a barrier, then flood the FIFO past capacity.
	vpu.HandleWrite(0, CMD_SYNCSWAP)
	for i := 0; i < VPU_FIFO_CAPACITY+10; i++ {
		vpu.HandleWrite(0, CMD_WCONTROLREG)
	}
	if vpu.fifoCount != VPU_FIFO_CAPACITY {
		t.Fatalf("fifoCount = %d, want capacity %d (overflow must be dropped)", vpu.fifoCount, VPU_FIFO_CAPACITY)
	}
}

func TestVPUStatusRegister(t *testing.T) {
	vpu, _, _ := newVPUTestRig()

	if status := vpu.HandleRead(0); status&(1<<11) != 0 {
		t.Fatalf("expected FIFO-empty status bit clear initially")
	}
	vpu.HandleWrite(0, CMD_SYNCSWAP) // leaves nothing queued behind it once drained
	vpu.HandleWrite(0, CMD_SETVPAGE)
	if status := vpu.HandleRead(0); status&(1<<11) == 0 {
		t.Fatalf("expected FIFO-non-empty status bit set with a command stalled behind a barrier")
	}
}

func TestVPUReset(t *testing.T) {
	vpu, _, _ := newVPUTestRig()

	vpu.HandleWrite(0, CMD_SETVPAGE)
	vpu.HandleWrite(0, 0x9999)
	vpu.Reset()

	if vpu.vpage != 0 || vpu.fifoCount != 0 || vpu.swapPending {
		t.Fatalf("Reset did not restore power-on defaults: %+v", vpu)
	}
	if vpu.modeFlags != VMODE_SCAN_ENABLE|VMODE_WIDTH_640|VMODE_DEPTH_16BPP {
		t.Fatalf("Reset did not restore default mode_flags, got 0x%x", vpu.modeFlags)
	}
}
