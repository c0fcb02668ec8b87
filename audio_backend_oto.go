//go:build !headless

// audio_backend_oto.go - oto/v3 audio output implementation

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

	"github.com/ebitengine/oto/v3"
)

// otoContextRate is the rate the oto context is opened at. oto/v3 allows
// exactly one context per process, so the voice is opened once at the
// highest rate the hardware supports; the lower rates are produced by
// frame repetition in Read (22050 and 11025 divide 44100 exactly).
const otoContextRate = 44100

// OtoPlayer drives an oto/v3 voice from the APU's ring buffer. The pull
// callback (Read) always emits interleaved stereo S16LE, matching the
// host audio backend contract; SetActive gates it without tearing the
// oto.Context down, so SETRATE HALT/resume is cheap.
type OtoPlayer struct {
	apu atomic.Pointer[APU] // lock-free hot path for Read()

	ctx    *oto.Context
	player *oto.Player

	sampleBuf []int16
	active    atomic.Bool
	repeat    atomic.Int32 // output frames per APU frame (otoContextRate / rate)

	// One APU frame may straddle two Read calls when the requested byte
	// count isn't a multiple of the repetition factor. Only oto's pull
	// goroutine touches these.
	carry     [2]int16
	carryLeft int

	mutex sync.Mutex
}

// NewOtoPlayer opens the host voice eagerly so a missing audio backend is
// reported at construction time, before any guest command arrives.
func NewOtoPlayer(apu *APU) (*OtoPlayer, error) {
	opts := &oto.NewContextOptions{
		SampleRate:   otoContextRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   0,
	}

	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, err
	}
	<-ready

	op := &OtoPlayer{
		ctx:       ctx,
		sampleBuf: make([]int16, 4096),
	}
	op.apu.Store(apu)
	op.repeat.Store(1)
	op.player = ctx.NewPlayer(op)
	return op, nil
}

// Open selects the voice's effective sample rate. The underlying context
// stays at otoContextRate; the slower rates repeat each APU frame 2x/4x.
func (op *OtoPlayer) Open(sampleRate int) error {
	if sampleRate <= 0 || otoContextRate%sampleRate != 0 {
		return fmt.Errorf("oto: unsupported sample rate %d", sampleRate)
	}
	op.repeat.Store(int32(otoContextRate / sampleRate))
	return nil
}

func (op *OtoPlayer) SetActive(active bool) {
	op.active.Store(active)

	op.mutex.Lock()
	defer op.mutex.Unlock()
	if op.player == nil {
		return
	}
	if active {
		op.player.Play()
	} else {
		op.player.Pause()
	}
}

func (op *OtoPlayer) IsActive() bool {
	return op.active.Load()
}

// Read implements io.Reader for oto.Context.NewPlayer: p is a byte buffer
// to fill with interleaved S16LE stereo frames at otoContextRate.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	apu := op.apu.Load()
	if apu == nil || !op.active.Load() {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	frames := len(p) / 4 // stereo S16 frames
	repeat := int(op.repeat.Load())
	if repeat < 1 {
		repeat = 1
	}

	out := 0
	for op.carryLeft > 0 && out < frames {
		nativeEndian.PutUint16(p[out*4:], uint16(op.carry[0]))
		nativeEndian.PutUint16(p[out*4+2:], uint16(op.carry[1]))
		op.carryLeft--
		out++
	}

	need := (frames - out + repeat - 1) / repeat
	if need > 0 {
		if len(op.sampleBuf) < need*2 {
			op.sampleBuf = make([]int16, need*2)
		}
		buf := op.sampleBuf[:need*2]
		apu.ReadSamples(buf)

		for i := 0; i < need; i++ {
			l, r := buf[i*2], buf[i*2+1]
			reps := repeat
			for reps > 0 && out < frames {
				nativeEndian.PutUint16(p[out*4:], uint16(l))
				nativeEndian.PutUint16(p[out*4+2:], uint16(r))
				reps--
				out++
			}
			if reps > 0 {
				op.carry = [2]int16{l, r}
				op.carryLeft = reps
			}
		}
	}

	for i := frames * 4; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}

func (op *OtoPlayer) Close() error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.active.Store(false)
	if op.player != nil {
		err := op.player.Close()
		op.player = nil
		return err
	}
	return nil
}
