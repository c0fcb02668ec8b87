//go:build headless

package main

import "sync/atomic"

type OtoPlayer struct {
	apu    *APU
	active atomic.Bool
	rate   int
}

func NewOtoPlayer(apu *APU) (*OtoPlayer, error) {
	return &OtoPlayer{apu: apu}, nil
}

func (op *OtoPlayer) Open(sampleRate int) error {
	op.rate = sampleRate
	return nil
}

func (op *OtoPlayer) SetActive(active bool) {
	op.active.Store(active)
}

func (op *OtoPlayer) IsActive() bool {
	return op.active.Load()
}

func (op *OtoPlayer) Close() error {
	op.active.Store(false)
	return nil
}
