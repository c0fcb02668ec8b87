// audio_interface.go - host audio backend contract

/*
(c) 2024 - 2025 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

// AudioOutput is the host audio backend contract: open a voice at a given
// sample rate (always interleaved stereo S16 little-endian), and gate
// whether it is actively pulling samples.
type AudioOutput interface {
	// Open (re)configures the voice for the given sample rate. Safe to
	// call while already active.
	Open(sampleRate int) error
	// SetActive starts or stops the pull callback without tearing the
	// voice down.
	SetActive(active bool)
	IsActive() bool
	Close() error
}

const AUDIO_BACKEND_OTO = 0
