// Package core defines sentinel errors.
package core

import "errors"

// Sentinel errors for the capture front-end and configuration. The
// admission path itself never returns errors: every rejection collapses to
// VerdictDiscard.
var (
	ErrPacketTooShort = errors.New("strix: packet too short")
	ErrBufferTooSmall = errors.New("strix: frame exceeds buffer capacity")

	ErrConfigInvalid    = errors.New("strix: invalid configuration")
	ErrNoCaptureSource  = errors.New("strix: no capture source configured")
	ErrCaptureStopped   = errors.New("strix: capture stopped")
	ErrNoEndpoints      = errors.New("strix: no endpoints configured")
	ErrDuplicateAddress = errors.New("strix: duplicate endpoint address")
)
