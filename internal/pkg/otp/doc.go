// Package otp generates short-lived numeric one-time codes.
//
// The codes are delivered out-of-band and verified against a per-user
// challenge slot; this package only covers unpredictable code generation and
// basic shape checks.
package otp
