// Package control provides interventions that act on the reproduction
// number before a trial is simulated:
//
//   - [Effectiveness]: scales R0 by (1 - c) for a control effectiveness c
//   - [None]: passthrough, used when c is zero
//
// # Usage
//
//	ctrl, err := control.For(0.3)
//	r0 := ctrl.Apply(sampled) // sampled * 0.7
//
// Negative draws are passed through scaled, never truncated.
package control
