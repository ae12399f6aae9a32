// Package authsession drives client-side authentication attempts from start
// to resolution. A Service starts sessions from account credentials or a QR
// challenge; each Session owns one attempt and exposes the guard
// confirmation resolver, a single-shot Poll, and the cancellable Wait loop
// that carries the attempt to a terminal state.
package authsession
