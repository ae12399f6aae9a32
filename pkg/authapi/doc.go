// Package authapi defines the wire-level request and response records for the
// IAuthenticationService login flow, together with the closed enumerations the
// service uses (platform type, guard type, session persistence, EResult).
//
// The package is a pure data boundary: it performs no I/O and holds no state.
// Records carry the JSON field names the service speaks, so any transport can
// encode them directly. Callers outside pkg/transport and pkg/authsession
// normally never need to construct these records by hand.
package authapi
