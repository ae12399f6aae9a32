// Package transport carries authentication service requests over a concrete
// channel.
//
// The engine depends only on the Transport interface: send one typed request
// record, decode one typed response record. HTTPTransport implements it over
// the JSON web API; tests script their own implementation. PushListener is
// the optional second half of the boundary, a stream of guard-completion
// events, implemented here over a websocket.
package transport
