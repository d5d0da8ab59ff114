// Package session arbitrates which single remote client may issue control
// input. The arbiter holds zero or one client identifier at any instant.
package session

import "log"

// Arbiter is the control session state machine. Not safe for concurrent use;
// all transitions must run on the same goroutine that routes control data.
type Arbiter struct {
	holder string
}

func NewArbiter() *Arbiter {
	return &Arbiter{}
}

// Request claims control for a client. Granted when the session is unclaimed
// or when the client already holds it; denied while another client does.
func (a *Arbiter) Request(client string) bool {
	switch a.holder {
	case "":
		a.holder = client
		return true
	case client:
		return true
	default:
		return false
	}
}

// Release gives up control. Only the current holder can release; requests
// from anyone else are ignored and unacknowledged.
func (a *Arbiter) Release(client string) bool {
	if a.holder != client || client == "" {
		return false
	}
	a.holder = ""
	return true
}

// Disconnect clears the session if the departing client was the holder. The
// client is gone, so no acknowledgement is sent.
func (a *Arbiter) Disconnect(client string) {
	if client != "" && a.holder == client {
		log.Println("remote controller disconnected, releasing control")
		a.holder = ""
	}
}

// Authorized reports whether control data from the client may be routed.
func (a *Arbiter) Authorized(client string) bool {
	return client != "" && a.holder == client
}

// Holder returns the current session holder, if any.
func (a *Arbiter) Holder() (string, bool) {
	return a.holder, a.holder != ""
}
