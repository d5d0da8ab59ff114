package remote

import "github.com/hullworks/machineroom/helm"

type EventKind int

// EventKind values
const (
	ControlRequest EventKind = iota
	ControlRelease
	ControlData
	TargetCommand
	ClientDisconnect
)

// Event is one already-authenticated client message, or a disconnect
// notification. Client is an opaque per-connection identifier.
type Event struct {
	Kind   EventKind
	Client string

	// ControlData only.
	Update helm.ControlUpdate

	// TargetCommand only.
	Target string
	Value  int
}
