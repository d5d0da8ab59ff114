package comm

type EventKind int

// EventKind values
const (
	LinkOpened EventKind = iota
	LinkClosed
	DataReceived
)

// Event is a serial link notification: a state transition or data arriving
// from the board.
type Event struct {
	Kind EventKind
	Data []byte
}
