package match

// Sink is the outbound side of a participant's channel. Implemented by the
// websocket conn wrapper; tests substitute an in-memory recorder.
type Sink interface {
	Send(v any) error
	Close() error
}

// Inbox commands. One variant per externally triggered event; each is
// validated against the session's participants before it touches state.

// Ready marks a participant's channel as the active transport.
type Ready struct {
	Participant string
	Conn        Sink
}

// Signature is one participant's attestation of the match terms.
type Signature struct {
	Participant string
	Signature   string
	Message     string
}

// Steer carries a pointer offset from view center.
type Steer struct {
	Participant string
	PointerX    float64
	PointerY    float64
	ViewWidth   float64
	ViewHeight  float64
}

// Boost requests a boost burst.
type Boost struct {
	Participant string
}

// Forfeit concedes the match.
type Forfeit struct {
	Participant string
}

// Disconnect reports a dropped channel. Treated as a forfeit, never as a
// pause.
type Disconnect struct {
	Participant string
}
