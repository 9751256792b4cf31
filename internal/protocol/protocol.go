package protocol

import "encoding/json"

// Message type tags. Inbound messages are routed by the "type" field and
// validated before touching any match state; unknown or malformed payloads
// are logged and answered with an error message, never applied.
const (
	// Client → server
	TypeJoinLobby      = "join_lobby"
	TypeMatchSignature = "match_signature"
	TypeReadyToStart   = "ready_to_start"
	TypeSteer          = "steer"
	TypeBoost          = "boost"
	TypeForfeit        = "forfeit"

	// Server → client
	TypeMatchFound       = "match_found"
	TypeWaitingSignature = "waiting_for_opponent_signature"
	TypeOpponentSigned   = "opponent_signed"
	TypeStateUpdate      = "state_update"
	TypeGameOver         = "game_over"
	TypeError            = "error"
)

// Game modes accepted in join_lobby.
const (
	ModePvP = "pvp"
	ModeBot = "bot"
)

// Termination reason tags carried by game_over.
const (
	ReasonTimeLimit  = "time_limit"
	ReasonForfeit    = "forfeit"
	ReasonDisconnect = "disconnect"
)

// BaseMessage routes an unknown inbound JSON message by its type tag.
type BaseMessage struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// JoinLobbyMsg queues for pairing at a stake tier, or starts a bot match.
type JoinLobbyMsg struct {
	Type        string `json:"type"`
	Participant string `json:"participant"`
	Stake       string `json:"stake"`
	Mode        string `json:"mode"` // "pvp" or "bot"
}

// MatchSignatureMsg carries one participant's attestation of the match terms.
// Human-vs-human matches only.
type MatchSignatureMsg struct {
	Type        string `json:"type"`
	MatchID     string `json:"match_id"`
	Participant string `json:"participant"`
	Signature   string `json:"signature"`
	Message     string `json:"message"`
}

// ReadyToStartMsg marks the sender's channel as the active transport for the
// session.
type ReadyToStartMsg struct {
	Type        string `json:"type"`
	MatchID     string `json:"match_id"`
	Participant string `json:"participant"`
}

// SteerMsg is the mouse-move equivalent: a pointer offset from view center,
// converted server-side into an absolute heading.
type SteerMsg struct {
	Type        string  `json:"type"`
	MatchID     string  `json:"match_id"`
	Participant string  `json:"participant"`
	PointerX    float64 `json:"x"`
	PointerY    float64 `json:"y"`
	ViewWidth   float64 `json:"vw"`
	ViewHeight  float64 `json:"vh"`
}

// BoostMsg requests a boost burst, subject to the affordability rule.
type BoostMsg struct {
	Type        string `json:"type"`
	MatchID     string `json:"match_id"`
	Participant string `json:"participant"`
}

// ForfeitMsg concedes the match to the opponent.
type ForfeitMsg struct {
	Type        string `json:"type"`
	MatchID     string `json:"match_id"`
	Participant string `json:"participant"`
}

// MatchFoundMsg tells a paired participant who they face and in what role.
type MatchFoundMsg struct {
	Type     string `json:"type"`
	MatchID  string `json:"match_id"`
	Opponent string `json:"opponent"`
	Stake    string `json:"stake"`
	Role     string `json:"role"` // "p1" or "p2"
}

// SignatureStatusMsg is both the waiting_for_opponent_signature and
// opponent_signed notification; only the type tag differs.
type SignatureStatusMsg struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id"`
}

// ErrorMsg reports a rejected request back to the sender.
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
