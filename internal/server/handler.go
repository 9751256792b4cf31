package server

import (
	"encoding/json"
	"log"

	"orbduel-server/internal/match"
	"orbduel-server/internal/protocol"
)

// Handler routes validated inbound messages to the matchmaking manager and
// the per-match sessions. Invalid requests are logged, answered with an
// error message, and otherwise ignored; they never reach a simulation.
type Handler struct {
	Manager *match.Manager
}

func NewHandler(m *match.Manager) *Handler {
	return &Handler{Manager: m}
}

func (h *Handler) HandleMessage(c *Conn, raw []byte) {
	base, err := protocol.DecodeBase(raw)
	if err != nil {
		h.reject(c, protocol.ErrBadRequest, "malformed JSON")
		return
	}

	switch base.Type {
	case protocol.TypeJoinLobby:
		var msg protocol.JoinLobbyMsg
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Participant == "" {
			h.reject(c, protocol.ErrBadRequest, "bad join_lobby")
			return
		}
		c.SetParticipant(msg.Participant)
		h.handleJoin(c, msg)

	case protocol.TypeMatchSignature:
		var msg protocol.MatchSignatureMsg
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Participant == "" {
			h.reject(c, protocol.ErrBadRequest, "bad match_signature")
			return
		}
		h.post(c, msg.MatchID, match.Signature{
			Participant: msg.Participant,
			Signature:   msg.Signature,
			Message:     msg.Message,
		})

	case protocol.TypeReadyToStart:
		var msg protocol.ReadyToStartMsg
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Participant == "" {
			h.reject(c, protocol.ErrBadRequest, "bad ready_to_start")
			return
		}
		c.SetParticipant(msg.Participant)
		h.post(c, msg.MatchID, match.Ready{Participant: msg.Participant, Conn: c})

	case protocol.TypeSteer:
		var msg protocol.SteerMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			return // steering is high-rate; drop silently
		}
		h.post(c, msg.MatchID, match.Steer{
			Participant: msg.Participant,
			PointerX:    msg.PointerX,
			PointerY:    msg.PointerY,
			ViewWidth:   msg.ViewWidth,
			ViewHeight:  msg.ViewHeight,
		})

	case protocol.TypeBoost:
		var msg protocol.BoostMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			return
		}
		h.post(c, msg.MatchID, match.Boost{Participant: msg.Participant})

	case protocol.TypeForfeit:
		var msg protocol.ForfeitMsg
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Participant == "" {
			h.reject(c, protocol.ErrBadRequest, "bad forfeit")
			return
		}
		h.post(c, msg.MatchID, match.Forfeit{Participant: msg.Participant})

	default:
		log.Printf("conn %s: unknown message type %q", c.ID, base.Type)
		h.reject(c, protocol.ErrBadRequest, "unknown message type")
	}
}

func (h *Handler) handleJoin(c *Conn, msg protocol.JoinLobbyMsg) {
	var err error
	switch msg.Mode {
	case protocol.ModeBot:
		err = h.Manager.StartBotMatch(msg.Participant, msg.Stake, c)
	case protocol.ModePvP, "":
		err = h.Manager.Enqueue(msg.Participant, msg.Stake, c)
	default:
		h.reject(c, protocol.ErrBadRequest, "unknown mode")
		return
	}
	if err != nil {
		h.reject(c, protocol.ErrUnknownStake, err.Error())
	}
}

// post delivers a command to the session owning matchID.
func (h *Handler) post(c *Conn, matchID string, cmd any) {
	s, ok := h.Manager.Get(matchID)
	if !ok {
		log.Printf("conn %s: %T for unknown match %s", c.ID, cmd, matchID)
		h.reject(c, protocol.ErrMatchNotFound, "no such match")
		return
	}
	s.Post(cmd)
}

// HandleDisconnect is invoked by the read loop when a channel drops.
func (h *Handler) HandleDisconnect(c *Conn) {
	p := c.Participant()
	log.Printf("conn %s disconnected (participant=%q)", c.ID, p)
	if p == "" {
		return
	}
	h.Manager.HandleDisconnect(p)
}

func (h *Handler) reject(c *Conn, code, msg string) {
	_ = c.Send(protocol.ErrorMsg{Type: protocol.TypeError, Code: code, Message: msg})
}
