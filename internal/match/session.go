package match

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"math"
	"sync"
	"time"

	"orbduel-server/internal/game"
	"orbduel-server/internal/protocol"
)

// Phase is the session lifecycle state.
type Phase int

const (
	PhaseCreated Phase = iota
	PhaseAwaitingReady
	PhaseAwaitingSignatures
	PhaseActive
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseCreated:
		return "created"
	case PhaseAwaitingReady:
		return "awaiting_ready"
	case PhaseAwaitingSignatures:
		return "awaiting_signatures"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	}
	return "unknown"
}

// Info is the diagnostics view of one session.
type Info struct {
	MatchID      string   `json:"match_id"`
	Participants []string `json:"participants"`
	Stake        string   `json:"stake"`
	Phase        string   `json:"phase"`
	Elapsed      float64  `json:"elapsed"`
	Ended        bool     `json:"ended"`
	BotMode      bool     `json:"bot_mode"`
}

// Session owns one match: its game state, the two participants' channels,
// and the ticker driving the simulation. All state is mutated only inside
// Run's goroutine; external callers post commands through the inbox.
type Session struct {
	ID        string
	Stake     string
	BotMode   bool
	CreatedAt time.Time

	// OnGameOver receives the terminal summary exactly once. Set before Run.
	OnGameOver func(protocol.FinalSummary)

	inbox chan any
	quit  chan struct{}

	// Everything below is owned by the Run goroutine.
	state      *game.State
	phase      Phase
	conns      map[string]Sink
	ready      map[string]bool
	signatures map[string]string
	ended      bool // single cancellation guard; set in finish, never cleared
	lastTick   time.Time

	infoMu sync.Mutex
	info   Info
}

// NewSession creates a match between p1 and p2. In bot mode p2 is the BOT
// sentinel and the signature step is skipped.
func NewSession(matchID, stake, p1, p2 string, botMode bool) *Session {
	aiCount := 0
	if botMode {
		aiCount = game.BotModeAICount
	}
	s := &Session{
		ID:         matchID,
		Stake:      stake,
		BotMode:    botMode,
		CreatedAt:  time.Now(),
		inbox:      make(chan any, 64),
		quit:       make(chan struct{}),
		state:      game.NewState(matchID, p1, p2, botMode, aiCount),
		phase:      PhaseAwaitingReady,
		conns:      make(map[string]Sink),
		ready:      make(map[string]bool),
		signatures: make(map[string]string),
	}
	if botMode {
		// The sentinel is always ready and never signs.
		s.ready[p2] = true
	}
	s.publishInfo()
	return s
}

// Post delivers a command to the session without blocking. A full inbox
// drops the command; steering is refreshed every mouse move, so losing one
// is harmless, and terminal commands re-arrive via the disconnect path.
func (s *Session) Post(cmd any) {
	select {
	case <-s.quit:
	case s.inbox <- cmd:
	default:
		log.Printf("match %s: inbox full, dropping %T", s.ID, cmd)
	}
}

// Run processes commands and tick timing until the session ends.
func (s *Session) Run() {
	ticker := time.NewTicker(game.TickMS * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.quit:
			return
		case cmd := <-s.inbox:
			s.handle(cmd)
		case now := <-ticker.C:
			if s.phase == PhaseActive {
				s.safeTick(now)
			}
		}
	}
}

func (s *Session) handle(cmd any) {
	switch c := cmd.(type) {
	case Ready:
		s.handleReady(c)
	case Signature:
		s.handleSignature(c)
	case Steer:
		s.handleSteer(c)
	case Boost:
		if sn := s.humanSnake(c.Participant); sn != nil {
			sn.StartBoost()
		}
	case Forfeit:
		s.handleTerminal(c.Participant, protocol.ReasonForfeit)
	case Disconnect:
		s.handleTerminal(c.Participant, protocol.ReasonDisconnect)
	default:
		log.Printf("match %s: unknown command %T", s.ID, cmd)
	}
}

func (s *Session) handleReady(c Ready) {
	if !s.isParticipant(c.Participant) {
		log.Printf("match %s: ready from non-participant %s", s.ID, c.Participant)
		return
	}
	if c.Conn != nil {
		s.conns[c.Participant] = c.Conn
	}
	s.ready[c.Participant] = true
	s.maybeAdvance()
}

func (s *Session) handleSignature(c Signature) {
	if s.BotMode {
		log.Printf("match %s: signature in bot mode ignored", s.ID)
		return
	}
	if !s.isParticipant(c.Participant) {
		log.Printf("match %s: signature from non-participant %s", s.ID, c.Participant)
		return
	}
	s.signatures[c.Participant] = c.Signature
	if len(s.signatures) < 2 {
		s.sendTo(c.Participant, protocol.SignatureStatusMsg{
			Type:    protocol.TypeWaitingSignature,
			MatchID: s.ID,
		})
		return
	}
	s.broadcast(protocol.SignatureStatusMsg{
		Type:    protocol.TypeOpponentSigned,
		MatchID: s.ID,
	})
	s.maybeAdvance()
}

func (s *Session) handleSteer(c Steer) {
	sn := s.humanSnake(c.Participant)
	if sn == nil {
		return
	}
	if c.ViewWidth <= 0 || c.ViewHeight <= 0 {
		return
	}
	dx := c.PointerX - c.ViewWidth/2
	dy := c.PointerY - c.ViewHeight/2
	if dx == 0 && dy == 0 {
		return
	}
	sn.TargetDir = math.Atan2(dy, dx)
}

// maybeAdvance walks the state machine toward Active: both participants
// ready, and for human-vs-human matches both signatures collected.
func (s *Session) maybeAdvance() {
	if s.phase != PhaseAwaitingReady && s.phase != PhaseAwaitingSignatures {
		return
	}
	if !s.ready[s.state.P1.ID] || !s.ready[s.state.P2.ID] {
		return
	}
	if !s.BotMode && len(s.signatures) < 2 {
		s.phase = PhaseAwaitingSignatures
		s.publishInfo()
		return
	}
	s.activate()
}

func (s *Session) activate() {
	s.phase = PhaseActive
	s.lastTick = time.Now()
	s.publishInfo()
	log.Printf("match %s: active (stake=%s bot=%v)", s.ID, s.Stake, s.BotMode)
	s.broadcast(protocol.BuildStateUpdate(s.state))
}

// safeTick advances the simulation one step. A panic inside the step is
// caught and logged with the match ID; the ticker simply fires again.
func (s *Session) safeTick(now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("match %s: tick panic: %v", s.ID, r)
		}
	}()

	elapsed := now.Sub(s.lastTick)
	s.lastTick = now

	s.state.Advance(float64(elapsed.Milliseconds()))
	s.publishInfo()

	if s.state.MatchEnded {
		s.finish(protocol.ReasonTimeLimit, s.state.Winner)
		return
	}
	s.broadcast(protocol.BuildStateUpdate(s.state))
}

// handleTerminal resolves forfeit and disconnect: the other participant wins.
func (s *Session) handleTerminal(participant, reason string) {
	if !s.isParticipant(participant) {
		log.Printf("match %s: %s from non-participant %s", s.ID, reason, participant)
		return
	}
	s.finish(reason, s.opponentOf(participant))
}

// finish ends the session exactly once: the ended guard makes a second
// forfeit, or a disconnect racing a timer end, a no-op.
func (s *Session) finish(reason, winner string) {
	if s.ended {
		return
	}
	s.ended = true
	s.phase = PhaseEnded
	s.publishInfo()

	summary := s.buildSummary(reason, winner)
	log.Printf("match %s: over (winner=%q reason=%s)", s.ID, winner, reason)

	s.broadcast(protocol.GameOverMsg{Type: protocol.TypeGameOver, Summary: summary})
	if s.OnGameOver != nil {
		s.OnGameOver(summary)
	}
	close(s.quit)
}

func (s *Session) buildSummary(reason, winner string) protocol.FinalSummary {
	st := s.state
	loser := ""
	if winner == st.P1.ID {
		loser = st.P2.ID
	} else if winner == st.P2.ID {
		loser = st.P1.ID
	}
	summary := protocol.FinalSummary{
		MatchID:  s.ID,
		Winner:   winner,
		Loser:    loser,
		Reason:   reason,
		Stake:    s.Stake,
		Duration: st.MatchTime,
		Players: []protocol.PlayerResult{
			{Participant: st.P1.ID, Length: st.P1.Length, Score: st.P1.Score, Kills: st.P1.Kills},
			{Participant: st.P2.ID, Length: st.P2.Length, Score: st.P2.Score, Kills: st.P2.Kills},
		},
	}
	if len(s.signatures) > 0 {
		summary.Signatures = make(map[string]string, len(s.signatures))
		for k, v := range s.signatures {
			summary.Signatures[k] = v
		}
	}
	summary.Proof = summaryProof(summary)
	return summary
}

// summaryProof digests the settlement-relevant terms. It is the fallback,
// non-cryptographic proof used when the signing relay never completed.
func summaryProof(sum protocol.FinalSummary) string {
	terms := struct {
		MatchID string                  `json:"match_id"`
		Winner  string                  `json:"winner"`
		Loser   string                  `json:"loser"`
		Reason  string                  `json:"reason"`
		Stake   string                  `json:"stake"`
		Players []protocol.PlayerResult `json:"players"`
	}{sum.MatchID, sum.Winner, sum.Loser, sum.Reason, sum.Stake, sum.Players}
	b, _ := json.Marshal(terms)
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

func (s *Session) isParticipant(id string) bool {
	if id == s.state.P1.ID {
		return true
	}
	return !s.BotMode && id == s.state.P2.ID
}

func (s *Session) opponentOf(id string) string {
	if id == s.state.P1.ID {
		return s.state.P2.ID
	}
	return s.state.P1.ID
}

func (s *Session) humanSnake(id string) *game.Snake {
	if !s.isParticipant(id) {
		log.Printf("match %s: input from non-participant %s", s.ID, id)
		return nil
	}
	return s.state.SnakeByID(id)
}

func (s *Session) sendTo(participant string, v any) {
	if c, ok := s.conns[participant]; ok {
		if err := c.Send(v); err != nil {
			log.Printf("match %s: send to %s: %v", s.ID, participant, err)
		}
	}
}

func (s *Session) broadcast(v any) {
	for p, c := range s.conns {
		if err := c.Send(v); err != nil {
			log.Printf("match %s: send to %s: %v", s.ID, p, err)
		}
	}
}

func (s *Session) publishInfo() {
	s.infoMu.Lock()
	s.info = Info{
		MatchID:      s.ID,
		Participants: []string{s.state.P1.ID, s.state.P2.ID},
		Stake:        s.Stake,
		Phase:        s.phase.String(),
		Elapsed:      s.state.MatchTime,
		Ended:        s.ended,
		BotMode:      s.BotMode,
	}
	s.infoMu.Unlock()
}

// Info returns the diagnostics view. Safe to call from any goroutine.
func (s *Session) Info() Info {
	s.infoMu.Lock()
	defer s.infoMu.Unlock()
	return s.info
}
