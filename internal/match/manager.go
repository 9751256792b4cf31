package match

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"orbduel-server/internal/game"
	"orbduel-server/internal/protocol"
)

// botSentinel fills the second participant slot in bot-mode matches.
const botSentinel = game.BotID

// waiter is one queued participant.
type waiter struct {
	participant string
	conn        Sink
	since       time.Time
}

// Manager owns the per-stake-tier waiting queues and the active-match table.
// Sessions run their own goroutines; the manager only pairs, registers, and
// tears down.
type Manager struct {
	mu      sync.Mutex
	tiers   map[string]bool
	queues  map[string][]waiter // tier -> FIFO, oldest first
	matches map[string]*Session
	byPart  map[string]string // participant -> matchID

	// OnGameOver, when set, receives every terminal summary after the
	// session is deregistered. Best-effort consumers (stats, journal) hang
	// off this.
	OnGameOver func(protocol.FinalSummary)
}

// NewManager recognizes the given stake tiers; anything else is rejected.
func NewManager(tiers []string) *Manager {
	m := &Manager{
		tiers:   make(map[string]bool, len(tiers)),
		queues:  make(map[string][]waiter),
		matches: make(map[string]*Session),
		byPart:  make(map[string]string),
	}
	for _, t := range tiers {
		m.tiers[t] = true
	}
	return m
}

// Enqueue adds a participant to a tier's queue and pairs the two oldest
// waiters when the queue reaches two. First come, first served; no ranking.
func (m *Manager) Enqueue(participant, stake string, conn Sink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.tiers[stake] {
		log.Printf("lobby: unknown stake tier %q from %s", stake, participant)
		return fmt.Errorf("unknown stake tier %q", stake)
	}
	for _, w := range m.queues[stake] {
		if w.participant == participant {
			return nil // already waiting
		}
	}
	m.queues[stake] = append(m.queues[stake], waiter{participant, conn, time.Now()})
	log.Printf("lobby: %s queued at stake %s (%d waiting)", participant, stake, len(m.queues[stake]))

	if len(m.queues[stake]) < 2 {
		return nil
	}
	a, b := m.queues[stake][0], m.queues[stake][1]
	m.queues[stake] = m.queues[stake][2:]
	m.startLocked(stake, a, b, false)
	return nil
}

// StartBotMatch bypasses the queue: an immediate session against the BOT
// sentinel plus auxiliary AI.
func (m *Manager) StartBotMatch(participant, stake string, conn Sink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.tiers[stake] {
		log.Printf("lobby: unknown stake tier %q from %s", stake, participant)
		return fmt.Errorf("unknown stake tier %q", stake)
	}
	m.startLocked(stake, waiter{participant, conn, time.Now()}, waiter{}, true)
	return nil
}

func (m *Manager) startLocked(stake string, a, b waiter, botMode bool) {
	matchID := uuid.New().String()
	p2 := b.participant
	if botMode {
		p2 = botSentinel
	}
	s := NewSession(matchID, stake, a.participant, p2, botMode)
	s.OnGameOver = func(sum protocol.FinalSummary) {
		m.remove(matchID)
		if m.OnGameOver != nil {
			m.OnGameOver(sum)
		}
	}
	m.matches[matchID] = s
	m.byPart[a.participant] = matchID
	if !botMode {
		m.byPart[b.participant] = matchID
	}
	go s.Run()

	notify := func(w waiter, opponent, role string) {
		if w.conn == nil {
			return
		}
		err := w.conn.Send(protocol.MatchFoundMsg{
			Type:     protocol.TypeMatchFound,
			MatchID:  matchID,
			Opponent: opponent,
			Stake:    stake,
			Role:     role,
		})
		if err != nil {
			log.Printf("lobby: match_found to %s: %v", w.participant, err)
		}
	}
	notify(a, p2, "p1")
	if !botMode {
		notify(b, a.participant, "p2")
	}
	log.Printf("lobby: match %s created (%s vs %s, stake=%s, bot=%v)",
		matchID, a.participant, p2, stake, botMode)
}

// RemoveWaiting drops a participant from whichever queue holds it.
// Idempotent: absent participants are a no-op.
func (m *Manager) RemoveWaiting(participant string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for tier, q := range m.queues {
		for i, w := range q {
			if w.participant == participant {
				m.queues[tier] = append(q[:i], q[i+1:]...)
				log.Printf("lobby: %s left the %s queue", participant, tier)
				return
			}
		}
	}
}

// Get returns the session for a match ID.
func (m *Manager) Get(matchID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.matches[matchID]
	return s, ok
}

// HandleDisconnect covers both pre-pairing and mid-match drops: the
// participant leaves any queue, and any match it is in ends in the
// opponent's favor.
func (m *Manager) HandleDisconnect(participant string) {
	m.RemoveWaiting(participant)

	m.mu.Lock()
	matchID, ok := m.byPart[participant]
	var s *Session
	if ok {
		s = m.matches[matchID]
	}
	m.mu.Unlock()

	if s != nil {
		s.Post(Disconnect{Participant: participant})
	}
}

func (m *Manager) remove(matchID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.matches[matchID]; ok {
		info := s.Info()
		for _, p := range info.Participants {
			if m.byPart[p] == matchID {
				delete(m.byPart, p)
			}
		}
		delete(m.matches, matchID)
	}
}

// QueueSnapshot returns tier -> waiting participants, oldest first, for the
// diagnostics surface.
func (m *Manager) QueueSnapshot() map[string][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string][]string, len(m.queues))
	for tier := range m.tiers {
		ids := make([]string, 0, len(m.queues[tier]))
		for _, w := range m.queues[tier] {
			ids = append(ids, w.participant)
		}
		out[tier] = ids
	}
	return out
}

// MatchSnapshot returns the diagnostics view of every active session.
func (m *Manager) MatchSnapshot() []Info {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.matches))
	for _, s := range m.matches {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	out := make([]Info, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, s.Info())
	}
	return out
}
