package match

import (
	"sync"
	"testing"
	"time"

	"orbduel-server/internal/protocol"
)

// fakeSink records everything sent to one participant.
type fakeSink struct {
	mu   sync.Mutex
	msgs []any
}

func (f *fakeSink) Send(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, v)
	return nil
}

func (f *fakeSink) Close() error { return nil }

func (f *fakeSink) received() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.msgs...)
}

func (f *fakeSink) gameOvers() []protocol.GameOverMsg {
	var out []protocol.GameOverMsg
	for _, m := range f.received() {
		if g, ok := m.(protocol.GameOverMsg); ok {
			out = append(out, g)
		}
	}
	return out
}

// readySession builds a human-vs-human session with both participants
// connected and ready, signatures pending. Commands are handled directly so
// tests stay synchronous; Run is not started.
func readySession(t *testing.T) (*Session, *fakeSink, *fakeSink) {
	t.Helper()
	s := NewSession("m-test", "1", "alice", "bob", false)
	a, b := &fakeSink{}, &fakeSink{}
	s.handle(Ready{Participant: "alice", Conn: a})
	s.handle(Ready{Participant: "bob", Conn: b})
	return s, a, b
}

func signBoth(s *Session) {
	s.handle(Signature{Participant: "alice", Signature: "sig-a", Message: "terms"})
	s.handle(Signature{Participant: "bob", Signature: "sig-b", Message: "terms"})
}

func TestSignatureGating(t *testing.T) {
	s, a, b := readySession(t)

	if s.phase != PhaseAwaitingSignatures {
		t.Fatalf("phase after both ready = %v, want awaiting_signatures", s.phase)
	}

	s.handle(Signature{Participant: "alice", Signature: "sig-a", Message: "terms"})
	if s.phase != PhaseAwaitingSignatures {
		t.Fatal("one signature must not activate the match")
	}
	found := false
	for _, m := range a.received() {
		if sm, ok := m.(protocol.SignatureStatusMsg); ok && sm.Type == protocol.TypeWaitingSignature {
			found = true
		}
	}
	if !found {
		t.Fatal("early submitter did not get waiting_for_opponent_signature")
	}

	s.handle(Signature{Participant: "bob", Signature: "sig-b", Message: "terms"})
	if s.phase != PhaseActive {
		t.Fatalf("phase after both signatures = %v, want active", s.phase)
	}
	for _, sink := range []*fakeSink{a, b} {
		signed := false
		for _, m := range sink.received() {
			if sm, ok := m.(protocol.SignatureStatusMsg); ok && sm.Type == protocol.TypeOpponentSigned {
				signed = true
			}
		}
		if !signed {
			t.Fatal("opponent_signed not broadcast to both")
		}
	}
}

func TestActivateEmitsInitialState(t *testing.T) {
	s, a, _ := readySession(t)
	signBoth(s)
	got := false
	for _, m := range a.received() {
		if _, ok := m.(protocol.StateUpdateMsg); ok {
			got = true
		}
	}
	if !got {
		t.Fatal("entering Active must emit the initial snapshot")
	}
}

func TestBotModeSkipsSignatures(t *testing.T) {
	s := NewSession("m-bot", "1", "alice", "BOT", true)
	a := &fakeSink{}
	s.handle(Ready{Participant: "alice", Conn: a})
	if s.phase != PhaseActive {
		t.Fatalf("bot-mode phase = %v, want active after single ready", s.phase)
	}
	if len(s.state.AI) == 0 {
		t.Fatal("bot-mode session has no AI roster")
	}
}

func TestForfeit_OpponentWins(t *testing.T) {
	s, a, b := readySession(t)
	signBoth(s)

	var summaries []protocol.FinalSummary
	s.OnGameOver = func(sum protocol.FinalSummary) { summaries = append(summaries, sum) }

	s.handle(Forfeit{Participant: "alice"})

	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}
	sum := summaries[0]
	if sum.Winner != "bob" || sum.Loser != "alice" {
		t.Fatalf("winner=%q loser=%q", sum.Winner, sum.Loser)
	}
	if sum.Reason != protocol.ReasonForfeit {
		t.Fatalf("reason = %q, want forfeit", sum.Reason)
	}
	if len(sum.Proof) != 64 {
		t.Fatalf("proof %q is not a sha256 hex digest", sum.Proof)
	}
	if len(a.gameOvers()) != 1 || len(b.gameOvers()) != 1 {
		t.Fatal("game_over not delivered to both participants")
	}
}

func TestIdempotentTermination(t *testing.T) {
	s, a, b := readySession(t)
	signBoth(s)

	count := 0
	s.OnGameOver = func(protocol.FinalSummary) { count++ }

	s.handle(Forfeit{Participant: "alice"})
	s.handle(Forfeit{Participant: "alice"})
	s.handle(Disconnect{Participant: "bob"})

	if count != 1 {
		t.Fatalf("terminal summary emitted %d times, want 1", count)
	}
	if len(a.gameOvers()) != 1 || len(b.gameOvers()) != 1 {
		t.Fatalf("game_over delivered %d/%d times, want once each",
			len(a.gameOvers()), len(b.gameOvers()))
	}
}

func TestDisconnect_EndsInOpponentsFavor(t *testing.T) {
	s, _, _ := readySession(t)
	signBoth(s)

	var got protocol.FinalSummary
	s.OnGameOver = func(sum protocol.FinalSummary) { got = sum }

	s.handle(Disconnect{Participant: "bob"})

	if got.Winner != "alice" || got.Reason != protocol.ReasonDisconnect {
		t.Fatalf("winner=%q reason=%q", got.Winner, got.Reason)
	}
}

func TestNonParticipantIgnored(t *testing.T) {
	s, _, _ := readySession(t)
	signBoth(s)

	ended := false
	s.OnGameOver = func(protocol.FinalSummary) { ended = true }

	s.handle(Forfeit{Participant: "mallory"})
	s.handle(Steer{Participant: "mallory", PointerX: 10, PointerY: 10, ViewWidth: 100, ViewHeight: 100})
	s.handle(Boost{Participant: "mallory"})

	if ended {
		t.Fatal("a non-participant ended the match")
	}
	if s.phase != PhaseActive {
		t.Fatalf("phase = %v, want active", s.phase)
	}
}

func TestSteerSetsTargetDirection(t *testing.T) {
	s, _, _ := readySession(t)
	signBoth(s)

	// Pointer straight right of view center
	s.handle(Steer{Participant: "alice", PointerX: 900, PointerY: 300, ViewWidth: 1200, ViewHeight: 600})
	if got := s.state.P1.TargetDir; got != 0 {
		t.Fatalf("target dir = %f, want 0 (straight right)", got)
	}

	// Pointer straight below view center (screen Y grows downward)
	s.handle(Steer{Participant: "alice", PointerX: 600, PointerY: 500, ViewWidth: 1200, ViewHeight: 600})
	if got := s.state.P1.TargetDir; got < 1.57 || got > 1.58 {
		t.Fatalf("target dir = %f, want ~π/2", got)
	}
}

func TestSessionRunLoop_TicksAndBroadcasts(t *testing.T) {
	s := NewSession("m-run", "1", "alice", "BOT", true)
	a := &fakeSink{}
	done := make(chan protocol.FinalSummary, 1)
	s.OnGameOver = func(sum protocol.FinalSummary) { done <- sum }

	go s.Run()
	s.Post(Ready{Participant: "alice", Conn: a})

	// Let a few ticks elapse, then forfeit through the inbox.
	deadline := time.After(2 * time.Second)
	for {
		updates := 0
		for _, m := range a.received() {
			if _, ok := m.(protocol.StateUpdateMsg); ok {
				updates++
			}
		}
		if updates >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no state updates observed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	s.Post(Forfeit{Participant: "alice"})
	select {
	case sum := <-done:
		if sum.Winner != "BOT" {
			t.Fatalf("winner = %q, want BOT after human forfeit", sum.Winner)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no terminal summary after forfeit")
	}
}
