package match

import (
	"testing"

	"orbduel-server/internal/protocol"
)

func matchFound(sink *fakeSink) (protocol.MatchFoundMsg, bool) {
	for _, m := range sink.received() {
		if mf, ok := m.(protocol.MatchFoundMsg); ok {
			return mf, true
		}
	}
	return protocol.MatchFoundMsg{}, false
}

func TestEnqueue_FIFOPairing(t *testing.T) {
	m := NewManager([]string{"1", "5"})
	a, b, c := &fakeSink{}, &fakeSink{}, &fakeSink{}

	if err := m.Enqueue("alice", "1", a); err != nil {
		t.Fatalf("enqueue alice: %v", err)
	}
	if err := m.Enqueue("carol", "5", c); err != nil {
		t.Fatalf("enqueue carol: %v", err)
	}
	if _, ok := matchFound(a); ok {
		t.Fatal("match created with one waiter")
	}

	if err := m.Enqueue("bob", "1", b); err != nil {
		t.Fatalf("enqueue bob: %v", err)
	}

	mfA, okA := matchFound(a)
	mfB, okB := matchFound(b)
	if !okA || !okB {
		t.Fatal("paired players did not receive match_found")
	}
	if mfA.MatchID != mfB.MatchID {
		t.Fatalf("match IDs differ: %s vs %s", mfA.MatchID, mfB.MatchID)
	}
	if mfA.Role != "p1" || mfB.Role != "p2" {
		t.Fatalf("FIFO roles wrong: %s / %s", mfA.Role, mfB.Role)
	}
	if mfA.Opponent != "bob" || mfB.Opponent != "alice" {
		t.Fatalf("opponents wrong: %s / %s", mfA.Opponent, mfB.Opponent)
	}
	// Carol, on a different tier, is still waiting
	if _, ok := matchFound(c); ok {
		t.Fatal("cross-tier pairing happened")
	}
	if got := m.QueueSnapshot()["1"]; len(got) != 0 {
		t.Fatalf("tier 1 queue not drained: %v", got)
	}
	if got := m.QueueSnapshot()["5"]; len(got) != 1 || got[0] != "carol" {
		t.Fatalf("tier 5 queue = %v", got)
	}
}

func TestEnqueue_UnknownTierRejected(t *testing.T) {
	m := NewManager([]string{"1"})
	if err := m.Enqueue("alice", "1000000", &fakeSink{}); err == nil {
		t.Fatal("unknown stake tier accepted")
	}
	if err := m.StartBotMatch("alice", "1000000", &fakeSink{}); err == nil {
		t.Fatal("unknown stake tier accepted for bot match")
	}
}

func TestEnqueue_DuplicateParticipant(t *testing.T) {
	m := NewManager([]string{"1"})
	a := &fakeSink{}
	_ = m.Enqueue("alice", "1", a)
	_ = m.Enqueue("alice", "1", a)
	if _, ok := matchFound(a); ok {
		t.Fatal("participant paired against itself")
	}
	if got := m.QueueSnapshot()["1"]; len(got) != 1 {
		t.Fatalf("queue = %v, want single entry", got)
	}
}

func TestRemoveWaiting_Idempotent(t *testing.T) {
	m := NewManager([]string{"1"})
	_ = m.Enqueue("alice", "1", &fakeSink{})

	m.RemoveWaiting("alice")
	m.RemoveWaiting("alice") // absent: must be a no-op
	m.RemoveWaiting("nobody")

	if got := m.QueueSnapshot()["1"]; len(got) != 0 {
		t.Fatalf("queue = %v, want empty", got)
	}
}

func TestBotMatch_ImmediateSession(t *testing.T) {
	m := NewManager([]string{"1"})
	a := &fakeSink{}
	if err := m.StartBotMatch("alice", "1", a); err != nil {
		t.Fatalf("bot match: %v", err)
	}
	mf, ok := matchFound(a)
	if !ok {
		t.Fatal("no match_found for bot match")
	}
	if mf.Opponent != "BOT" {
		t.Fatalf("opponent = %q, want BOT", mf.Opponent)
	}
	if len(m.MatchSnapshot()) != 1 {
		t.Fatal("bot session not registered")
	}
}

func TestGameOver_DeregistersAndFansOut(t *testing.T) {
	m := NewManager([]string{"1"})
	got := make(chan protocol.FinalSummary, 1)
	m.OnGameOver = func(sum protocol.FinalSummary) { got <- sum }

	a, b := &fakeSink{}, &fakeSink{}
	_ = m.Enqueue("alice", "1", a)
	_ = m.Enqueue("bob", "1", b)
	mf, _ := matchFound(a)

	s, ok := m.Get(mf.MatchID)
	if !ok {
		t.Fatal("session not registered")
	}
	s.Post(Ready{Participant: "alice", Conn: a})
	s.Post(Ready{Participant: "bob", Conn: b})
	s.Post(Forfeit{Participant: "bob"})

	sum := <-got
	if sum.Winner != "alice" || sum.Reason != protocol.ReasonForfeit {
		t.Fatalf("summary winner=%q reason=%q", sum.Winner, sum.Reason)
	}
	if _, still := m.Get(mf.MatchID); still {
		t.Fatal("ended match still registered")
	}
}
