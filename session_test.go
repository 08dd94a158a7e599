package main

import (
	"math/rand"
	"testing"
)

// recorder is a Sender that keeps every envelope it was handed. Envelopes
// are appended on the session loop; tests read them only after settle(),
// whose reply channel orders the accesses.
type recorder struct {
	envs []Envelope
}

func (r *recorder) SendEnvelope(env Envelope) {
	r.envs = append(r.envs, env)
}

func (r *recorder) byType(evt string) []Envelope {
	var out []Envelope
	for _, env := range r.envs {
		if env.T == evt {
			out = append(out, env)
		}
	}
	return out
}

func newTestSession(t *testing.T) *Session {
	t.Helper()
	course := NewCourse(5, rand.New(rand.NewSource(1)))
	s := NewSession(course, NewTelemetry(nil))
	go s.Run()
	t.Cleanup(s.Stop)
	return s
}

// settle waits until all previously queued events have run.
func settle(s *Session) {
	s.PeersOnline()
}

func TestJoinSendsCourseAndSnapshot(t *testing.T) {
	s := newTestSession(t)
	a := &recorder{}
	s.Join("a", a)
	settle(s)

	if len(a.envs) != 2 {
		t.Fatalf("newcomer got %d envelopes, want course + snapshot", len(a.envs))
	}
	if a.envs[0].T != EvtCurrentObstacles {
		t.Errorf("first envelope = %s, want %s", a.envs[0].T, EvtCurrentObstacles)
	}
	offsets, ok := a.envs[0].Data.([]int)
	if !ok || len(offsets) != 5 {
		t.Errorf("course payload = %#v, want 5 offsets", a.envs[0].Data)
	}

	if a.envs[1].T != EvtCurrentPlayers {
		t.Errorf("second envelope = %s, want %s", a.envs[1].T, EvtCurrentPlayers)
	}
	snap, ok := a.envs[1].Data.(map[string]Player)
	if !ok {
		t.Fatalf("snapshot payload = %#v", a.envs[1].Data)
	}
	if len(snap) != 1 || snap["a"].Name != DefaultPlayerName {
		t.Errorf("snapshot = %v, want just the newcomer", snap)
	}
}

func TestJoinAnnouncesOnlyToOthers(t *testing.T) {
	s := newTestSession(t)
	a := &recorder{}
	b := &recorder{}
	s.Join("a", a)
	s.Join("b", b)
	settle(s)

	anns := a.byType(EvtNewPlayer)
	if len(anns) != 1 {
		t.Fatalf("first peer saw %d newPlayer events, want 1", len(anns))
	}
	if p := anns[0].Data.(Player); p.ID != "b" {
		t.Errorf("announced player = %s, want b", p.ID)
	}
	if len(b.byType(EvtNewPlayer)) != 0 {
		t.Error("newcomer was announced to itself")
	}
	// The second snapshot contains both peers.
	snap := b.envs[1].Data.(map[string]Player)
	if len(snap) != 2 {
		t.Errorf("second snapshot has %d players, want 2", len(snap))
	}
}

func TestMoveRelaysToEveryoneButSender(t *testing.T) {
	s := newTestSession(t)
	a, b, c := &recorder{}, &recorder{}, &recorder{}
	s.Join("a", a)
	s.Join("b", b)
	s.Join("c", c)

	s.Move("a", MoveMsg{X: 42, Y: 10, Angle: -20, Dist: 300, Obstacle: 3})
	settle(s)

	for name, rec := range map[string]*recorder{"b": b, "c": c} {
		moved := rec.byType(EvtPlayerHasMoved)
		if len(moved) != 1 {
			t.Fatalf("peer %s saw %d relays, want 1", name, len(moved))
		}
		p := moved[0].Data.(Player)
		if p.ID != "a" || p.X != 42 || p.Obstacle != 3 {
			t.Errorf("peer %s relayed state = %+v", name, p)
		}
	}
	if len(a.byType(EvtPlayerHasMoved)) != 0 {
		t.Error("movement was echoed back to the sender")
	}
}

func TestMoveFromUnknownConnectionIsDropped(t *testing.T) {
	s := newTestSession(t)
	a := &recorder{}
	s.Join("a", a)

	s.Move("ghost", MoveMsg{X: 1})
	settle(s)

	if len(a.byType(EvtPlayerHasMoved)) != 0 {
		t.Error("sample from an unknown connection was relayed")
	}
}

func TestSubmitScoreBroadcastsToAll(t *testing.T) {
	s := newTestSession(t)
	a, b := &recorder{}, &recorder{}
	s.Join("a", a)
	s.Join("b", b)

	s.SetName("a", "Ace")
	s.SubmitScore("a", 12)
	settle(s)

	for name, rec := range map[string]*recorder{"a": a, "b": b} {
		lists := rec.byType(EvtHighScoreList)
		if len(lists) != 1 {
			t.Fatalf("peer %s saw %d ranking updates, want 1", name, len(lists))
		}
		list := lists[0].Data.([]ScoreEntry)
		if len(list) != 1 || list[0].PlayerName != "Ace" || list[0].Score != 12 {
			t.Errorf("peer %s ranking = %v", name, list)
		}
	}
}

func TestRenameDoesNotRewriteHistory(t *testing.T) {
	s := newTestSession(t)
	a := &recorder{}
	s.Join("a", a)

	s.SetName("a", "Ace")
	s.SubmitScore("a", 5)
	s.SetName("a", "Bob")
	s.SubmitScore("a", 3)
	settle(s)

	list := s.Highscores()
	if len(list) != 2 {
		t.Fatalf("board has %d entries, want 2", len(list))
	}
	if list[0].PlayerName != "Ace" || list[1].PlayerName != "Bob" {
		t.Errorf("board = %v, want the first entry still under Ace", list)
	}
}

func TestLeaveNotifiesRemainingPeers(t *testing.T) {
	s := newTestSession(t)
	a, b := &recorder{}, &recorder{}
	s.Join("a", a)
	s.Join("b", b)

	s.Leave("b")
	settle(s)

	gone := a.byType(EvtDisconnect)
	if len(gone) != 1 {
		t.Fatalf("remaining peer saw %d disconnect events, want 1", len(gone))
	}
	if gone[0].Data.(string) != "b" {
		t.Errorf("disconnect payload = %v, want b", gone[0].Data)
	}
	if n := s.PeersOnline(); n != 1 {
		t.Errorf("PeersOnline() = %d after leave, want 1", n)
	}

	// A duplicate disconnect must not produce a second notice.
	s.Leave("b")
	settle(s)
	if len(a.byType(EvtDisconnect)) != 1 {
		t.Error("duplicate leave produced another disconnect event")
	}
}

func TestScoreFromUnknownConnectionIsDropped(t *testing.T) {
	s := newTestSession(t)
	a := &recorder{}
	s.Join("a", a)

	s.SubmitScore("ghost", 99)
	settle(s)

	if len(a.byType(EvtHighScoreList)) != 0 {
		t.Error("score from an unknown connection reached the board")
	}
	if len(s.Highscores()) != 0 {
		t.Error("board recorded a score from an unknown connection")
	}
}
