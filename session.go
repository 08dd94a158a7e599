package main

import (
	"log"
	"strconv"
	"sync"
)

// Sender delivers one envelope to a connected peer without blocking the
// caller.
type Sender interface {
	SendEnvelope(env Envelope)
}

// Session owns all mutable game state: the player registry, the
// leaderboard and the peer set. Every mutation and query runs as a
// closure on the single Run loop, so state sees one event at a time in
// arrival order and needs no locking.
type Session struct {
	registry  *Registry
	board     *Leaderboard
	course    *Course
	peers     map[string]Sender
	telemetry *Telemetry

	events   chan func()
	stop     chan struct{}
	stopOnce sync.Once
}

// NewSession creates a session around an already-generated course.
func NewSession(course *Course, telemetry *Telemetry) *Session {
	return &Session{
		registry:  NewRegistry(),
		board:     NewLeaderboard(MaxHighScores),
		course:    course,
		peers:     make(map[string]Sender),
		telemetry: telemetry,
		events:    make(chan func(), 256),
		stop:      make(chan struct{}),
	}
}

// Run processes session events until Stop.
func (s *Session) Run() {
	for {
		select {
		case fn := <-s.events:
			fn()
		case <-s.stop:
			return
		}
	}
}

// Stop terminates the loop. Events still queued are discarded.
func (s *Session) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// do schedules fn on the session loop.
func (s *Session) do(fn func()) {
	select {
	case s.events <- fn:
	case <-s.stop:
	}
}

// Join admits a new connection: the newcomer gets the course and the
// membership snapshot, and everyone else learns about it.
func (s *Session) Join(id string, peer Sender) {
	s.do(func() {
		p := s.registry.Admit(id)
		s.peers[id] = peer
		peer.SendEnvelope(Envelope{T: EvtCurrentObstacles, Data: s.course.Offsets()})
		peer.SendEnvelope(Envelope{T: EvtCurrentPlayers, Data: s.registry.Snapshot()})
		s.broadcastOthers(id, Envelope{T: EvtNewPlayer, Data: *p})
		s.telemetry.Track(EvtPeerConnect, id, "")
		s.telemetry.SetConcurrentPeers(len(s.peers))
		log.Printf("peer %s joined (%d online)", id, len(s.peers))
	})
}

// Move stores a reported kinematic sample and relays it to every other
// peer, never back to the sender. Samples racing a disconnect are
// dropped.
func (s *Session) Move(id string, m MoveMsg) {
	s.do(func() {
		p, ok := s.registry.UpdateKinematics(id, m)
		if !ok {
			return
		}
		s.broadcastOthers(id, Envelope{T: EvtPlayerHasMoved, Data: *p})
	})
}

// SetName changes the display name used for future score submissions.
func (s *Session) SetName(id, name string) {
	s.do(func() {
		if !s.registry.SetName(id, name) {
			return
		}
		s.telemetry.Track(EvtNameChange, id, name)
	})
}

// SubmitScore records a finished run under the player's current name and
// pushes the new ranking to every peer, submitter included, so all
// clients converge on one table.
func (s *Session) SubmitScore(id string, score int) {
	s.do(func() {
		p, ok := s.registry.Get(id)
		if !ok {
			return
		}
		list := s.board.Submit(p.Name, score)
		s.broadcastAll(Envelope{T: EvtHighScoreList, Data: list})
		s.telemetry.Track(EvtScoreSubmit, id, strconv.Itoa(score))
	})
}

// Leave removes the connection and tells the remaining peers to drop the
// rendered bird. Repeated disconnects are no-ops.
func (s *Session) Leave(id string) {
	s.do(func() {
		if _, ok := s.registry.Remove(id); !ok {
			return
		}
		delete(s.peers, id)
		s.broadcastOthers(id, Envelope{T: EvtDisconnect, Data: id})
		s.telemetry.Track(EvtPeerDisconnect, id, "")
		s.telemetry.SetConcurrentPeers(len(s.peers))
		log.Printf("peer %s left (%d online)", id, len(s.peers))
	})
}

func (s *Session) broadcastOthers(origin string, env Envelope) {
	for id, peer := range s.peers {
		if id == origin {
			continue
		}
		peer.SendEnvelope(env)
	}
}

func (s *Session) broadcastAll(env Envelope) {
	for _, peer := range s.peers {
		peer.SendEnvelope(env)
	}
}

// Highscores returns the current ranking, read on the session loop.
func (s *Session) Highscores() []ScoreEntry {
	reply := make(chan []ScoreEntry, 1)
	s.do(func() { reply <- s.board.Current() })
	select {
	case list := <-reply:
		return list
	case <-s.stop:
		return nil
	}
}

// PeersOnline returns the number of admitted connections.
func (s *Session) PeersOnline() int {
	reply := make(chan int, 1)
	s.do(func() { reply <- s.registry.Len() })
	select {
	case n := <-reply:
		return n
	case <-s.stop:
		return 0
	}
}

// CourseOffsets reads the immutable course directly; no loop round-trip
// is needed for it.
func (s *Session) CourseOffsets() []int {
	return s.course.Offsets()
}
