/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"sync"
	"time"
)

type Phase string

const (
	PhaseLobby    Phase = "lobby"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// Player is one joined participant. ConnectionID is unique per socket;
// DisplayName is whatever the player typed in.
type Player struct {
	DisplayName  string
	ConnectionID string
}

// Session is the mutable state of one room. Players are kept in join
// order, which seeds role-assignment iteration order.
type Session struct {
	RoomID       string
	HostID       string
	Players      []Player
	CurrentRound int
	Phase        Phase

	lastActive time.Time
}

func (s *Session) snapshot() Session {
	out := *s
	out.Players = append([]Player(nil), s.Players...)
	return out
}

// Registry holds every live session, keyed by room ID. All mutations
// happen under the mutex, so no caller ever observes a torn session.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*Session
	idleTimeout time.Duration
	onExpire    func(roomID string)
}

// NewRegistry creates an empty registry. If idleTimeout is positive, a
// reaper removes sessions idle longer than that and reports each removed
// room ID via onExpire.
func NewRegistry(idleTimeout time.Duration, onExpire func(roomID string)) *Registry {
	reg := &Registry{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		onExpire:    onExpire,
	}
	if idleTimeout > 0 {
		go reg.reaperLoop()
	}
	return reg
}

const createAttempts = 100

// CreateSession allocates an unused room ID and creates an empty lobby
// session for it. With an 8-character ID space, ErrNoFreeRooms is
// practically unreachable.
func (reg *Registry) CreateSession(hostID string) (Session, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for i := 0; i < createAttempts; i++ {
		id := newRoomID()
		if _, exists := reg.sessions[id]; exists {
			continue
		}

		session := &Session{
			RoomID:     id,
			HostID:     hostID,
			Phase:      PhaseLobby,
			lastActive: time.Now(),
		}
		reg.sessions[id] = session

		return session.snapshot(), nil
	}

	return Session{}, ErrNoFreeRooms
}

func (reg *Registry) Get(roomID string) (Session, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	session, ok := reg.sessions[roomID]
	if !ok {
		return Session{}, false
	}

	return session.snapshot(), true
}

// AddPlayer appends a player to a session's roster, preserving join
// order, and returns the updated session.
func (reg *Registry) AddPlayer(roomID string, player Player) (Session, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	session, ok := reg.sessions[roomID]
	if !ok {
		return Session{}, ErrRoomNotFound
	}

	session.Players = append(session.Players, player)
	session.lastActive = time.Now()

	return session.snapshot(), nil
}

// AdvanceRound increments a session's round counter and returns the new
// value.
func (reg *Registry) AdvanceRound(roomID string) (int, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	session, ok := reg.sessions[roomID]
	if !ok {
		return 0, ErrRoomNotFound
	}

	session.CurrentRound++
	session.lastActive = time.Now()

	return session.CurrentRound, nil
}

func (reg *Registry) SetPhase(roomID string, phase Phase) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	session, ok := reg.sessions[roomID]
	if !ok {
		return ErrRoomNotFound
	}

	session.Phase = phase
	session.lastActive = time.Now()

	return nil
}

func (reg *Registry) Remove(roomID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	delete(reg.sessions, roomID)
}

func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return len(reg.sessions)
}

const roomIDLength = 8

// newRoomID generates a crypto-random room ID. Bytes above the largest
// multiple of len(letters) are rejected so every letter is drawn
// uniformly.
func newRoomID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	const max = byte(255 - (256 % len(letters)))

	out := make([]byte, 0, roomIDLength)
	buf := make([]byte, roomIDLength*2)

	for {
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}

		for _, b := range buf {
			if b <= max {
				out = append(out, letters[int(b)%len(letters)])
				if len(out) == roomIDLength {
					return string(out)
				}
			}
		}
	}
}

// reaperLoop periodically removes sessions that have been idle longer
// than idleTimeout.
func (reg *Registry) reaperLoop() {
	ticker := time.NewTicker(reg.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-reg.idleTimeout)

		var expired []string

		reg.mu.Lock()
		for id, session := range reg.sessions {
			if session.lastActive.Before(cutoff) {
				delete(reg.sessions, id)
				expired = append(expired, id)
			}
		}
		reg.mu.Unlock()

		if reg.onExpire != nil {
			for _, id := range expired {
				go reg.onExpire(id)
			}
		}
	}
}
