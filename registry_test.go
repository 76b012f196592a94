/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"testing"
	"time"
)

func TestCreateSessionUniqueIDs(t *testing.T) {
	reg := NewRegistry(0, nil)

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		session, err := reg.CreateSession("host")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(session.RoomID) != 8 {
			t.Fatalf("expected 8-character room ID, got %q", session.RoomID)
		}
		if seen[session.RoomID] {
			t.Fatalf("room ID %q allocated twice", session.RoomID)
		}
		seen[session.RoomID] = true
	}
}

func TestCreateSessionInitialState(t *testing.T) {
	reg := NewRegistry(0, nil)

	session, err := reg.CreateSession("host-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.Phase != PhaseLobby {
		t.Fatalf("expected lobby phase, got %q", session.Phase)
	}
	if session.CurrentRound != 0 {
		t.Fatalf("expected round 0, got %d", session.CurrentRound)
	}
	if session.HostID != "host-1" {
		t.Fatalf("expected host ID to be recorded, got %q", session.HostID)
	}
	if len(session.Players) != 0 {
		t.Fatalf("expected empty roster, got %v", session.Players)
	}
}

func TestGetUnknownRoom(t *testing.T) {
	reg := NewRegistry(0, nil)

	if _, ok := reg.Get("99999"); ok {
		t.Fatal("expected unknown room to be absent")
	}
}

func TestAddPlayerPreservesJoinOrder(t *testing.T) {
	reg := NewRegistry(0, nil)
	session, _ := reg.CreateSession("host")

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		var err error
		session, err = reg.AddPlayer(session.RoomID, Player{DisplayName: name, ConnectionID: name + "-conn"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	want := []string{"Alice", "Bob", "Carol"}
	for i, p := range session.Players {
		if p.DisplayName != want[i] {
			t.Fatalf("roster order %v, want %v", session.Players, want)
		}
	}

	if _, err := reg.AddPlayer("missing", Player{DisplayName: "Dave"}); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestAdvanceRound(t *testing.T) {
	reg := NewRegistry(0, nil)
	session, _ := reg.CreateSession("host")

	for want := 1; want <= 3; want++ {
		got, err := reg.AdvanceRound(session.RoomID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Fatalf("expected round %d, got %d", want, got)
		}
	}

	if _, err := reg.AdvanceRound("missing"); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestSetPhaseAndRemove(t *testing.T) {
	reg := NewRegistry(0, nil)
	session, _ := reg.CreateSession("host")

	if err := reg.SetPhase(session.RoomID, PhasePlaying); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := reg.Get(session.RoomID)
	if !ok || got.Phase != PhasePlaying {
		t.Fatalf("expected playing phase, got %+v", got)
	}

	reg.Remove(session.RoomID)
	if _, ok := reg.Get(session.RoomID); ok {
		t.Fatal("expected session to be removed")
	}

	if err := reg.SetPhase(session.RoomID, PhaseFinished); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestReaperRemovesIdleSessions(t *testing.T) {
	expired := make(chan string, 1)
	reg := NewRegistry(20*time.Millisecond, func(roomID string) {
		expired <- roomID
	})

	session, err := reg.CreateSession("host")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case roomID := <-expired:
		if roomID != session.RoomID {
			t.Fatalf("expected %q to expire, got %q", session.RoomID, roomID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the reaper")
	}

	// Removal happens before the callback fires.
	if _, ok := reg.Get(session.RoomID); ok {
		t.Fatal("expected idle session to be removed")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	reg := NewRegistry(0, nil)
	session, _ := reg.CreateSession("host")
	reg.AddPlayer(session.RoomID, Player{DisplayName: "Alice"})

	first, _ := reg.Get(session.RoomID)
	first.Players[0].DisplayName = "Mallory"

	second, _ := reg.Get(session.RoomID)
	if second.Players[0].DisplayName != "Alice" {
		t.Fatal("mutating a snapshot must not affect registry state")
	}
}
