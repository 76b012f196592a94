/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"log"
	"time"
)

const roomNotFoundMessage = "This room does not exist."

// Controller reacts to host and player events, mutates the session
// registry, and drives outbound broadcasts. It runs entirely inside the
// hub's run goroutine, one event at a time.
type Controller struct {
	cfg       *Config
	hub       *Hub
	registry  *Registry
	catalogue *Catalogue
}

func newController(cfg *Config, hub *Hub, registry *Registry, catalogue *Catalogue) *Controller {
	return &Controller{
		cfg:       cfg,
		hub:       hub,
		registry:  registry,
		catalogue: catalogue,
	}
}

// dispatch routes one inbound event to its handler. A panicking handler
// is logged and contained here so one bad event cannot take down the
// server or other rooms.
func (ctrl *Controller) dispatch(c *Client, msg ClientMessage) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("%s | ERROR: panic handling %q from %s: %v", time.Now().Format(logDate), msg.Type, c.id, r)
		}
	}()

	switch msg.Type {
	case "create-game":
		ctrl.hostCreateGame(c)
	case "room-full":
		ctrl.hostRoomFull(c, msg)
	case "countdown-finished":
		ctrl.hostCountdownFinished(c, msg)
	case "round-complete":
		ctrl.hostRoundComplete(c, msg)
	case "player-join":
		ctrl.playerJoin(c, msg)
	case "player-answer":
		ctrl.playerAnswer(c, msg)
	case "player-restart":
		ctrl.playerRestart(c, msg)
	default:
		// ignore unknown types
	}
}

// roomEmptied tears the session down once the transport reports its room
// empty.
func (ctrl *Controller) roomEmptied(roomID string) {
	ctrl.registry.Remove(roomID)
	logf(ctrl.cfg, "GAMES: Room %s emptied, session removed", roomID)
}

// requireSession resolves a room ID, answering the sender alone with an
// error when it is unknown. Nothing is ever broadcast for a missing room.
func (ctrl *Controller) requireSession(c *Client, roomID string) (Session, bool) {
	session, ok := ctrl.registry.Get(roomID)
	if !ok {
		ctrl.hub.deliver(c, ErrorMessage{Type: "error", Message: roomNotFoundMessage})
		return Session{}, false
	}

	return session, true
}

func (ctrl *Controller) hostCreateGame(c *Client) {
	session, err := ctrl.registry.CreateSession(c.id)
	if err != nil {
		ctrl.hub.deliver(c, ErrorMessage{Type: "error", Message: "Unable to create a room. Please try again."})
		logf(ctrl.cfg, "GAMES: Room creation failed: %v", err)
		return
	}

	ctrl.hub.joinRoom(c, session.RoomID)
	ctrl.hub.deliver(c, NewGameCreatedMessage{
		Type:         "new-game-created",
		RoomID:       session.RoomID,
		ConnectionID: c.id,
	})

	logf(ctrl.cfg, "GAMES: Host %s created room %s", c.id, session.RoomID)
}

func (ctrl *Controller) hostRoomFull(c *Client, msg ClientMessage) {
	session, ok := ctrl.requireSession(c, msg.RoomID)
	if !ok {
		return
	}

	ctrl.hub.broadcast(session.RoomID, BeginNewGameMessage{
		Type:         "begin-new-game",
		ConnectionID: c.id,
		RoomID:       session.RoomID,
	})
}

func (ctrl *Controller) hostCountdownFinished(c *Client, msg ClientMessage) {
	session, ok := ctrl.requireSession(c, msg.RoomID)
	if !ok {
		return
	}

	// Finished is terminal: the round counter stays put and the phase
	// never flips back to playing.
	if session.Phase == PhaseFinished {
		ctrl.hub.deliver(c, ErrorMessage{Type: "error", Message: "No rounds left to play."})
		return
	}

	if err := ctrl.registry.SetPhase(session.RoomID, PhasePlaying); err != nil {
		ctrl.hub.deliver(c, ErrorMessage{Type: "error", Message: roomNotFoundMessage})
		return
	}

	logf(ctrl.cfg, "GAMES: Room %s started with %d players", session.RoomID, len(session.Players))
	ctrl.startRound(c, session.RoomID)
}

func (ctrl *Controller) hostRoundComplete(c *Client, msg ClientMessage) {
	session, ok := ctrl.requireSession(c, msg.RoomID)
	if !ok {
		return
	}

	// A finished session never advances again; it only re-confirms the
	// result.
	if session.Phase == PhaseFinished {
		ctrl.hub.broadcast(session.RoomID, GameOverMessage{
			Type:   "game-over",
			Round:  msg.Round,
			RoomID: session.RoomID,
		})
		return
	}

	next, err := ctrl.registry.AdvanceRound(session.RoomID)
	if err != nil {
		ctrl.hub.deliver(c, ErrorMessage{Type: "error", Message: roomNotFoundMessage})
		return
	}

	if next < ctrl.catalogue.Len() {
		ctrl.startRound(c, session.RoomID)
		return
	}

	_ = ctrl.registry.SetPhase(session.RoomID, PhaseFinished)
	ctrl.hub.broadcast(session.RoomID, GameOverMessage{
		Type:   "game-over",
		Round:  msg.Round,
		RoomID: session.RoomID,
	})

	logf(ctrl.cfg, "GAMES: Room %s finished after round %d", session.RoomID, msg.Round)
}

// startRound assigns roles for the session's current round and fans the
// result out to the room. Role-count mismatches are answered to the
// signalling connection only; the round does not start.
func (ctrl *Controller) startRound(c *Client, roomID string) {
	session, ok := ctrl.registry.Get(roomID)
	if !ok {
		ctrl.hub.deliver(c, ErrorMessage{Type: "error", Message: roomNotFoundMessage})
		return
	}

	round, err := ctrl.catalogue.Get(session.CurrentRound)
	if err != nil {
		ctrl.hub.deliver(c, ErrorMessage{Type: "error", Message: "No rounds left to play."})
		return
	}

	assignment, err := Assign(round, session.Players)
	if err != nil {
		if errors.Is(err, ErrInsufficientRoles) {
			ctrl.hub.deliver(c, ErrorMessage{
				Type:    "error",
				Message: fmt.Sprintf("This round only has %d roles for %d players.", len(round.Roles), len(session.Players)),
			})
		}
		logf(ctrl.cfg, "GAMES: Assignment failed in room %s: %v", roomID, err)
		return
	}

	ctrl.hub.broadcast(roomID, NewRoundDataMessage{
		Type:       "new-round-data",
		Round:      session.CurrentRound,
		Prompt:     round.Prompt,
		Assignment: assignment,
		Roles:      round.Roles,
	})
}

func (ctrl *Controller) playerJoin(c *Client, msg ClientMessage) {
	session, ok := ctrl.requireSession(c, msg.RoomID)
	if !ok {
		return
	}

	session, err := ctrl.registry.AddPlayer(session.RoomID, Player{
		DisplayName:  msg.PlayerName,
		ConnectionID: c.id,
	})
	if err != nil {
		ctrl.hub.deliver(c, ErrorMessage{Type: "error", Message: roomNotFoundMessage})
		return
	}

	ctrl.hub.joinRoom(c, session.RoomID)
	ctrl.hub.broadcast(session.RoomID, PlayerJoinedRoomMessage{
		Type:         "player-joined-room",
		PlayerName:   msg.PlayerName,
		RoomID:       session.RoomID,
		ConnectionID: c.id,
		Players:      rosterNames(session),
	})

	logf(ctrl.cfg, "GAMES: Player %q joined room %s", msg.PlayerName, session.RoomID)
}

func (ctrl *Controller) playerAnswer(c *Client, msg ClientMessage) {
	session, ok := ctrl.requireSession(c, msg.RoomID)
	if !ok {
		return
	}

	// Relayed verbatim; the host checks correctness, not the server.
	ctrl.hub.broadcast(session.RoomID, CheckAnswerMessage{
		Type:     "check-answer",
		PlayerID: msg.PlayerID,
		Answer:   msg.Answer,
		RoomID:   session.RoomID,
	})
}

func (ctrl *Controller) playerRestart(c *Client, msg ClientMessage) {
	session, ok := ctrl.requireSession(c, msg.RoomID)
	if !ok {
		return
	}

	ctrl.hub.broadcast(session.RoomID, PlayerJoinedRoomMessage{
		Type:         "player-joined-room",
		RoomID:       session.RoomID,
		ConnectionID: c.id,
		Players:      rosterNames(session),
	})
}

func rosterNames(session Session) []string {
	names := make([]string, 0, len(session.Players))
	for _, p := range session.Players {
		names = append(names, p.DisplayName)
	}
	return names
}
