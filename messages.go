/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// ClientMessage is the single inbound envelope. Type selects the event;
// the remaining fields are populated per event.
type ClientMessage struct {
	Type       string `json:"type"`                 // "create-game", "room-full", "countdown-finished", "round-complete", "player-join", "player-answer", "player-restart"
	RoomID     string `json:"roomId,omitempty"`     // all events except create-game
	PlayerName string `json:"playerName,omitempty"` // player-join
	PlayerID   string `json:"playerId,omitempty"`   // player-answer
	Answer     string `json:"answer,omitempty"`     // player-answer
	Round      int    `json:"round,omitempty"`      // round-complete
}

// ConnectedMessage is sent to every client immediately on connect.
type ConnectedMessage struct {
	Type    string `json:"type"` // "connected"
	Message string `json:"message"`
}

// NewGameCreatedMessage answers create-game with the fresh room ID and
// the host's own connection ID.
type NewGameCreatedMessage struct {
	Type         string `json:"type"` // "new-game-created"
	RoomID       string `json:"roomId"`
	ConnectionID string `json:"connectionId"`
}

// BeginNewGameMessage tells a full room that the game is about to start.
type BeginNewGameMessage struct {
	Type         string `json:"type"` // "begin-new-game"
	ConnectionID string `json:"connectionId"`
	RoomID       string `json:"roomId"`
}

// NewRoundDataMessage carries one round to the whole room: the shared
// prompt, the full role list, and the per-player role assignment.
type NewRoundDataMessage struct {
	Type       string         `json:"type"` // "new-round-data"
	Round      int            `json:"round"`
	Prompt     string         `json:"prompt"`
	Assignment map[string]int `json:"assignment"`
	Roles      []string       `json:"roles"`
}

// GameOverMessage ends the game after the final round completes.
type GameOverMessage struct {
	Type   string `json:"type"` // "game-over"
	Round  int    `json:"round"`
	RoomID string `json:"roomId"`
}

// PlayerJoinedRoomMessage broadcasts a roster update, both when a player
// joins and when one asks for a restart.
type PlayerJoinedRoomMessage struct {
	Type         string   `json:"type"` // "player-joined-room"
	PlayerName   string   `json:"playerName,omitempty"`
	RoomID       string   `json:"roomId"`
	ConnectionID string   `json:"connectionId"`
	Players      []string `json:"players"`
}

// CheckAnswerMessage relays a player's answer to the room, unvalidated;
// the host decides whether it was right.
type CheckAnswerMessage struct {
	Type     string `json:"type"` // "check-answer"
	PlayerID string `json:"playerId"`
	Answer   string `json:"answer"`
	RoomID   string `json:"roomId"`
}

// ErrorMessage is sent to a single client, never broadcast.
type ErrorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}
