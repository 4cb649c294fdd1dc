package entity

import (
	"time"
)

// VoiceCommand is one recognized command recorded for a client.
type VoiceCommand struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	Transcript string    `json:"transcript"`
	CommandID  string    `json:"command_id"`
	Path       string    `json:"path"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
}

type VoiceCommandUsage struct {
	CommandID string `json:"command_id"`
	Path      string `json:"path"`
	Count     int    `json:"count"`
}
