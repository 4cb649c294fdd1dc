package voice

import (
	"time"
)

type FeatureResponse struct {
	Path            string              `json:"path"`
	DisplayName     map[string]string   `json:"display_name"`
	Description     map[string]string   `json:"description"`
	DefaultKeywords map[string][]string `json:"default_keywords"`
	CustomPhrases   []string            `json:"custom_phrases"`
}

type CommandResponse struct {
	ID       string   `json:"id"`
	Path     string   `json:"path,omitempty"`
	Keywords []string `json:"keywords"`
	Response string   `json:"response,omitempty"`
	Dynamic  bool     `json:"dynamic"`
}

type CommandsQuery struct {
	Language string `query:"lang" validate:"omitempty,oneof=en bn"`
}

type MatchRequest struct {
	Transcript string `json:"transcript" validate:"required,max=500"`
	Language   string `json:"language" validate:"omitempty,oneof=en bn"`
}

type MatchResponse struct {
	Matched   bool   `json:"matched"`
	Stop      bool   `json:"stop"`
	CommandID string `json:"command_id,omitempty"`
	Path      string `json:"path,omitempty"`
	Response  string `json:"response,omitempty"`
	Language  string `json:"language"`
}

type CustomPhraseRequest struct {
	Path   string `json:"path" validate:"required,startswith=/"`
	Phrase string `json:"phrase" validate:"required,max=100"`
}

type CustomizationsResponse struct {
	Customizations map[string][]string `json:"customizations"`
}

type HistoryQuery struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type VoiceCommandHistory struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	CommandID  string    `json:"command_id"`
	Path       string    `json:"path,omitempty"`
	Language   string    `json:"language"`
	CreatedAt  time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Commands []VoiceCommandHistory `json:"commands"`
	Total    int                   `json:"total"`
	Page     int                   `json:"page"`
	Limit    int                   `json:"limit"`
}

type CommandUsage struct {
	CommandID string `json:"command_id"`
	Path      string `json:"path,omitempty"`
	Count     int    `json:"count"`
}

type SessionResponse struct {
	ClientID    string `json:"client_id"`
	IsActive    bool   `json:"is_active"`
	IsListening bool   `json:"is_listening"`
	IsSpeaking  bool   `json:"is_speaking"`
	Language    string `json:"language"`
	LastCommand string `json:"last_command"`
	Feedback    string `json:"feedback"`
	Microphone  string `json:"microphone,omitempty"`
	Error       string `json:"error,omitempty"`
}
