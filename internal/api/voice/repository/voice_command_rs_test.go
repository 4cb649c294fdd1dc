package voiceRepository

import (
	"CommunityCompass/database/postgres"
	"CommunityCompass/internal/entity"
	"context"
	"database/sql"
	"io"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNamedQueriesBindAsPostgres(t *testing.T) {
	query, args, err := sqlx.Named(queryCreateVoiceCommand, map[string]interface{}{
		"id":         "01J0000000000000000000000",
		"client_id":  "alice",
		"transcript": "open the map",
		"command_id": "feature:/map",
		"path":       sql.NullString{String: "/map", Valid: true},
		"language":   "en",
		"created_at": time.Unix(0, 0),
	})
	require.NoError(t, err)
	require.Len(t, args, 7)

	query = sqlx.Rebind(sqlx.DOLLAR, query)
	require.Contains(t, query, "$1, $2, $3, $4, $5, $6, $7")
	require.NotContains(t, query, ":client_id")

	query, args, err = sqlx.Named(queryGetVoiceCommandsByClientID, map[string]interface{}{
		"client_id": "alice",
		"limit":     20,
		"offset":    40,
	})
	require.NoError(t, err)
	require.Equal(t, []interface{}{"alice", 20, 40}, args)
	require.Contains(t, sqlx.Rebind(sqlx.DOLLAR, query), "LIMIT $2 OFFSET $3")
}

func TestMakeVoiceCommandDropsNulls(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &voiceCommandRepository{}

	cmd := r.makeVoiceCommand(VoiceCommandDB{
		ID:         sql.NullString{String: "id-1", Valid: true},
		ClientID:   sql.NullString{String: "alice", Valid: true},
		Transcript: sql.NullString{String: "send message", Valid: true},
		CommandID:  sql.NullString{String: "chat-send", Valid: true},
		Language:   sql.NullString{String: "en", Valid: true},
		CreatedAt:  at,
	})

	require.Equal(t, entity.VoiceCommand{
		ID:         "id-1",
		ClientID:   "alice",
		Transcript: "send message",
		CommandID:  "chat-send",
		Language:   "en",
		CreatedAt:  at,
	}, cmd)
}

// Runs against a real database when VOICE_REPOSITORY_DB=1 and the DB_* variables point at it.
func TestVoiceCommandsAgainstPostgres(t *testing.T) {
	if os.Getenv("VOICE_REPOSITORY_DB") != "1" {
		t.Skip("VOICE_REPOSITORY_DB not set")
	}

	db, err := postgres.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	client, err := New(db, log).NewClient(false)
	require.NoError(t, err)

	ctx := context.Background()
	clientID := "test-" + ulid.Make().String()
	t.Cleanup(func() { _ = client.VoiceCommands.DeleteVoiceCommandsByClientID(ctx, clientID) })

	base := time.Now().UTC().Truncate(time.Second)
	records := []entity.VoiceCommand{
		{CommandID: "feature:/map", Path: "/map", Transcript: "open map"},
		{CommandID: "feature:/map", Path: "/map", Transcript: "show map"},
		{CommandID: "chat-send", Transcript: "send message"},
	}
	for i, rec := range records {
		rec.ID = ulid.Make().String()
		rec.ClientID = clientID
		rec.Language = "en"
		rec.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, client.VoiceCommands.CreateVoiceCommand(ctx, rec))
	}

	page, total, err := client.VoiceCommands.GetVoiceCommandsByClientID(ctx, clientID, 2, 0)
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, page, 2)
	require.Equal(t, "send message", page[0].Transcript)
	require.Empty(t, page[0].Path)

	usage, err := client.VoiceCommands.GetCommandUsageByClientID(ctx, clientID, 10)
	require.NoError(t, err)
	require.Equal(t, []entity.VoiceCommandUsage{
		{CommandID: "feature:/map", Path: "/map", Count: 2},
		{CommandID: "chat-send", Count: 1},
	}, usage)

	require.NoError(t, client.VoiceCommands.DeleteVoiceCommandsByClientID(ctx, clientID))
	_, total, err = client.VoiceCommands.GetVoiceCommandsByClientID(ctx, clientID, 20, 0)
	require.NoError(t, err)
	require.Zero(t, total)
}
