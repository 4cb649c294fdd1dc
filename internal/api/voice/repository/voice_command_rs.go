package voiceRepository

import (
	"CommunityCompass/internal/entity"
	contextPkg "CommunityCompass/pkg/context"
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type VoiceCommandDB struct {
	ID         sql.NullString `db:"id"`
	ClientID   sql.NullString `db:"client_id"`
	Transcript sql.NullString `db:"transcript"`
	CommandID  sql.NullString `db:"command_id"`
	Path       sql.NullString `db:"path"`
	Language   sql.NullString `db:"language"`
	CreatedAt  time.Time      `db:"created_at"`
}

type VoiceCommandUsageDB struct {
	CommandID sql.NullString `db:"command_id"`
	Path      sql.NullString `db:"path"`
	Count     int            `db:"count"`
}

func (r *voiceCommandRepository) CreateVoiceCommand(ctx context.Context, cmd entity.VoiceCommand) error {
	requestID := contextPkg.GetRequestID(ctx)

	argsKV := map[string]interface{}{
		"id":         cmd.ID,
		"client_id":  cmd.ClientID,
		"transcript": cmd.Transcript,
		"command_id": cmd.CommandID,
		"path":       sql.NullString{String: cmd.Path, Valid: cmd.Path != ""},
		"language":   cmd.Language,
		"created_at": cmd.CreatedAt,
	}

	query, args, err := sqlx.Named(queryCreateVoiceCommand, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CreateVoiceCommand named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"client_id":  cmd.ClientID,
			"error":      err.Error(),
		}).Error("Database error when creating voice command")
		return err
	}

	return nil
}

func (r *voiceCommandRepository) GetVoiceCommandsByClientID(ctx context.Context, clientID string, limit, offset int) ([]entity.VoiceCommand, int, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var commandsList []VoiceCommandDB
	var total int

	countQuery, countArgs, err := sqlx.Named(queryCountVoiceCommandsByClientID, map[string]interface{}{
		"client_id": clientID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountVoiceCommandsByClientID named query preparation err")
		return nil, 0, err
	}
	countQuery = r.q.Rebind(countQuery)

	if err := r.q.QueryRowxContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("CountVoiceCommandsByClientID execution err")
		return nil, 0, err
	}

	argsKV := map[string]interface{}{
		"client_id": clientID,
		"limit":     limit,
		"offset":    offset,
	}

	query, args, err := sqlx.Named(queryGetVoiceCommandsByClientID, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetVoiceCommandsByClientID named query preparation err")
		return nil, 0, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &commandsList, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetVoiceCommandsByClientID execution err")
		return nil, 0, err
	}

	commands := make([]entity.VoiceCommand, 0, len(commandsList))
	for _, cmdDB := range commandsList {
		commands = append(commands, r.makeVoiceCommand(cmdDB))
	}

	return commands, total, nil
}

func (r *voiceCommandRepository) GetCommandUsageByClientID(ctx context.Context, clientID string, limit int) ([]entity.VoiceCommandUsage, error) {
	requestID := contextPkg.GetRequestID(ctx)
	var rows []VoiceCommandUsageDB

	query, args, err := sqlx.Named(queryGetCommandUsageByClientID, map[string]interface{}{
		"client_id": clientID,
		"limit":     limit,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandUsageByClientID named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetCommandUsageByClientID execution err")
		return nil, err
	}

	usage := make([]entity.VoiceCommandUsage, 0, len(rows))
	for _, row := range rows {
		usage = append(usage, entity.VoiceCommandUsage{
			CommandID: row.CommandID.String,
			Path:      row.Path.String,
			Count:     row.Count,
		})
	}
	return usage, nil
}

func (r *voiceCommandRepository) DeleteVoiceCommandsByClientID(ctx context.Context, clientID string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteVoiceCommandsByClientID, map[string]interface{}{
		"client_id": clientID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteVoiceCommandsByClientID named query preparation err")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("DeleteVoiceCommandsByClientID execution err")
		return err
	}
	return nil
}

func (r *voiceCommandRepository) makeVoiceCommand(cmdDB VoiceCommandDB) entity.VoiceCommand {
	return entity.VoiceCommand{
		ID:         cmdDB.ID.String,
		ClientID:   cmdDB.ClientID.String,
		Transcript: cmdDB.Transcript.String,
		CommandID:  cmdDB.CommandID.String,
		Path:       cmdDB.Path.String,
		Language:   cmdDB.Language.String,
		CreatedAt:  cmdDB.CreatedAt,
	}
}
