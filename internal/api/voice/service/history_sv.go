package voiceService

import (
	"CommunityCompass/internal/api/voice"
	"CommunityCompass/internal/entity"
	contextPkg "CommunityCompass/pkg/context"
	voiceEngine "CommunityCompass/pkg/voice"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultHistoryPage  = 1
	defaultHistoryLimit = 20
	usageLimit          = 10
	recordTimeout       = 5 * time.Second
)

func (s *voiceService) GetHistory(ctx context.Context, clientID string, page, limit int) (*voice.HistoryResponse, error) {
	if s.voiceRepo == nil {
		return nil, voice.ErrHistoryUnavailable
	}
	if page < 1 {
		page = defaultHistoryPage
	}
	if limit < 1 {
		limit = defaultHistoryLimit
	}

	repo, err := s.voiceRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	commands, total, err := repo.VoiceCommands.GetVoiceCommandsByClientID(ctx, clientID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	history := make([]voice.VoiceCommandHistory, 0, len(commands))
	for _, cmd := range commands {
		history = append(history, voice.VoiceCommandHistory{
			ID:         cmd.ID,
			Transcript: cmd.Transcript,
			CommandID:  cmd.CommandID,
			Path:       cmd.Path,
			Language:   cmd.Language,
			CreatedAt:  cmd.CreatedAt,
		})
	}

	return &voice.HistoryResponse{
		Commands: history,
		Total:    total,
		Page:     page,
		Limit:    limit,
	}, nil
}

func (s *voiceService) GetCommandUsage(ctx context.Context, clientID string) ([]voice.CommandUsage, error) {
	if s.voiceRepo == nil {
		return nil, voice.ErrHistoryUnavailable
	}

	repo, err := s.voiceRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	rows, err := repo.VoiceCommands.GetCommandUsageByClientID(ctx, clientID, usageLimit)
	if err != nil {
		return nil, err
	}

	usage := make([]voice.CommandUsage, 0, len(rows))
	for _, row := range rows {
		usage = append(usage, voice.CommandUsage{
			CommandID: row.CommandID,
			Path:      row.Path,
			Count:     row.Count,
		})
	}
	return usage, nil
}

func (s *voiceService) ClearHistory(ctx context.Context, clientID string) error {
	if s.voiceRepo == nil {
		return voice.ErrHistoryUnavailable
	}

	repo, err := s.voiceRepo.NewClient(true)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rollbackErr := repo.Rollback(); rollbackErr != nil {
				s.log.WithFields(logrus.Fields{
					"request_id": contextPkg.GetRequestID(ctx),
					"error":      rollbackErr.Error(),
				}).Error("Failed to rollback transaction")
			}
		}
	}()

	if err = repo.VoiceCommands.DeleteVoiceCommandsByClientID(ctx, clientID); err != nil {
		return err
	}
	if err = repo.Commit(); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"client_id":  clientID,
	}).Info("Voice command history cleared")
	return nil
}

// recorder persists matched commands for one client. It runs on the engine's
// recorder goroutine, so it uses its own deadline.
func (s *voiceService) recorder(clientID string) func(voiceEngine.CommandEvent) {
	return func(ev voiceEngine.CommandEvent) {
		entry := s.log.WithFields(logrus.Fields{
			"client_id":  clientID,
			"command_id": ev.CommandID,
		})

		id, err := s.utils.NewULIDFromTimestamp(ev.At)
		if err != nil {
			entry.WithField("error", err.Error()).Error("Failed to generate voice command ID")
			return
		}

		ctx, cancel := context.WithTimeout(contextPkg.WithClientID(context.Background(), clientID), recordTimeout)
		defer cancel()

		repo, err := s.voiceRepo.NewClient(false)
		if err != nil {
			entry.WithField("error", err.Error()).Error("Failed to create repository client")
			return
		}

		err = repo.VoiceCommands.CreateVoiceCommand(ctx, entity.VoiceCommand{
			ID:         id,
			ClientID:   clientID,
			Transcript: ev.Transcript,
			CommandID:  ev.CommandID,
			Path:       ev.Path,
			Language:   string(ev.Language),
			CreatedAt:  ev.At,
		})
		if err != nil {
			entry.WithField("error", err.Error()).Warn("Failed to record voice command")
		}
	}
}
