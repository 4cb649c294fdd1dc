package voiceRepository

import (
	"CommunityCompass/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor
	var commitFunc, rollbackFunc func() error

	sqlExecutor = r.DB

	if tx {
		var err error
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		VoiceCommands: &voiceCommandRepository{q: sqlExecutor, log: r.log},
		Commit:        commitFunc,
		Rollback:      rollbackFunc,
	}, nil
}

type Client struct {
	VoiceCommands interface {
		CreateVoiceCommand(ctx context.Context, cmd entity.VoiceCommand) error
		GetVoiceCommandsByClientID(ctx context.Context, clientID string, limit, offset int) ([]entity.VoiceCommand, int, error)
		GetCommandUsageByClientID(ctx context.Context, clientID string, limit int) ([]entity.VoiceCommandUsage, error)
		DeleteVoiceCommandsByClientID(ctx context.Context, clientID string) error
	}

	Commit   func() error
	Rollback func() error
}

type voiceCommandRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
