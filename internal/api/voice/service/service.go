package voiceService

import (
	"CommunityCompass/internal/api/voice"
	voiceRepository "CommunityCompass/internal/api/voice/repository"
	redisPkg "CommunityCompass/pkg/redis"
	"CommunityCompass/pkg/utils"
	voiceEngine "CommunityCompass/pkg/voice"
	websocketPkg "CommunityCompass/pkg/websocket"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type IVoiceService interface {
	GetFeatures(ctx context.Context, clientID string) ([]voice.FeatureResponse, error)
	GetCommands(ctx context.Context, clientID string, lang string) ([]voice.CommandResponse, error)
	MatchTranscript(ctx context.Context, clientID string, req voice.MatchRequest) (*voice.MatchResponse, error)

	GetCustomizations(ctx context.Context, clientID string) (*voice.CustomizationsResponse, error)
	AddCustomPhrase(ctx context.Context, clientID string, req voice.CustomPhraseRequest) (*voice.CustomizationsResponse, error)
	RemoveCustomPhrase(ctx context.Context, clientID string, req voice.CustomPhraseRequest) (*voice.CustomizationsResponse, error)
	ResetCustomizations(ctx context.Context, clientID string) error

	GetHistory(ctx context.Context, clientID string, page, limit int) (*voice.HistoryResponse, error)
	GetCommandUsage(ctx context.Context, clientID string) ([]voice.CommandUsage, error)
	ClearHistory(ctx context.Context, clientID string) error

	GetSession(ctx context.Context, clientID string) (*voice.SessionResponse, error)
	Connect(ctx context.Context, clientID string, conn websocketPkg.Writer) (*ClientSession, error)
	Shutdown()
}

type voiceService struct {
	log       *logrus.Logger
	cfg       voiceEngine.Config
	voiceRepo voiceRepository.Repository
	redis     redisPkg.IRedis
	utils     utils.IUtils

	mu       sync.Mutex
	sessions map[string]*ClientSession
	memory   map[string]*voiceEngine.MemoryPersistence
}

// NewVoiceService builds the service. voiceRepo and redis may be nil: without
// a repository command history is disabled, without redis customizations
// live in process memory.
func NewVoiceService(
	log *logrus.Logger,
	cfg voiceEngine.Config,
	voiceRepo voiceRepository.Repository,
	redis redisPkg.IRedis,
	utils utils.IUtils,
) IVoiceService {
	if cfg.Catalog == nil {
		cfg.Catalog = voiceEngine.DefaultCatalog()
	}
	if !cfg.Language.Valid() {
		cfg.Language = voiceEngine.LanguageEnglish
	}
	if cfg.StopPhrases == nil {
		cfg.StopPhrases = voiceEngine.DefaultStopPhrases
	}

	return &voiceService{
		log:       log,
		cfg:       cfg,
		voiceRepo: voiceRepo,
		redis:     redis,
		utils:     utils,
		sessions:  make(map[string]*ClientSession),
		memory:    make(map[string]*voiceEngine.MemoryPersistence),
	}
}

func (s *voiceService) persistenceFor(clientID string) voiceEngine.Persistence {
	if s.redis != nil {
		return redisPkg.NewPersistence(s.redis, clientID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	store, ok := s.memory[clientID]
	if !ok {
		store = voiceEngine.NewMemoryPersistence()
		s.memory[clientID] = store
	}
	return store
}

func (s *voiceService) session(clientID string) *ClientSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[clientID]
}

// registryFor returns the live registry of the client's connected session,
// or a registry loaded from the client's persisted customizations.
func (s *voiceService) registryFor(ctx context.Context, clientID string) (*voiceEngine.Registry, voiceEngine.Language) {
	if session := s.session(clientID); session != nil {
		return session.engine.Registry(), session.engine.Language()
	}

	entry := s.log.WithField("client_id", clientID)
	registry := voiceEngine.NewRegistry(s.cfg.Catalog, voiceEngine.NewCustomizations(s.persistenceFor(clientID), entry), entry)
	registry.LoadCustomizations(ctx)
	return registry, s.cfg.Language
}
