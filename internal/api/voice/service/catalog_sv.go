package voiceService

import (
	"CommunityCompass/internal/api/voice"
	contextPkg "CommunityCompass/pkg/context"
	voiceEngine "CommunityCompass/pkg/voice"
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

func (s *voiceService) GetFeatures(ctx context.Context, clientID string) ([]voice.FeatureResponse, error) {
	registry, _ := s.registryFor(ctx, clientID)
	custom := registry.Customizations().Snapshot()

	features := registry.Features()
	out := make([]voice.FeatureResponse, 0, len(features))
	for _, feature := range features {
		phrases := custom[feature.Path]
		if phrases == nil {
			phrases = []string{}
		}
		out = append(out, voice.FeatureResponse{
			Path:            feature.Path,
			DisplayName:     localized(feature.DisplayName),
			Description:     localized(feature.Description),
			DefaultKeywords: keywordsByLanguage(feature.DefaultKeywords),
			CustomPhrases:   phrases,
		})
	}
	return out, nil
}

func (s *voiceService) GetCommands(ctx context.Context, clientID string, lang string) ([]voice.CommandResponse, error) {
	registry, current := s.registryFor(ctx, clientID)
	if lang != "" {
		parsed, err := voiceEngine.ParseLanguage(lang)
		if err != nil {
			return nil, voice.ErrInvalidLanguage
		}
		current = parsed
	}

	cmds := registry.All()
	out := make([]voice.CommandResponse, 0, len(cmds))
	for _, cmd := range cmds {
		keywords := cmd.KeywordsFor(current)
		if len(keywords) == 0 {
			continue
		}
		out = append(out, voice.CommandResponse{
			ID:       cmd.ID,
			Path:     cmd.Path,
			Keywords: keywords,
			Response: cmd.ResponseFor(current),
			Dynamic:  !strings.HasPrefix(cmd.ID, "feature:"),
		})
	}
	return out, nil
}

// MatchTranscript reports what the engine would do with a transcript without
// running the command.
func (s *voiceService) MatchTranscript(ctx context.Context, clientID string, req voice.MatchRequest) (*voice.MatchResponse, error) {
	registry, lang := s.registryFor(ctx, clientID)
	if req.Language != "" {
		parsed, err := voiceEngine.ParseLanguage(req.Language)
		if err != nil {
			return nil, voice.ErrInvalidLanguage
		}
		lang = parsed
	}

	resp := &voice.MatchResponse{Language: string(lang)}
	if voiceEngine.ContainsStopPhrase(req.Transcript, s.cfg.StopPhrases) {
		resp.Stop = true
		return resp, nil
	}

	cmd, ok := voiceEngine.Match(req.Transcript, registry.All(), lang)
	if !ok {
		return resp, nil
	}

	resp.Matched = true
	resp.CommandID = cmd.ID
	resp.Path = cmd.Path
	resp.Response = cmd.ResponseFor(lang)
	return resp, nil
}

func (s *voiceService) GetCustomizations(ctx context.Context, clientID string) (*voice.CustomizationsResponse, error) {
	registry, _ := s.registryFor(ctx, clientID)
	return &voice.CustomizationsResponse{Customizations: registry.Customizations().Snapshot()}, nil
}

func (s *voiceService) AddCustomPhrase(ctx context.Context, clientID string, req voice.CustomPhraseRequest) (*voice.CustomizationsResponse, error) {
	registry, _ := s.registryFor(ctx, clientID)

	if err := registry.AddCustomPhrase(ctx, req.Path, req.Phrase); err != nil {
		return nil, s.customizationError(ctx, clientID, err, "add")
	}

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"client_id":  clientID,
		"path":       req.Path,
	}).Info("Custom voice phrase added")

	return &voice.CustomizationsResponse{Customizations: registry.Customizations().Snapshot()}, nil
}

func (s *voiceService) RemoveCustomPhrase(ctx context.Context, clientID string, req voice.CustomPhraseRequest) (*voice.CustomizationsResponse, error) {
	registry, _ := s.registryFor(ctx, clientID)

	if err := registry.RemoveCustomPhrase(ctx, req.Path, req.Phrase); err != nil {
		return nil, s.customizationError(ctx, clientID, err, "remove")
	}
	return &voice.CustomizationsResponse{Customizations: registry.Customizations().Snapshot()}, nil
}

func (s *voiceService) ResetCustomizations(ctx context.Context, clientID string) error {
	registry, _ := s.registryFor(ctx, clientID)

	if err := registry.ResetAll(ctx); err != nil {
		return s.customizationError(ctx, clientID, err, "reset")
	}
	return nil
}

func (s *voiceService) customizationError(ctx context.Context, clientID string, err error, operation string) error {
	switch {
	case errors.Is(err, voiceEngine.ErrFeatureNotFound):
		return voice.ErrFeatureNotFound
	case errors.Is(err, voiceEngine.ErrEmptyPhrase):
		return voice.ErrEmptyPhrase
	}

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"client_id":  clientID,
		"operation":  operation,
		"error":      err.Error(),
	}).Error("Failed to persist voice command customizations")
	return voice.ErrCustomizationFailed.WithCause(err)
}

func localized(l voiceEngine.Localized) map[string]string {
	out := make(map[string]string, len(l))
	for lang, text := range l {
		out[string(lang)] = text
	}
	return out
}

func keywordsByLanguage(k map[voiceEngine.Language][]string) map[string][]string {
	out := make(map[string][]string, len(k))
	for lang, keywords := range k {
		out[string(lang)] = append([]string(nil), keywords...)
	}
	return out
}
