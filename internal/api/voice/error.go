package voice

import "CommunityCompass/pkg/response"

var (
	ErrClientIDRequired    = response.NewError(400, "CLIENT_ID_REQUIRED", "X-Client-ID header is required")
	ErrInvalidLanguage     = response.NewError(400, "INVALID_LANGUAGE", "language must be one of: en, bn")
	ErrEmptyPhrase         = response.NewError(400, "EMPTY_PHRASE", "phrase must not be empty")
	ErrFeatureNotFound     = response.NewError(404, "FEATURE_NOT_FOUND", "feature not found")
	ErrNoActiveSession     = response.NewError(404, "NO_ACTIVE_SESSION", "no active voice session for this client")
	ErrHistoryUnavailable  = response.NewError(503, "HISTORY_UNAVAILABLE", "command history is not configured")
	ErrCustomizationFailed = response.NewError(500, "CUSTOMIZATION_FAILED", "failed to save voice command customizations")
)
