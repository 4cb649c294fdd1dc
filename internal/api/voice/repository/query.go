package voiceRepository

const (
	queryCreateVoiceCommand = `
		INSERT INTO voice_commands (
			id, client_id, transcript, command_id, path, language, created_at
		) VALUES (
			:id, :client_id, :transcript, :command_id, :path, :language, :created_at
		)
	`

	queryGetVoiceCommandsByClientID = `
		SELECT
			id, client_id, transcript, command_id, path, language, created_at
		FROM voice_commands
		WHERE client_id = :client_id
		ORDER BY created_at DESC
		LIMIT :limit OFFSET :offset
	`

	queryCountVoiceCommandsByClientID = `
		SELECT COUNT(*)
		FROM voice_commands
		WHERE client_id = :client_id
	`

	queryGetCommandUsageByClientID = `
		SELECT
			command_id, COALESCE(MAX(path), '') AS path, COUNT(*) AS count
		FROM voice_commands
		WHERE client_id = :client_id
		GROUP BY command_id
		ORDER BY count DESC, command_id
		LIMIT :limit
	`

	queryDeleteVoiceCommandsByClientID = `
		DELETE FROM voice_commands
		WHERE client_id = :client_id
	`
)
