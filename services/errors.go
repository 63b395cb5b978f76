package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed       = errors.New("validation failed")
	ErrNotEnoughPlayers       = errors.New("not enough players")
	ErrInvalidTransition      = errors.New("invalid state transition")
	ErrUnknownClock           = errors.New("unknown clock")
	ErrUnknownClockCommand    = errors.New("unknown clock command")
	ErrCourtsNotAllocated     = errors.New("courts have not been allocated yet")
	ErrResultsAlreadyRecorded = errors.New("result for this court is already recorded in the current round")
	ErrBracketNotStarted      = errors.New("bracket has not been created")
	ErrBracketInProgress      = errors.New("a bracket is already in progress")
	ErrSessionClosed          = errors.New("session is closed")

	// Ошибки конфликтов
	ErrParticipantNameConflict = errors.New("participant name is already in use")
	ErrSessionNameConflict     = errors.New("session name is already in use")

	// Ошибки аутентификации
	ErrInvalidCredentials   = errors.New("invalid password")
	ErrAuthenticationFailed = errors.New("authentication failed")

	// Ошибки, специфичные для сущностей
	ErrSessionNotFound     = errors.New("session not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrMatchNotFound       = errors.New("bracket match not found")
)
