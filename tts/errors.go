package tts

import "errors"

// Common engine errors.
var (
	// ErrInvalidEngine indicates an unknown engine name was requested.
	ErrInvalidEngine = errors.New("invalid TTS engine specified")

	// ErrEngineNotAvailable indicates the engine's binary or model is
	// missing.
	ErrEngineNotAvailable = errors.New("TTS engine is not available")

	// ErrEmptyText indicates synthesis was requested for empty input.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrTextTooLong indicates the chunk exceeds the engine's limit.
	ErrTextTooLong = errors.New("text exceeds engine size limit")

	// ErrSynthesisFailed indicates the engine ran but produced no usable
	// audio.
	ErrSynthesisFailed = errors.New("text synthesis failed")
)
