package domain

import "errors"

var (
	// ErrSessionNotFound is returned when an exam session has not been opened or was closed.
	ErrSessionNotFound = errors.New("exam session not found")
	// ErrRoundNotFound indicates the round content could not be loaded.
	ErrRoundNotFound = errors.New("round not found")
	// ErrQuestionNotFound indicates a question number is absent from the round content.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUnknownIntent is returned for intents the session does not understand.
	ErrUnknownIntent = errors.New("unknown intent")
	// ErrInvalidRules indicates the exam configuration breaks a structural invariant.
	ErrInvalidRules = errors.New("invalid exam rules")
)
