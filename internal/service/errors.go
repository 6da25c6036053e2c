package service

import "errors"

// Service-level error taxonomy. Controllers map these onto HTTP status codes;
// everything else surfaces as an internal error.
var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrExamNotFound     = errors.New("exam not found")
	ErrAttemptNotFound  = errors.New("exam attempt not found")
	ErrAnswerNotFound   = errors.New("answer not found")

	// ErrAnswerMismatch is returned when an answer resolved by id belongs to a
	// different attempt than the one being updated.
	ErrAnswerMismatch = errors.New("answer does not belong to attempt")

	ErrAttemptAlreadyComplete = errors.New("exam attempt is already completed")

	ErrNoSourceText      = errors.New("no extracted text available for the given documents")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrObjectNotFound    = errors.New("object not found in storage")

	ErrGenerationFailed  = errors.New("failed to generate questions")
	ErrLLMValidation     = errors.New("llm returned data that does not match the requested schema")
	ErrExplanationFailed = errors.New("failed to generate answer explanation")
)
