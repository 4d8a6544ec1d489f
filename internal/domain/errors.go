package domain

import "errors"

var (
	// ErrInvalidTransition is returned when an intent is not defined for the current state.
	ErrInvalidTransition = errors.New("intent not allowed in current state")
	// ErrBlankUsername is returned when a score is saved without a name.
	ErrBlankUsername = errors.New("username must not be blank")
	// ErrAlreadyAnswered is returned for a second answer to the same question.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNoCurrentQuestion indicates an answer arrived before a batch was loaded.
	ErrNoCurrentQuestion = errors.New("no current question")
	// ErrNoPendingRequest is returned by retry when there is nothing to retry.
	ErrNoPendingRequest = errors.New("nothing to retry")
	// ErrUnknownCategory indicates a category id outside the catalog.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnknownDifficulty indicates a difficulty outside the catalog.
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	// ErrMalformedQuestion indicates a question missing its text or answers.
	ErrMalformedQuestion = errors.New("malformed question")
	// ErrDuplicateAnswer indicates the correct answer is repeated among the incorrect ones.
	ErrDuplicateAnswer = errors.New("correct answer duplicated among incorrect answers")
	// ErrTranslationUnavailable is returned by translation backends that cannot serve a text.
	ErrTranslationUnavailable = errors.New("translation unavailable")
)
