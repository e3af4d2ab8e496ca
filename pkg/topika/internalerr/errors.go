package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidMatrix   = errors.New("invalid document-term matrix")
	ErrNonIntegerEntry = errors.New("non-integer entry in document-term matrix")
	ErrEmptyDocument   = errors.New("document with zero term occurrences")
	ErrUnknownMethod   = errors.New("unknown estimation method")
	ErrSeedCount       = errors.New("seed count does not match number of starts")
	ErrVocabMismatch   = errors.New("vocabulary size does not match model")
	ErrInvalidControl  = errors.New("invalid control parameters")
)
