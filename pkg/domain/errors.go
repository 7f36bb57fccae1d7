package domain

import "errors"

// ErrUnknownQuestion is returned when an answer targets a question id that
// does not exist in the current layer.
var ErrUnknownQuestion = errors.New("unknown question")

// ErrInvalidAnswerType is returned when an answer value does not match the
// question's declared type, or when a trigger compares incompatible types.
var ErrInvalidAnswerType = errors.New("invalid answer type")

// ErrUnknownLayer is returned when a transition targets a layer outside the
// closed set defined by the catalog.
var ErrUnknownLayer = errors.New("unknown layer")

// ErrSessionNotFound is returned when a session id cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
