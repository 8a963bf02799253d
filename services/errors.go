package services

import (
	"errors"
	"fmt"
)

// ErrorKind is the machine-readable classification carried by every
// failure the services hand back to the transport layer.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindValidation       ErrorKind = "validation"
	KindConflict         ErrorKind = "conflict"
	KindUnsupportedMedia ErrorKind = "unsupported_media_type"
	KindStorage          ErrorKind = "storage"
)

// Error is the structured failure surfaced to callers. Fields is only
// populated for validation errors and enumerates the offending fields.
type Error struct {
	Kind    ErrorKind         `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Invalid(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

func Invalidf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func UnsupportedMediaf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnsupportedMedia, Message: fmt.Sprintf(format, args...)}
}

func Storagef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindStorage, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, or "" for unclassified errors.
func KindOf(err error) ErrorKind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return ""
}
