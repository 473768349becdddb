package bsdata

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedDocument = errors.New("malformed document")
	ErrInvalidURL        = errors.New("invalid url")
	ErrCompression       = errors.New("compression failure")
	ErrSerialization     = errors.New("serialization failure")
)

// MalformedDocumentError reports a document whose root element is missing or
// whose required root attributes are absent or unparsable.
type MalformedDocumentError struct {
	Tag       string
	Attribute string
	Err       error
}

func (e *MalformedDocumentError) Error() string {
	msg := fmt.Sprintf("malformed %s document", e.Tag)
	if e.Attribute != "" {
		msg += fmt.Sprintf(": attribute %q", e.Attribute)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

var (
	errRootNotFound     = errors.New("root element not found")
	errAttributeMissing = errors.New("required attribute missing")
	errNegativeRevision = errors.New("revision must not be negative")
	errNotFinite        = errors.New("value is not a finite number")
)
