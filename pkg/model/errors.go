package model

import (
	"errors"
	"fmt"
	"strings"
)

// Defining possible error
var (
	ErrLookup      = errors.New("lookup failure")
	ErrMissingFile = errors.New("missing file")
	ErrUnresolved  = errors.New("unresolved identifiers")
	ErrDuplicateID = errors.New("duplicate sequence id")
	ErrParse       = errors.New("malformed input")
	ErrNoDomains   = errors.New("no domain records")
)

// Identifier absent from an expected mapping.
type LookupError struct {
	Kind string // what was looked up, e.g. "species index"
	Key  string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *LookupError) Unwrap() error { return ErrLookup }

// Expected per-family file does not exist.
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s not found", e.Path)
}

func (e *MissingFileError) Unwrap() error { return ErrMissingFile }

// Identifiers that the available data could not explain.
type UnresolvedError struct {
	Msg string
	IDs []string
}

func (e *UnresolvedError) Error() string {
	if len(e.IDs) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Msg, strings.Join(e.IDs, ", "))
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolved }

// Bad line in one of the text inputs.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error { return ErrParse }
