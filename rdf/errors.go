package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedFormat indicates an unsupported format.
	ErrCodeUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	// ErrCodeDocumentTooLarge indicates the input exceeded the configured size.
	ErrCodeDocumentTooLarge ErrorCode = "DOCUMENT_TOO_LARGE"
	// ErrCodeParseError indicates a general parse error.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeContextCanceled indicates the context was canceled.
	ErrCodeContextCanceled ErrorCode = "CONTEXT_CANCELED"
	// ErrCodeUndefinedPrefix indicates a prefixed name used an undeclared prefix.
	ErrCodeUndefinedPrefix ErrorCode = "UNDEFINED_PREFIX"
	// ErrCodeUnsupportedQueryForm indicates a query that is neither ASK nor SELECT.
	ErrCodeUnsupportedQueryForm ErrorCode = "UNSUPPORTED_QUERY_FORM"
)

var (
	// ErrUnsupportedFormat indicates an unsupported format.
	ErrUnsupportedFormat = errors.New("unsupported RDF format")
	// ErrDocumentTooLarge indicates the input exceeded the configured size.
	ErrDocumentTooLarge = errors.New("rdf: document exceeds configured size limit")
	// ErrUndefinedPrefix indicates a prefixed name used an undeclared prefix.
	ErrUndefinedPrefix = errors.New("rdf: undefined prefix")
	// ErrUnsupportedQueryForm is returned for CONSTRUCT, DESCRIBE and any
	// other query that is neither ASK nor SELECT.
	ErrUnsupportedQueryForm = errors.New("rdf: unsupported query form")
)

// Code returns the error code for an error, or ErrCodeParseError if unknown.
// Returns empty string for nil errors or io.EOF.
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return ErrCodeUnsupportedFormat
	case errors.Is(err, ErrDocumentTooLarge):
		return ErrCodeDocumentTooLarge
	case errors.Is(err, ErrUndefinedPrefix):
		return ErrCodeUndefinedPrefix
	case errors.Is(err, ErrUnsupportedQueryForm):
		return ErrCodeUnsupportedQueryForm
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}
	return ErrCodeParseError
}

// ParseError provides structured context for parse failures.
type ParseError struct {
	Format string // Format name (e.g., "turtle", "rdfxml")
	Line   int    // 1-based line number (0 if unknown)
	Column int    // 1-based column number (0 if unknown)
	Err    error  // Underlying error
}

func (e *ParseError) Error() string {
	var msg strings.Builder
	msg.WriteString(e.Format)
	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	}
	msg.WriteString(": ")
	msg.WriteString(e.Err.Error())
	return msg.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// wrapParseError attaches the format name to err unless it already carries
// parse context.
func wrapParseError(format Format, err error) error {
	if err == nil {
		return nil
	}
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return err
	}
	return &ParseError{Format: string(format), Err: err}
}

// positionOf converts a byte offset into a 1-based line and column.
func positionOf(input string, offset int) (int, int) {
	if offset > len(input) {
		offset = len(input)
	}
	line := 1 + strings.Count(input[:offset], "\n")
	column := offset + 1
	if idx := strings.LastIndexByte(input[:offset], '\n'); idx >= 0 {
		column = offset - idx
	}
	return line, column
}
