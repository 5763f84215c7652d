package errors

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// SafeDetailsPrefix tags a safe-details payload as JSON-encoded reportable
// details so the HTTP error handler can decode it back into a map.
const SafeDetailsPrefix = "__json__:"

// ErrorBuilder accumulates hints and details onto an error. It is not itself
// an error; the chain must end with Mark, which attaches the sentinel the
// rest of the code classifies on.
type ErrorBuilder struct {
	err error
}

// NewError starts a builder chain from a fresh error message
func NewError(msg string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(msg)}
}

// WithError starts a builder chain wrapping an existing error
func WithError(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// WithHint attaches a message safe to show to the end user
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err = errors.WithHint(b.err, hint)
	return b
}

// WithHintf attaches a formatted user-facing hint
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.err = errors.WithHintf(b.err, format, args...)
	return b
}

// WithReportableDetails attaches structured details that survive into the
// HTTP error response. Details that fail to marshal are dropped rather than
// failing the chain.
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	marshaled, err := json.Marshal(details)
	if err != nil {
		return b
	}
	b.err = errors.WithSafeDetails(b.err, SafeDetailsPrefix+"%s", errors.Safe(string(marshaled)))
	return b
}

// Mark stamps the error with a sentinel and ends the chain
func (b *ErrorBuilder) Mark(sentinel error) error {
	b.err = errors.Mark(b.err, sentinel)
	return b.err
}
