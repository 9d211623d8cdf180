package domain

import "context"

// WriteMode controls whether write operations may reach JustGo.
type WriteMode int

const (
	// WriteModeUnset means the context carries no explicit mode and the
	// client's configured default applies.
	WriteModeUnset WriteMode = iota
	// WriteModeReadOnly rejects every write before any request is sent.
	WriteModeReadOnly
	// WriteModeReadWrite allows writes.
	WriteModeReadWrite
)

// String returns a human readable name for the mode.
func (m WriteMode) String() string {
	switch m {
	case WriteModeReadOnly:
		return "read-only"
	case WriteModeReadWrite:
		return "read-write"
	default:
		return "unset"
	}
}

type writeModeKey struct{}

// WithWriteMode returns a child context carrying the given write mode.
// The parent context is unaffected, so an override ends when the child
// context goes out of scope.
func WithWriteMode(ctx context.Context, mode WriteMode) context.Context {
	return context.WithValue(ctx, writeModeKey{}, mode)
}

// WriteModeFromContext returns the write mode carried by ctx,
// or WriteModeUnset if there is none.
func WriteModeFromContext(ctx context.Context) WriteMode {
	if ctx == nil {
		return WriteModeUnset
	}
	if mode, ok := ctx.Value(writeModeKey{}).(WriteMode); ok {
		return mode
	}
	return WriteModeUnset
}

// WritesAllowed resolves the effective mode for ctx against a default
// read-only setting.
func WritesAllowed(ctx context.Context, readOnlyDefault bool) bool {
	switch WriteModeFromContext(ctx) {
	case WriteModeReadWrite:
		return true
	case WriteModeReadOnly:
		return false
	default:
		return !readOnlyDefault
	}
}
