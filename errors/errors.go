// Package errors provides error handling for moodmap.
//
// It re-exports github.com/cockroachdb/errors so every package gets stack
// traces, wrapping and user-facing hints from one import:
//
//	// Wrap with context
//	if err := yaml.Unmarshal(data, &doc); err != nil {
//	    return errors.Wrapf(err, "decode %s", name)
//	}
//
//	// Point the user at a fix
//	return errors.WithHint(err, "run `moodmap catalog validate`")
//
// Domain failures are expressed as sentinels below and matched with Is.
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
	Join           = crdb.Join
)

// GetStack returns the reportable stack trace attached to err, if any.
var GetStack = crdb.GetReportableStackTrace

// Sentinels shared across the catalog, models, registry and journal.
var (
	// ErrUnknownEmotion indicates an id that no catalog or model table contains
	ErrUnknownEmotion = New("unknown emotion")

	// ErrCatalogIntegrity indicates a corrupt data feed. Always fatal at load.
	ErrCatalogIntegrity = New("catalog integrity violation")

	// ErrUnknownModel indicates the registry has no model with that id
	ErrUnknownModel = New("unknown model")

	// ErrModelNotReady indicates a registered model that has not finished loading.
	// Callers should wait (registry.Acquire) rather than treat it as missing.
	ErrModelNotReady = New("model not ready")

	// ErrInvalidSelection indicates a malformed host-supplied pick
	ErrInvalidSelection = New("invalid selection")

	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = New("not found")
)

// IsNotReady reports whether err is or wraps ErrModelNotReady.
func IsNotReady(err error) bool {
	return err != nil && Is(err, ErrModelNotReady)
}

// IsUnknown reports whether err names an emotion or model that does not exist.
func IsUnknown(err error) bool {
	return err != nil && IsAny(err, ErrUnknownEmotion, ErrUnknownModel)
}

// IsIntegrity reports whether err is a data-feed integrity failure.
func IsIntegrity(err error) bool {
	return err != nil && Is(err, ErrCatalogIntegrity)
}

// Integrityf wraps ErrCatalogIntegrity with a formatted message and a hint
// pointing at the data feed.
func Integrityf(format string, args ...interface{}) error {
	err := Wrapf(ErrCatalogIntegrity, format, args...)
	return WithHint(err, "the emotion data feed is inconsistent; run `moodmap catalog validate` for details")
}

// UnknownEmotionf wraps ErrUnknownEmotion with a formatted message.
func UnknownEmotionf(format string, args ...interface{}) error {
	return Wrapf(ErrUnknownEmotion, format, args...)
}
