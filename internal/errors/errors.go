// Package errors provides error handling for tsdeck.
//
// This package re-exports github.com/cockroachdb/errors so that every
// package creates, wraps and inspects errors the same way:
//
//	// Create new error
//	err := errors.New("series is empty")
//
//	// Wrap with context
//	if err := model.Fit(ctx, series); err != nil {
//	    return errors.Wrapf(err, "fit %s", order)
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "try a lower differencing order")
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
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
	Is           = crdb.Is
	IsAny        = crdb.IsAny
	As           = crdb.As
	Unwrap       = crdb.Unwrap
	UnwrapAll    = crdb.UnwrapAll
	Mark         = crdb.Mark
	GetAllHints  = crdb.GetAllHints
	FlattenHints = crdb.FlattenHints
)
