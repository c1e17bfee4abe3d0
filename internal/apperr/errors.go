// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrBusy         = errors.New("request already in flight")
	ErrEmptyWord    = errors.New("word is empty")
	ErrEmptySource  = errors.New("source is empty")
	ErrNotConfirmed = errors.New("not confirmed")
)
